package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/wearlink/internal/connectui"
	"github.com/srg/wearlink/internal/home"
	"github.com/srg/wearlink/internal/mainloop"
	"github.com/srg/wearlink/internal/store"
	"github.com/srg/wearlink/internal/wearable"
	"github.com/srg/wearlink/internal/wearable/goble"
	"github.com/srg/wearlink/pkg/config"
)

const defaultConfigHint = config.DefaultPath

// environment is what every command needs: configuration, a logger and the
// last-device store.
type environment struct {
	cfg    *config.Config
	intent wearable.SensorIntent
	logger *logrus.Logger
	store  *store.File
}

// setup loads the configuration selected by --config (or the default file
// when present), configures logging and opens the store.
func setup(cmd *cobra.Command) (*environment, error) {
	cfg, fromFile, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := configureLogger(cmd, cfg, fromFile)
	if err != nil {
		return nil, err
	}

	intent, err := cfg.SensorIntent()
	if err != nil {
		return nil, err
	}

	path, _ := cmd.Flags().GetString("store")
	if path == "" {
		path = cfg.Store.Path
	}
	st, err := store.NewFile(path, logger)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"store":   st.Path(),
		"sensors": intent.String(),
	}).Debug("Environment ready")

	return &environment{cfg: cfg, intent: intent, logger: logger, store: st}, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return cfg, true, nil
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load config %s: %w", config.DefaultPath, err)
	}
	return cfg, defaultConfigExists(), nil
}

func defaultConfigExists() bool {
	expanded, err := homedir.Expand(config.DefaultPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(expanded)
	return err == nil
}

// newSDK creates the go-ble SDK. ui serves interactive connections; the
// silent reconnect supplies its own.
func (e *environment) newSDK(ui connectui.ConnectUI, d mainloop.Dispatcher) (*goble.SDK, error) {
	return goble.New(&goble.Options{
		ScanTimeout:      e.cfg.BLE.ScanTimeout,
		ConnectTimeout:   e.cfg.BLE.ConnectTimeout,
		ReconnectTimeout: e.cfg.BLE.ReconnectTimeout,
		ServiceUUIDs:     e.cfg.BLE.Services,
		SensorIntent:     e.intent,
	}, ui, e.store, d, e.logger)
}

func (e *environment) homeOptions() *home.Options {
	return &home.Options{
		ReconnectTimeout: e.cfg.BLE.ReconnectTimeout,
		SensorIntent:     e.intent,
		ConnectToLast:    e.cfg.Home.ConnectToLast,
		Version:          formatVersion(version),
	}
}
