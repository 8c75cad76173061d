package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/srg/wearlink/internal/connectui"
	"github.com/srg/wearlink/internal/console"
	"github.com/srg/wearlink/internal/home"
	"github.com/srg/wearlink/internal/mainloop"
)

// homeCmd represents the home command
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Run the interactive home screen",
	Long: `Shows the home screen and, unless home.connect_to_last is disabled,
silently reconnects to the most recent wearable. Type help for the list of
commands; Ctrl+D or quit leaves.`,
	Args: cobra.NoArgs,
	RunE: runHome,
}

func runHome(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	loop := mainloop.New(0, env.logger)
	con := console.New(cmd.InOrStdin(), loop, env.logger)

	sdk, err := env.newSDK(connectui.NewInteractive(out, con, env.logger), loop)
	if err != nil {
		return err
	}

	term := home.NewTerminal(out, env.logger)
	defer term.Close()

	ctrl := home.NewController(sdk, env.store, term, env.homeOptions(), env.logger)
	sh := &shell{ctrl: ctrl, term: term, out: out, quit: quit}
	con.Push(sh.handle)

	// Queued ahead of any console input.
	loop.Post(func() {
		ctrl.Load()
		fmt.Fprintln(out, "Type help for a list of commands.")
		ctrl.Appear()
	})
	con.Start(ctx)

	mainloop.Go(ctx, "console-eof", func(ctx context.Context) {
		select {
		case <-con.EOF():
			loop.Post(sh.exit)
		case <-ctx.Done():
		}
	})

	_ = loop.Run(ctx)
	ctrl.Cancel()
	return nil
}
