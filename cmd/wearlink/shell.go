package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/srg/wearlink/internal/console"
	"github.com/srg/wearlink/internal/home"
)

const shellHelp = `Commands:
  connect      search for a wearable and connect
  reconnect    silently reconnect to the most recent wearable
  simulate     open a simulated wearable session
  cancel       cancel the pending connection attempt
  forget       forget the most recent wearable
  status       show the status line and the current session
  help         show this help
  quit         leave the home screen
`

// shell interprets home screen commands. It runs on the main loop as the
// bottom console handler.
type shell struct {
	ctrl *home.Controller
	term *home.Terminal
	out  io.Writer
	quit func()
	done bool
}

func (s *shell) handle(line string) {
	if s.done {
		return
	}
	fields, err := console.Fields(line)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid input: %v\n", err)
		return
	}
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "connect", "c":
		s.ctrl.Connect()
	case "reconnect", "r":
		if !s.ctrl.Reconnect() {
			fmt.Fprintln(s.out, "No recent connected device")
		}
	case "simulate", "sim":
		s.ctrl.UseSimulated()
	case "cancel":
		if !s.ctrl.Pending() {
			fmt.Fprintln(s.out, "Nothing to cancel")
			return
		}
		s.ctrl.Cancel()
	case "forget":
		if err := s.ctrl.Forget(); err != nil {
			s.term.ShowError(err)
			return
		}
		fmt.Fprintln(s.out, "Most recent device forgotten")
	case "status":
		s.status()
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	case "quit", "exit", "q":
		s.exit()
	default:
		fmt.Fprintf(s.out, "Unknown command %q, type help for a list\n", fields[0])
	}
}

// exit cancels any pending attempt and stops the home screen. Later input is
// ignored.
func (s *shell) exit() {
	if s.done {
		return
	}
	s.done = true
	s.ctrl.Cancel()
	s.quit()
}

func (s *shell) status() {
	text, _ := s.term.Status()
	fmt.Fprintln(s.out, text)
	if s.ctrl.Pending() {
		fmt.Fprintln(s.out, "  Connection attempt pending")
	}
	if sess := s.term.Session(); sess != nil {
		fmt.Fprintf(s.out, "  Session: %s\n", sess.Device())
	}
}
