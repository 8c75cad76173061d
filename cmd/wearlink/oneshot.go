package main

import (
	"context"
	"io"

	"github.com/srg/wearlink/internal/connectui"
	"github.com/srg/wearlink/internal/home"
	"github.com/srg/wearlink/internal/mainloop"
	"github.com/srg/wearlink/internal/wearable"
)

// settlingPresenter forwards to the terminal and, after every call, checks on
// the main loop whether the controller went idle. Errors are kept for the
// command's exit status instead of being printed.
type settlingPresenter struct {
	home.Presenter
	before func()
	check  func()
	err    error
}

func (p *settlingPresenter) SetStatus(text string, tone home.StatusTone) {
	if tone != home.TonePending {
		p.before()
	}
	p.Presenter.SetStatus(text, tone)
	p.check()
}

func (p *settlingPresenter) ShowActivity(active bool) {
	p.Presenter.ShowActivity(active)
	p.check()
}

func (p *settlingPresenter) ShowSession(sess wearable.Session) {
	p.before()
	p.Presenter.ShowSession(sess)
	p.check()
}

func (p *settlingPresenter) ShowError(err error) {
	p.before()
	p.err = err
	p.check()
}

// oneShot runs a single controller action on a fresh main loop and returns
// once the controller is idle again.
type oneShot struct {
	env *environment
	out io.Writer
	ui  connectui.ConnectUI

	// before runs ahead of any final output, e.g. to clear a progress line.
	before func()
}

// run posts start on the loop. A non-nil error from start ends the run
// immediately. Interrupting ctx cancels the pending attempt.
func (o *oneShot) run(ctx context.Context, loop *mainloop.Loop, start func(*home.Controller) error) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	sdk, err := o.env.newSDK(o.ui, loop)
	if err != nil {
		return err
	}

	before := o.before
	if before == nil {
		before = func() {}
	}

	term := home.NewTerminal(o.out, o.env.logger)
	defer term.Close()

	var ctrl *home.Controller
	settled := false
	presenter := &settlingPresenter{Presenter: term, before: before}
	presenter.check = func() {
		loop.Post(func() {
			if !ctrl.Pending() {
				settled = true
				stop()
			}
		})
	}
	ctrl = home.NewController(sdk, o.env.store, presenter, o.env.homeOptions(), o.env.logger)

	var startErr error
	loop.Post(func() {
		if startErr = start(ctrl); startErr != nil {
			settled = true
			stop()
		}
	})

	_ = loop.Run(ctx)

	if !settled {
		before()
		ctrl.Cancel()
		return context.Canceled
	}
	if startErr != nil {
		return startErr
	}
	return presenter.err
}
