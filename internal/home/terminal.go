package home

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/wearable"
	"golang.org/x/term"
)

// Terminal is the Presenter used by the CLI. It owns every session it is shown
// and closes the previous one when a new session arrives.
type Terminal struct {
	out    io.Writer
	logger *logrus.Logger

	normal  *color.Color
	pending *color.Color
	errc    *color.Color
	detail  *color.Color

	mu      sync.Mutex
	status  string
	tone    StatusTone
	busy    bool
	session wearable.Session
}

// NewTerminal creates a terminal presenter writing to out.
func NewTerminal(out io.Writer, logger *logrus.Logger) *Terminal {
	if logger == nil {
		logger = logrus.New()
	}
	if out == nil {
		out = io.Discard
	}
	t := &Terminal{
		out:     out,
		logger:  logger,
		normal:  color.New(color.Bold),
		pending: color.RGB(255, 165, 0),
		errc:    color.New(color.FgRed, color.Bold),
		detail:  color.New(color.FgGreen),
	}
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		for _, c := range []*color.Color{t.normal, t.pending, t.errc, t.detail} {
			c.DisableColor()
		}
	}
	return t
}

func (t *Terminal) SetStatus(text string, tone StatusTone) {
	t.mu.Lock()
	t.status, t.tone = text, tone
	t.mu.Unlock()

	c := t.normal
	if tone == TonePending {
		c = t.pending
	}
	c.Fprintln(t.out, text)
}

func (t *Terminal) ShowActivity(active bool) {
	t.mu.Lock()
	changed := t.busy != active
	t.busy = active
	t.mu.Unlock()

	if changed && active {
		t.pending.Fprintln(t.out, "Connecting...")
	}
}

// ShowSession prints the session details and takes ownership of sess.
func (t *Terminal) ShowSession(sess wearable.Session) {
	t.mu.Lock()
	prev := t.session
	t.session = sess
	t.mu.Unlock()

	if prev != nil && prev != sess {
		if err := prev.Close(); err != nil {
			t.logger.WithError(err).Warn("Failed to close previous session")
		}
	}

	dev := sess.Device()
	kind := "wearable"
	if sess.Simulated() {
		kind = "simulated wearable"
	}
	t.detail.Fprintf(t.out, "Session ready: %s\n", kind)
	fmt.Fprintf(t.out, "  Device:  %s\n", dev.DisplayName())
	fmt.Fprintf(t.out, "  Address: %s\n", dev.Address)
	fmt.Fprintf(t.out, "  Sensors: %s\n", sess.SensorIntent())
}

// ShowError prints err as an alert block. The message is indented under an
// ERROR header so multi-line errors stay readable.
func (t *Terminal) ShowError(err error) {
	if err == nil {
		return
	}
	t.errc.Fprintln(t.out, "ERROR:")
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(t.out, "  %s\n", line)
	}
}

// Status returns the current status line and tone.
func (t *Terminal) Status() (string, StatusTone) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status, t.tone
}

// Busy reports whether the activity indicator is shown.
func (t *Terminal) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Session returns the session currently shown, or nil.
func (t *Terminal) Session() wearable.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// Close releases the session currently shown.
func (t *Terminal) Close() error {
	t.mu.Lock()
	sess := t.session
	t.session = nil
	t.mu.Unlock()

	if sess == nil {
		return nil
	}
	return sess.Close()
}
