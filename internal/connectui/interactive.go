package connectui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/console"
	"github.com/srg/wearlink/internal/wearable"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/term"
)

// Focus is the input side an interactive UI needs: a stack of line handlers.
// Push returns a release that removes exactly the pushed handler.
type Focus interface {
	Push(h console.Handler) (release func())
}

// palette holds the colors used for terminal rendering.
type palette struct {
	title    *color.Color
	good     *color.Color
	fair     *color.Color
	poor     *color.Color
	alert    *color.Color
	info     *color.Color
	selected *color.Color
}

func newPalette(out io.Writer) palette {
	p := palette{
		title:    color.New(color.Bold),
		good:     color.New(color.FgGreen),
		fair:     color.New(color.FgYellow),
		poor:     color.New(color.FgRed),
		alert:    color.New(color.FgRed, color.Bold),
		info:     color.New(color.FgCyan),
		selected: color.New(color.FgGreen, color.Bold),
	}
	if !isTerminal(out) {
		for _, c := range []*color.Color{p.title, p.good, p.fair, p.poor, p.alert, p.info, p.selected} {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Interactive renders the connection flow on a terminal and reads the user's
// choices from a console focus stack. Driven directly it behaves as a single
// attempt; concurrent attempts each take their own stack from Attempt.
type Interactive struct {
	out    io.Writer
	focus  Focus
	colors palette
	logger *logrus.Logger

	*attempt
}

// NewInteractive creates the terminal strategy.
func NewInteractive(out io.Writer, focus Focus, logger *logrus.Logger) *Interactive {
	if logger == nil {
		logger = logrus.New()
	}
	if out == nil {
		out = io.Discard
	}
	ui := &Interactive{
		out:    out,
		focus:  focus,
		colors: newPalette(out),
		logger: logger,
	}
	ui.attempt = &attempt{ui: ui}
	return ui
}

// Attempt returns a ConnectUI with its own presentation stack. Finishing one
// attempt never dismisses what another attempt presented.
func (ui *Interactive) Attempt() ConnectUI {
	return &attempt{ui: ui}
}

func (ui *Interactive) OpenURL(url string) {
	fmt.Fprintf(ui.out, "Open %s in a browser to continue\n", url)
}

// attempt is the presentation stack of one connection attempt.
type attempt struct {
	ui *Interactive

	mu    sync.Mutex
	stack []Element
}

// Start begins a fresh attempt. Anything a previous run on this stack left
// presented is dismissed first.
func (a *attempt) Start() {
	a.mu.Lock()
	leftovers := a.stack
	a.stack = nil
	a.mu.Unlock()

	for i := len(leftovers) - 1; i >= 0; i-- {
		dismiss(leftovers[i])
	}
}

func (a *attempt) Push(el Element) {
	a.mu.Lock()
	a.stack = append(a.stack, el)
	a.mu.Unlock()

	el.Present()
}

func (a *attempt) Pop() {
	a.mu.Lock()
	n := len(a.stack)
	if n == 0 {
		a.mu.Unlock()
		return
	}
	top := a.stack[n-1]
	a.stack = a.stack[:n-1]
	a.mu.Unlock()

	dismiss(top)
}

// Restart dismisses everything on the stack.
func (a *attempt) Restart() {
	for a.depth() > 0 {
		a.Pop()
	}
}

func (a *attempt) OpenURL(url string) { a.ui.OpenURL(url) }

func (a *attempt) Finish() {
	a.Restart()
}

func (a *attempt) depth() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.stack)
}

func (a *attempt) NewSearchUI() SearchUI    { return a.ui.NewSearchUI() }
func (a *attempt) NewAlert(al Alert) AlertUI { return a.ui.NewAlert(al) }
func (a *attempt) NewInfo(i Info) InfoUI     { return a.ui.NewInfo(i) }

func dismiss(el Element) {
	if d, ok := el.(interface{ dismiss() }); ok {
		d.dismiss()
	}
}

func (ui *Interactive) NewSearchUI() SearchUI {
	return &terminalSearch{
		ui:         ui,
		candidates: orderedmap.New[string, candidate](),
	}
}

func (ui *Interactive) NewAlert(a Alert) AlertUI {
	return &terminalAlert{ui: ui, alert: a}
}

func (ui *Interactive) NewInfo(i Info) InfoUI {
	return &terminalInfo{ui: ui, info: i}
}

type candidate struct {
	device wearable.DiscoveredDevice
	state  wearable.DeviceState
}

// terminalSearch lists candidates in discovery order. While presented, it holds
// console focus and accepts a 1-based index or "q".
type terminalSearch struct {
	ui *Interactive

	mu         sync.Mutex
	delegate   SearchDelegate
	candidates *orderedmap.OrderedMap[string, candidate]
	selected   *wearable.DiscoveredDevice
	release    func()
}

func (s *terminalSearch) SetDelegate(d SearchDelegate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delegate = d
}

func (s *terminalSearch) Present() {
	s.mu.Lock()
	if s.release == nil && s.ui.focus != nil {
		s.release = s.ui.focus.Push(s.handleLine)
	}
	s.mu.Unlock()

	s.ui.colors.title.Fprintln(s.ui.out, "Searching for devices. Enter a number to connect, q to cancel.")
}

func (s *terminalSearch) dismiss() {
	s.mu.Lock()
	release := s.release
	s.release = nil
	s.mu.Unlock()

	if release != nil {
		release()
	}
}

func (s *terminalSearch) Add(dev wearable.DiscoveredDevice, state wearable.DeviceState) {
	s.mu.Lock()
	_, existed := s.candidates.Get(dev.Address)
	s.candidates.Set(dev.Address, candidate{device: dev, state: state})
	index := s.indexOf(dev.Address)
	s.mu.Unlock()

	if !existed {
		s.render(index, dev, state)
	}
}

func (s *terminalSearch) Update(dev wearable.DiscoveredDevice, state wearable.DeviceState) {
	s.mu.Lock()
	prev, existed := s.candidates.Get(dev.Address)
	s.candidates.Set(dev.Address, candidate{device: dev, state: state})
	index := s.indexOf(dev.Address)
	s.mu.Unlock()

	if !existed || prev.state != state {
		s.render(index, dev, state)
	}
}

func (s *terminalSearch) Remove(dev wearable.DiscoveredDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates.Delete(dev.Address)
}

// RemoveAll clears the list and gives console focus back.
func (s *terminalSearch) RemoveAll() {
	s.mu.Lock()
	s.candidates = orderedmap.New[string, candidate]()
	s.mu.Unlock()

	s.dismiss()
}

func (s *terminalSearch) Selected() (wearable.DiscoveredDevice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return wearable.DiscoveredDevice{}, false
	}
	return *s.selected, true
}

// indexOf returns the 1-based position of address. Caller holds s.mu.
func (s *terminalSearch) indexOf(address string) int {
	i := 1
	for pair := s.candidates.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == address {
			return i
		}
		i++
	}
	return 0
}

// at returns the candidate at 1-based position n. Caller holds s.mu.
func (s *terminalSearch) at(n int) (candidate, bool) {
	i := 1
	for pair := s.candidates.Oldest(); pair != nil; pair = pair.Next() {
		if i == n {
			return pair.Value, true
		}
		i++
	}
	return candidate{}, false
}

func (s *terminalSearch) render(index int, dev wearable.DiscoveredDevice, state wearable.DeviceState) {
	c := s.ui.colors.poor
	switch state.Strength {
	case wearable.SignalFull, wearable.SignalStrong:
		c = s.ui.colors.good
	case wearable.SignalModerate:
		c = s.ui.colors.fair
	}
	fmt.Fprintf(s.ui.out, "  [%d] %-24s %s  %s\n", index, dev.DisplayName(), dev.Address, c.Sprintf("%s (%d dBm)", state, dev.RSSI))
}

func (s *terminalSearch) handleLine(line string) {
	if line == "" {
		return
	}

	if strings.EqualFold(line, "q") {
		s.mu.Lock()
		delegate := s.delegate
		s.mu.Unlock()
		if delegate != nil {
			delegate.SearchCancelled()
		}
		return
	}

	n, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintf(s.ui.out, "Enter a device number or q to cancel\n")
		return
	}

	s.mu.Lock()
	if s.selected != nil {
		s.mu.Unlock()
		return
	}
	c, ok := s.at(n)
	if !ok {
		s.mu.Unlock()
		fmt.Fprintf(s.ui.out, "No device %d\n", n)
		return
	}
	selected := c.device
	s.selected = &selected
	delegate := s.delegate
	s.mu.Unlock()

	s.ui.colors.selected.Fprintf(s.ui.out, "Selected %s (%s)\n", selected.DisplayName(), selected.Address)
	if delegate != nil {
		delegate.DeviceSelected(selected)
	}
}

type terminalAlert struct {
	ui    *Interactive
	alert Alert
}

func (a *terminalAlert) Present() {
	c := a.ui.colors.info
	prefix := "i"
	switch a.alert.Icon {
	case AlertWarning:
		c, prefix = a.ui.colors.fair, "!"
	case AlertError:
		c, prefix = a.ui.colors.alert, "x"
	}
	c.Fprintf(a.ui.out, "[%s] %s\n", prefix, a.alert.Title)
	if a.alert.Message != "" {
		fmt.Fprintf(a.ui.out, "    %s\n", a.alert.Message)
	}
	for _, action := range a.alert.Actions {
		fmt.Fprintf(a.ui.out, "    - %s\n", action.Title)
	}
}

type terminalInfo struct {
	ui   *Interactive
	info Info
}

func (i *terminalInfo) Present() {
	suffix := ""
	if i.info.Type == InfoProgress {
		suffix = "..."
	}
	if i.info.Message != "" {
		i.ui.colors.info.Fprintf(i.ui.out, "%s%s %s\n", i.info.Title, suffix, i.info.Message)
		return
	}
	i.ui.colors.info.Fprintf(i.ui.out, "%s%s\n", i.info.Title, suffix)
}

func (i *terminalInfo) Dismiss() {}
