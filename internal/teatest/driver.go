// Package teatest drives a bubbletea model without a tea.Program.
//
// Messages go straight to Update and every returned Cmd is executed in
// place, so a test observes the model after the whole message cascade has
// settled. Cmds that outlive the driver's timeout are dropped.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one message may trigger.
const MaxDrainDepth = 100

const defaultCmdTimeout = 10 * time.Millisecond

// Driver owns a model under test.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting records that a Cmd produced tea.QuitMsg. Once set, further
	// input is ignored the way a stopped program would ignore it.
	Quitting bool

	cmdTimeout time.Duration
	initial    []tea.Msg
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before Init runs.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.initial = append(d.initial, tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// WithCmdTimeout sets how long a single Cmd may run. Models that load data
// from a database in a Cmd need more than the default.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.cmdTimeout = timeout }
}

func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: defaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	for _, msg := range d.initial {
		d.Send(msg)
	}
	return d
}

// DrainInit runs the model's Init command.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.run(d.Model.Init(), 0)
}

func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.update(msg, 0)
}

func (d *Driver) PressKey(r rune) { d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}) }
func (d *Driver) PressEnter()     { d.press(tea.KeyEnter) }
func (d *Driver) PressEsc()       { d.press(tea.KeyEsc) }
func (d *Driver) PressUp()        { d.press(tea.KeyUp) }
func (d *Driver) PressDown()      { d.press(tea.KeyDown) }
func (d *Driver) PressLeft()      { d.press(tea.KeyLeft) }
func (d *Driver) PressRight()     { d.press(tea.KeyRight) }

func (d *Driver) Resize(w, h int) { d.Send(tea.WindowSizeMsg{Width: w, Height: h}) }

func (d *Driver) View() string { return d.Model.View() }

func (d *Driver) press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

func (d *Driver) update(msg tea.Msg, depth int) {
	next, cmd := d.Model.Update(msg)
	d.Model = next
	d.run(cmd, depth+1)
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: stopped draining after %d chained commands", MaxDrainDepth)
		return
	}

	switch msg := d.exec(cmd).(type) {
	case nil:
	case tea.BatchMsg:
		for _, sub := range msg {
			d.run(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
	default:
		d.update(msg, depth)
	}
}

// exec returns nil when cmd does not finish within the driver timeout.
func (d *Driver) exec(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	timer := time.NewTimer(d.cmdTimeout)
	defer timer.Stop()
	select {
	case msg := <-done:
		return msg
	case <-timer.C:
		return nil
	}
}
