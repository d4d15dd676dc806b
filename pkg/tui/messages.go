package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/signpost/pkg/facts"
	"gitlab.com/tinyland/lab/signpost/pkg/sched"
	"gitlab.com/tinyland/lab/signpost/pkg/weather"
)

// FireMsg delivers a scheduler fire into the update loop.
type FireMsg struct {
	Fire sched.Fire
}

// ControlReply carries the outcome of one control-socket command.
type ControlReply struct {
	Result any
	Err    error
}

// ControlMsg delivers a control-socket command into the update loop. The
// handler goroutine blocks on Reply until the loop has processed it.
type ControlMsg struct {
	Name  string
	Args  []string
	Reply chan ControlReply
}

// surfaceResultMsg reports a completed surface load.
type surfaceResultMsg struct {
	index int
	url   string
	saver bool
	err   error
}

// weatherMsg reports a completed weather fetch.
type weatherMsg struct {
	obs *weather.Observation
	err error
}

// factsMsg reports a completed facts query.
type factsMsg struct {
	records []facts.Fact
	err     error
	open    bool // open the browser modal once loaded
}

// listenFires re-arms the scheduler fire listener. One fire is delivered
// per command so the loop stays responsive.
func listenFires(ch <-chan sched.Fire) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return FireMsg{Fire: f}
	}
}

// listenControls re-arms the control command listener.
func listenControls(ch <-chan ControlMsg) tea.Cmd {
	return func() tea.Msg {
		m, ok := <-ch
		if !ok {
			return nil
		}
		return m
	}
}

// Dispatcher implements control.Handler by forwarding commands into the
// update loop and waiting for the reply.
type Dispatcher struct {
	ch      chan<- ControlMsg
	timeout time.Duration
}

// NewDispatcher creates a dispatcher feeding ch. A timeout of zero means
// five seconds.
func NewDispatcher(ch chan<- ControlMsg, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{ch: ch, timeout: timeout}
}

// HandleCommand forwards one command and blocks until the update loop
// replies or the timeout passes.
func (d *Dispatcher) HandleCommand(name string, args []string) (any, error) {
	reply := make(chan ControlReply, 1)
	msg := ControlMsg{Name: name, Args: args, Reply: reply}

	select {
	case d.ch <- msg:
	case <-time.After(d.timeout):
		return nil, errTimeout
	}
	select {
	case r := <-reply:
		return r.Result, r.Err
	case <-time.After(d.timeout):
		return nil, errTimeout
	}
}
