package chart

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrControllerClosed is returned for commands sent after the controller stopped.
var ErrControllerClosed = errors.New("chart controller is closed")

// State is the snapshot a controller publishes after every change.
type State struct {
	// Generation identifies the reveal run; it increases on every activation.
	Generation uint64 `json:"generation"`
	// Seq increases on every published change. Controllers sharing a Sequence
	// never reuse a value, so it also orders states across controller restarts.
	Seq      uint64  `json:"seq"`
	Revealed int     `json:"revealed"`
	Total    int     `json:"total"`
	Domain   Domain  `json:"domain"`
	Zoom     float64 `json:"zoom"`
	Active   bool    `json:"active"`
	Complete bool    `json:"complete"`
}

// Visible intersects the revealed prefix with the viewport domain. It reports
// false when no revealed record falls inside the domain.
func (s State) Visible() (Domain, bool) {
	if s.Revealed <= 0 {
		return Domain{}, false
	}
	end := min(s.Domain.End, s.Revealed-1)
	if end < s.Domain.Start {
		return Domain{}, false
	}
	return Domain{Start: s.Domain.Start, End: end}, true
}

// CanZoomIn and CanZoomOut mirror the viewport preconditions for the display layer.
func (s State) CanZoomIn() bool  { return s.Zoom < MaxZoom }
func (s State) CanZoomOut() bool { return s.Zoom > MinZoom }

// Result is the reply to a controller command.
type Result struct {
	State   State
	Applied bool
}

// Observer receives every published State in order. It runs on the controller
// goroutine and must not call back into the controller.
type Observer func(State)

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock driving the reveal ticker.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.revealer.clock = clock
		}
	}
}

// WithInterval sets the delay between reveal steps.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.revealer.interval = d
		}
	}
}

// Sequence hands out State.Seq values to the controllers that share it.
type Sequence struct{ n atomic.Uint64 }

func (s *Sequence) next() uint64 { return s.n.Add(1) }

// WithSequence draws Seq values from seq instead of a private counter.
func WithSequence(seq *Sequence) Option {
	return func(c *Controller) { c.sequence = seq }
}

// WithObserver registers the state observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

type opcode int

const (
	opZoomIn opcode = iota
	opZoomOut
	opReset
	opActivate
	opDeactivate
	opSnapshot
)

type command struct {
	op    opcode
	reply chan Result
}

// Controller owns the reveal and viewport state of one viewer. All state lives
// on the goroutine running Run; the exported methods send commands to it.
type Controller struct {
	total    int
	revealer *Revealer
	viewport Viewport
	active   bool
	seq      uint64
	sequence *Sequence
	observer Observer

	commands chan command
	done     chan struct{}
}

// NewController returns a controller for a series of n records. Run must be
// started before commands are accepted.
func NewController(n int, opts ...Option) *Controller {
	c := &Controller{
		total:    max(n, 0),
		revealer: NewRevealer(nil, 0),
		viewport: NewViewport(n),
		commands: make(chan command),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sequence != nil {
		// The unpublished initial state still outranks every earlier controller's.
		c.seq = c.sequence.next()
	}
	return c
}

// Run processes commands and reveal ticks until ctx is canceled. It stops the
// reveal ticker on exit; later commands fail with ErrControllerClosed.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.done)
	defer c.revealer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case cmd := <-c.commands:
			cmd.reply <- c.apply(cmd.op)

		case <-c.revealer.C():
			if c.revealer.Tick() {
				c.publish()
			}
		}
	}
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} { return c.done }

func (c *Controller) ZoomIn(ctx context.Context) (Result, error)  { return c.send(ctx, opZoomIn) }
func (c *Controller) ZoomOut(ctx context.Context) (Result, error) { return c.send(ctx, opZoomOut) }
func (c *Controller) Reset(ctx context.Context) (Result, error)   { return c.send(ctx, opReset) }

// Activate signals that the chart page is shown: the reveal restarts from 0.
func (c *Controller) Activate(ctx context.Context) (Result, error) {
	return c.send(ctx, opActivate)
}

// Deactivate signals that the chart page was replaced: the reveal ticker stops.
func (c *Controller) Deactivate(ctx context.Context) (Result, error) {
	return c.send(ctx, opDeactivate)
}

// Snapshot returns the current state without changing it.
func (c *Controller) Snapshot(ctx context.Context) (State, error) {
	res, err := c.send(ctx, opSnapshot)
	return res.State, err
}

func (c *Controller) send(ctx context.Context, op opcode) (Result, error) {
	cmd := command{op: op, reply: make(chan Result, 1)}

	select {
	case c.commands <- cmd:
	case <-c.done:
		return Result{}, ErrControllerClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	// Run replies before reading the next event, so the reply is never lost.
	return <-cmd.reply, nil
}

func (c *Controller) apply(op opcode) Result {
	applied := false

	switch op {
	case opZoomIn:
		c.viewport, applied = c.viewport.ZoomIn()
	case opZoomOut:
		c.viewport, applied = c.viewport.ZoomOut()
	case opReset:
		c.viewport = c.viewport.Reset()
		applied = true
	case opActivate:
		c.revealer.Start(c.total)
		c.active = true
		applied = true
	case opDeactivate:
		if c.active {
			c.revealer.Stop()
			c.active = false
			applied = true
		}
	case opSnapshot:
		return Result{State: c.state()}
	}

	if applied {
		c.publish()
	}
	return Result{State: c.state(), Applied: applied}
}

func (c *Controller) publish() {
	if c.sequence != nil {
		c.seq = c.sequence.next()
	} else {
		c.seq++
	}
	if c.observer != nil {
		c.observer(c.state())
	}
}

func (c *Controller) state() State {
	d := c.viewport.Domain()
	return State{
		Generation: c.revealer.Generation(),
		Seq:        c.seq,
		Revealed:   c.revealer.Revealed(),
		Total:      c.total,
		Domain:     d,
		Zoom:       c.viewport.Zoom(),
		Active:     c.active,
		Complete:   c.revealer.Complete(),
	}
}
