package chart

import "time"

// DefaultRevealInterval is the delay between two reveal steps.
const DefaultRevealInterval = 150 * time.Millisecond

// Revealer drives the progressive reveal of a series prefix from a single
// repeating ticker. It is not safe for concurrent use; a Controller owns it
// and consumes C from its event loop.
type Revealer struct {
	clock    Clock
	interval time.Duration

	ticker     Ticker
	total      int
	revealed   int
	generation uint64
}

// NewRevealer returns an idle revealer. A nil clock means SystemClock and a
// non-positive interval means DefaultRevealInterval.
func NewRevealer(clock Clock, interval time.Duration) *Revealer {
	if clock == nil {
		clock = SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultRevealInterval
	}
	return &Revealer{clock: clock, interval: interval}
}

// Start begins a new run over n records and returns its generation. Any active
// ticker is stopped first and revealed restarts from 0. An empty run completes
// immediately without creating a ticker.
func (r *Revealer) Start(n int) uint64 {
	r.stopTicker()

	r.generation++
	r.total = max(n, 0)
	r.revealed = 0

	if r.total > 0 {
		r.ticker = r.clock.NewTicker(r.interval)
	}
	return r.generation
}

// Tick advances the reveal by one record. It reports false when no run is
// active. The ticker is stopped as soon as the last record is revealed.
func (r *Revealer) Tick() bool {
	if r.ticker == nil {
		return false
	}

	r.revealed++
	if r.revealed >= r.total {
		r.revealed = r.total
		r.stopTicker()
	}
	return true
}

// Stop cancels the active ticker. Revealed keeps its value.
func (r *Revealer) Stop() {
	r.stopTicker()
}

// C returns the tick channel of the active run, or nil when idle. Receiving
// from a nil channel blocks forever, so an idle revealer never ticks in a select.
func (r *Revealer) C() <-chan time.Time {
	if r.ticker == nil {
		return nil
	}
	return r.ticker.C()
}

func (r *Revealer) Revealed() int      { return r.revealed }
func (r *Revealer) Total() int         { return r.total }
func (r *Revealer) Generation() uint64 { return r.generation }
func (r *Revealer) Interval() time.Duration {
	return r.interval
}

// Running reports whether a ticker is active.
func (r *Revealer) Running() bool { return r.ticker != nil }

// Complete reports whether the current run revealed every record.
func (r *Revealer) Complete() bool {
	return r.generation > 0 && r.revealed == r.total
}

func (r *Revealer) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}
