package chart

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ManagerOptions configures the per-viewer controllers of a Manager.
type ManagerOptions struct {
	Interval    time.Duration
	Clock       Clock
	IdleTimeout time.Duration
	// OnChange receives every state published by any viewer's controller.
	OnChange func(viewerID string, st State)
}

// Stats summarises the live controllers.
type Stats struct {
	Viewers       int `json:"viewers"`
	ActiveReveals int `json:"active_reveals"`
}

type viewerEntry struct {
	ctrl     *Controller
	cancel   context.CancelFunc
	lastSeen time.Time
}

// Manager owns one Controller per viewer and evicts controllers that were not
// used for IdleTimeout.
type Manager struct {
	total int
	opts  ManagerOptions
	now   func() time.Time
	seq   Sequence

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	viewers map[string]*viewerEntry
	closed  bool
}

// NewManager creates a manager for a series of total records.
func NewManager(total int, opts ManagerOptions) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		total:   total,
		opts:    opts,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		viewers: make(map[string]*viewerEntry),
	}
}

// Controller returns the viewer's controller, starting one on first use.
func (m *Manager) Controller(viewerID string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrControllerClosed
	}

	if entry, ok := m.viewers[viewerID]; ok {
		entry.lastSeen = m.now()
		return entry.ctrl, nil
	}

	opts := []Option{WithInterval(m.opts.Interval), WithSequence(&m.seq)}
	if m.opts.Clock != nil {
		opts = append(opts, WithClock(m.opts.Clock))
	}
	if m.opts.OnChange != nil {
		onChange := m.opts.OnChange
		opts = append(opts, WithObserver(func(st State) { onChange(viewerID, st) }))
	}

	ctrl := NewController(m.total, opts...)
	ctx, cancel := context.WithCancel(m.ctx)
	go ctrl.Run(ctx)

	m.viewers[viewerID] = &viewerEntry{ctrl: ctrl, cancel: cancel, lastSeen: m.now()}
	slog.Debug("Chart controller started", "viewer", viewerID, "viewers", len(m.viewers))
	return ctrl, nil
}

// Lookup returns the viewer's controller without creating one.
func (m *Manager) Lookup(viewerID string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.viewers[viewerID]
	if !ok {
		return nil, false
	}
	return entry.ctrl, true
}

// Evict stops and forgets the viewer's controller.
func (m *Manager) Evict(viewerID string) bool {
	m.mu.Lock()
	entry, ok := m.viewers[viewerID]
	if ok {
		delete(m.viewers, viewerID)
	}
	m.mu.Unlock()

	if ok {
		entry.cancel()
		<-entry.ctrl.Done()
	}
	return ok
}

// EvictIdle stops every controller unused since before now-IdleTimeout and
// returns how many were removed.
func (m *Manager) EvictIdle() int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.opts.IdleTimeout)

	m.mu.Lock()
	var stale []*viewerEntry
	for id, entry := range m.viewers {
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, entry)
			delete(m.viewers, id)
		}
	}
	m.mu.Unlock()

	for _, entry := range stale {
		entry.cancel()
		<-entry.ctrl.Done()
	}
	if len(stale) > 0 {
		slog.Info("Evicted idle chart controllers", "count", len(stale))
	}
	return len(stale)
}

// Janitor evicts idle controllers periodically until ctx is canceled.
func (m *Manager) Janitor(ctx context.Context) {
	if m.opts.IdleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(m.opts.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}

// Count returns the number of live controllers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.viewers)
}

// Stats snapshots every live controller.
func (m *Manager) Stats(ctx context.Context) Stats {
	m.mu.Lock()
	ctrls := make([]*Controller, 0, len(m.viewers))
	for _, entry := range m.viewers {
		ctrls = append(ctrls, entry.ctrl)
	}
	m.mu.Unlock()

	stats := Stats{Viewers: len(ctrls)}
	for _, ctrl := range ctrls {
		st, err := ctrl.Snapshot(ctx)
		if err != nil {
			continue
		}
		if st.Active && !st.Complete {
			stats.ActiveReveals++
		}
	}
	return stats
}

// Close stops every controller. Later calls to Controller fail.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	entries := make([]*viewerEntry, 0, len(m.viewers))
	for _, entry := range m.viewers {
		entries = append(entries, entry)
	}
	m.viewers = make(map[string]*viewerEntry)
	m.mu.Unlock()

	m.cancel()
	for _, entry := range entries {
		<-entry.ctrl.Done()
	}
}
