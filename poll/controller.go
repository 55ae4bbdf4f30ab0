// Package poll owns the refresh lifecycle of a view: an immediate fetch on
// activation, re-fetches on a fixed interval, and cancellation on teardown.
//
// Controllers live inside a Bubble Tea model and are only touched from its
// Update loop. Fetches run as commands and come back as messages tagged with
// the token of the activation that issued them; a deactivated controller
// drops its own ticks and results because their token no longer matches.
package poll

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const DefaultInterval = 30 * time.Second

var tokens atomic.Uint64

// TickMsg schedules the next fetch of one controller activation.
type TickMsg struct {
	token uint64
}

// ResultMsg carries the outcome of one fetch.
type ResultMsg[T any] struct {
	token uint64
	seq   uint64
	Value T
	Err   error
	At    time.Time
}

type FetchFunc[T any] func(ctx context.Context) (T, error)

// TickFunc matches tea.Tick and is swapped out in tests.
type TickFunc func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

type Config struct {
	// Name identifies the resource in logs.
	Name string
	// Interval between scheduled fetches. Zero means fetch only on
	// activation and on Refresh.
	Interval time.Duration
	Logger   *zap.Logger
	Context  context.Context
	Now      func() time.Time
	Tick     TickFunc
}

// State is the last known snapshot of the resource. A failed refresh keeps
// Value from the last success and records Err.
type State[T any] struct {
	Value     T
	Loaded    bool
	UpdatedAt time.Time
	Err       error
	FailedAt  time.Time
	Failures  int
	Fetches   int

	interval time.Duration
}

// Stale reports whether the snapshot should be flagged to the user: the last
// refresh failed, or nothing succeeded for two intervals.
func (s State[T]) Stale(now time.Time) bool {
	if s.Err != nil {
		return true
	}
	if !s.Loaded || s.interval <= 0 {
		return false
	}
	return now.Sub(s.UpdatedAt) > 2*s.interval
}

type Controller[T any] struct {
	name     string
	interval time.Duration
	log      *zap.Logger
	parent   context.Context
	now      func() time.Time
	tick     TickFunc
	fetch    FetchFunc[T]

	token     uint64
	active    bool
	ctx       context.Context
	cancel    context.CancelFunc
	seq       uint64
	state     State[T]
	observers []func(T)
}

func New[T any](cfg Config, fetch FetchFunc[T]) *Controller[T] {
	c := &Controller[T]{
		name:     cfg.Name,
		interval: cfg.Interval,
		log:      cfg.Logger,
		parent:   cfg.Context,
		now:      cfg.Now,
		tick:     cfg.Tick,
		fetch:    fetch,
	}
	if c.interval < 0 {
		c.interval = 0
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.parent == nil {
		c.parent = context.Background()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.tick == nil {
		c.tick = tea.Tick
	}
	c.state.interval = c.interval
	return c
}

// OnApply registers an observer that runs after every successful apply,
// inside the update loop.
func (c *Controller[T]) OnApply(fn func(T)) {
	c.observers = append(c.observers, fn)
}

// Activate starts a new activation: an immediate fetch plus the first tick.
// It is a no-op while already active.
func (c *Controller[T]) Activate() tea.Cmd {
	if c.active {
		return nil
	}
	c.active = true
	c.token = tokens.Add(1)
	c.ctx, c.cancel = context.WithCancel(c.parent)
	c.log.Debug("poll activated", zap.String("resource", c.name), zap.Duration("interval", c.interval))
	return tea.Batch(c.fetchCmd(), c.tickCmd())
}

// Deactivate ends the activation. Pending ticks never fetch and in-flight
// results are discarded when they arrive; their requests are cancelled.
func (c *Controller[T]) Deactivate() {
	if !c.active {
		return
	}
	c.active = false
	c.token = tokens.Add(1)
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.log.Debug("poll deactivated", zap.String("resource", c.name))
}

// Reset discards the snapshot and every in-flight result, optionally
// rebinding the fetch (a hall change), and fetches again when active.
func (c *Controller[T]) Reset(fetch FetchFunc[T]) tea.Cmd {
	if fetch != nil {
		c.fetch = fetch
	}
	c.state = State[T]{interval: c.interval}
	if !c.active {
		return nil
	}
	c.active = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.log.Debug("poll reset", zap.String("resource", c.name))
	return c.Activate()
}

func (c *Controller[T]) Active() bool {
	return c.active
}

// Refresh fetches now without disturbing the tick schedule.
func (c *Controller[T]) Refresh() tea.Cmd {
	if !c.active {
		return nil
	}
	return c.fetchCmd()
}

func (c *Controller[T]) State() State[T] {
	return c.state
}

func (c *Controller[T]) Interval() time.Duration {
	return c.interval
}

// Update consumes the controller's own ticks and results. It reports
// whether msg belonged to the current activation.
func (c *Controller[T]) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case TickMsg:
		if !c.active || msg.token != c.token {
			return nil, false
		}
		return tea.Batch(c.fetchCmd(), c.tickCmd()), true
	case ResultMsg[T]:
		if !c.active || msg.token != c.token {
			return nil, false
		}
		c.apply(msg)
		return nil, true
	}
	return nil, false
}

// Owns reports whether msg was issued by the current activation, without
// consuming it.
func (c *Controller[T]) Owns(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case TickMsg:
		return c.active && msg.token == c.token
	case ResultMsg[T]:
		return c.active && msg.token == c.token
	}
	return false
}

func (c *Controller[T]) apply(msg ResultMsg[T]) {
	c.state.Fetches++
	if msg.Err != nil {
		c.state.Err = msg.Err
		c.state.FailedAt = msg.At
		c.state.Failures++
		c.log.Warn("refresh failed",
			zap.String("resource", c.name),
			zap.Uint64("seq", msg.seq),
			zap.Int("failures", c.state.Failures),
			zap.Error(msg.Err))
		return
	}
	c.state.Value = msg.Value
	c.state.Loaded = true
	c.state.UpdatedAt = msg.At
	c.state.Err = nil
	c.state.Failures = 0
	for _, fn := range c.observers {
		fn(msg.Value)
	}
}

func (c *Controller[T]) fetchCmd() tea.Cmd {
	c.seq++
	token, seq, ctx := c.token, c.seq, c.ctx
	fetch, now := c.fetch, c.now
	return func() tea.Msg {
		value, err := fetch(ctx)
		return ResultMsg[T]{token: token, seq: seq, Value: value, Err: err, At: now()}
	}
}

func (c *Controller[T]) tickCmd() tea.Cmd {
	if c.interval <= 0 {
		return nil
	}
	token := c.token
	return c.tick(c.interval, func(time.Time) tea.Msg {
		return TickMsg{token: token}
	})
}
