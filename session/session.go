package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-streetwalker/navigator"
	"github.com/ttpr0/go-streetwalker/structs"
	. "github.com/ttpr0/go-streetwalker/util"
)

var ErrClosed = errors.New("session is closed")

type Options struct {
	TickInterval time.Duration `yaml:"tick-interval"`
	// Ticks are delivered while auto mode is on and the ticker is not paused.
	Ticking      bool `yaml:"ticking"`
	StreamBuffer int  `yaml:"stream-buffer"`
}

func DefaultOptions() Options {
	return Options{
		TickInterval: 50 * time.Millisecond,
		Ticking:      true,
		StreamBuffer: 16,
	}
}

//*******************************************
// session
//*******************************************

// Owns a navigator and serializes commands and clock ticks on one goroutine.
type Session struct {
	nav      *navigator.Navigator
	options  Options
	observer IObserver

	requests chan _Request
	done     chan struct{}

	// only touched by the loop
	ticker    *time.Ticker
	ticking   bool
	last_tick time.Time

	sub_mu      sync.Mutex
	subscribers Dict[uuid.UUID, chan navigator.Pose]
}

type _Request struct {
	fn   func(nav *navigator.Navigator) error
	resp chan error
}

func NewSession(nav *navigator.Navigator, options Options, observer IObserver) *Session {
	if observer == nil {
		observer = NopObserver{}
	}
	if options.TickInterval <= 0 {
		options.TickInterval = DefaultOptions().TickInterval
	}
	if options.StreamBuffer <= 0 {
		options.StreamBuffer = DefaultOptions().StreamBuffer
	}
	session := &Session{
		nav:         nav,
		options:     options,
		observer:    observer,
		requests:    make(chan _Request),
		done:        make(chan struct{}),
		ticking:     options.Ticking,
		subscribers: NewDict[uuid.UUID, chan navigator.Pose](4),
	}
	nav.SetListener(session)
	return session
}

// Runs the session loop until ctx is cancelled.
func (self *Session) Run(ctx context.Context) error {
	self.ticker = time.NewTicker(self.options.TickInterval)
	self.ticker.Stop()
	defer self.ticker.Stop()
	defer close(self.done)

	self._SyncTicker()
	slog.Info("session started", "tick", self.options.TickInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("session stopped")
			return nil
		case req := <-self.requests:
			req.resp <- req.fn(self.nav)
			self._SyncTicker()
		case now := <-self.ticker.C:
			dt := now.Sub(self.last_tick)
			self.last_tick = now
			self.nav.AutoStep(dt)
			self.observer.OnTick(dt)
			self._SyncTicker()
		}
	}
}

// Applies a command and returns the resulting status.
func (self *Session) Do(ctx context.Context, cmd Command) (navigator.Status, error) {
	var status navigator.Status
	err := self._Exec(ctx, func(nav *navigator.Navigator) error {
		err := self._Apply(nav, cmd)
		status = nav.Status()
		return err
	})
	if !errors.Is(err, ErrClosed) && ctx.Err() == nil {
		self.observer.OnCommand(cmd, err)
	}
	return status, err
}

// Changes the auto speed by delta m/s.
func (self *Session) AdjustSpeed(ctx context.Context, delta float64) (navigator.Status, error) {
	var status navigator.Status
	err := self._Exec(ctx, func(nav *navigator.Navigator) error {
		nav.AdjustSpeed(delta)
		status = nav.Status()
		return nil
	})
	return status, err
}

func (self *Session) Status(ctx context.Context) (navigator.Status, error) {
	var status navigator.Status
	err := self._Exec(ctx, func(nav *navigator.Navigator) error {
		status = nav.Status()
		return nil
	})
	return status, err
}

func (self *Session) Choices(ctx context.Context) (List[navigator.Choice], error) {
	var choices List[navigator.Choice]
	err := self._Exec(ctx, func(nav *navigator.Navigator) error {
		choices = nav.Choices()
		return nil
	})
	return choices, err
}

// Status and choices read in the same request.
func (self *Session) Snapshot(ctx context.Context) (navigator.Status, List[navigator.Choice], error) {
	var status navigator.Status
	var choices List[navigator.Choice]
	err := self._Exec(ctx, func(nav *navigator.Navigator) error {
		status = nav.Status()
		choices = nav.Choices()
		return nil
	})
	return status, choices, err
}

// Whether clock ticks are currently delivered.
func (self *Session) IsTicking(ctx context.Context) (bool, error) {
	ticking := false
	err := self._Exec(ctx, func(nav *navigator.Navigator) error {
		ticking = self.ticking
		return nil
	})
	return ticking, err
}

func (self *Session) _Exec(ctx context.Context, fn func(nav *navigator.Navigator) error) error {
	req := _Request{
		fn:   fn,
		resp: make(chan error, 1),
	}
	select {
	case self.requests <- req:
	case <-self.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (self *Session) _Apply(nav *navigator.Navigator, cmd Command) error {
	options := nav.Options()
	switch cmd {
	case FORWARD:
		if !nav.ConfirmChoice() {
			nav.Advance(options.NavSpeed)
		}
	case BACK:
		nav.Advance(-options.NavSpeed)
	case LEFT:
		if !nav.CycleChoice(-1) {
			nav.Advance(-options.NavSpeed)
		}
	case RIGHT:
		if !nav.CycleChoice(1) {
			nav.Advance(options.NavSpeed)
		}
	case CONFIRM:
		nav.ConfirmChoice()
	case AUTO:
		nav.ToggleAutoMode()
	case STOP:
		nav.SetAuto(false)
	case FASTER:
		nav.AdjustSpeed(options.SpeedStep)
	case SLOWER:
		nav.AdjustSpeed(-options.SpeedStep)
	case TICKER_START:
		self.ticking = true
	case TICKER_PAUSE:
		self.ticking = false
	default:
		return ErrUnknownCommand
	}
	return nil
}

// Starts or stops the clock depending on auto mode and the ticker flag.
func (self *Session) _SyncTicker() {
	active := self.ticking && self.nav.IsAuto()
	if active == !self.last_tick.IsZero() {
		return
	}
	if active {
		self.last_tick = time.Now()
		self.ticker.Reset(self.options.TickInterval)
	} else {
		self.last_tick = time.Time{}
		self.ticker.Stop()
	}
}

//*******************************************
// pose stream
//*******************************************

// Registers a pose subscriber, slow subscribers lose poses.
func (self *Session) Subscribe() (uuid.UUID, <-chan navigator.Pose) {
	id := uuid.New()
	ch := make(chan navigator.Pose, self.options.StreamBuffer)
	self.sub_mu.Lock()
	defer self.sub_mu.Unlock()
	self.subscribers.Set(id, ch)
	slog.Debug("pose subscriber added", "id", id.String())
	return id, ch
}

func (self *Session) Unsubscribe(id uuid.UUID) {
	self.sub_mu.Lock()
	defer self.sub_mu.Unlock()
	if !self.subscribers.ContainsKey(id) {
		return
	}
	close(self.subscribers.Get(id))
	self.subscribers.Delete(id)
	slog.Debug("pose subscriber removed", "id", id.String())
}

func (self *Session) SubscriberCount() int {
	self.sub_mu.Lock()
	defer self.sub_mu.Unlock()
	return self.subscribers.Length()
}

//*******************************************
// navigator listener
//*******************************************

var _ navigator.IListener = &Session{}

func (self *Session) OnPose(pose navigator.Pose) {
	self.sub_mu.Lock()
	defer self.sub_mu.Unlock()
	for _, ch := range self.subscribers {
		select {
		case ch <- pose:
		default:
		}
	}
}
func (self *Session) OnEdgeEnter(edge structs.Edge, cause navigator.EnterCause) {
	slog.Debug("edge entered", "edge", edge, "cause", cause.String())
	self.observer.OnEdgeEnter(edge, cause)
}
func (self *Session) OnDeadEnd(node int32) {
	self.observer.OnDeadEnd(node)
}
