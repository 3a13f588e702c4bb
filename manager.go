package main

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-streetwalker/graph"
	"github.com/ttpr0/go-streetwalker/navigator"
	"github.com/ttpr0/go-streetwalker/session"
	. "github.com/ttpr0/go-streetwalker/util"
)

var ErrNotReady = errors.New("street graph is not loaded yet")

// Holds the street graph and the walk session once they are available.
type WalkManager struct {
	config  Config
	metrics *Metrics

	mu       sync.RWMutex
	graph    *graph.Graph
	session  *session.Session
	load_err error
	ready    chan struct{}
}

func NewWalkManager(config Config, metrics *Metrics) *WalkManager {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &WalkManager{
		config:  config,
		metrics: metrics,
		ready:   make(chan struct{}),
	}
}

// Loads the configured street graph and runs the session until ctx is done.
//
// Load failures are logged, the manager then stays not ready.
func (self *WalkManager) Run(ctx context.Context) error {
	g, err := LoadGraph(ctx, self.config)
	if err != nil {
		return self._Fail(ctx, err)
	}
	return self.RunWith(ctx, g)
}

// Runs a session on an already built graph.
func (self *WalkManager) RunWith(ctx context.Context, g *graph.Graph) error {
	nav, err := navigator.New(g, self.config.Navigator, self.config.Start.Coord())
	if err != nil {
		return self._Fail(ctx, err)
	}
	sess := session.NewSession(nav, self.config.Session, self.metrics)

	self.mu.Lock()
	self.graph = g
	self.session = sess
	self.mu.Unlock()
	self.metrics.SetGraph(g.Stats())
	close(self.ready)

	return sess.Run(ctx)
}

func (self *WalkManager) _Fail(ctx context.Context, err error) error {
	slog.Error("walker not available", "err", err)
	self.mu.Lock()
	self.load_err = err
	self.mu.Unlock()
	<-ctx.Done()
	return nil
}

// Closed once graph and session are available.
func (self *WalkManager) Ready() <-chan struct{} {
	return self.ready
}

func (self *WalkManager) GetSession() Optional[*session.Session] {
	self.mu.RLock()
	defer self.mu.RUnlock()
	if self.session == nil {
		return None[*session.Session]()
	}
	return Some(self.session)
}

func (self *WalkManager) GetGraph() Optional[*graph.Graph] {
	self.mu.RLock()
	defer self.mu.RUnlock()
	if self.graph == nil {
		return None[*graph.Graph]()
	}
	return Some(self.graph)
}

// Error of a failed load, nil while loading or after success.
func (self *WalkManager) LoadError() error {
	self.mu.RLock()
	defer self.mu.RUnlock()
	return self.load_err
}
