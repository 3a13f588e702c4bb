package session

import (
	"time"

	"github.com/ttpr0/go-streetwalker/navigator"
	"github.com/ttpr0/go-streetwalker/structs"
)

// Instrumentation hooks, implementations have to be safe for concurrent use.
type IObserver interface {
	OnCommand(cmd Command, err error)
	OnTick(dt time.Duration)
	OnEdgeEnter(edge structs.Edge, cause navigator.EnterCause)
	OnDeadEnd(node int32)
}

type NopObserver struct{}

func (self NopObserver) OnCommand(cmd Command, err error)                          {}
func (self NopObserver) OnTick(dt time.Duration)                                   {}
func (self NopObserver) OnEdgeEnter(edge structs.Edge, cause navigator.EnterCause) {}
func (self NopObserver) OnDeadEnd(node int32)                                      {}
