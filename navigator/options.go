package navigator

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidOptions = errors.New("invalid navigator options")

//*******************************************
// navigator options
//*******************************************

type Options struct {
	// Step of one manual move in metres.
	NavSpeed float64 `yaml:"nav-speed"`
	// Distance to a vertex (metres) at which the walker counts as being at a junction.
	VertexTolerance float64 `yaml:"vertex-tolerance"`
	// Extra distance past VertexTolerance where a newly entered edge is joined.
	ExitMargin float64 `yaml:"exit-margin"`
	// Distance (metres) after entering an edge during which no junction is detected.
	LeaveJunction float64 `yaml:"leave-junction"`
	// Turns within this many degrees of 180 count as doubling back.
	ReversalEpsilon float64 `yaml:"reversal-epsilon"`
	// Maximum distance (metres) of the start point to the network, <= 0 disables the check.
	SnapTolerance float64 `yaml:"snap-tolerance"`
	// Progress on the longest edge when no start point is given.
	StartProgress float64 `yaml:"start-progress"`

	AutoSpeed    float64       `yaml:"auto-speed"`
	MinAutoSpeed float64       `yaml:"min-auto-speed"`
	MaxAutoSpeed float64       `yaml:"max-auto-speed"`
	SpeedStep    float64       `yaml:"speed-step"`
	StraightBias float64       `yaml:"straight-bias"`
	AutoPause    time.Duration `yaml:"auto-pause"`
}

func DefaultOptions() Options {
	return Options{
		NavSpeed:        6,
		VertexTolerance: 12,
		ExitMargin:      3,
		LeaveJunction:   4,
		ReversalEpsilon: 1,
		SnapTolerance:   0,
		StartProgress:   0.1,

		AutoSpeed:    8,
		MinAutoSpeed: 1,
		MaxAutoSpeed: 20,
		SpeedStep:    1,
		StraightBias: 15,
		AutoPause:    250 * time.Millisecond,
	}
}

// Checks the options for values the walker cannot work with.
func (self Options) Validate() error {
	switch {
	case self.NavSpeed <= 0:
		return fmt.Errorf("%w: nav-speed %v must be positive", ErrInvalidOptions, self.NavSpeed)
	case self.VertexTolerance < 0 || self.ExitMargin < 0 || self.LeaveJunction < 0:
		return fmt.Errorf("%w: vertex-tolerance, exit-margin and leave-junction must not be negative", ErrInvalidOptions)
	case self.ReversalEpsilon < 0 || self.ReversalEpsilon >= 180:
		return fmt.Errorf("%w: reversal-epsilon %v outside [0, 180)", ErrInvalidOptions, self.ReversalEpsilon)
	case self.StartProgress < 0 || self.StartProgress > 1:
		return fmt.Errorf("%w: start-progress %v outside [0, 1]", ErrInvalidOptions, self.StartProgress)
	case self.MinAutoSpeed <= 0 || self.MinAutoSpeed > self.MaxAutoSpeed:
		return fmt.Errorf("%w: auto speed range [%v, %v] is empty", ErrInvalidOptions, self.MinAutoSpeed, self.MaxAutoSpeed)
	case self.AutoSpeed < self.MinAutoSpeed || self.AutoSpeed > self.MaxAutoSpeed:
		return fmt.Errorf("%w: auto-speed %v outside [%v, %v]", ErrInvalidOptions, self.AutoSpeed, self.MinAutoSpeed, self.MaxAutoSpeed)
	case self.SpeedStep < 0:
		return fmt.Errorf("%w: speed-step %v is negative", ErrInvalidOptions, self.SpeedStep)
	case self.StraightBias < 0 || self.StraightBias > 180:
		return fmt.Errorf("%w: straight-bias %v outside [0, 180]", ErrInvalidOptions, self.StraightBias)
	case self.AutoPause < 0:
		return fmt.Errorf("%w: auto-pause %v is negative", ErrInvalidOptions, self.AutoPause)
	}
	return nil
}
