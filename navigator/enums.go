package navigator

import (
	"encoding/json"
)

//*******************************************
// enums
//*******************************************

type State byte

const (
	ON_EDGE     State = 0
	AT_JUNCTION State = 1
	AUTO_PAUSED State = 2
)

func (self State) String() string {
	switch self {
	case ON_EDGE:
		return "on-edge"
	case AT_JUNCTION:
		return "at-junction"
	case AUTO_PAUSED:
		return "auto-paused"
	default:
		panic("unknown navigator state")
	}
}
func (self State) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}

type Mode byte

const (
	MANUAL Mode = 0
	AUTO   Mode = 1
)

func (self Mode) String() string {
	switch self {
	case MANUAL:
		return "manual"
	case AUTO:
		return "auto"
	default:
		panic("unknown navigator mode")
	}
}
func (self Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}

// Why an edge was entered.
type EnterCause byte

const (
	ENTER_CONTINUE EnterCause = 0
	ENTER_CONFIRM  EnterCause = 1
	ENTER_AUTO     EnterCause = 2
)

func (self EnterCause) String() string {
	switch self {
	case ENTER_CONTINUE:
		return "continue"
	case ENTER_CONFIRM:
		return "confirm"
	case ENTER_AUTO:
		return "auto"
	default:
		panic("unknown enter cause")
	}
}
