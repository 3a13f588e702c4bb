package session

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

//*******************************************
// commands
//*******************************************

// Input independent walker command.
type Command byte

const (
	FORWARD      Command = 0
	BACK         Command = 1
	LEFT         Command = 2
	RIGHT        Command = 3
	CONFIRM      Command = 4
	AUTO         Command = 5
	STOP         Command = 6
	FASTER       Command = 7
	SLOWER       Command = 8
	TICKER_START Command = 9
	TICKER_PAUSE Command = 10
)

func (self Command) String() string {
	switch self {
	case FORWARD:
		return "forward"
	case BACK:
		return "back"
	case LEFT:
		return "left"
	case RIGHT:
		return "right"
	case CONFIRM:
		return "confirm"
	case AUTO:
		return "auto"
	case STOP:
		return "stop"
	case FASTER:
		return "faster"
	case SLOWER:
		return "slower"
	case TICKER_START:
		return "start"
	case TICKER_PAUSE:
		return "pause"
	default:
		panic("unknown command")
	}
}
func (self Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *Command) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	cmd, err := CommandFromString(s)
	*self = cmd
	return err
}

// Parses a command name, key names of the usual bindings are accepted as well.
func CommandFromString(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "up", "arrowup":
		return FORWARD, nil
	case "back", "down", "arrowdown":
		return BACK, nil
	case "left", "arrowleft":
		return LEFT, nil
	case "right", "arrowright":
		return RIGHT, nil
	case "confirm", "enter":
		return CONFIRM, nil
	case "auto", "a":
		return AUTO, nil
	case "stop", "escape":
		return STOP, nil
	case "faster", "+":
		return FASTER, nil
	case "slower", "-":
		return SLOWER, nil
	case "start":
		return TICKER_START, nil
	case "pause":
		return TICKER_PAUSE, nil
	default:
		return FORWARD, ErrUnknownCommand
	}
}
