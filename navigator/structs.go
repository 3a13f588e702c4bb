package navigator

import (
	"fmt"

	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/structs"
)

//*******************************************
// navigator structs
//*******************************************

// Position and view direction handed to the renderer.
type Pose struct {
	Loc      geo.Coord    `json:"loc"`
	Heading  float64      `json:"heading"`
	Edge     structs.Edge `json:"edge"`
	Progress float64      `json:"progress"`
}

// Outgoing edge at a vertex scored by the turn needed to take it.
type Choice struct {
	Edge    structs.Edge `json:"edge"`
	Bearing float64      `json:"bearing"`
	Turn    float64      `json:"turn"`
}

// Read-only snapshot for display.
type Status struct {
	Mode        Mode    `json:"mode"`
	State       State   `json:"state"`
	Choices     int     `json:"choices"`
	ChoiceIndex int     `json:"choice_index"`
	Speed       float64 `json:"speed"`
	Progress    float64 `json:"progress"`
	Visited     int     `json:"visited"`
	Pose        Pose    `json:"pose"`
}

func (self Status) String() string {
	onoff := "OFF"
	if self.Mode == AUTO {
		onoff = "ON"
	}
	str := fmt.Sprintf("Auto: %s • Vel: %.1f m/s • Progreso %.0f%%", onoff, self.Speed, self.Progress)
	if self.State == AT_JUNCTION && self.Choices > 0 {
		str += fmt.Sprintf(" • Opción %d/%d", self.ChoiceIndex+1, self.Choices)
	}
	return str
}

//*******************************************
// listener
//*******************************************

// Receives navigator events, called synchronously from the navigator methods.
type IListener interface {
	OnPose(pose Pose)
	OnEdgeEnter(edge structs.Edge, cause EnterCause)
	OnDeadEnd(node int32)
}

type NopListener struct{}

func (self NopListener) OnPose(pose Pose)                                {}
func (self NopListener) OnEdgeEnter(edge structs.Edge, cause EnterCause) {}
func (self NopListener) OnDeadEnd(node int32)                            {}
