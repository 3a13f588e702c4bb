package main

//**********************************************************
// requests
//**********************************************************

type CommandRequest struct {
	Command string `json:"command"`
}

type SpeedRequest struct {
	// Change of the auto speed in m/s.
	Delta float64 `json:"delta"`
}

type TickerRequest struct {
	Running bool `json:"running"`
}
