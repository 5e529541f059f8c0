package platform

import (
	"dhtnode-go/drivers/dht"
	"dhtnode-go/drivers/dht/dhttest"
)

// SimPins hands out one scripted simulator for every requested pin number.
// Useful for demos and tests off-target.
type SimPins struct {
	Sim *dhttest.Sim
}

func (s SimPins) ByNumber(n int) (dht.Pin, bool) {
	return s.Sim, true
}

// NewSimSet builds a consistent capability set around one simulator that
// answers every read with frame.
func NewSimSet(frame [5]byte) (Set, *dhttest.Sim) {
	sim := dhttest.NewSim(frame)
	return Set{
		Pins:  SimPins{Sim: sim},
		Delay: sim, // virtual time; must be the simulator's own clock
		Guard: sim,
	}, sim
}
