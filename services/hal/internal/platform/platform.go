// Package platform supplies the hardware capabilities the dht driver is
// generic over: pin factories, a microsecond delayer, and an interrupt
// guard, selected per build target.
package platform

import (
	"time"

	"dhtnode-go/drivers/dht"
	"dhtnode-go/services/hal"
)

// Set bundles the capabilities a device build needs. Pins, Delay and Guard
// must come from the same Set: the simulator's pins only move when its own
// delayer advances virtual time.
type Set struct {
	Pins  hal.PinFactory
	Delay dht.Delayer
	Guard dht.InterruptGuard
}

// SpinDelay busy-waits on the monotonic clock. Sleeping is useless at 1us
// granularity on a hosted OS; the scheduler's wake-up latency is orders of
// magnitude above the bit discrimination threshold.
type SpinDelay struct{}

func (SpinDelay) DelayUs(us uint32) {
	d := time.Duration(us) * time.Microsecond
	start := time.Now()
	for time.Since(start) < d {
	}
}
