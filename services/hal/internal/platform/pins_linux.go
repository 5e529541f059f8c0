//go:build linux && !rp2040 && !rp2350

package platform

import (
	"strconv"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"dhtnode-go/drivers/dht"
)

// PeriphPins resolves pins through periph.io's host GPIO registry.
// Numbers resolve by name ("4" or "GPIO4" both work with gpioreg).
type PeriphPins struct {
	once    sync.Once
	initErr error
}

func (p *PeriphPins) ByNumber(n int) (dht.Pin, bool) {
	p.once.Do(func() { _, p.initErr = host.Init() })
	if p.initErr != nil {
		return nil, false
	}
	io := gpioreg.ByName(strconv.Itoa(n))
	if io == nil {
		return nil, false
	}
	return &periphPin{io: io}, true
}

// periphPin maps the driver's open-drain view onto periph.io calls:
// driving low is an output, "high" releases the line to the pull-up by
// flipping back to input.
type periphPin struct {
	io gpio.PinIO
}

func (p *periphPin) SetLevel(high bool) error {
	if high {
		return p.io.In(gpio.PullUp, gpio.NoEdge)
	}
	return p.io.Out(gpio.Low)
}

func (p *periphPin) Level() (bool, error) {
	return p.io.Read() == gpio.High, nil
}

// Default is the Linux capability set: real GPIO, a spinning delayer and
// the GC-off guard.
func Default() Set {
	return Set{
		Pins:  &PeriphPins{},
		Delay: SpinDelay{},
		Guard: &GCGuard{},
	}
}
