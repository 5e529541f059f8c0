//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"runtime/interrupt"

	"dhtnode-go/drivers/dht"
)

// MachinePins hands out TinyGo machine pins by GP number.
type MachinePins struct{}

func (MachinePins) ByNumber(n int) (dht.Pin, bool) {
	if n < 0 || n > 29 {
		return nil, false
	}
	return machinePin{p: machine.Pin(n)}, true
}

type machinePin struct {
	p machine.Pin
}

func (m machinePin) SetLevel(high bool) error {
	if high {
		// Release to the pull-up rather than driving high; the sensor
		// shares the line.
		m.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		return nil
	}
	m.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	m.p.Low()
	return nil
}

func (m machinePin) Level() (bool, error) {
	return m.p.Get(), nil
}

// irqGuard masks interrupts for real on MCU targets.
type irqGuard struct {
	state interrupt.State
}

func (g *irqGuard) DisableInterrupts() { g.state = interrupt.Disable() }
func (g *irqGuard) EnableInterrupts()  { interrupt.Restore(g.state) }

// Default is the RP2 capability set.
func Default() Set {
	return Set{
		Pins:  MachinePins{},
		Delay: SpinDelay{},
		Guard: &irqGuard{},
	}
}
