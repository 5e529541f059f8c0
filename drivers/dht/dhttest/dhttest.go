// Package dhttest provides a scripted single-wire waveform simulator for
// exercising the dht driver without hardware.
//
// The simulator runs on virtual time: the driver's Delayer advances a
// microsecond counter and pin reads are instantaneous, which matches the
// driver's poll-then-delay loop exactly. The sensor's response is a list of
// (level, duration) segments generated from a 5-byte frame and anchored at
// the moment the driver releases the line after the wake pulse.
package dhttest

import "dhtnode-go/drivers/dht"

// Sensor response timing, in microseconds.
const (
	respDelayUs   = 20 // sensor reaction time after the line is released
	ackLowUs      = 80
	ackHighUs     = 80
	bitPreambleUs = 50 // low preamble before every data pulse
	bitZeroUs     = 26 // short "0" pulse
	bitOneUs      = 70 // long "1" pulse
)

type segment struct {
	level bool
	durUs uint64
}

// Sim is a scripted sensor on a virtual-time single-wire line. It
// implements dht.Pin, dht.Delayer and dht.InterruptGuard, and records
// enough about the exchange for tests to assert on.
type Sim struct {
	nowUs uint64

	respond bool
	segs    []segment
	armed   bool
	t0      uint64

	drivingLow bool
	droveLowAt uint64

	levelCalls     int
	failLevelAfter int
	levelErr       error
	setErr         error

	// WakeLowUs is the duration of the most recent low pulse the driver
	// held before releasing the line.
	WakeLowUs uint64
	// Disables and Enables count guard invocations.
	Disables int
	Enables  int
}

var (
	_ dht.Pin            = (*Sim)(nil)
	_ dht.Delayer        = (*Sim)(nil)
	_ dht.InterruptGuard = (*Sim)(nil)
)

// NewSim returns a simulator that answers every read with frame.
func NewSim(frame [5]byte) *Sim {
	return &Sim{respond: true, segs: segmentsFor(frame, 40)}
}

// NewSilentSim returns a simulator that never acknowledges, as if no
// sensor were wired to the pin.
func NewSilentSim() *Sim {
	return &Sim{}
}

// segmentsFor builds the response waveform: ack low/high, then the first
// nbits data pulses of frame. With nbits < 40 the line is simply released
// after the last pulse, which models a sensor stalling mid-frame.
func segmentsFor(frame [5]byte, nbits int) []segment {
	segs := []segment{{false, ackLowUs}, {true, ackHighUs}}
	for bit := 0; bit < nbits; bit++ {
		segs = append(segs, segment{false, bitPreambleUs})
		if frame[bit/8]&(1<<(7-bit%8)) != 0 {
			segs = append(segs, segment{true, bitOneUs})
		} else {
			segs = append(segs, segment{true, bitZeroUs})
		}
	}
	if nbits == 40 {
		// End of frame: the sensor pulls low once more before releasing
		// the line; without this the last bit's pulse never terminates.
		segs = append(segs, segment{false, bitPreambleUs})
	}
	return segs
}

// StallAfterBits truncates the scripted response so the sensor goes quiet
// after n data pulses.
func (s *Sim) StallAfterBits(frame [5]byte, n int) {
	s.respond = true
	s.segs = segmentsFor(frame, n)
}

// AckLowOnly scripts a sensor that pulls the line low for the first ack
// phase and then stalls low, so the ack-high wait never completes.
func (s *Sim) AckLowOnly() {
	s.respond = true
	s.segs = []segment{{false, 10 * ackLowUs}}
}

// AckHighOnly scripts a sensor that completes the ack low/high pair but
// never starts the first data bit, so the ack-low wait times out.
func (s *Sim) AckHighOnly() {
	s.respond = true
	s.segs = []segment{{false, ackLowUs}}
	// The line idles at pull-up high once segments are exhausted.
}

// FailSetLevel makes every drive of the line fail with err.
func (s *Sim) FailSetLevel(err error) { s.setErr = err }

// FailLevelAfter makes the n-th read of the line (1-indexed) and every
// read after it fail with err.
func (s *Sim) FailLevelAfter(n int, err error) {
	s.failLevelAfter = n
	s.levelErr = err
}

// Now returns the virtual time in microseconds.
func (s *Sim) Now() uint64 { return s.nowUs }

func (s *Sim) SetLevel(high bool) error {
	if s.setErr != nil {
		return s.setErr
	}
	if !high {
		if !s.drivingLow {
			s.drivingLow = true
			s.droveLowAt = s.nowUs
		}
		return nil
	}
	if s.drivingLow {
		s.drivingLow = false
		s.WakeLowUs = s.nowUs - s.droveLowAt
		if s.respond {
			// Sensor reacts shortly after the release.
			s.t0 = s.nowUs + respDelayUs
			s.armed = true
		}
	}
	return nil
}

func (s *Sim) Level() (bool, error) {
	s.levelCalls++
	if s.failLevelAfter > 0 && s.levelCalls >= s.failLevelAfter {
		return false, s.levelErr
	}
	if s.drivingLow {
		return false, nil
	}
	if !s.armed || s.nowUs < s.t0 {
		return true, nil // pull-up idle
	}
	t := s.nowUs - s.t0
	for _, seg := range s.segs {
		if t < seg.durUs {
			return seg.level, nil
		}
		t -= seg.durUs
	}
	return true, nil // transmission over, line released
}

func (s *Sim) DelayUs(us uint32) { s.nowUs += uint64(us) }

func (s *Sim) DisableInterrupts() { s.Disables++ }
func (s *Sim) EnableInterrupts()  { s.Enables++ }

// Frame builds a 5-byte frame from four data bytes, filling in the
// checksum.
func Frame(b0, b1, b2, b3 byte) [5]byte {
	return [5]byte{b0, b1, b2, b3, dht.Checksum(b0, b1, b2, b3)}
}

// FrameDHT22 encodes tenths-resolution values the way a DHT22 transmits
// them: big-endian tenths for humidity, sign-magnitude tenths for
// temperature.
func FrameDHT22(rhTenths uint16, tempTenths int16) [5]byte {
	var sign byte
	mag := uint16(tempTenths)
	if tempTenths < 0 {
		sign = 0x80
		mag = uint16(-tempTenths)
	}
	return Frame(
		byte(rhTenths>>8), byte(rhTenths),
		byte(mag>>8)|sign, byte(mag),
	)
}

// FrameDHT11 encodes whole-unit values the way a DHT11 transmits them:
// integral humidity in byte 0, integral temperature in byte 2, fractional
// bytes zero.
func FrameDHT11(rh, temp byte) [5]byte {
	return Frame(rh, 0, temp, 0)
}

// Corrupt returns frame with its checksum byte damaged.
func Corrupt(frame [5]byte) [5]byte {
	frame[4] ^= 0x55
	return frame
}
