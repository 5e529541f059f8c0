// Package dht provides a driver for the DHT11 and DHT22/AM2302
// humidity/temperature sensors, which share one bit-banged single-wire
// protocol and differ only in how the 40-bit frame is decoded.
//
// The protocol is timing-critical: the driver busy-polls the data line at
// 1us granularity and classifies each data pulse by its width. A late poll
// does not fail loudly, it produces a wrong bit, so every frame is guarded
// by the transmitted checksum and a physical range check before a Reading
// is handed back.
//
// The driver owns no hardware. It is constructed over three injected
// capabilities: a bidirectional Pin, a microsecond Delayer, and an
// InterruptGuard that can suspend preemption for the duration of a read.
// On hosted operating systems scheduling jitter easily exceeds the bit
// discrimination threshold; see services/hal/internal/platform for guard
// and delay providers that make reads workable there.
package dht

import "errors"

// Protocol timing, in microseconds. The bit threshold is the datasheet
// boundary between a short "0" pulse (~26us) and a long "1" pulse (~70us).
const (
	wakeLowUs      = 3000
	releaseHighUs  = 25
	ackTimeoutUs   = 85
	bitHighWaitUs  = 55
	bitLowWaitUs   = 70
	bitThresholdUs = 30
)

// frameLen is the full transmission: four data bytes plus a checksum byte.
const frameLen = 5

// Errors returned by the driver.
var (
	// ErrNotPresent means the sensor never acknowledged the wake/request
	// sequence: wrong wiring or no device on the pin.
	ErrNotPresent = errors.New("dht: device not found")
	// ErrTimeout means the sensor acknowledged but a later bit-level wait
	// exceeded its bound: noise, disconnection mid-read, or bad timing.
	ErrTimeout = errors.New("dht: timed out waiting for a read")
	// ErrInvalidData means the frame checksummed correctly but decoded to a
	// physically impossible value, e.g. humidity outside 0..100.
	ErrInvalidData = errors.New("dht: data out of range")
)

// ChecksumError reports a frame whose transmitted checksum byte does not
// match the sum of the four data bytes.
type ChecksumError struct {
	Expected uint8 // checksum byte as transmitted (frame byte 4)
	Computed uint8 // sum of frame bytes 0..3 mod 256
}

func (e *ChecksumError) Error() string { return "dht: checksum mismatch" }

// PinError wraps a hardware-level failure from the Pin capability.
type PinError struct {
	Err error
}

func (e *PinError) Error() string { return "dht: pin error" }
func (e *PinError) Unwrap() error { return e.Err }

// pinErr is the single conversion point from a capability error to a
// driver error, used at every fallible pin call.
func pinErr(err error) error { return &PinError{Err: err} }

// Pin is the single bidirectional data line. SetLevel(false) actively
// drives the line low; SetLevel(true) releases it to the pull-up (the
// implementation decides whether that is an output-high or an input with
// pull-up). Level samples the line.
type Pin interface {
	SetLevel(high bool) error
	Level() (bool, error)
}

// Delayer busy-delays for the given number of microseconds. One microsecond
// is the polling granularity the protocol demands; a coarser delay will
// misclassify bits.
type Delayer interface {
	DelayUs(us uint32)
}

// InterruptGuard brackets a read with suspend/resume of preemption sources.
// DisableInterrupts is called before the wire is touched and
// EnableInterrupts after the read finishes, on every path.
type InterruptGuard interface {
	DisableInterrupts()
	EnableInterrupts()
}

// NoopGuard is the default, do-nothing InterruptGuard.
type NoopGuard struct{}

func (NoopGuard) DisableInterrupts() {}
func (NoopGuard) EnableInterrupts()  {}

// Reading is one validated measurement.
type Reading struct {
	humidity    float32
	temperature float32
}

// Humidity returns relative humidity as a percentage, 0.0 to 100.0.
func (r Reading) Humidity() float32 { return r.humidity }

// Temperature returns the temperature in degrees Celsius.
func (r Reading) Temperature() float32 { return r.temperature }

// Sensor is the variant-independent read interface.
type Sensor interface {
	Read() (Reading, error)
}

// decodeFunc maps a checksum-valid frame to (humidity %, temperature C).
type decodeFunc func(buf *[frameLen]byte) (float32, float32)

// Device drives one sensor on one pin. It holds only the injected
// capabilities and the variant decoder; no state survives a read, so the
// device remains usable after any error.
type Device struct {
	guard  InterruptGuard
	delay  Delayer
	pin    Pin
	decode decodeFunc
}

var _ Sensor = (*Device)(nil)

// NewDHT11 returns a driver for the DHT11 (integer resolution).
func NewDHT11(guard InterruptGuard, delay Delayer, pin Pin) *Device {
	return &Device{guard: guard, delay: delay, pin: pin, decode: decodeDHT11}
}

// NewDHT22 returns a driver for the DHT22/AM2302 (tenths resolution,
// sign-magnitude negative temperatures).
func NewDHT22(guard InterruptGuard, delay Delayer, pin Pin) *Device {
	return &Device{guard: guard, delay: delay, pin: pin, decode: decodeDHT22}
}

// Read performs one full measurement: wake pulse, request, acknowledgment,
// 40-bit sampling, checksum, decode and range check. It blocks for up to
// roughly 8.2ms worst case and must own the pin exclusively for that time.
// The guard is engaged for the whole exchange.
func (d *Device) Read() (Reading, error) {
	d.guard.DisableInterrupts()
	r, err := d.readUninterruptible()
	d.guard.EnableInterrupts()
	return r, err
}

func (d *Device) readUninterruptible() (Reading, error) {
	var buf [frameLen]byte

	// Wake the sensor with a long low pulse, then release for the request.
	if err := d.pin.SetLevel(false); err != nil {
		return Reading{}, pinErr(err)
	}
	d.delay.DelayUs(wakeLowUs)
	if err := d.pin.SetLevel(true); err != nil {
		return Reading{}, pinErr(err)
	}
	d.delay.DelayUs(releaseHighUs)

	// The sensor acknowledges with ~80us low followed by ~80us high. A
	// missing transition here means no sensor, not a stalled one.
	if _, err := d.waitForLevel(true, ackTimeoutUs, ErrNotPresent); err != nil {
		return Reading{}, err
	}
	if _, err := d.waitForLevel(false, ackTimeoutUs, ErrNotPresent); err != nil {
		return Reading{}, err
	}

	// 40 data bits, MSB first, byte-major. Each bit is a ~50us low
	// preamble followed by a high pulse whose width carries the value.
	for bit := 0; bit < 8*frameLen; bit++ {
		if _, err := d.waitForLevel(true, bitHighWaitUs, ErrTimeout); err != nil {
			return Reading{}, err
		}
		elapsed, err := d.waitForLevel(false, bitLowWaitUs, ErrTimeout)
		if err != nil {
			return Reading{}, err
		}
		if elapsed > bitThresholdUs {
			buf[bit/8] |= 1 << (7 - bit%8)
		}
	}

	checksum := Checksum(buf[0], buf[1], buf[2], buf[3])
	if buf[4] != checksum {
		return Reading{}, &ChecksumError{Expected: buf[4], Computed: checksum}
	}

	humidity, temperature := d.decode(&buf)
	if humidity < 0 || humidity > 100 {
		return Reading{}, ErrInvalidData
	}
	return Reading{humidity: humidity, temperature: temperature}, nil
}

// waitForLevel polls the pin once per microsecond until it reports target,
// returning the elapsed tick count (0 if the first poll matches). When the
// count exceeds timeoutUs, onTimeout is returned; which error that is
// distinguishes an absent sensor from one that stalled mid-frame. A pin
// failure aborts the wait immediately.
func (d *Device) waitForLevel(target bool, timeoutUs uint32, onTimeout error) (uint32, error) {
	for elapsed := uint32(0); elapsed <= timeoutUs; elapsed++ {
		level, err := d.pin.Level()
		if err != nil {
			return 0, pinErr(err)
		}
		if level == target {
			return elapsed, nil
		}
		d.delay.DelayUs(1)
	}
	return 0, onTimeout
}

// Checksum is the frame checksum: the sum of the four data bytes mod 256.
func Checksum(b0, b1, b2, b3 byte) uint8 {
	return uint8(uint16(b0) + uint16(b1) + uint16(b2) + uint16(b3))
}

// decodeDHT11 reads whole-degree, whole-percent values. The fractional
// bytes (1 and 3) are transmitted but always zero on this variant.
func decodeDHT11(buf *[frameLen]byte) (float32, float32) {
	return float32(buf[0]), float32(buf[2])
}

// decodeDHT22 reads tenths. Temperature is sign-magnitude: the top bit of
// byte 2 marks a negative value, the remaining 15 bits are the magnitude.
func decodeDHT22(buf *[frameLen]byte) (float32, float32) {
	humidity := float32(uint16(buf[0])<<8|uint16(buf[1])) / 10.0
	temperature := float32(uint16(buf[2]&0x7f)<<8|uint16(buf[3])) / 10.0
	if buf[2]&0x80 != 0 {
		temperature = -temperature
	}
	return humidity, temperature
}
