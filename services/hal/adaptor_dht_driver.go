// services/hal/adaptor_dht_driver.go
package hal

import (
	"context"
	"time"

	"dhtnode-go/drivers/dht"
	"dhtnode-go/errcode"
	"dhtnode-go/types"
	"dhtnode-go/x/mathx"
	"dhtnode-go/x/timex"
)

// DefaultMinInterval is the sensor's required rest between reads. The
// datasheet asks for at least 2s on both variants; reading earlier yields
// stale or corrupt frames.
const DefaultMinInterval = 2 * time.Second

type dhtAdaptor struct {
	id          string
	sensor      dht.Sensor
	variant     string // "dht11" or "dht22"
	pin         int
	minInterval time.Duration
	lastRead    time.Time
}

// NewDHTAdaptor wraps a constructed dht sensor for the measurement worker.
// Trigger never touches the wire; it only reports how long the sensor must
// still rest. Collect performs the blocking read.
func NewDHTAdaptor(id string, sensor dht.Sensor, variant string, pin int, minInterval time.Duration) Adaptor {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &dhtAdaptor{
		id:          id,
		sensor:      sensor,
		variant:     variant,
		pin:         pin,
		minInterval: minInterval,
		// Let the line settle after power-up before the first read.
		lastRead: time.Now().Add(-minInterval + time.Second),
	}
}

func (a *dhtAdaptor) ID() string { return a.id }

func (a *dhtAdaptor) Capabilities() []CapInfo {
	return []CapInfo{
		{Kind: string(types.KindTemperature), Info: types.TemperatureInfo{Sensor: a.variant, Pin: a.pin, Bus: "gpio"}},
		{Kind: string(types.KindHumidity), Info: types.HumidityInfo{Sensor: a.variant, Pin: a.pin, Bus: "gpio"}},
	}
}

func (a *dhtAdaptor) Trigger(ctx context.Context) (time.Duration, error) {
	rest := time.Until(a.lastRead.Add(a.minInterval))
	if rest < 0 {
		rest = 0
	}
	return rest, nil
}

func (a *dhtAdaptor) Collect(ctx context.Context) (Sample, error) {
	r, err := a.sensor.Read()
	a.lastRead = time.Now()
	if err != nil {
		return nil, &errcode.E{C: errcode.MapDriverErr(err), Op: "read", Err: err}
	}

	ts := timex.NowMs()
	deciC := mathx.Clamp(roundFixed(r.Temperature(), 10), -32768, 32767)
	rhx100 := mathx.Clamp(roundFixed(r.Humidity(), 100), 0, 10000)
	return Sample{
		{Kind: string(types.KindTemperature), Payload: types.TemperatureValue{DeciC: int16(deciC)}, TsMs: ts},
		{Kind: string(types.KindHumidity), Payload: types.HumidityValue{RHx100: uint16(rhx100)}, TsMs: ts},
	}, nil
}

func (a *dhtAdaptor) Control(kind, method string, payload any) (any, error) {
	// No device-specific controls beyond the standard read cycle.
	return nil, ErrUnsupported
}

// roundFixed converts a float reading to fixed point at the given scale,
// rounding half away from zero. Plain truncation loses a count on values
// like 21.3 whose float32 form sits just below the decimal.
func roundFixed(v float32, scale int32) int32 {
	s := v * float32(scale)
	if s < 0 {
		return int32(s - 0.5)
	}
	return int32(s + 0.5)
}
