// Package dhtdev registers the "dht11" and "dht22" device types with the
// HAL builder registry.
package dhtdev

import (
	"time"

	"dhtnode-go/drivers/dht"
	"dhtnode-go/errcode"
	"dhtnode-go/services/hal"
)

func init() {
	hal.RegisterBuilder("dht11", builder{variant: "dht11"})
	hal.RegisterBuilder("dht22", builder{variant: "dht22"})
}

type builder struct {
	variant string
}

func (b builder) Build(in hal.BuildInput) (hal.BuildOutput, error) {
	p, ok := params(in.Params)
	if !ok {
		return hal.BuildOutput{}, errcode.InvalidParams
	}
	pin, ok := in.Pins.ByNumber(p.Pin)
	if !ok {
		return hal.BuildOutput{}, errcode.UnknownPin
	}

	var dev dht.Sensor
	if b.variant == "dht11" {
		dev = dht.NewDHT11(in.Guard, in.Delay, pin)
	} else {
		dev = dht.NewDHT22(in.Guard, in.Delay, pin)
	}

	out := hal.BuildOutput{
		Adaptor: hal.NewDHTAdaptor(in.DeviceID, dev, b.variant, p.Pin,
			time.Duration(p.MinIntervalMs)*time.Millisecond),
	}
	if p.PollMs > 0 {
		out.SampleEvery = time.Duration(p.PollMs) * time.Millisecond
	}
	return out, nil
}

// params accepts either the typed struct or the JSON map shape.
func params(v any) (hal.DHTParams, bool) {
	switch p := v.(type) {
	case hal.DHTParams:
		return p, p.Pin >= 0
	case *hal.DHTParams:
		if p == nil {
			return hal.DHTParams{}, false
		}
		return *p, p.Pin >= 0
	case map[string]any:
		out := hal.DHTParams{Pin: -1}
		if n, ok := asInt(p["pin"]); ok {
			out.Pin = n
		}
		if n, ok := asInt(p["min_interval_ms"]); ok {
			out.MinIntervalMs = n
		}
		if n, ok := asInt(p["poll_ms"]); ok {
			out.PollMs = n
		}
		return out, out.Pin >= 0
	default:
		return hal.DHTParams{}, false
	}
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64: // encoding/json numbers
		return int(x), true
	default:
		return 0, false
	}
}
