package dhtdev

import (
	"context"
	"errors"
	"testing"
	"time"

	"dhtnode-go/drivers/dht"
	"dhtnode-go/drivers/dht/dhttest"
	"dhtnode-go/errcode"
	"dhtnode-go/services/hal"
	"dhtnode-go/types"
)

type simPins struct {
	sim *dhttest.Sim
	pin int
}

func (f simPins) ByNumber(n int) (dht.Pin, bool) {
	if n != f.pin {
		return nil, false
	}
	return f.sim, true
}

func TestBuildAndRead(t *testing.T) {
	sim := dhttest.NewSim(dhttest.FrameDHT22(600, 266))
	pins := simPins{sim: sim, pin: 4}

	cfg := hal.DevCfg{
		ID:   "dht22-0",
		Type: "dht22",
		Params: map[string]any{
			"pin":     float64(4), // as encoding/json would deliver it
			"poll_ms": float64(5000),
		},
	}
	out, err := hal.BuildDevice(context.Background(), cfg, pins, sim, sim)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if out.SampleEvery != 5*time.Second {
		t.Fatalf("sample every = %v, want 5s", out.SampleEvery)
	}

	s, err := out.Adaptor.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, r := range s {
		if r.Kind == string(types.KindHumidity) {
			if v := r.Payload.(types.HumidityValue); v.RHx100 != 6000 {
				t.Fatalf("rh_x100 = %d, want 6000", v.RHx100)
			}
			return
		}
	}
	t.Fatal("no humidity reading in sample")
}

func TestBuildRejectsBadConfig(t *testing.T) {
	sim := dhttest.NewSim(dhttest.FrameDHT11(45, 26))
	pins := simPins{sim: sim, pin: 4}
	ctx := context.Background()

	_, err := hal.BuildDevice(ctx, hal.DevCfg{ID: "x", Type: "dht11"}, pins, sim, sim)
	if !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("missing params err = %v, want invalid_params", err)
	}

	_, err = hal.BuildDevice(ctx, hal.DevCfg{
		ID: "x", Type: "dht11", Params: hal.DHTParams{Pin: 9},
	}, pins, sim, sim)
	if !errors.Is(err, errcode.UnknownPin) {
		t.Fatalf("unknown pin err = %v, want unknown_pin", err)
	}

	_, err = hal.BuildDevice(ctx, hal.DevCfg{
		ID: "x", Type: "sht40", Params: hal.DHTParams{Pin: 4},
	}, pins, sim, sim)
	if err == nil {
		t.Fatal("unregistered type must fail")
	}
}
