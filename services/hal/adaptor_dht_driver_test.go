// services/hal/adaptor_dht_driver_test.go
package hal

import (
	"context"
	"errors"
	"testing"
	"time"

	"dhtnode-go/drivers/dht"
	"dhtnode-go/drivers/dht/dhttest"
	"dhtnode-go/errcode"
	"dhtnode-go/types"
)

func TestDHTAdaptorCollect(t *testing.T) {
	sim := dhttest.NewSim(dhttest.FrameDHT22(600, 266)) // 60.0 %RH, 26.6 C
	dev := dht.NewDHT22(sim, sim, sim)
	ad := NewDHTAdaptor("dht0", dev, "dht22", 4, time.Second)

	ctx := context.Background()
	s, err := ad.Collect(ctx)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	temp := findReading(t, s, "temperature").Payload.(types.TemperatureValue)
	hum := findReading(t, s, "humidity").Payload.(types.HumidityValue)
	if temp.DeciC != 266 {
		t.Fatalf("deci_c = %d, want 266", temp.DeciC)
	}
	if hum.RHx100 != 6000 {
		t.Fatalf("rh_x100 = %d, want 6000", hum.RHx100)
	}
}

func TestDHTAdaptorCoolDown(t *testing.T) {
	sim := dhttest.NewSim(dhttest.FrameDHT11(45, 26))
	dev := dht.NewDHT11(sim, sim, sim)
	ad := NewDHTAdaptor("dht0", dev, "dht11", 4, 2*time.Second)

	ctx := context.Background()
	if _, err := ad.Collect(ctx); err != nil {
		t.Fatalf("collect: %v", err)
	}

	// Straight after a read the adaptor must ask for close to the full
	// rest interval before the next collect.
	rest, err := ad.Trigger(ctx)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if rest < 1500*time.Millisecond || rest > 2*time.Second {
		t.Fatalf("rest = %v, want ~2s", rest)
	}
}

func TestDHTAdaptorErrorMapping(t *testing.T) {
	sim := dhttest.NewSilentSim()
	dev := dht.NewDHT22(sim, sim, sim)
	ad := NewDHTAdaptor("dht0", dev, "dht22", 4, time.Second)

	_, err := ad.Collect(context.Background())
	if errcode.Of(err) != errcode.NotPresent {
		t.Fatalf("code = %v, want not_present", errcode.Of(err))
	}
	// The driver error stays reachable for callers that care.
	if !errors.Is(err, dht.ErrNotPresent) {
		t.Fatalf("err = %v, does not wrap ErrNotPresent", err)
	}
}

func TestDHTAdaptorCapabilities(t *testing.T) {
	sim := dhttest.NewSim(dhttest.FrameDHT22(600, 266))
	dev := dht.NewDHT22(sim, sim, sim)
	ad := NewDHTAdaptor("dht0", dev, "dht22", 7, 0)

	caps := ad.Capabilities()
	if len(caps) != 2 {
		t.Fatalf("capabilities = %d, want 2", len(caps))
	}
	ti, ok := caps[0].Info.(types.TemperatureInfo)
	if !ok || ti.Sensor != "dht22" || ti.Pin != 7 || ti.Bus != "gpio" {
		t.Fatalf("temperature info = %#v", caps[0].Info)
	}

	if _, err := ad.Control("temperature", "calibrate", nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("control err = %v, want ErrUnsupported", err)
	}
}

func TestRoundFixed(t *testing.T) {
	cases := []struct {
		v     float32
		scale int32
		want  int32
	}{
		{21.3, 10, 213}, // float32 21.3 sits just below 21.3
		{26.6, 10, 266},
		{-26.6, 10, -266},
		{0, 100, 0},
		{100.0, 100, 10000},
	}
	for _, c := range cases {
		if got := roundFixed(c.v, c.scale); got != c.want {
			t.Fatalf("roundFixed(%v, %d) = %d, want %d", c.v, c.scale, got, c.want)
		}
	}
}
