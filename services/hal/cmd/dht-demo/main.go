// Command dht-demo reads a DHT sensor through the HAL measurement worker
// and prints fixed-point samples.
//
// On Linux it uses the periph.io GPIO backend:
//
//	dht-demo -type dht22 -pin 4 -n 5
//
// On other hosted targets the platform falls back to a scripted waveform
// simulator, which makes the command double as a smoke test for the whole
// driver/adaptor/worker stack.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"dhtnode-go/services/hal"
	"dhtnode-go/services/hal/internal/platform"
	"dhtnode-go/types"

	// Register device builders.
	_ "dhtnode-go/services/hal/devices/dht"
)

func main() {
	var (
		devType  = flag.String("type", "dht22", "sensor type: dht11 or dht22")
		pinNum   = flag.Int("pin", 4, "GPIO pin number of the data line")
		count    = flag.Int("n", 3, "number of readings")
		interval = flag.Duration("interval", 2500*time.Millisecond, "spacing between readings")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	set := platform.Default()
	out, err := hal.BuildDevice(ctx, hal.DevCfg{
		ID:     *devType + "-0",
		Type:   *devType,
		Params: hal.DHTParams{Pin: *pinNum},
	}, set.Pins, set.Delay, set.Guard)
	if err != nil {
		log.Fatalf("build %s on pin %d: %v", *devType, *pinNum, err)
	}

	for _, c := range out.Adaptor.Capabilities() {
		fmt.Printf("capability %-11s %+v\n", c.Kind, c.Info)
	}

	w := hal.NewMeasurementWorker(hal.WorkerConfig{
		CollectTimeout: time.Second,
	})
	w.Start(ctx)

	for i := 0; i < *count; i++ {
		if !w.Submit(hal.MeasureReq{ID: out.Adaptor.ID(), Adaptor: out.Adaptor, Prio: true}) {
			log.Fatal("worker queue full")
		}
		r := <-w.Results()
		if r.Err != nil {
			fmt.Printf("read %d: error: %v\n", i+1, r.Err)
		} else {
			printSample(i+1, r.Sample)
		}
		if i+1 < *count {
			time.Sleep(*interval)
		}
	}
}

func printSample(n int, s hal.Sample) {
	var deciC int16
	var rhx100 uint16
	for _, r := range s {
		switch p := r.Payload.(type) {
		case types.TemperatureValue:
			deciC = p.DeciC
		case types.HumidityValue:
			rhx100 = p.RHx100
		}
	}
	fmt.Printf("read %d: %d.%d C  %d.%02d %%RH\n",
		n, deciC/10, abs(int(deciC))%10, rhx100/100, rhx100%100)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
