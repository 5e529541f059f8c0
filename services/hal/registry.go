// services/hal/registry.go
package hal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dhtnode-go/drivers/dht"
)

// BuildInput is provided to a device builder to construct an Adaptor.
type BuildInput struct {
	Ctx      context.Context
	Pins     PinFactory
	Delay    dht.Delayer
	Guard    dht.InterruptGuard
	DeviceID string
	Type     string
	Params   any
}

// BuildOutput is returned by a builder.
type BuildOutput struct {
	Adaptor     Adaptor
	SampleEvery time.Duration // 0 if not a periodic producer
}

// Builder constructs an Adaptor from config and platform factories.
type Builder interface {
	Build(in BuildInput) (BuildOutput, error)
}

var (
	muBuilders sync.RWMutex
	builders   = map[string]Builder{}
)

// RegisterBuilder installs a builder for a given device type string.
// It panics on duplicate registration to catch mistakes at start-up.
func RegisterBuilder(deviceType string, b Builder) {
	muBuilders.Lock()
	defer muBuilders.Unlock()
	if deviceType == "" {
		panic("hal: empty device type for builder")
	}
	if _, exists := builders[deviceType]; exists {
		panic(fmt.Sprintf("hal: builder already registered for type %q", deviceType))
	}
	builders[deviceType] = b
}

// findBuilder looks up a registered builder by type.
func findBuilder(deviceType string) (Builder, bool) {
	muBuilders.RLock()
	defer muBuilders.RUnlock()
	b, ok := builders[deviceType]
	return b, ok
}

// BuildDevice resolves one configured device into an adaptor via its
// registered builder.
func BuildDevice(ctx context.Context, cfg DevCfg, pins PinFactory, delay dht.Delayer, guard dht.InterruptGuard) (BuildOutput, error) {
	b, ok := findBuilder(cfg.Type)
	if !ok {
		return BuildOutput{}, fmt.Errorf("hal: no builder for device type %q", cfg.Type)
	}
	return b.Build(BuildInput{
		Ctx:      ctx,
		Pins:     pins,
		Delay:    delay,
		Guard:    guard,
		DeviceID: cfg.ID,
		Type:     cfg.Type,
		Params:   cfg.Params,
	})
}
