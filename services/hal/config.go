// services/hal/config.go
package hal

// Minimal JSON config structures.

type HALConfig struct {
	Version int      `json:"version"`
	Devices []DevCfg `json:"devices"`
}

type DevCfg struct {
	ID     string `json:"id"`   // "dht22-0"
	Type   string `json:"type"` // "dht11" | "dht22"
	Params any    `json:"params,omitempty"`
}

// DHTParams is the params shape for dht11/dht22 devices.
type DHTParams struct {
	Pin           int `json:"pin"`                       // single-wire data pin number
	MinIntervalMs int `json:"min_interval_ms,omitempty"` // rest between reads; 0 = datasheet default
	PollMs        int `json:"poll_ms,omitempty"`         // periodic sampling; 0 = on demand only
}
