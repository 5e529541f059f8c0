//go:build !linux && !rp2040 && !rp2350

package platform

import "dhtnode-go/drivers/dht/dhttest"

// Default on targets without a GPIO backend: a simulator scripted with a
// plausible room reading (55.5 %RH, 21.3 C).
func Default() Set {
	set, _ := NewSimSet(dhttest.FrameDHT22(555, 213))
	return set
}
