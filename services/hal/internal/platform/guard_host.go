//go:build !rp2040 && !rp2350

package platform

import (
	"runtime"
	"runtime/debug"
)

// GCGuard is the closest a hosted Go process gets to masking interrupts:
// it pins the goroutine to its OS thread and switches the garbage
// collector off for the duration of the read, so neither a GC pause nor a
// thread migration lands inside the microsecond-level polling loop. It
// cannot stop the kernel scheduler; expect the occasional failed read and
// let the checksum catch it.
type GCGuard struct {
	gcPercent int
}

func (g *GCGuard) DisableInterrupts() {
	runtime.LockOSThread()
	g.gcPercent = debug.SetGCPercent(-1)
}

func (g *GCGuard) EnableInterrupts() {
	debug.SetGCPercent(g.gcPercent)
	runtime.UnlockOSThread()
}
