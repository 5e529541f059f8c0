// services/hal/workers_api.go
package hal

import "context"

// MeasurementWorker is the narrow contract callers rely on.
type MeasurementWorker interface {
	Submit(MeasureReq) bool
	Start(ctx context.Context)
	Results() <-chan Result
}

// NewMeasurementWorker adapts the concrete constructor to the interface.
func NewMeasurementWorker(cfg WorkerConfig) MeasurementWorker {
	return NewWorker(cfg)
}
