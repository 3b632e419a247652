// Package cpu implements the dense float64 math kernels used by the layers.
package cpu

// CPUBackend runs every kernel synchronously on the calling goroutine.
// It holds no state; the zero value is ready to use.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}
