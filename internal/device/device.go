// Package device identifies the hardware a run targets. Only CPU
// execution is supported; the type exists so batch placement and run
// logging have an explicit handle rather than ambient state.
package device

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Device describes the execution target for training and evaluation.
type Device struct {
	Kind    string
	Name    string
	Threads int
	AVX2    bool
	AVX512  bool
}

// Detect probes the host CPU.
func Detect() Device {
	return Device{
		Kind:    "cpu",
		Name:    cpuid.CPU.BrandName,
		Threads: runtime.NumCPU(),
		AVX2:    cpuid.CPU.Supports(cpuid.AVX2),
		AVX512:  cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ),
	}
}

func (d Device) String() string {
	return fmt.Sprintf("%s threads=%d avx2=%t avx512=%t", d.Kind, d.Threads, d.AVX2, d.AVX512)
}
