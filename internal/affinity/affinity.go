// Package affinity pins the current process to a CPU and reports the CPUs it
// may run on. Pinning keeps benchmark timings of the STFT loop stable.
package affinity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnsupported is returned on platforms without scheduler affinity.
	ErrUnsupported = errors.New("cpu affinity not supported on this platform")

	// ErrInvalidCPU indicates a CPU index outside the platform's CPU set.
	ErrInvalidCPU = errors.New("invalid cpu index")
)

// Pin restricts the calling process to the given CPU.
func Pin(cpu int) error {
	if cpu < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCPU, cpu)
	}
	return pin(cpu)
}

// Allowed returns the sorted CPU indices the process may currently run on.
func Allowed() ([]int, error) {
	return allowed()
}

// Format renders a CPU list the way it is logged, e.g. "0 1 2 3".
func Format(cpus []int) string {
	parts := make([]string, len(cpus))
	for i, c := range cpus {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, " ")
}
