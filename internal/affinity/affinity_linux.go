//go:build linux

package affinity

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// maxCPUs is CPU_SETSIZE, the number of CPUs representable in a unix.CPUSet.
const maxCPUs = 1024

// selfPID addresses the calling thread.
const selfPID = 0

// taskDir lists the OS threads of the current process.
const taskDir = "/proc/self/task"

func pin(cpu int) error {
	if cpu >= maxCPUs {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidCPU, cpu, maxCPUs-1)
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := setAll(&set); err != nil {
		return fmt.Errorf("failed to set CPU affinity to %d: %w", cpu, err)
	}
	return nil
}

// setAll applies set to every thread of the process. The Go scheduler moves
// goroutines between threads, so pinning only the calling thread would not
// hold. Threads started later inherit the mask of the thread that creates them.
func setAll(set *unix.CPUSet) error {
	entries, err := os.ReadDir(taskDir)
	if err != nil {
		return unix.SchedSetaffinity(selfPID, set)
	}
	for _, e := range entries {
		tid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		if err := unix.SchedSetaffinity(tid, set); err != nil && !errors.Is(err, unix.ESRCH) {
			return err
		}
	}
	return nil
}

func allowed() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(selfPID, &set); err != nil {
		return nil, fmt.Errorf("failed to get CPU affinity: %w", err)
	}

	cpus := make([]int, 0, set.Count())
	for cpu := range maxCPUs {
		if set.IsSet(cpu) {
			cpus = append(cpus, cpu)
		}
	}
	return cpus, nil
}
