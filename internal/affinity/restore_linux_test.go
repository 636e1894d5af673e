//go:build linux

package affinity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func restore(t *testing.T, cpus []int) {
	t.Helper()
	var set unix.CPUSet
	for _, c := range cpus {
		set.Set(c)
	}
	assert.NoError(t, setAll(&set))
}
