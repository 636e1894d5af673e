//go:build !linux

package affinity

func pin(int) error {
	return ErrUnsupported
}

func allowed() ([]int, error) {
	return nil, ErrUnsupported
}
