//go:build !linux

package shm

import "os"

func createBackingFile(name string) (*os.File, error) {
	f, err := os.CreateTemp("", name+"-*")
	if err != nil {
		return nil, err
	}
	// Unlink right away; the open descriptor keeps the data alive.
	_ = os.Remove(f.Name())
	return f, nil
}
