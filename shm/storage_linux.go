//go:build linux

package shm

import (
	"os"

	"golang.org/x/sys/unix"
)

func createBackingFile(name string) (*os.File, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), "memfd:"+name), nil
}
