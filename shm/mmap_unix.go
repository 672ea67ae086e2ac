//go:build unix

package shm

import "golang.org/x/sys/unix"

// mmapping is a shared read-only view of a storage file.
type mmapping struct {
	data []byte
}

func mapStorage(s *Storage, size int) (mapping, error) {
	data, err := unix.Mmap(int(s.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &mmapping{data: data}, nil
}

func (m *mmapping) bytes(off, n int) ([]byte, error) {
	return m.data[off : off+n], nil
}

func (m *mmapping) unmap() error {
	return unix.Munmap(m.data)
}
