//go:build !unix

package shm

func mapStorage(s *Storage, size int) (mapping, error) {
	return readBack{storage: s}, nil
}
