package shm

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Storage is a fixed-size, byte-addressable backing file.
// Storage is safe for concurrent use.
type Storage struct {
	mu     sync.Mutex
	file   *os.File
	size   int64
	closed bool
}

// NewStorage creates anonymous backing storage of size bytes. name is only a
// debugging label.
func NewStorage(name string, size int64) (*Storage, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shm: storage size %d: %w", size, ErrInvalidBuffer)
	}
	f, err := createBackingFile(name)
	if err != nil {
		return nil, fmt.Errorf("shm: create storage: %w", err)
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("shm: size storage: %w", err)
	}
	return &Storage{file: f, size: size}, nil
}

// Size returns the storage size in bytes.
func (s *Storage) Size() int64 {
	return s.size
}

// Fd returns the file descriptor, as passed to a compositor.
func (s *Storage) Fd() uintptr {
	return s.file.Fd()
}

// Rewind moves the write position back to the start.
func (s *Storage) Rewind() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	_, err := s.file.Seek(0, io.SeekStart)
	return err
}

// Write writes p at the current position. Writes past Size are rejected so
// the storage never grows under a live mapping.
func (s *Storage) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	pos, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	if pos+int64(len(p)) > s.size {
		return 0, fmt.Errorf("shm: write of %d bytes at %d exceeds storage size %d", len(p), pos, s.size)
	}
	return s.file.Write(p)
}

// ReadAt reads len(p) bytes starting at off.
func (s *Storage) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.file.ReadAt(p, off)
}

// Close releases the storage. It is safe to call more than once.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
