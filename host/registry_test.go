// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"errors"
	"reflect"
	"testing"
)

func memoryFactory(opts Options) (Host, error) {
	return NewMemory(WithWidth(opts.Width)), nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, memoryFactory, nil)

	entry, ok := r.Get("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if entry.Name != "test" || entry.Priority != 50 {
		t.Errorf("entry = %s/%d, want test/50", entry.Name, entry.Priority)
	}
	if !entry.Available() {
		t.Error("backend should be available (nil Available func)")
	}

	r.Unregister("test")
	if _, ok := r.Get("test"); ok {
		t.Error("backend should not exist after unregister")
	}
}

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, memoryFactory, nil)
	r.Register("high", 100, memoryFactory, func() bool { return false })
	r.Register("mid", 50, memoryFactory, nil)
	r.Register("also-mid", 50, memoryFactory, nil)

	if got, want := r.List(), []string{"high", "also-mid", "mid", "low"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got, want := r.Available(), []string{"also-mid", "mid", "low"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
}

func TestRegistryNew(t *testing.T) {
	r := NewRegistry()
	if _, err := r.New(Options{}); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("New() on empty registry error = %v, want ErrNoBackendAvailable", err)
	}

	failing := errors.New("connect failed")
	r.Register("broken", 100, func(Options) (Host, error) { return nil, failing }, nil)
	r.Register("memory", 10, memoryFactory, nil)

	h, err := r.New(Options{Width: 800})
	if err != nil {
		t.Fatalf("New() error = %v, want fallback to memory", err)
	}
	if m, ok := h.(*Memory); !ok || m.width != 800 {
		t.Errorf("New() = %T, want *Memory with width 800", h)
	}

	r.Unregister("memory")
	if _, err := r.New(Options{}); !errors.Is(err, failing) {
		t.Errorf("New() error = %v, want the last factory error", err)
	}
}

func TestRegistryNewByName(t *testing.T) {
	r := NewRegistry()
	r.Register("off", 10, memoryFactory, func() bool { return false })

	_, err := r.NewByName("missing", Options{})
	var nf *BackendNotFoundError
	if !errors.As(err, &nf) || nf.Name != "missing" {
		t.Errorf("NewByName(missing) error = %v", err)
	}

	_, err = r.NewByName("off", Options{})
	var ua *BackendUnavailableError
	if !errors.As(err, &ua) || ua.Name != "off" {
		t.Errorf("NewByName(off) error = %v", err)
	}
}

func TestBuiltinBackends(t *testing.T) {
	names := List()
	if len(names) < 2 || names[0] != "png" || names[1] != "memory" {
		t.Errorf("List() = %v, want png then memory", names)
	}

	h, err := NewByName("memory", Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if _, ok := h.(*Memory); !ok {
		t.Errorf("memory backend returned %T", h)
	}

	h, err = NewByName("png", Options{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if _, ok := h.(*PNG); !ok {
		t.Errorf("png backend returned %T", h)
	}
}
