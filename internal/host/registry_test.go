// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// stubHost records the options it was created with.
type stubHost struct {
	name string
	opts Options
}

func (h *stubHost) Run(context.Context) error { return nil }

func stubFactory(name string) Factory {
	return func(opts Options) (Host, error) {
		return &stubHost{name: name, opts: opts}, nil
	}
}

// TestRegistryRegister tests host registration.
func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, stubFactory("test"), nil)

	entry, ok := r.Get("test")
	if !ok {
		t.Fatal("registered host not found")
	}
	if entry.Name != "test" {
		t.Errorf("Name = %s, want test", entry.Name)
	}
	if entry.Priority != 50 {
		t.Errorf("Priority = %d, want 50", entry.Priority)
	}
	if !entry.Available() {
		t.Error("host should be available (nil Available func)")
	}
}

// TestRegistryList tests ordering by priority, then name.
func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, stubFactory("low"), nil)
	r.Register("high", 100, stubFactory("high"), nil)
	r.Register("mid-b", 50, stubFactory("mid-b"), nil)
	r.Register("mid-a", 50, stubFactory("mid-a"), nil)

	got := r.List()
	want := []string{"high", "mid-a", "mid-b", "low"}
	if !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

// TestRegistryAvailable tests filtering by availability.
func TestRegistryAvailable(t *testing.T) {
	r := NewRegistry()
	r.Register("available", 100, stubFactory("available"), func() bool { return true })
	r.Register("unavailable", 200, stubFactory("unavailable"), func() bool { return false })

	got := r.Available()
	if len(got) != 1 || got[0] != "available" {
		t.Errorf("Available() = %v, want [available]", got)
	}
}

// TestRegistryNew tests that the highest priority available host is used
// and receives the options.
func TestRegistryNew(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, stubFactory("low"), nil)
	r.Register("high", 100, stubFactory("high"), nil)
	r.Register("best", 200, stubFactory("best"), func() bool { return false })

	h, name, err := r.New(Options{Frames: 7})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if name != "high" {
		t.Errorf("name = %s, want high", name)
	}
	stub := h.(*stubHost)
	if stub.name != "high" || stub.opts.Frames != 7 {
		t.Errorf("host = %+v, want high with Frames 7", stub)
	}
}

// TestRegistryNewSkipsFailingFactory tests fallback to the next host.
func TestRegistryNewSkipsFailingFactory(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("no display")
	r.Register("broken", 100, func(Options) (Host, error) { return nil, boom }, nil)
	r.Register("fallback", 10, stubFactory("fallback"), nil)

	_, name, err := r.New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if name != "fallback" {
		t.Errorf("name = %s, want fallback", name)
	}
}

// TestRegistryNewAllFail tests that every factory error is reported.
func TestRegistryNewAllFail(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("creation failed")
	r.Register("broken", 100, func(Options) (Host, error) { return nil, boom }, nil)

	_, _, err := r.New(Options{})
	if !errors.Is(err, ErrNoHostAvailable) {
		t.Errorf("error = %v, want ErrNoHostAvailable", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want factory error", err)
	}
}

// TestRegistryNoHost tests error when no hosts are registered.
func TestRegistryNoHost(t *testing.T) {
	r := NewRegistry()

	_, _, err := r.New(Options{})
	if !errors.Is(err, ErrNoHostAvailable) {
		t.Errorf("expected ErrNoHostAvailable, got %v", err)
	}
}

// TestRegistryNewByNameNotFound tests error for unknown host.
func TestRegistryNewByNameNotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.NewByName("nonexistent", Options{})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	if notFound.Name != "nonexistent" {
		t.Errorf("error name = %s, want nonexistent", notFound.Name)
	}
	if got := notFound.Error(); got != "host: not found: nonexistent" {
		t.Errorf("Error() = %q", got)
	}
}

// TestRegistryNewByNameUnavailable tests error for unavailable host.
func TestRegistryNewByNameUnavailable(t *testing.T) {
	r := NewRegistry()
	r.Register("unavailable", 50, stubFactory("unavailable"), func() bool { return false })

	_, err := r.NewByName("unavailable", Options{})
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %T", err)
	}
	if got := unavailable.Error(); got != "host: unavailable: unavailable" {
		t.Errorf("Error() = %q", got)
	}
}

// TestRegistryOverwrite tests that re-registering overwrites.
func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 10, stubFactory("test"), nil)
	r.Register("test", 50, stubFactory("test"), nil)

	entry, _ := r.Get("test")
	if entry.Priority != 50 {
		t.Errorf("Priority = %d, want 50 (should be overwritten)", entry.Priority)
	}
}

// TestGlobalRegistry tests the built-in hosts.
func TestGlobalRegistry(t *testing.T) {
	got := List()
	want := []string{"window", "terminal", "png"}
	if !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	if !slices.Contains(Available(), "png") {
		t.Error("png host should always be available")
	}

	entry, ok := Get("png")
	if !ok || entry.Priority != 10 {
		t.Errorf("Get(png) = %+v, %v", entry, ok)
	}
}
