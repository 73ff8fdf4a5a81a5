// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/gogpu/matrix"
	"github.com/gogpu/matrix/config"
)

// Host presents the rain on one kind of output. Run returns nil when ctx is
// done or the user asks to quit.
type Host interface {
	Run(ctx context.Context) error
}

// Options configures a host.
type Options struct {
	// Config is the normalized configuration to start with.
	Config config.Config

	// Reload delivers configurations that replace Config while running.
	// It may be nil.
	Reload <-chan config.Config

	// Engine is passed to matrix.New.
	Engine []matrix.Option

	// Width, Height, Frames and Out are used by the png host only.
	Width  int
	Height int
	Frames int
	Out    string
}

// Factory creates a host with the given options.
// Implementations should validate options and return descriptive errors.
type Factory func(opts Options) (Host, error)

// Entry represents a registered host.
type Entry struct {
	// Name is the unique identifier for this host.
	Name string

	// Priority determines selection order (higher = preferred).
	//   - 100: window
	//   - 50: terminal
	//   - 10: png
	Priority int

	// Factory creates host instances.
	Factory Factory

	// Available reports if the host can run on this system.
	Available func() bool
}

var globalRegistry = &Registry{}

// Registry manages registered hosts.
//
//	func init() {
//	    host.Register("window", 100, newWindow, hasDisplay)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Register adds a host to the global registry.
// If available is nil, the host is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// List returns all registered host names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available hosts sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// Get returns information about a specific host.
func Get(name string) (*Entry, bool) {
	return globalRegistry.Get(name)
}

// New creates a host using the best available entry of the global registry.
func New(opts Options) (Host, string, error) {
	return globalRegistry.New(opts)
}

// NewByName creates a host using a specific entry of the global registry.
func NewByName(name string, opts Options) (Host, error) {
	return globalRegistry.NewByName(name, opts)
}

// Register adds a host to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*Entry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &Entry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// List returns all registered host names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available hosts sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific host.
func (r *Registry) Get(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	entryCopy := *entry
	return &entryCopy, true
}

// New creates a host using the best available entry and returns its name.
// Entries whose factory fails are skipped.
func (r *Registry) New(opts Options) (Host, string, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, "", ErrNoHostAvailable
	}

	var errs []error
	for _, name := range available {
		h, err := r.NewByName(name, opts)
		if err == nil {
			return h, name, nil
		}
		matrix.Logger().Debug("host: skipped", "host", name, "err", err)
		errs = append(errs, err)
	}
	return nil, "", errors.Join(append([]error{ErrNoHostAvailable}, errs...)...)
}

// NewByName creates a host using a specific entry.
func (r *Registry) NewByName(name string, opts Options) (Host, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	if !entry.Available() {
		return nil, &UnavailableError{Name: name}
	}

	return entry.Factory(opts)
}

// sortedNames returns host names sorted by priority (highest first), then
// by name. Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoHostAvailable is returned when no host is registered or none can
	// run on the current system.
	ErrNoHostAvailable = errors.New("host: no host available")
)

// NotFoundError indicates a named host is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "host: not found: " + e.Name
}

// UnavailableError indicates a host exists but cannot run here.
type UnavailableError struct {
	Name string
}

func (e *UnavailableError) Error() string {
	return "host: unavailable: " + e.Name
}
