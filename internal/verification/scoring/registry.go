package scoring

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrVersionConflict is returned when a version is re-registered with
	// different weights or thresholds. A version's policy never changes.
	ErrVersionConflict = errors.New("policy version already registered with different content")
	// ErrUnknownVersion is returned for a version that was never registered.
	ErrUnknownVersion = errors.New("unknown policy version")
)

// Registry keeps every policy version seen by this process so stored
// decisions can be replayed under the version that produced them.
type Registry struct {
	mu       sync.RWMutex
	versions map[string]Policy
	active   string
}

// NewRegistry returns a registry with initial registered and active.
func NewRegistry(initial Policy) (*Registry, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &Registry{
		versions: map[string]Policy{initial.Version(): initial},
		active:   initial.Version(),
	}, nil
}

// Active returns the policy new submissions are scored with.
func (r *Registry) Active() Policy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.versions[r.active]
}

// Get returns the policy registered under version.
func (r *Registry) Get(version string) (Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.versions[version]
	return p, ok
}

// Register adds p. Registering an identical policy again is a no-op.
func (r *Registry) Register(p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.versions[p.Version()]; ok {
		if !existing.Equal(p) {
			return fmt.Errorf("%w: %s", ErrVersionConflict, p.Version())
		}
		return nil
	}
	r.versions[p.Version()] = p
	return nil
}

// Activate makes a registered version the active one.
func (r *Registry) Activate(version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.versions[version]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVersion, version)
	}
	r.active = version
	return nil
}

// Install registers p and activates it.
func (r *Registry) Install(p Policy) error {
	if err := r.Register(p); err != nil {
		return err
	}
	return r.Activate(p.Version())
}

// Versions lists registered versions in sorted order.
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.versions))
	for v := range r.versions {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
