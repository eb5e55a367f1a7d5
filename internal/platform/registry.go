package platform

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry resolves adapters by platform type. Resolution is
// case-insensitive; registering two adapters for the same type keeps the
// first one.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

func (r *Registry) Register(a Adapter) {
	if a == nil {
		return
	}
	key := normalizeType(a.PlatformType())
	if key == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[key]; exists {
		return
	}
	r.adapters[key] = a
}

// Resolve returns the adapter for the platform type or an error wrapping
// ErrUnknownPlatform. An unknown type is a configuration mistake, never a
// transient condition.
func (r *Registry) Resolve(platformType string) (Adapter, error) {
	key := normalizeType(platformType)

	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)",
			ErrUnknownPlatform, platformType, strings.Join(r.typesLocked(), ", "))
	}
	return a, nil
}

// ValidateConfig checks the adapter-declared required keys against cfg.
func (r *Registry) ValidateConfig(platformType string, cfg Config) error {
	a, err := r.Resolve(platformType)
	if err != nil {
		return err
	}
	if missing := cfg.MissingKeys(a.RequiredConfig()); len(missing) > 0 {
		return fmt.Errorf("%w: platform %s missing config keys %v", ErrConfig, a.PlatformType(), missing)
	}
	return nil
}

// SupportedTypes returns the registered platform types, sorted.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.typesLocked()
}

func (r *Registry) typesLocked() []string {
	types := make([]string, 0, len(r.adapters))
	for t := range r.adapters {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
