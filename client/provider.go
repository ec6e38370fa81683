// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.
package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/toeirei/dkgtestbed/config"
)

// DefaultPollInterval is used by Registry.Wait when no interval is given.
const DefaultPollInterval = 100 * time.Millisecond

// ErrProviderUnavailable is returned when no usable SDK capability is found.
var ErrProviderUnavailable = errors.New("network client SDK is not available")

// Provider constructs client handles for a merged network configuration.
type Provider interface {
	NewClient(cfg config.NetworkConfig) (Client, error)
}

// ProviderFunc adapts a plain constructor to Provider.
type ProviderFunc func(cfg config.NetworkConfig) (Client, error)

func (f ProviderFunc) NewClient(cfg config.NetworkConfig) (Client, error) { return f(cfg) }

// Module is a registry entry that exposes its capability one level down,
// the way bundled SDKs publish themselves under a default export.
type Module interface {
	Default() any
}

// Registry is a named table of runtime-registered SDK capabilities. Entries
// are untyped on purpose: Resolve decides what is usable.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]any
}

// DefaultRegistry is the process-wide registry used by the CLI.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]any)}
}

// Register stores v under name, replacing any previous entry.
func (r *Registry) Register(name string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = v
}

// Unregister removes the entry for name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Lookup returns the raw entry registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[name]
	return v, ok && v != nil
}

// Names lists registered entries in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Wait blocks until an entry named name is registered or ctx is done.
func (r *Registry) Wait(ctx context.Context, name string, interval time.Duration) (any, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if v, ok := r.Lookup(name); ok {
		return v, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %q was not registered: %w", ErrProviderUnavailable, name, ctx.Err())
		case <-ticker.C:
			if v, ok := r.Lookup(name); ok {
				return v, nil
			}
		}
	}
}

// Resolve picks the SDK capability to use. A linked provider wins; otherwise
// the registry entry called name is used, either directly or through a
// Module's Default().
func Resolve(linked Provider, reg *Registry, name string) (Provider, error) {
	if linked != nil {
		return linked, nil
	}
	v, ok := reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: nothing registered as %q", ErrProviderUnavailable, name)
	}
	if p := asProvider(v); p != nil {
		return p, nil
	}
	if m, ok := v.(Module); ok {
		if p := asProvider(m.Default()); p != nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: entry %q (%T) cannot construct clients", ErrProviderUnavailable, name, v)
}

func asProvider(v any) Provider {
	switch p := v.(type) {
	case Provider:
		return p
	case func(config.NetworkConfig) (Client, error):
		return ProviderFunc(p)
	}
	return nil
}
