// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.
package client

import (
	"errors"
	"fmt"

	"github.com/toeirei/dkgtestbed/config"
	"github.com/toeirei/dkgtestbed/internal/credential"
	"github.com/toeirei/dkgtestbed/internal/logging"
)

var (
	// ErrInvalidCredential is returned for empty or malformed private keys.
	ErrInvalidCredential = errors.New("invalid private key")
	// ErrClientConstruction wraps errors raised by a provider's constructor.
	ErrClientConstruction = errors.New("client construction failed")
)

// Factory builds client handles. Provider takes precedence over the registry
// entry Name.
type Factory struct {
	Provider Provider
	Registry *Registry
	Name     string
}

// Create validates secret, layers it into a copy of cfg and asks the resolved
// provider for a handle. cfg itself is never modified.
func (f Factory) Create(secret string, cfg config.NetworkConfig) (Client, error) {
	key, err := credential.Normalize(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	defer key.Zero()

	provider, err := Resolve(f.Provider, f.Registry, f.Name)
	if err != nil {
		return nil, err
	}

	merged := cfg.WithPrivateKey(key)
	logging.Debugf("constructing client for %s on %s with key %s", merged.Address(), merged.Blockchain.Name, merged.Blockchain.PrivateKey)

	c, err := provider.NewClient(merged)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClientConstruction, err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: provider returned no client", ErrClientConstruction)
	}
	return c, nil
}
