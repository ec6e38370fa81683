// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/toeirei/dkgtestbed/internal/security"
)

// Preset names.
const (
	PresetTestnet = "testnet"
	PresetLocal   = "local"
)

// ErrUnknownPreset is returned by Preset for names that are not built in.
var ErrUnknownPreset = errors.New("unknown network preset")

// Blockchain describes the chain a knowledge asset is anchored on.
type Blockchain struct {
	Name        string          `json:"name" yaml:"name"`
	RPC         string          `json:"rpc" yaml:"rpc"`
	HubContract string          `json:"hubContract" yaml:"hubContract"`
	PrivateKey  security.Secret `json:"privateKey,omitempty" yaml:"privateKey,omitempty"`
}

// NetworkConfig is the target network a client handle is bound to.
// Values obtained from Preset are copies; the built-in definitions never change.
type NetworkConfig struct {
	Endpoint   string     `json:"endpoint" yaml:"endpoint"`
	Port       int        `json:"port" yaml:"port"`
	UseSSL     bool       `json:"useSSL" yaml:"useSSL"`
	Blockchain Blockchain `json:"blockchain" yaml:"blockchain"`
}

var presets = map[string]func() NetworkConfig{
	PresetTestnet: func() NetworkConfig {
		return NetworkConfig{
			Endpoint: "dkg-testnet.origin-trail.network",
			Port:     443,
			UseSSL:   true,
			Blockchain: Blockchain{
				Name:        "otp:20430",
				RPC:         "https://neuroweb-testnet.origin-trail.network",
				HubContract: "0x7ee6665a29a3a8a3551486586255C2C400b46d03",
			},
		}
	},
	PresetLocal: func() NetworkConfig {
		return NetworkConfig{
			Endpoint: "127.0.0.1",
			Port:     8900,
			Blockchain: Blockchain{
				Name:        "otp:20430",
				RPC:         "http://127.0.0.1:8545",
				HubContract: "0x7ee6665a29a3a8a3551486586255C2C400b46d03",
			},
		}
	},
}

// Preset returns a fresh copy of a built-in network definition.
func Preset(name string) (NetworkConfig, error) {
	fn, ok := presets[name]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownPreset, name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the built-in presets in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WithPrivateKey layers the signing key into the blockchain section and
// returns the merged copy. The receiver is left untouched.
func (c NetworkConfig) WithPrivateKey(key security.Secret) NetworkConfig {
	merged := c
	merged.Blockchain.PrivateKey = key.Clone()
	return merged
}

// Address returns host:port for dialing the node.
func (c NetworkConfig) Address() string {
	if c.Port == 0 {
		return c.Endpoint
	}
	return net.JoinHostPort(c.Endpoint, strconv.Itoa(c.Port))
}

// Validate performs structural checks on the network definition.
func (c NetworkConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("network endpoint is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("network port %d out of range", c.Port)
	}
	if c.Blockchain.Name == "" {
		return errors.New("blockchain name is required")
	}
	if !common.IsHexAddress(c.Blockchain.HubContract) {
		return fmt.Errorf("hub contract %q is not a valid address", c.Blockchain.HubContract)
	}
	return nil
}
