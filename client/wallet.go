// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.
package client

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/toeirei/dkgtestbed/internal/credential"
	"github.com/toeirei/dkgtestbed/internal/security"
)

// Wallet is the public identity derived from a signing key.
type Wallet struct {
	Address common.Address
}

// DeriveWallet computes the EVM address belonging to key. Keys that pass
// credential.Validate but are not valid secp256k1 scalars fail here.
func DeriveWallet(key security.Secret) (Wallet, error) {
	var w Wallet
	err := key.Use(func(b []byte) error {
		pk, err := crypto.HexToECDSA(credential.StripPrefix(string(b)))
		if err != nil {
			return err
		}
		w.Address = crypto.PubkeyToAddress(pk.PublicKey)
		return nil
	})
	return w, err
}

// String returns the checksummed address.
func (w Wallet) String() string { return w.Address.Hex() }

// IsZero reports whether no address has been derived.
func (w Wallet) IsZero() bool { return w.Address == (common.Address{}) }
