// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package grpcnode

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"google.golang.org/grpc/metadata"

	"github.com/toeirei/dkgtestbed/internal/node"
)

// Metadata keys attached to Create calls.
const (
	mdPublisher = "x-dkg-publisher"
	mdSignature = "x-dkg-signature"
)

// sign returns the publisher metadata for content: the signer's address and
// a secp256k1 signature over keccak256 of the canonical content.
func sign(key *ecdsa.PrivateKey, content map[string]any) (metadata.MD, error) {
	data, err := node.Canonicalize(content)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(crypto.Keccak256(data), key)
	if err != nil {
		return nil, err
	}
	return metadata.Pairs(
		mdPublisher, crypto.PubkeyToAddress(key.PublicKey).Hex(),
		mdSignature, hex.EncodeToString(sig),
	), nil
}

// verify checks the publisher metadata in md against content and returns the
// authenticated address.
func verify(md metadata.MD, content map[string]any) (string, error) {
	publisher := first(md, mdPublisher)
	sigHex := first(md, mdSignature)
	if publisher == "" || sigHex == "" {
		return "", fmt.Errorf("%w: missing publisher metadata", ErrUnauthenticated)
	}
	if !common.IsHexAddress(publisher) {
		return "", fmt.Errorf("%w: %q is not an address", ErrUnauthenticated, publisher)
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil || len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("%w: malformed signature", ErrUnauthenticated)
	}
	data, err := node.Canonicalize(content)
	if err != nil {
		return "", err
	}
	pub, err := crypto.SigToPub(crypto.Keccak256(data), sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	signer := crypto.PubkeyToAddress(*pub)
	if signer != common.HexToAddress(publisher) {
		return "", fmt.Errorf("%w: signed by %s, claimed %s", ErrUnauthenticated, signer.Hex(), publisher)
	}
	return signer.Hex(), nil
}

func first(md metadata.MD, key string) string {
	if vs := md.Get(key); len(vs) > 0 {
		return vs[0]
	}
	return ""
}
