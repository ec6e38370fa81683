// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package credential

import (
	"errors"
	"strings"

	"github.com/toeirei/dkgtestbed/internal/security"
)

const (
	// KeyHexLength is the number of hex digits in a raw secp256k1 private key.
	KeyHexLength = 64
	// HexPrefix is the optional prefix accepted in front of the key.
	HexPrefix = "0x"
)

// ErrMalformed is returned when a candidate credential fails validation.
var ErrMalformed = errors.New("private key must be 64 hex characters, optionally prefixed with '0x'")

// Validate reports whether secret, after trimming surrounding whitespace, is
// exactly 64 hex digits or "0x" followed by exactly 64 hex digits.
func Validate(secret string) bool {
	s := strings.TrimSpace(secret)
	switch len(s) {
	case KeyHexLength:
		return isHex(s)
	case len(HexPrefix) + KeyHexLength:
		return strings.HasPrefix(s, HexPrefix) && isHex(s[len(HexPrefix):])
	default:
		return false
	}
}

// Normalize trims and validates secret and returns it wrapped in a Secret.
// The original prefix is preserved; SDK providers strip it as they need.
func Normalize(secret string) (security.Secret, error) {
	s := strings.TrimSpace(secret)
	if !Validate(s) {
		return nil, ErrMalformed
	}
	return security.FromString(s), nil
}

// StripPrefix returns the 64 hex digits of an already validated key.
func StripPrefix(secret string) string {
	return strings.TrimPrefix(strings.TrimSpace(secret), HexPrefix)
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
