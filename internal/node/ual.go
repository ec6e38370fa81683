// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package node

import (
	"fmt"
	"strconv"
	"strings"
)

const ualPrefix = "did:dkg:"

// UAL is a parsed Uniform Asset Locator: did:dkg:<chain>/<hub>/<tokenId>.
type UAL struct {
	Chain   string
	Hub     string
	TokenID uint64
}

func (u UAL) String() string {
	return fmt.Sprintf("%s%s/%s/%d", ualPrefix, u.Chain, strings.ToLower(u.Hub), u.TokenID)
}

// ParseUAL splits s into its parts. The chain id may itself contain colons.
func ParseUAL(s string) (UAL, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), ualPrefix)
	if !ok {
		return UAL{}, fmt.Errorf("%w: %q lacks %q prefix", ErrInvalidUAL, s, ualPrefix)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return UAL{}, fmt.Errorf("%w: %q", ErrInvalidUAL, s)
	}
	id, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil || id == 0 {
		return UAL{}, fmt.Errorf("%w: bad token id in %q", ErrInvalidUAL, s)
	}
	return UAL{Chain: parts[0], Hub: parts[1], TokenID: id}, nil
}
