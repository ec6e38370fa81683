// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package node

import (
	"errors"
	"testing"
)

func TestUALRoundTrip(t *testing.T) {
	u := UAL{Chain: "otp:20430", Hub: "0x7ee6665a29a3a8a3551486586255C2C400b46d03", TokenID: 42}
	s := u.String()
	if s != "did:dkg:otp:20430/0x7ee6665a29a3a8a3551486586255c2c400b46d03/42" {
		t.Fatalf("unexpected UAL %q", s)
	}
	got, err := ParseUAL("  " + s + "\n")
	if err != nil {
		t.Fatalf("ParseUAL: %v", err)
	}
	if got.Chain != u.Chain || got.TokenID != 42 {
		t.Fatalf("unexpected parse result %+v", got)
	}
}

func TestParseUALRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"did:web:example.com",
		"did:dkg:otp:20430/0xabc",
		"did:dkg:otp:20430/0xabc/x",
		"did:dkg:otp:20430/0xabc/0",
		"did:dkg:/0xabc/1",
		"did:dkg:otp/0xabc/1/extra",
	} {
		if _, err := ParseUAL(in); !errors.Is(err, ErrInvalidUAL) {
			t.Fatalf("ParseUAL(%q): expected ErrInvalidUAL, got %v", in, err)
		}
	}
}
