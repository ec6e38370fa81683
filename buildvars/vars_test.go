// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package buildvars

import "testing"

func TestVersionOrDefault(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = ""
	if got := VersionOrDefault("dev"); got != "dev" {
		t.Fatalf("VersionOrDefault = %q, want dev", got)
	}
	Version = "1.2.3"
	if got := VersionOrDefault("dev"); got != "1.2.3" {
		t.Fatalf("VersionOrDefault = %q, want 1.2.3", got)
	}
}
