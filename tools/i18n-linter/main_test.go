// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFlattenYAML(t *testing.T) {
	keys := map[string]struct{}{}
	flattenYAML("", map[string]any{
		"top":      map[string]any{"sub": "value"},
		"flat.key": "v",
		"other":    "v",
	}, keys)
	for _, want := range []string{"top.sub", "flat.key", "other"} {
		if _, ok := keys[want]; !ok {
			t.Fatalf("expected %s in %v", want, keys)
		}
	}
}

func TestLint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pkg", "a.go"), `package pkg
func f(op string) {
	_ = i18n.T("app.title")
	_ = i18n.T("error." + op)
	_ = i18n.T("gone.key")
}`)
	writeFile(t, filepath.Join(dir, "pkg", "a_test.go"), `package pkg
var _ = i18n.T("test.only")`)
	writeFile(t, filepath.Join(dir, "locales", "en.yaml"), "app.title: \"T\"\nerror.publish: \"P\"\nstale.key: \"S\"\n")
	writeFile(t, filepath.Join(dir, "locales", "de.yaml"), "app.title: \"T\"\n")

	r, err := lint(dir, filepath.Join(dir, "locales"))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if !reflect.DeepEqual(r.Unknown, []string{"gone.key"}) {
		t.Fatalf("Unknown = %v", r.Unknown)
	}
	if !reflect.DeepEqual(r.Orphaned, []string{"stale.key"}) {
		t.Fatalf("Orphaned = %v", r.Orphaned)
	}
	if !reflect.DeepEqual(r.Missing["de.yaml"], []string{"error.publish", "stale.key"}) {
		t.Fatalf("Missing = %v", r.Missing)
	}
	if !r.Failed() {
		t.Fatalf("expected failure")
	}

	var buf bytes.Buffer
	writeReport(&buf, r)
	if !strings.Contains(buf.String(), "Missing in de.yaml: error.publish") {
		t.Fatalf("unexpected report:\n%s", buf.String())
	}
}

func TestLintRepositoryLocales(t *testing.T) {
	root := filepath.Join("..", "..")
	r, err := lint(root, filepath.Join(root, "internal", "i18n", "locales"))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if r.Failed() {
		var buf bytes.Buffer
		writeReport(&buf, r)
		t.Fatalf("locale files are inconsistent:\n%s", buf.String())
	}
}
