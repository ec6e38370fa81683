// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package credential

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

var testKey = strings.Repeat("c", 64)

func TestStaticSource(t *testing.T) {
	ctx := context.Background()
	if _, err := Static("").Load(ctx); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential for empty input, got %v", err)
	}
	if _, err := Static("xyz").Load(ctx); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	sec, err := Static(testKey).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sec.Reveal() != testKey {
		t.Fatalf("unexpected key")
	}
}

func TestEnvSource(t *testing.T) {
	ctx := context.Background()
	env := map[string]string{"CUSTOM_KEY": "0x" + testKey, "BAD_KEY": "123"}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	if _, err := (Env{Lookup: lookup}).Load(ctx); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential for unset default var, got %v", err)
	}
	sec, err := Env{Var: "CUSTOM_KEY", Lookup: lookup}.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sec.Reveal() != "0x"+testKey {
		t.Fatalf("unexpected key from env")
	}
	_, err = Env{Var: "BAD_KEY", Lookup: lookup}.Load(ctx)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if strings.Contains(err.Error(), "123") {
		t.Fatalf("error message leaked the value: %v", err)
	}
	if name := (Env{}).Name(); name != "env:"+DefaultEnvVar {
		t.Fatalf("unexpected name %q", name)
	}
}

func TestEnvSourceDefaultLookup(t *testing.T) {
	t.Setenv(DefaultEnvVar, testKey)
	sec, err := Env{}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sec.Reveal() != testKey {
		t.Fatalf("unexpected key")
	}
}

func TestPromptSource(t *testing.T) {
	var out bytes.Buffer
	p := &Prompt{
		In:           os.Stdin,
		Out:          &out,
		Prompt:       "key: ",
		isTerminal:   func(int) bool { return true },
		readPassword: func(int) ([]byte, error) { return []byte(testKey + "\n"), nil },
	}
	sec, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sec.Reveal() != testKey {
		t.Fatalf("unexpected key")
	}
	if !strings.HasPrefix(out.String(), "key: ") {
		t.Fatalf("prompt not written: %q", out.String())
	}

	p.isTerminal = func(int) bool { return false }
	if _, err := p.Load(context.Background()); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential on non-terminal, got %v", err)
	}

	p.isTerminal = func(int) bool { return true }
	p.readPassword = func(int) ([]byte, error) { return nil, errors.New("tty gone") }
	if _, err := p.Load(context.Background()); err == nil || !strings.Contains(err.Error(), "tty gone") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestChainSource(t *testing.T) {
	ctx := context.Background()
	empty := Env{Var: "UNSET", Lookup: func(string) (string, bool) { return "", false }}

	sec, err := Chain{Static(""), empty, Static(testKey)}.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sec.Reveal() != testKey {
		t.Fatalf("unexpected key")
	}

	if _, err := (Chain{Static(""), empty}).Load(ctx); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}

	_, err = Chain{Static("bad"), Static(testKey)}.Load(ctx)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("malformed credential should stop the chain, got %v", err)
	}

	if got := (Chain{Static(""), empty}).Name(); got != "manual,env:UNSET" {
		t.Fatalf("unexpected chain name %q", got)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := (Chain{Static(testKey)}).Load(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
