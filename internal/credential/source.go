// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package credential

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/toeirei/dkgtestbed/internal/security"
)

// DefaultEnvVar is the environment variable consulted by Env when no name is set.
const DefaultEnvVar = "DKG_PRIVATE_KEY"

// ErrNoCredential is returned when a source has nothing to offer.
var ErrNoCredential = errors.New("no private key available")

// Source yields a signing credential. Implementations return ErrNoCredential
// when they are not configured, and ErrMalformed (possibly wrapped) when the
// value they found does not validate.
type Source interface {
	Name() string
	Load(ctx context.Context) (security.Secret, error)
}

// Static is a credential typed in by the user (flag, form field).
type Static string

// Name implements Source.
func (Static) Name() string { return "manual" }

// Load implements Source.
func (s Static) Load(ctx context.Context) (security.Secret, error) {
	if strings.TrimSpace(string(s)) == "" {
		return nil, ErrNoCredential
	}
	return Normalize(string(s))
}

// Env reads the credential from an environment variable.
type Env struct {
	Var string
	// Lookup defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Name implements Source.
func (e Env) Name() string { return "env:" + e.variable() }

// Load implements Source.
func (e Env) Load(ctx context.Context) (security.Secret, error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(e.variable())
	if !ok || strings.TrimSpace(v) == "" {
		return nil, ErrNoCredential
	}
	sec, err := Normalize(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.variable(), err)
	}
	return sec, nil
}

func (e Env) variable() string {
	if e.Var == "" {
		return DefaultEnvVar
	}
	return e.Var
}

// Prompt asks for the credential on a terminal without echoing it.
type Prompt struct {
	In     *os.File
	Out    io.Writer
	Prompt string

	// readPassword is swapped in tests.
	readPassword func(fd int) ([]byte, error)
	isTerminal   func(fd int) bool
}

// Name implements Source.
func (p *Prompt) Name() string { return "prompt" }

// Load implements Source. It reports ErrNoCredential when In is not a terminal.
func (p *Prompt) Load(ctx context.Context) (security.Secret, error) {
	in := p.In
	if in == nil {
		in = os.Stdin
	}
	isTerm := p.isTerminal
	if isTerm == nil {
		isTerm = term.IsTerminal
	}
	read := p.readPassword
	if read == nil {
		read = term.ReadPassword
	}
	fd := int(in.Fd())
	if !isTerm(fd) {
		return nil, ErrNoCredential
	}
	if p.Out != nil && p.Prompt != "" {
		fmt.Fprint(p.Out, p.Prompt)
	}
	raw, err := read(fd)
	if p.Out != nil {
		fmt.Fprintln(p.Out)
	}
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	sec := security.Secret(raw)
	defer sec.Zero()
	if strings.TrimSpace(string(raw)) == "" {
		return nil, ErrNoCredential
	}
	return Normalize(string(raw))
}

// Chain tries each source in order and returns the first credential found.
// A malformed credential stops the chain; an empty source does not.
type Chain []Source

// Name implements Source.
func (c Chain) Name() string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name())
	}
	return strings.Join(names, ",")
}

// Load implements Source.
func (c Chain) Load(ctx context.Context) (security.Secret, error) {
	for _, s := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sec, err := s.Load(ctx)
		if errors.Is(err, ErrNoCredential) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
		return sec, nil
	}
	return nil, ErrNoCredential
}
