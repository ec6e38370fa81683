// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-cid"
)

// Supported retrieval states. Locally every asset is finalised as soon as it
// is minted, so both resolve to the same data.
const (
	StateLatestFinalized = "LATEST_FINALIZED"
	StateLatest          = "LATEST"
)

// CreateOptions are the publish parameters.
type CreateOptions struct {
	Epochs      int
	Frequency   int
	TokenAmount int64
}

// GetOptions select what Get returns.
type GetOptions struct {
	State    string
	Validate bool
}

// Asset is a minted knowledge asset together with its assertion.
type Asset struct {
	Record
	State     string
	Assertion map[string]any
}

// Service mints and resolves knowledge assets for one chain/hub pair.
type Service struct {
	chain string
	hub   string
	store Store

	// Now stamps new records; replaced in tests.
	Now func() time.Time

	mu sync.Mutex
}

func NewService(chain, hub string, store Store) *Service {
	return &Service{
		chain: chain,
		hub:   strings.ToLower(hub),
		store: store,
		Now:   time.Now,
	}
}

// Chain returns the chain id UALs are minted on.
func (s *Service) Chain() string { return s.chain }

func (o CreateOptions) validate() error {
	if o.Epochs < 1 {
		return fmt.Errorf("%w: epochs must be at least 1, got %d", ErrInvalidOptions, o.Epochs)
	}
	if o.TokenAmount < 0 {
		return fmt.Errorf("%w: token amount must not be negative, got %d", ErrInvalidOptions, o.TokenAmount)
	}
	return nil
}

// Create stores content and mints a new UAL for it.
func (s *Service) Create(ctx context.Context, publisher string, content map[string]any, opts CreateOptions) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	if !common.IsHexAddress(publisher) {
		return Asset{}, fmt.Errorf("%w: %q", ErrPublisher, publisher)
	}
	if err := opts.validate(); err != nil {
		return Asset{}, err
	}
	data, err := Canonicalize(content)
	if err != nil {
		return Asset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.PutBlob(data)
	if err != nil {
		return Asset{}, fmt.Errorf("node: store assertion: %w", err)
	}
	tokenID, err := s.store.NextTokenID()
	if err != nil {
		return Asset{}, err
	}
	rec := Record{
		TokenID:     tokenID,
		UAL:         UAL{Chain: s.chain, Hub: s.hub, TokenID: tokenID}.String(),
		Publisher:   common.HexToAddress(publisher).Hex(),
		CID:         id.String(),
		AssertionID: AssertionID(data),
		Epochs:      opts.Epochs,
		Frequency:   opts.Frequency,
		TokenAmount: opts.TokenAmount,
		CreatedAt:   s.Now().UTC(),
	}
	if err := s.store.PutRecord(rec); err != nil {
		return Asset{}, fmt.Errorf("node: store record: %w", err)
	}

	assertion, err := decodeAssertion(data)
	if err != nil {
		return Asset{}, err
	}
	return Asset{Record: rec, State: StateLatestFinalized, Assertion: assertion}, nil
}

// Get resolves ual. With Validate set the stored assertion is re-hashed and
// compared with the ids recorded at mint time.
func (s *Service) Get(ctx context.Context, ual string, opts GetOptions) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	state := opts.State
	switch state {
	case "":
		state = StateLatestFinalized
	case StateLatestFinalized, StateLatest:
	default:
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidState, opts.State)
	}

	u, err := ParseUAL(ual)
	if err != nil {
		return Asset{}, err
	}
	if u.Chain != s.chain || !strings.EqualFold(u.Hub, s.hub) {
		return Asset{}, fmt.Errorf("%w: %s", ErrWrongNetwork, ual)
	}

	rec, err := s.store.GetRecord(u.TokenID)
	if err != nil {
		return Asset{}, err
	}
	id, err := cid.Decode(rec.CID)
	if err != nil {
		return Asset{}, fmt.Errorf("node: record %d: %w", rec.TokenID, err)
	}
	data, err := s.store.GetBlob(id)
	if err != nil {
		return Asset{}, err
	}

	if opts.Validate {
		got, err := ContentID(data)
		if err != nil {
			return Asset{}, err
		}
		if !got.Equals(id) || AssertionID(data) != rec.AssertionID {
			return Asset{}, fmt.Errorf("%w: %s", ErrValidation, ual)
		}
	}

	assertion, err := decodeAssertion(data)
	if err != nil {
		return Asset{}, fmt.Errorf("node: decode assertion: %w", err)
	}
	return Asset{Record: rec, State: state, Assertion: assertion}, nil
}

// decodeAssertion keeps numbers as json.Number so stored integers come back
// exactly as published.
func decodeAssertion(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var assertion map[string]any
	if err := dec.Decode(&assertion); err != nil {
		return nil, err
	}
	return assertion, nil
}
