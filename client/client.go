// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.
package client

import (
	"context"
)

// Consistency levels accepted by Get.
const (
	StateLatestFinalized = "LATEST_FINALIZED"
	StateLatest          = "LATEST"
)

// Client is a handle bound to one signing key and one network configuration.
// Implementations connect lazily; constructing one performs no network call.
type Client interface {
	// Create publishes content as a new knowledge asset.
	Create(ctx context.Context, content Content, opts CreateOptions) (CreateResult, error)

	// Get fetches the assertion stored under ual.
	Get(ctx context.Context, ual string, opts GetOptions) (GetResult, error)

	// Close releases connections held by the handle.
	Close(ctx context.Context) error
}

// Content is a JSON-LD shaped knowledge asset document.
type Content map[string]any

// CreateOptions carries the retention and incentive parameters of a publish.
type CreateOptions struct {
	Epochs      int   `json:"epochs"`
	Frequency   int   `json:"frequency"`
	TokenAmount int64 `json:"tokenAmount"`
}

// GetOptions selects the consistency level of a retrieval.
type GetOptions struct {
	State    string `json:"state"`
	Validate bool   `json:"validate"`
}

// CreateResult is what the SDK reports after a publish. Any field may be
// empty; callers decide what counts as a usable result.
type CreateResult struct {
	UAL         string `json:"UAL,omitempty"`
	AssertionID string `json:"assertionId,omitempty"`
	CID         string `json:"cid,omitempty"`
}

// GetResult is what the SDK reports after a retrieval. Assertion is nil when
// the network returned nothing.
type GetResult struct {
	Assertion   Content `json:"assertion,omitempty"`
	AssertionID string  `json:"assertionId,omitempty"`
	State       string  `json:"state,omitempty"`
}
