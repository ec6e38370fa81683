// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/toeirei/dkgtestbed/client"
)

// Fixed remote-operation parameters.
const (
	PublishEpochs      = 5
	PublishFrequency   = 1
	PublishTokenAmount = 1

	RetrieveState    = client.StateLatestFinalized
	RetrieveValidate = true
)

// PublishResult is the outcome of a successful publish.
type PublishResult struct {
	UAL         string `json:"ual"`
	AssertionID string `json:"assertionId,omitempty"`
}

// RetrieveResult is the outcome of a successful retrieve.
type RetrieveResult struct {
	UAL         string         `json:"ual"`
	Assertion   client.Content `json:"assertion"`
	AssertionID string         `json:"assertionId,omitempty"`
}

// ParseContent decodes raw as a JSON object. Malformed JSON and well-formed
// non-objects are reported with different messages. Numbers are kept as
// json.Number so integers beyond 2^53 survive unchanged.
func ParseContent(raw string) (client.Content, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, wrapError(KindInvalidInput, OpPublish, "content is not valid JSON", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, newError(KindInvalidInput, OpPublish, "content is not valid JSON: unexpected data after the top-level value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, newError(KindInvalidInput, OpPublish, fmt.Sprintf("content must be a JSON object, got %s", jsonType(v)))
	}
	return client.Content(obj), nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number, float64:
		return "a number"
	case bool:
		return "a boolean"
	}
	return fmt.Sprintf("%T", v)
}

// Publish creates content as a knowledge asset through handle.
func Publish(ctx context.Context, handle client.Client, content client.Content) (PublishResult, error) {
	if handle == nil {
		return PublishResult{}, newError(KindNotInitialized, OpPublish, "client is not initialized")
	}
	if content == nil {
		return PublishResult{}, newError(KindInvalidInput, OpPublish, "content must be a JSON object")
	}

	res, err := handle.Create(ctx, content, client.CreateOptions{
		Epochs:      PublishEpochs,
		Frequency:   PublishFrequency,
		TokenAmount: PublishTokenAmount,
	})
	if err != nil {
		return PublishResult{}, wrapError(KindRemoteOperation, OpPublish, "failed to create asset", err)
	}
	if strings.TrimSpace(res.UAL) == "" {
		return PublishResult{}, newError(KindEmptyResult, OpPublish, "asset creation did not return a UAL")
	}
	return PublishResult{UAL: res.UAL, AssertionID: res.AssertionID}, nil
}

// Retrieve fetches the latest finalized assertion stored under ual.
func Retrieve(ctx context.Context, handle client.Client, ual string) (RetrieveResult, error) {
	if handle == nil {
		return RetrieveResult{}, newError(KindNotInitialized, OpRetrieve, "client is not initialized")
	}
	ual = strings.TrimSpace(ual)
	if ual == "" {
		return RetrieveResult{}, newError(KindInvalidInput, OpRetrieve, "a UAL is required")
	}

	res, err := handle.Get(ctx, ual, client.GetOptions{State: RetrieveState, Validate: RetrieveValidate})
	if err != nil {
		return RetrieveResult{}, wrapError(KindRemoteOperation, OpRetrieve, "failed to get asset", err)
	}
	if res.Assertion == nil {
		return RetrieveResult{}, newError(KindEmptyResult, OpRetrieve, "asset retrieval did not return an assertion")
	}
	return RetrieveResult{UAL: ual, Assertion: res.Assertion, AssertionID: res.AssertionID}, nil
}

func validateLocator(ual string) error {
	if strings.TrimSpace(ual) == "" {
		return newError(KindInvalidInput, OpRetrieve, "a UAL is required")
	}
	return nil
}
