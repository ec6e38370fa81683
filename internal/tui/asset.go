// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"encoding/json"
	"time"
)

type personAsset struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// DefaultAsset returns the JSON-LD document the create pane starts with.
func DefaultAsset(now time.Time) string {
	b, _ := json.MarshalIndent(personAsset{
		Context:     "https://schema.org",
		Type:        "Person",
		Name:        "John Doe",
		Description: "A test asset created with the DKG Testbed.",
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
	}, "", "  ")
	return string(b)
}

// prettyJSON indents v for display. Values that cannot be encoded are shown
// as their error.
func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(b)
}
