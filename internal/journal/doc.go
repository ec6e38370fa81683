// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// Package journal records what the session did: one row per operation with
// its outcome and timing. Credentials and asset content are never stored.
// Backends are sqlite, postgres and mysql through bun.
package journal
