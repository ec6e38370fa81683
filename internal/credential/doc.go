// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// Package credential decides whether a string is acceptable as a wallet
// signing key and provides the pluggable sources a session can obtain one
// from (manual entry, environment, interactive prompt).
//
// Validation is purely syntactic. Whether the key is a usable curve scalar is
// left to the network client constructed from it.
package credential
