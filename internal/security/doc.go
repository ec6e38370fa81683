// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package security holds the in-memory wrapper used for wallet private keys.
// Values are redacted whenever they are formatted or marshalled so a signing
// credential can be passed through configs and logs without leaking.
package security
