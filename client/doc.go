// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// Package client defines the boundary to the network client SDK: the Client
// handle with its two remote operations, providers that construct handles,
// the runtime registry providers can be discovered through, and the Factory
// that merges a signing key into a network configuration.
package client
