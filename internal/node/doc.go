// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// Package node implements a small knowledge-asset node: it accepts JSON-LD
// documents, stores them content-addressed and hands out UALs that resolve
// back to the stored assertion. It backs the "local" network preset and the
// offline echo client.
package node
