// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for the DKG Testbed using
// Cobra. It wires configuration, the provider registry and the operation
// journal, then delegates to core.Coordinator. Running without a subcommand
// launches the interactive TUI.
package cli
