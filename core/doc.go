// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core contains the session coordinator: it turns a private key into
// a client handle, runs publish and retrieve against it one at a time, and
// normalizes every failure into a Kind callers can branch on. The package is
// free of UI and storage dependencies; outcomes are handed to an Observer.
package core
