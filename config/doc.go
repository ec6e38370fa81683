// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides the fixed network presets the testbed can talk to
// and the application configuration layer. It uses Viper for file/env/flag
// parsing and exposes helpers to read/write configuration files.
package config
