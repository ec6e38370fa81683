// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package node

import "errors"

var (
	ErrNotFound       = errors.New("node: asset not found")
	ErrInvalidUAL     = errors.New("node: invalid UAL")
	ErrWrongNetwork   = errors.New("node: UAL belongs to another network")
	ErrInvalidContent = errors.New("node: content must be a JSON object")
	ErrInvalidOptions = errors.New("node: invalid options")
	ErrInvalidState   = errors.New("node: unsupported state")
	ErrPublisher      = errors.New("node: publisher must be an EVM address")
	ErrValidation     = errors.New("node: assertion validation failed")
	ErrCIDMismatch    = errors.New("node: cid mismatch")
	ErrImmutable      = errors.New("node: immutable object mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
