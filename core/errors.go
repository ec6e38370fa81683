// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "errors"

// Kind is a stable category for programmatic error handling. Callers should
// branch on Kind rather than matching error strings.
type Kind string

const (
	// KindInvalidInput: malformed credential, locator or content.
	KindInvalidInput Kind = "InvalidInput"
	// KindNotInitialized: an operation was attempted before a handle exists.
	KindNotInitialized Kind = "NotInitialized"
	// KindConfiguration: the client handle could not be constructed.
	KindConfiguration Kind = "Configuration"
	// KindEmptyResult: the remote call succeeded without a usable payload.
	KindEmptyResult Kind = "EmptyResult"
	// KindRemoteOperation: the SDK call itself failed.
	KindRemoteOperation Kind = "RemoteOperation"
	// KindBusy: another operation is still in flight.
	KindBusy Kind = "Busy"
)

// Operation names used in errors and outcomes.
const (
	OpInitialize = "initialize"
	OpPublish    = "publish"
	OpRetrieve   = "retrieve"
)

// Error is the structured error returned by every coordinator operation.
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Message: msg}
}

func wrapError(kind Kind, op, msg string, cause error) *Error {
	if cause == nil {
		return newError(kind, op, msg)
	}
	return &Error{Kind: kind, Op: op, Message: msg + ": " + cause.Error(), Cause: cause}
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// ErrorInfo is the rendered form of an Error kept in the session state.
type ErrorInfo struct {
	Kind    Kind   `json:"kind"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

func infoOf(err error) *ErrorInfo {
	var e *Error
	if errors.As(err, &e) {
		return &ErrorInfo{Kind: e.Kind, Op: e.Op, Message: e.Message}
	}
	return &ErrorInfo{Message: err.Error()}
}
