// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/toeirei/dkgtestbed/core"
	"github.com/toeirei/dkgtestbed/internal/tui"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // remote operation failed or returned nothing
	ExitCommandError = 2 // bad input, missing credential or configuration
	ExitBusy         = 3
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error

	// Kind is set when the failure came from a session operation.
	Kind core.Kind
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from err. Errors that are neither an
// ExitError nor a core error map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitCodeForKind(core.KindOf(err))
}

func exitCodeForKind(k core.Kind) int {
	switch k {
	case core.KindInvalidInput, core.KindNotInitialized, core.KindConfiguration:
		return ExitCommandError
	case core.KindBusy:
		return ExitBusy
	default:
		return ExitFailure
	}
}

// fromCore turns a coordinator error into an ExitError with a localized
// message.
func fromCore(err error) error {
	if err == nil {
		return nil
	}
	kind := core.KindOf(err)
	return &ExitError{Code: exitCodeForKind(kind), Message: tui.Describe(err), Kind: kind}
}

// OutputFormatter renders command results as text or JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope for command output.
type Response struct {
	Status string     `json:"status"`
	Data   any        `json:"data,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the error part of a Response.
type ErrorBody struct {
	Kind    string `json:"kind,omitempty"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success writes data. In text mode text is printed instead when non-empty.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	if text == "" {
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		text = string(b)
	}
	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Error writes err in JSON mode. Text mode leaves error reporting to the
// caller of Execute.
func (f *OutputFormatter) Error(err error) {
	if f.Format != "json" || err == nil {
		return
	}
	kind := core.KindOf(err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Kind != "" {
		kind = exitErr.Kind
	}
	_ = json.NewEncoder(f.Writer).Encode(Response{
		Status: "error",
		Error: &ErrorBody{
			Kind:    string(kind),
			Code:    GetExitCode(err),
			Message: err.Error(),
		},
	})
}
