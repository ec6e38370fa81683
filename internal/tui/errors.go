// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"errors"

	"github.com/toeirei/dkgtestbed/core"
	"github.com/toeirei/dkgtestbed/internal/i18n"
)

// Describe renders err as a localized, user-facing message.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var e *core.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return i18n.T("error."+e.Op, map[string]any{"Detail": e.Cause.Error()})
	}
	switch e.Kind {
	case core.KindNotInitialized, core.KindBusy:
		return i18n.T("error." + string(e.Kind))
	case core.KindEmptyResult:
		return i18n.T("error.EmptyResult." + e.Op)
	case core.KindInvalidInput:
		return i18n.T("error.InvalidInput", map[string]any{"Detail": e.Message})
	}
	return e.Message
}
