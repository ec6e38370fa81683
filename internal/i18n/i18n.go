// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// Package i18n loads the embedded translation files and translates message
// ids for the CLI and TUI.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	current   = language.English
)

func loadBundle() (*i18n.Bundle, error) {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			return nil, err
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name(), err)
		}
	}
	return b, nil
}

// Init loads the bundle and selects lang. Unknown languages fall back to
// English; a malformed tag is an error.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid language %q: %w", lang, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		b, err := loadBundle()
		if err != nil {
			return err
		}
		bundle = b
	}
	matcher := language.NewMatcher(bundle.LanguageTags())
	_, idx, _ := matcher.Match(tag)
	current = bundle.LanguageTags()[idx]
	localizer = i18n.NewLocalizer(bundle, current.String())
	return nil
}

// SetLang changes the active language of the localizer.
func SetLang(lang string) error {
	return Init(lang)
}

// Lang returns the active language tag.
func Lang() string {
	mu.RLock()
	defer mu.RUnlock()
	return current.String()
}

// Supported lists the languages with a translation file.
func Supported() []string {
	ensure()
	mu.RLock()
	defer mu.RUnlock()
	tags := bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}

func ensure() {
	mu.RLock()
	ready := localizer != nil
	mu.RUnlock()
	if !ready {
		_ = Init("en")
	}
}

// T translates messageID. data, if given, fills template fields. A missing
// translation returns the id itself.
func T(messageID string, data ...map[string]any) string {
	ensure()
	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	mu.RLock()
	l := localizer
	mu.RUnlock()
	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
