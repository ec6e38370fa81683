// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files for missing and orphaned keys.
// It scans the Go sources for i18n.T("...") calls and compares them with
// the YAML locale files, using the English file as the source of truth.
// Keys built at runtime (prefix + variable) are matched by prefix.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const primaryLocale = "en.yaml"

var (
	literalKeyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	prefixKeyRe  = regexp.MustCompile(`i18n\.T\("([^"]+\.)"\s*\+`)
)

// Report is the result of one lint run.
type Report struct {
	Used     []string            // literal keys referenced in code
	Prefixes []string            // prefixes of keys built at runtime
	Missing  map[string][]string // locale file -> keys absent there but present in en
	Unknown  []string            // keys used in code but absent from en
	Orphaned []string            // keys in en matched by nothing in code
}

// Failed reports whether the run found errors. Orphans are only warnings.
func (r Report) Failed() bool {
	return len(r.Unknown) > 0 || len(r.Missing) > 0
}

func main() {
	var root, locales string
	cmd := &cobra.Command{
		Use:          "i18n-linter",
		Short:        "Check translation keys against the locale files",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := lint(root, locales)
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), r)
			if r.Failed() {
				return fmt.Errorf("locale files are inconsistent")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "source tree to scan")
	cmd.Flags().StringVar(&locales, "locales", "internal/i18n/locales", "locale directory")
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func lint(root, localesDir string) (Report, error) {
	used, prefixes, err := findUsedKeys(root)
	if err != nil {
		return Report{}, fmt.Errorf("scan sources: %w", err)
	}
	primary, err := loadKeysFromLocale(filepath.Join(localesDir, primaryLocale))
	if err != nil {
		return Report{}, fmt.Errorf("load %s: %w", primaryLocale, err)
	}
	files, err := filepath.Glob(filepath.Join(localesDir, "*.yaml"))
	if err != nil {
		return Report{}, err
	}

	r := Report{Used: sortedKeys(used), Prefixes: sortedKeys(prefixes), Missing: map[string][]string{}}
	for k := range used {
		if _, ok := primary[k]; !ok {
			r.Unknown = append(r.Unknown, k)
		}
	}
	for k := range primary {
		if _, ok := used[k]; ok {
			continue
		}
		if !hasPrefix(k, prefixes) {
			r.Orphaned = append(r.Orphaned, k)
		}
	}
	for _, f := range files {
		if filepath.Base(f) == primaryLocale {
			continue
		}
		other, err := loadKeysFromLocale(f)
		if err != nil {
			return Report{}, fmt.Errorf("load %s: %w", f, err)
		}
		var missing []string
		for k := range primary {
			if _, ok := other[k]; !ok {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			r.Missing[filepath.Base(f)] = missing
		}
	}
	sort.Strings(r.Unknown)
	sort.Strings(r.Orphaned)
	return r, nil
}

// findUsedKeys scans non-test .go files for i18n.T calls.
func findUsedKeys(root string) (used, prefixes map[string]struct{}, err error) {
	used = map[string]struct{}{}
	prefixes = map[string]struct{}{}
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "tools", "_examples", ".git":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range prefixKeyRe.FindAllStringSubmatch(string(content), -1) {
			prefixes[m[1]] = struct{}{}
		}
		for _, m := range literalKeyRe.FindAllStringSubmatchIndex(string(content), -1) {
			key := string(content[m[2]:m[3]])
			if _, isPrefix := prefixes[key]; isPrefix && strings.HasSuffix(key, ".") {
				continue
			}
			used[key] = struct{}{}
		}
		return nil
	})
	return used, prefixes, err
}

// loadKeysFromLocale reads a YAML file and returns a flat set of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts nested maps into dot-separated keys. Flat files with
// dotted keys pass through unchanged.
func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}

func hasPrefix(key string, prefixes map[string]struct{}) bool {
	for p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func writeReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "%d keys used, %d runtime prefixes\n", len(r.Used), len(r.Prefixes))
	for _, k := range r.Unknown {
		fmt.Fprintf(w, "  - Unknown: %s\n", k)
	}
	files := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, k := range r.Missing[f] {
			fmt.Fprintf(w, "  - Missing in %s: %s\n", f, k)
		}
	}
	for _, k := range r.Orphaned {
		fmt.Fprintf(w, "  - Orphaned: %s\n", k)
	}
	if !r.Failed() && len(r.Orphaned) == 0 {
		fmt.Fprintln(w, "All translation files are consistent.")
	}
}
