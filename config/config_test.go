// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cfg "github.com/toeirei/dkgtestbed/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return tmp
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	isolate(t)

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		t.Fatalf("expected ConfigFileNotFoundError, got: %T %v", err, err)
	}
	if got.Network != cfg.PresetTestnet {
		t.Fatalf("expected testnet default, got %q", got.Network)
	}
	if got.Journal.Type != "sqlite" || !strings.Contains(got.Journal.Dsn, "mode=memory") {
		t.Fatalf("expected in-memory sqlite journal, got %+v", got.Journal)
	}
	if got.Credential.Env != "DKG_PRIVATE_KEY" {
		t.Fatalf("unexpected credential env %q", got.Credential.Env)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := isolate(t)
	yaml := "network: local\nprovider: echo\nlanguage: de\njournal:\n  type: sqlite\n  dsn: ./journal.db\nnode:\n  listen: 127.0.0.1:9999\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Network != "local" || got.Provider != "echo" || got.Language != "de" {
		t.Fatalf("file values not applied: %+v", got)
	}
	if got.Node.Listen != "127.0.0.1:9999" {
		t.Fatalf("unexpected node listen %q", got.Node.Listen)
	}
	if got.Journal.Dsn != "./journal.db" {
		t.Fatalf("unexpected journal dsn %q", got.Journal.Dsn)
	}
}

func TestLoadConfig_EnvAndFlagPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv("DKGTESTBED_NETWORK", "local")
	t.Setenv("DKGTESTBED_JOURNAL_TYPE", "postgres")

	cmd := &cobra.Command{}
	cmd.Flags().String("journal.type", "sqlite", "")
	if err := cmd.Flags().Set("journal.type", "mysql"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	got, _ := cfg.LoadConfig[cfg.Config](cmd, cfg.Defaults(), nil)
	if got.Network != "local" {
		t.Fatalf("expected env override, got %q", got.Network)
	}
	if got.Journal.Type != "mysql" {
		t.Fatalf("expected flag to win over env, got %q", got.Journal.Type)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	isolate(t)

	c := cfg.Config{Network: "local", Provider: "echo", Language: "en"}
	c.Journal.Type = "sqlite"

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}
	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
	if !strings.Contains(string(data), "network: local") {
		t.Fatalf("unexpected file content:\n%s", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}
