// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/token"
)

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"ListenAddr", cfg.ListenAddr, ":8080"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
		{"TokenProgram", cfg.TokenProgram, token.ProgramID.String()},
		{"LamportsPerByteYear", cfg.Rent.LamportsPerByteYear, uint64(3480)},
		{"ExemptionThreshold", cfg.Rent.ExemptionThreshold, 2.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.LedgerRent() != ledger.DefaultRent {
		t.Errorf("LedgerRent() = %+v, want %+v", cfg.LedgerRent(), ledger.DefaultRent)
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	original := Config{
		DataDir:      "/tmp/test-mediapay",
		ListenAddr:   ":9000",
		LogLevel:     "debug",
		LogFile:      "/tmp/mediapay.log",
		TokenProgram: ledger.DeriveIdentity("other-token").String(),
		Rent:         RentConfig{LamportsPerByteYear: 10, ExemptionThreshold: 1.5},
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded != original {
		t.Errorf("round trip: got %+v, want %+v", loaded, original)
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSaveConfig_OutputContainsAllKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)

	for _, key := range []string{"datadir:", "listen:", "loglevel:", "logfile:", "token_program:", "rent:", "exemption_threshold:"} {
		if !strings.Contains(content, key) {
			t.Errorf("saved config should contain key %q", key)
		}
	}
}

// ---------------------------------------------------------------------------
// LoadConfig error and override tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigOrDefault_Missing(t *testing.T) {
	cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigOrDefault: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("listen: [unterminated\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfigFile) {
		t.Errorf("LoadConfig bad yaml: got %v, want ErrInvalidConfigFile", err)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `# partial
loglevel: debug
rent:
  exemption_threshold: 1
futurekey: ignored
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Rent.ExemptionThreshold != 1 {
		t.Errorf("ExemptionThreshold = %v, want 1", cfg.Rent.ExemptionThreshold)
	}
	if cfg.Rent.LamportsPerByteYear != 3480 {
		t.Errorf("LamportsPerByteYear = %d, want default 3480", cfg.Rent.LamportsPerByteYear)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want default %q", cfg.ListenAddr, ":8080")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MEDIAPAY_LISTEN", "127.0.0.1:7000")
	t.Setenv("MEDIAPAY_RENT_LAMPORTS_PER_BYTE_YEAR", "7")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:7000" {
		t.Errorf("ListenAddr = %q, want env override", cfg.ListenAddr)
	}
	if cfg.Rent.LamportsPerByteYear != 7 {
		t.Errorf("LamportsPerByteYear = %d, want env override 7", cfg.Rent.LamportsPerByteYear)
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "empty_datadir",
			modify:  func(c *Config) { c.DataDir = "" },
			wantErr: ErrEmptyDataDir,
		},
		{
			name:    "bad_listen_addr",
			modify:  func(c *Config) { c.ListenAddr = "not-a-valid-addr" },
			wantErr: ErrInvalidListenAddr,
		},
		{
			name:    "bad_loglevel",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad_token_program",
			modify:  func(c *Config) { c.TokenProgram = "abcd" },
			wantErr: ErrInvalidTokenProgram,
		},
		{
			name:    "zero_rent",
			modify:  func(c *Config) { c.Rent.LamportsPerByteYear = 0 },
			wantErr: ErrInvalidRent,
		},
		{
			name:    "negative_threshold",
			modify:  func(c *Config) { c.Rent.ExemptionThreshold = -1 },
			wantErr: ErrInvalidRent,
		},
		{
			name:    "nan_threshold",
			modify:  func(c *Config) { c.Rent.ExemptionThreshold = math.NaN() },
			wantErr: ErrInvalidRent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateConfig: got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfig_LogLevelCaseInsensitive(t *testing.T) {
	for _, level := range []string{"INFO", "Debug", "WARN", "Error", "dEbUg"} {
		t.Run(level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogLevel = level
			if err := ValidateConfig(cfg); err != nil {
				t.Errorf("ValidateConfig(%q) = %v, want nil", level, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Path helpers
// ---------------------------------------------------------------------------

func TestConfigPath(t *testing.T) {
	got := ConfigPath("/home/user/.mediapay")
	want := filepath.Join("/home/user/.mediapay", "config.yaml")
	if got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}

func TestDefaultDataDir_EndsWith_DotMediapay(t *testing.T) {
	dir := DefaultDataDir()
	if !strings.HasSuffix(dir, ".mediapay") {
		t.Errorf("DefaultDataDir() = %q, want suffix %q", dir, ".mediapay")
	}
}

func TestTokenProgramID(t *testing.T) {
	cfg := DefaultConfig()
	id, err := cfg.TokenProgramID()
	if err != nil {
		t.Fatalf("TokenProgramID: %v", err)
	}
	if id != token.ProgramID {
		t.Errorf("TokenProgramID = %s, want %s", id, token.ProgramID)
	}

	cfg.TokenProgram = "zz"
	if _, err := cfg.TokenProgramID(); !errors.Is(err, ErrInvalidTokenProgram) {
		t.Errorf("TokenProgramID(zz): got %v, want ErrInvalidTokenProgram", err)
	}
}
