// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads node settings from a YAML file with MEDIAPAY_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/token"
)

// EnvPrefix prefixes environment overrides, e.g. MEDIAPAY_LOGLEVEL or
// MEDIAPAY_RENT_EXEMPTION_THRESHOLD.
const EnvPrefix = "MEDIAPAY"

// Config holds node settings.
type Config struct {
	DataDir      string     `mapstructure:"datadir"`       // Ledger database, keys and config
	ListenAddr   string     `mapstructure:"listen"`        // HTTP listen address
	LogLevel     string     `mapstructure:"loglevel"`      // debug, info, warn or error
	LogFile      string     `mapstructure:"logfile"`       // Empty logs to stderr
	TokenProgram string     `mapstructure:"token_program"` // Hex identity of the token program
	Rent         RentConfig `mapstructure:"rent"`
}

// RentConfig is the persistence policy published through the rent sysvar.
type RentConfig struct {
	LamportsPerByteYear uint64  `mapstructure:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `mapstructure:"exemption_threshold"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:      DefaultDataDir(),
		ListenAddr:   ":8080",
		LogLevel:     "info",
		TokenProgram: token.ProgramID.String(),
		Rent: RentConfig{
			LamportsPerByteYear: ledger.DefaultRent.LamportsPerByteYear,
			ExemptionThreshold:  ledger.DefaultRent.ExemptionThreshold,
		},
	}
}

// DefaultDataDir returns ~/.mediapay, or .mediapay if the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mediapay"
	}
	return filepath.Join(home, ".mediapay")
}

// ConfigPath returns the configuration file inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// LoadConfig reads the file at path over the defaults and applies
// environment overrides. A missing file is ErrConfigNotFound.
func LoadConfig(path string) (Config, error) {
	return load(path, true)
}

// LoadConfigOrDefault is LoadConfig, but a missing file yields the defaults
// with environment overrides applied.
func LoadConfigOrDefault(path string) (Config, error) {
	return load(path, false)
}

func load(path string, requireFile bool) (Config, error) {
	v := newViper(DefaultConfig())

	_, err := os.Stat(path)
	switch {
	case err == nil:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if requireFile {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
	default:
		return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: failed to create config directory: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0600)
	for key, value := range settings(cfg) {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: failed to write config: %w", err)
	}
	return nil
}

// LedgerRent converts the rent settings to a ledger policy.
func (c Config) LedgerRent() ledger.Rent {
	r := ledger.DefaultRent
	r.LamportsPerByteYear = c.Rent.LamportsPerByteYear
	r.ExemptionThreshold = c.Rent.ExemptionThreshold
	return r
}

// TokenProgramID parses the configured token program identity.
func (c Config) TokenProgramID() (ledger.Identity, error) {
	id, err := ledger.ParseIdentity(c.TokenProgram)
	if err != nil {
		return ledger.Identity{}, fmt.Errorf("%w: %w", ErrInvalidTokenProgram, err)
	}
	return id, nil
}

// LedgerPath returns the ledger database file inside the data directory.
func (c Config) LedgerPath() string {
	return filepath.Join(c.DataDir, "ledger.db")
}

// KeysDir returns the directory holding encrypted signing keys.
func (c Config) KeysDir() string {
	return filepath.Join(c.DataDir, "keys")
}

func newViper(defaults Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range settings(defaults) {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func settings(cfg Config) map[string]any {
	return map[string]any{
		"datadir":                     cfg.DataDir,
		"listen":                      cfg.ListenAddr,
		"loglevel":                    cfg.LogLevel,
		"logfile":                     cfg.LogFile,
		"token_program":               cfg.TokenProgram,
		"rent.lamports_per_byte_year": cfg.Rent.LamportsPerByteYear,
		"rent.exemption_threshold":    cfg.Rent.ExemptionThreshold,
	}
}
