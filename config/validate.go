// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"math"
	"net"
	"strings"

	"github.com/bitfsorg/mediapay-go/ledger"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if err := validateAddr(cfg.ListenAddr); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidListenAddr, err)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if _, err := ledger.ParseIdentity(cfg.TokenProgram); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTokenProgram, err)
	}

	if cfg.Rent.LamportsPerByteYear == 0 {
		return fmt.Errorf("%w: lamports per byte-year must be positive", ErrInvalidRent)
	}
	if t := cfg.Rent.ExemptionThreshold; math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return fmt.Errorf("%w: exemption threshold %v", ErrInvalidRent, t)
	}

	return nil
}

// validateAddr checks that addr is a valid host:port address.
func validateAddr(addr string) error {
	_, _, err := net.SplitHostPort(addr)
	return err
}
