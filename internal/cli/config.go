// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-recovery.
//
// go-recovery is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
)

// Config holds global CLI configuration
type Config struct {
	// OutputFormat controls output formatting (text, json)
	OutputFormat string

	// Verbose enables verbose logging
	Verbose bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: "text",
		Verbose:      false,
	}
}

// readSecret reads secret material from a file, or from stdin when the
// path is "-". Trailing whitespace is stripped so a newline-terminated
// file round-trips.
func readSecret(path string) ([]byte, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	return []byte(strings.TrimRight(string(raw), "\r\n")), nil
}

// decodeBase64 decodes a base64 CLI argument, naming the argument in the
// error for usable diagnostics.
func decodeBase64(name, value string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 in %s: %w", name, err)
	}
	return decoded, nil
}
