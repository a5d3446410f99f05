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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	config := NewConfig()
	assert.Equal(t, "text", config.OutputFormat)
	assert.False(t, config.Verbose)
}

func TestReadSecretStripsTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("hunter2\n"), 0600))

	secret, err := readSecret(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), secret)

	_, err = readSecret(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestReadSecretFromStdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = stdin })

	_, err = w.Write([]byte("hunter2\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	secret, err := readSecret("-")
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), secret)
}

func TestDecodeBase64NamesArgument(t *testing.T) {
	decoded, err := decodeBase64("guardian 1", "AQID")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, decoded)

	_, err = decodeBase64("guardian 1", "***")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guardian 1")
}

func TestPrinterFormats(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("json", &buf)
	require.NoError(t, printer.PrintShares([]string{"AQ==", "Ag=="}, 2))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(2), decoded["threshold"])

	buf.Reset()
	printer = NewPrinter("text", &buf)
	require.NoError(t, printer.PrintSecret([]byte{1, 2, 3}))
	assert.Equal(t, "AQID\n", buf.String())

	printer = NewPrinter("bogus", &buf)
	assert.Error(t, printer.PrintSuccess("x"))
}
