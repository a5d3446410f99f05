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

// Package rand provides the cryptographically secure random source consumed
// by secret splitting and challenge generation.
//
// The default source reads from crypto/rand. A Source can be supplied
// explicitly wherever deterministic behavior is required under test or when
// a hardware entropy source is available.
package rand

import (
	cryptorand "crypto/rand"
	"fmt"
	"io"
)

// Source produces cryptographically secure random bytes.
type Source interface {
	// Bytes returns n random bytes or an error if the underlying
	// entropy source fails.
	Bytes(n int) ([]byte, error)
}

// Reader is the default entropy stream, backed by crypto/rand.
var Reader io.Reader = cryptorand.Reader

// softwareSource reads from an io.Reader, by default crypto/rand.Reader.
type softwareSource struct {
	reader io.Reader
}

// NewSource returns a Source backed by crypto/rand.
func NewSource() Source {
	return &softwareSource{reader: Reader}
}

// NewSourceFrom returns a Source backed by the given reader. Intended for
// tests and for callers that bring their own entropy device.
func NewSourceFrom(r io.Reader) Source {
	return &softwareSource{reader: r}
}

func (s *softwareSource) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("rand: invalid length %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(s.reader, b); err != nil {
		return nil, fmt.Errorf("rand: failed to read random bytes: %w", err)
	}
	return b, nil
}

// Bytes returns n random bytes from the default source.
func Bytes(n int) ([]byte, error) {
	return NewSource().Bytes(n)
}
