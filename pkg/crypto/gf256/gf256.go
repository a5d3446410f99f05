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

// Package gf256 implements arithmetic over the finite field GF(2^8) using
// the AES (Rijndael) irreducible polynomial x^8 + x^4 + x^3 + x + 1 (0x11B).
//
// Multiplication and division are performed through precomputed logarithm
// and exponentiation tables built from the generator 0x03. The tables are
// constructed once, lazily, and are immutable afterward, so all operations
// are safe to call from any goroutine.
//
// Addition and subtraction in GF(2^8) are both XOR and are performed inline
// by callers.
package gf256

import (
	"errors"
	"sync"
)

// ErrDivisionByZero indicates an attempt to divide by zero in GF(2^8).
// This is an invariant violation by the caller, not a recoverable
// condition: no retry can succeed with the same inputs.
var ErrDivisionByZero = errors.New("gf256: division by zero")

// Log/exp tables for GF(2^8). expTable is doubled in length so that
// table lookups during multiplication never need a modular reduction
// conditional beyond the initial index sum.
var (
	tablesOnce sync.Once
	logTable   [256]byte
	expTable   [510]byte
)

// initTables builds the log/exp tables. The generator 0x03 is primitive
// modulo 0x11B; its powers enumerate every non-zero field element exactly
// once over 255 steps.
func initTables() {
	x := byte(1)
	for i := 0; i < 255; i++ {
		expTable[i] = x
		expTable[i+255] = x
		logTable[x] = byte(i)
		x = mulSlow(x, 0x03)
	}
}

// mulSlow multiplies in GF(2^8) using the Russian peasant algorithm with
// reduction by 0x11B. Used only while building the tables.
func mulSlow(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}
		carry := a & 0x80
		a <<= 1
		if carry != 0 {
			a ^= 0x1B
		}
		b >>= 1
	}
	return p
}

// Mul multiplies two elements of GF(2^8).
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	tablesOnce.Do(initTables)
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Div divides a by b in GF(2^8). Dividing by zero returns
// ErrDivisionByZero; zero divided by any non-zero element is zero.
func Div(a, b byte) (byte, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == 0 {
		return 0, nil
	}
	tablesOnce.Do(initTables)
	return expTable[int(logTable[a])+255-int(logTable[b])], nil
}

// Inverse returns the multiplicative inverse of a in GF(2^8).
// The inverse of zero does not exist and returns ErrDivisionByZero.
func Inverse(a byte) (byte, error) {
	return Div(1, a)
}
