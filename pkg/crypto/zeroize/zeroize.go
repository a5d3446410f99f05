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

// Package zeroize clears secret-bearing buffers. Callers defer a wipe on
// every code path that allocates key material, shares, or polynomial
// coefficients so secrets do not linger in memory after use.
package zeroize

// Bytes overwrites b with zeros. Safe to call on nil or empty slices.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// All overwrites each of the given slices with zeros.
func All(buffers ...[]byte) {
	for _, b := range buffers {
		Bytes(b)
	}
}
