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

// Package shamir implements Shamir's Secret Sharing over GF(2^8).
//
// A secret is split into N shares such that any M of them reconstruct it
// while any M-1 reveal nothing: each secret byte becomes the constant term
// of a fresh random polynomial of degree M-1, and share i holds the
// polynomial's evaluation at x=i. Reconstruction interpolates the
// polynomial at x=0 from M points.
//
// Splitting is stateless and draws fresh coefficients from the configured
// CSPRNG on every call; coefficients are wiped as soon as the evaluations
// are produced and are never persisted.
package shamir

import (
	"crypto/subtle"

	"github.com/jeremyhahn/go-recovery/pkg/crypto/gf256"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/rand"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/zeroize"
)

// Split divides secret into total shares, any threshold of which can
// reconstruct it.
//
// Constraints: 2 <= threshold <= total <= 255 and a non-empty secret.
func Split(secret []byte, threshold, total int) ([]Share, error) {
	return SplitWithSource(rand.NewSource(), secret, threshold, total)
}

// SplitWithSource is Split with an explicit entropy source.
func SplitWithSource(source rand.Source, secret []byte, threshold, total int) ([]Share, error) {
	if threshold < 2 || threshold > 255 {
		return nil, ErrInvalidThreshold
	}
	if total < threshold || total > 255 {
		return nil, ErrInvalidShareCount
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	shares := make([]Share, total)
	for i := range shares {
		shares[i].Index = byte(i + 1)
		shares[i].Data = make([]byte, len(secret))
	}

	// Each secret byte gets its own fresh polynomial: constant term is the
	// secret byte, the remaining threshold-1 coefficients are random.
	coefficients := make([]byte, threshold)
	defer zeroize.Bytes(coefficients)

	for byteIdx := 0; byteIdx < len(secret); byteIdx++ {
		coefficients[0] = secret[byteIdx]
		random, err := source.Bytes(threshold - 1)
		if err != nil {
			return nil, err
		}
		copy(coefficients[1:], random)
		zeroize.Bytes(random)

		for i := range shares {
			shares[i].Data[byteIdx] = gf256.Eval(coefficients, shares[i].Index)
		}
	}

	return shares, nil
}

// Reconstruct recovers the secret from the supplied shares.
//
// minShares guards against silent corruption: classical Shamir
// reconstruction from fewer shares than the original threshold does not
// fail, it yields an unrelated byte string. Callers that know the
// threshold pass it as minShares to fail fast instead. A minShares of 0
// disables the check and reconstructs from whatever was supplied.
func Reconstruct(shares []Share, minShares int) ([]byte, error) {
	if len(shares) == 0 {
		return nil, ErrEmptyShareList
	}
	if minShares > 0 && len(shares) < minShares {
		return nil, ErrInsufficientShares
	}

	length := len(shares[0].Data)
	seen := make(map[byte]bool, len(shares))
	for _, share := range shares {
		if share.Index == 0 {
			return nil, ErrInvalidShareIndex
		}
		if len(share.Data) == 0 {
			return nil, ErrEmptyShareData
		}
		if len(share.Data) != length {
			return nil, ErrLengthMismatch
		}
		if seen[share.Index] {
			return nil, ErrDuplicateShareIndex
		}
		seen[share.Index] = true
	}

	secret := make([]byte, length)
	points := make([]gf256.Point, len(shares))
	for byteIdx := 0; byteIdx < length; byteIdx++ {
		for i, share := range shares {
			points[i] = gf256.Point{X: share.Index, Y: share.Data[byteIdx]}
		}
		b, err := gf256.InterpolateAtZero(points)
		if err != nil {
			zeroize.Bytes(secret)
			return nil, err
		}
		secret[byteIdx] = b
	}

	return secret, nil
}

// Verify checks that the given shares reconstruct the given secret at the
// given threshold. It reconstructs from two distinct threshold-subsets
// when more than threshold shares are supplied, so a single corrupted
// share in either subset is detected. Comparison is constant time.
func Verify(secret []byte, shares []Share, threshold int) (bool, error) {
	if threshold < 2 || threshold > 255 {
		return false, ErrInvalidThreshold
	}
	if len(shares) < threshold {
		return false, ErrInsufficientShares
	}

	first, err := Reconstruct(shares[:threshold], threshold)
	if err != nil {
		return false, err
	}
	defer zeroize.Bytes(first)
	if subtle.ConstantTimeCompare(first, secret) != 1 {
		return false, nil
	}

	if len(shares) > threshold {
		last, err := Reconstruct(shares[len(shares)-threshold:], threshold)
		if err != nil {
			return false, err
		}
		defer zeroize.Bytes(last)
		if subtle.ConstantTimeCompare(last, secret) != 1 {
			return false, nil
		}
	}

	return true, nil
}
