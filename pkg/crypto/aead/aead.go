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

// Package aead provides the authenticated encryption primitive consumed by
// the recovery protocol, with automatic algorithm selection based on CPU
// capabilities.
//
// Two algorithms are supported, both taking 32-byte keys and producing
// ciphertexts with the 12-byte nonce prefixed:
//
//   - AES-256-GCM: used when hardware AES instructions are available.
//   - ChaCha20-Poly1305: used on CPUs without AES acceleration, where it
//     outperforms software AES and is constant-time by construction.
//
// The wire format is [nonce(12) || ciphertext+tag], so a ciphertext is
// self-contained given the key and algorithm name.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/sys/cpu"

	"github.com/jeremyhahn/go-recovery/pkg/crypto/rand"
)

// Supported algorithm names.
const (
	// AES256GCM is AES-256 in Galois/Counter Mode.
	AES256GCM = "aes256-gcm"

	// ChaCha20Poly1305 is the ChaCha20-Poly1305 AEAD.
	ChaCha20Poly1305 = "chacha20-poly1305"
)

// KeySize is the key length in bytes required by both algorithms.
const KeySize = 32

// NonceSize is the nonce length in bytes for both algorithms. The nonce
// is generated fresh per encryption and prefixed to the ciphertext.
const NonceSize = 12

var (
	// ErrAuthenticationFailed indicates the ciphertext failed to
	// authenticate: wrong key, truncated data, or tampering.
	ErrAuthenticationFailed = errors.New("aead: message authentication failed")

	// ErrInvalidKeySize indicates a key of the wrong length.
	ErrInvalidKeySize = errors.New("aead: key must be 32 bytes")

	// ErrCiphertextTooShort indicates a ciphertext shorter than a nonce.
	ErrCiphertextTooShort = errors.New("aead: ciphertext too short")
)

// HasAESNI returns true if the CPU has hardware AES acceleration.
func HasAESNI() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpu.X86.HasAES
	case "arm64":
		return cpu.ARM64.HasAES
	default:
		return false
	}
}

// SelectOptimal returns the AEAD algorithm best suited to this host:
// AES-256-GCM with hardware acceleration, ChaCha20-Poly1305 without.
func SelectOptimal() string {
	if HasAESNI() {
		return AES256GCM
	}
	return ChaCha20Poly1305
}

// Cipher is a ready-to-use AEAD bound to a key and algorithm.
type Cipher struct {
	algorithm string
	aead      cipher.AEAD
	random    io.Reader
}

// New creates a Cipher for the given algorithm and 32-byte key.
func New(algorithm string, key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	var aead cipher.AEAD
	switch algorithm {
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("aead: failed to create AES cipher: %w", err)
		}
		aead, err = cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("aead: failed to create GCM: %w", err)
		}
	case ChaCha20Poly1305:
		var err error
		aead, err = chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("aead: failed to create ChaCha20-Poly1305: %w", err)
		}
	default:
		return nil, fmt.Errorf("aead: unsupported algorithm: %s", algorithm)
	}

	return &Cipher{
		algorithm: algorithm,
		aead:      aead,
		random:    rand.Reader,
	}, nil
}

// Algorithm returns the algorithm name this cipher was created with.
func (c *Cipher) Algorithm() string {
	return c.algorithm
}

// Encrypt seals plaintext with a fresh random nonce and returns
// [nonce || ciphertext+tag].
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return nil, fmt.Errorf("aead: failed to generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Authentication failure
// returns ErrAuthenticationFailed without revealing which step failed.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize {
		return nil, ErrCiphertextTooShort
	}
	nonce := ciphertext[:NonceSize]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// Encrypt is a one-shot helper: seal plaintext under key with the given
// algorithm.
func Encrypt(algorithm string, key, plaintext []byte) ([]byte, error) {
	c, err := New(algorithm, key)
	if err != nil {
		return nil, err
	}
	return c.Encrypt(plaintext)
}

// Decrypt is a one-shot helper: open a ciphertext sealed by Encrypt.
func Decrypt(algorithm string, key, ciphertext []byte) ([]byte, error) {
	c, err := New(algorithm, key)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(ciphertext)
}
