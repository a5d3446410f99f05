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

// Package sealer provides authenticated public-key encryption of guardian
// shares. A share leaving the owner's process is always sealed to its
// guardian's public key; nothing in the recovery protocol transports a
// plaintext or merely-encoded share.
//
// The Sealer interface keeps the construction pluggable so the sealed-box
// scheme can be upgraded without touching the Shamir math. The default
// implementation is an X25519 sealed box:
//
//  1. Generate an ephemeral X25519 key pair
//  2. ECDH between the ephemeral private key and the guardian's public key
//  3. Derive an AES-256 key with HKDF-SHA256
//  4. Seal with AES-256-GCM
//
// Wire format:
//
//	[ephemeral_public_key(32) || nonce(12) || ciphertext+tag]
package sealer

import (
	"crypto/ecdh"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/jeremyhahn/go-recovery/pkg/crypto/rand"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/zeroize"

	"github.com/jeremyhahn/go-recovery/pkg/crypto/aead"
)

const (
	// publicKeySize is the length of an X25519 public key.
	publicKeySize = 32

	// hkdfInfo binds derived keys to this protocol so a shared secret
	// reused elsewhere cannot open guardian shares.
	hkdfInfo = "go-recovery/guardian-share/v1"
)

var (
	// ErrSealedBoxTooShort indicates a sealed payload shorter than the
	// ephemeral key and nonce it must carry.
	ErrSealedBoxTooShort = errors.New("sealer: sealed box too short")

	// ErrOpenFailed indicates the sealed box failed to open: wrong
	// recipient key, truncation, or tampering.
	ErrOpenFailed = errors.New("sealer: failed to open sealed box")
)

// Sealer seals a plaintext to a recipient's public key and opens sealed
// payloads with the matching private key.
type Sealer interface {
	// Seal encrypts plaintext so only the holder of the private key
	// matching recipient can read it.
	Seal(recipient *ecdh.PublicKey, plaintext []byte) ([]byte, error)

	// Open decrypts a payload produced by Seal.
	Open(recipient *ecdh.PrivateKey, sealed []byte) ([]byte, error)
}

// x25519Sealer is the default sealed-box construction.
type x25519Sealer struct {
	curve ecdh.Curve
}

// NewX25519 returns the default X25519 sealed-box Sealer.
func NewX25519() Sealer {
	return &x25519Sealer{curve: ecdh.X25519()}
}

// GenerateKeyPair generates an X25519 key pair for a guardian.
func GenerateKeyPair() (*ecdh.PrivateKey, error) {
	key, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("sealer: failed to generate key pair: %w", err)
	}
	return key, nil
}

// ParsePublicKey parses a 32-byte X25519 public key.
func ParsePublicKey(raw []byte) (*ecdh.PublicKey, error) {
	key, err := ecdh.X25519().NewPublicKey(raw)
	if err != nil {
		return nil, fmt.Errorf("sealer: invalid public key: %w", err)
	}
	return key, nil
}

// ParsePrivateKey parses a 32-byte X25519 private key.
func ParsePrivateKey(raw []byte) (*ecdh.PrivateKey, error) {
	key, err := ecdh.X25519().NewPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("sealer: invalid private key: %w", err)
	}
	return key, nil
}

func (s *x25519Sealer) Seal(recipient *ecdh.PublicKey, plaintext []byte) ([]byte, error) {
	if recipient == nil {
		return nil, errors.New("sealer: recipient public key cannot be nil")
	}

	ephemeral, err := s.curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("sealer: failed to generate ephemeral key: %w", err)
	}

	shared, err := ephemeral.ECDH(recipient)
	if err != nil {
		return nil, fmt.Errorf("sealer: key agreement failed: %w", err)
	}
	defer zeroize.Bytes(shared)

	key, err := deriveKey(shared, ephemeral.PublicKey().Bytes(), recipient.Bytes())
	if err != nil {
		return nil, err
	}
	defer zeroize.Bytes(key)

	sealed, err := aead.Encrypt(aead.AES256GCM, key, plaintext)
	if err != nil {
		return nil, err
	}

	return append(ephemeral.PublicKey().Bytes(), sealed...), nil
}

func (s *x25519Sealer) Open(recipient *ecdh.PrivateKey, sealed []byte) ([]byte, error) {
	if recipient == nil {
		return nil, errors.New("sealer: recipient private key cannot be nil")
	}
	if len(sealed) < publicKeySize+aead.NonceSize {
		return nil, ErrSealedBoxTooShort
	}

	ephemeralPub, err := s.curve.NewPublicKey(sealed[:publicKeySize])
	if err != nil {
		return nil, ErrOpenFailed
	}

	shared, err := recipient.ECDH(ephemeralPub)
	if err != nil {
		return nil, ErrOpenFailed
	}
	defer zeroize.Bytes(shared)

	key, err := deriveKey(shared, ephemeralPub.Bytes(), recipient.PublicKey().Bytes())
	if err != nil {
		return nil, err
	}
	defer zeroize.Bytes(key)

	plaintext, err := aead.Decrypt(aead.AES256GCM, key, sealed[publicKeySize:])
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}

// deriveKey expands the raw ECDH output into an AES-256 key. The ephemeral
// and recipient public keys salt the derivation, binding the key to this
// specific exchange.
func deriveKey(shared, ephemeralPub, recipientPub []byte) ([]byte, error) {
	salt := make([]byte, 0, len(ephemeralPub)+len(recipientPub))
	salt = append(salt, ephemeralPub...)
	salt = append(salt, recipientPub...)

	key := make([]byte, aead.KeySize)
	reader := hkdf.New(sha256.New, shared, salt, []byte(hkdfInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("sealer: key derivation failed: %w", err)
	}
	return key, nil
}
