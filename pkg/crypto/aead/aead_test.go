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

package aead

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, algorithm := range []string{AES256GCM, ChaCha20Poly1305} {
		t.Run(algorithm, func(t *testing.T) {
			key := randomKey(t)
			plaintext := []byte("the challenge plaintext")

			ciphertext, err := Encrypt(algorithm, key, plaintext)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			if len(ciphertext) <= NonceSize+len(plaintext) {
				t.Errorf("ciphertext too short to carry nonce and tag: %d bytes", len(ciphertext))
			}

			decrypted, err := Decrypt(algorithm, key, ciphertext)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Error("round trip mismatch")
			}
		})
	}
}

func TestDecryptWrongKey(t *testing.T) {
	for _, algorithm := range []string{AES256GCM, ChaCha20Poly1305} {
		ciphertext, err := Encrypt(algorithm, randomKey(t), []byte("secret"))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := Decrypt(algorithm, randomKey(t), ciphertext); !errors.Is(err, ErrAuthenticationFailed) {
			t.Errorf("%s: Decrypt with wrong key error = %v, want ErrAuthenticationFailed", algorithm, err)
		}
	}
}

func TestDecryptTampered(t *testing.T) {
	key := randomKey(t)
	ciphertext, err := Encrypt(AES256GCM, key, []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	ciphertext[len(ciphertext)-1] ^= 0x01
	if _, err := Decrypt(AES256GCM, key, ciphertext); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Decrypt of tampered ciphertext error = %v, want ErrAuthenticationFailed", err)
	}
}

func TestDecryptTooShort(t *testing.T) {
	if _, err := Decrypt(AES256GCM, randomKey(t), []byte{1, 2, 3}); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("error = %v, want ErrCiphertextTooShort", err)
	}
}

func TestInvalidKeySize(t *testing.T) {
	if _, err := New(AES256GCM, make([]byte, 16)); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("error = %v, want ErrInvalidKeySize", err)
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	if _, err := New("rot13", randomKey(t)); err == nil {
		t.Error("unsupported algorithm should fail")
	}
}

func TestNonceUniqueness(t *testing.T) {
	c, err := New(AES256GCM, randomKey(t))
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ciphertext, err := c.Encrypt([]byte("x"))
		if err != nil {
			t.Fatal(err)
		}
		nonce := string(ciphertext[:NonceSize])
		if seen[nonce] {
			t.Fatal("nonce repeated across encryptions")
		}
		seen[nonce] = true
	}
}

func TestSelectOptimal(t *testing.T) {
	algorithm := SelectOptimal()
	if algorithm != AES256GCM && algorithm != ChaCha20Poly1305 {
		t.Errorf("SelectOptimal returned unknown algorithm %q", algorithm)
	}
	if HasAESNI() && algorithm != AES256GCM {
		t.Error("AES-NI available but AES-256-GCM not selected")
	}
}

// TestCrossAlgorithmCiphertext ensures a ciphertext sealed under one
// algorithm does not open under the other.
func TestCrossAlgorithmCiphertext(t *testing.T) {
	key := randomKey(t)
	ciphertext, err := Encrypt(AES256GCM, key, []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(ChaCha20Poly1305, key, ciphertext); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("error = %v, want ErrAuthenticationFailed", err)
	}
}
