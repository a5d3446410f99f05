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

package recovery

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/jeremyhahn/go-recovery/pkg/crypto/aead"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/rand"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/zeroize"
)

// GenerateChallenge creates the proof challenge for a setup: a random
// 32-byte plaintext encrypted under the master secret with the given
// AEAD algorithm, plus the SHA-256 hash of the plaintext. The challenge
// is generated once, at setup time, so a recovery attempt proves
// possession of the master secret by decrypting a ciphertext that
// existed before the attempt began.
func GenerateChallenge(masterSecret []byte, algorithm string) (RecoveryChallenge, error) {
	return generateChallenge(rand.NewSource(), masterSecret, algorithm)
}

func generateChallenge(source rand.Source, masterSecret []byte, algorithm string) (RecoveryChallenge, error) {
	if len(masterSecret) != SecretLength {
		return RecoveryChallenge{}, ErrInvalidSecretLength
	}

	plaintext, err := source.Bytes(ChallengeSize)
	if err != nil {
		return RecoveryChallenge{}, err
	}
	defer zeroize.Bytes(plaintext)

	encrypted, err := aead.Encrypt(algorithm, masterSecret, plaintext)
	if err != nil {
		return RecoveryChallenge{}, err
	}

	return RecoveryChallenge{
		Encrypted: encrypted,
		Hash:      sha256.Sum256(plaintext),
	}, nil
}

// GenerateProof decrypts the setup's challenge with a reconstructed
// secret. The returned plaintext is the proof; its hash must match the
// published challenge hash. A wrong secret fails authentication inside
// the AEAD and returns ErrUnableToVerify without revealing more.
func GenerateProof(challenge RecoveryChallenge, secret []byte, algorithm string) ([]byte, error) {
	if len(secret) != SecretLength {
		return nil, ErrUnableToVerify
	}
	proof, err := aead.Decrypt(algorithm, secret, challenge.Encrypted)
	if err != nil {
		return nil, ErrUnableToVerify
	}
	return proof, nil
}

// VerifyProof reports whether a proof hashes to the published challenge
// hash. The comparison is constant-time.
func VerifyProof(proof []byte, expectedHash [32]byte) bool {
	actual := sha256.Sum256(proof)
	return subtle.ConstantTimeCompare(actual[:], expectedHash[:]) == 1
}
