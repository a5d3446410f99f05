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

// Package recovery implements social recovery of a 32-byte master secret
// using Shamir secret sharing over GF(2^8). A coordinator splits the
// secret among a set of guardians, seals each share to its guardian's
// X25519 key, and publishes per-guardian commitments plus a pre-generated
// encrypted challenge to a ledger. A later recovery attempt collects
// guardian share submissions, verifies each against its commitment,
// reconstructs the secret, and proves the reconstruction by decrypting
// the challenge.
package recovery

import (
	"crypto/ecdh"
	"fmt"
)

const (
	// SecretLength is the required master secret length in bytes.
	SecretLength = 32

	// MaxGuardians caps the guardian set size.
	MaxGuardians = 10

	// ChallengeSize is the length of the random challenge plaintext.
	ChallengeSize = 32
)

// GuardianStatus describes a guardian's participation state.
type GuardianStatus uint8

const (
	// GuardianPendingAcceptance means the guardian has been invited but
	// has not yet confirmed custody of its sealed share.
	GuardianPendingAcceptance GuardianStatus = iota

	// GuardianActive means the guardian holds its share and may
	// participate in recovery.
	GuardianActive

	// GuardianRevoked means the guardian has been removed; submissions
	// from it are rejected.
	GuardianRevoked
)

// String returns a human-readable status name.
func (s GuardianStatus) String() string {
	switch s {
	case GuardianPendingAcceptance:
		return "pending-acceptance"
	case GuardianActive:
		return "active"
	case GuardianRevoked:
		return "revoked"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Guardian is a participant in a recovery setup. Pubkey is the guardian's
// stable identity; SealingKey is the X25519 key its share is sealed to.
type Guardian struct {
	Pubkey     []byte
	SealingKey *ecdh.PublicKey
	Status     GuardianStatus
}

// NewGuardian returns an active guardian with the given identity and
// sealing key.
func NewGuardian(pubkey []byte, sealingKey *ecdh.PublicKey) Guardian {
	return Guardian{
		Pubkey:     pubkey,
		SealingKey: sealingKey,
		Status:     GuardianActive,
	}
}

// GuardianCommitment binds a guardian to its share without revealing the
// share: Commitment = SHA-256(shareData || guardianPubkey). The true
// share index is recorded alongside so submissions can be checked against
// the index the share was issued under, never inferred from ordering.
type GuardianCommitment struct {
	GuardianPubkey []byte
	ShareIndex     byte
	Commitment     [32]byte
	Status         GuardianStatus
}

// EncryptedShare is a share sealed to a guardian's X25519 key. The
// plaintext inside the sealed box is the share's wire form, so the
// guardian recovers both its index and its data when opening it.
type EncryptedShare struct {
	GuardianPubkey []byte
	ShareIndex     byte
	Sealed         []byte
}

// RecoveryChallenge is the pre-generated proof challenge: a random
// plaintext encrypted under the master secret at setup time, published
// alongside the SHA-256 hash of that plaintext. Whoever reconstructs the
// master secret can decrypt it; the hash lets anyone verify the result.
type RecoveryChallenge struct {
	Encrypted []byte
	Hash      [32]byte
}

// RecoveryConfig is the public portion of a setup, published to the
// ledger. It carries everything a recovery attempt needs except the
// sealed shares themselves.
type RecoveryConfig struct {
	Threshold        int
	Algorithm        string
	MasterSecretHash [32]byte
	Commitments      []GuardianCommitment
}

// RecoverySetup is the full output of Coordinator.SetupRecovery: the
// public config plus the sealed shares for out-of-band delivery to each
// guardian and the published challenge.
type RecoverySetup struct {
	Threshold        int
	Algorithm        string
	MasterSecretHash [32]byte
	Commitments      []GuardianCommitment
	EncryptedShares  []EncryptedShare
	Challenge        RecoveryChallenge
}

// Config returns the public subset of the setup.
func (s *RecoverySetup) Config() RecoveryConfig {
	return RecoveryConfig{
		Threshold:        s.Threshold,
		Algorithm:        s.Algorithm,
		MasterSecretHash: s.MasterSecretHash,
		Commitments:      s.Commitments,
	}
}

// ShareSubmission is one guardian's contribution to a recovery attempt.
// ShareIndex is the index the share was issued under; it travels with the
// submission and is never derived from submission order.
type ShareSubmission struct {
	GuardianPubkey []byte
	ShareIndex     byte
	ShareData      []byte
}
