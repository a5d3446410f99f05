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

// Package ledger defines the durable publication collaborator consumed by
// the recovery protocol. The ledger stores small opaque binary records:
// guardian commitments published once at setup, the encrypted recovery
// challenge with its hash, and the terminal outcome of verified attempts.
//
// The protocol only ever reads these records during recovery; the single
// writes happen at setup and at outcome recording. Challenge expiry and
// time-lock policy belong to ledger implementations, not to the protocol.
package ledger

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested record has not been published.
	ErrNotFound = errors.New("ledger: record not found")

	// ErrClosed indicates the ledger has been closed.
	ErrClosed = errors.New("ledger: closed")

	// ErrCooldownActive indicates a challenge publication was attempted
	// before the rate-limit cooldown from the previous attempt elapsed.
	ErrCooldownActive = errors.New("ledger: recovery attempt cooldown active")
)

// Challenge is the published recovery challenge: the ciphertext of a
// random value encrypted with the master secret, and the SHA-256 hash of
// the plaintext used to verify proofs.
type Challenge struct {
	Encrypted []byte
	Hash      [32]byte
}

// Ledger durably publishes and reads the protocol's public records.
type Ledger interface {
	// PublishCommitments durably stores the serialized guardian
	// commitment set for a recovery configuration, replacing any
	// previous set. Re-running setup is the only way to rotate
	// commitments.
	PublishCommitments(ctx context.Context, commitments []byte) error

	// ReadCommitments returns the currently published commitment set.
	ReadCommitments(ctx context.Context) ([]byte, error)

	// PublishChallenge stores the encrypted challenge and its hash for
	// the active recovery configuration. Implementations may rate-limit
	// publication and return ErrCooldownActive.
	PublishChallenge(ctx context.Context, challenge Challenge) error

	// ReadChallenge returns the published challenge.
	ReadChallenge(ctx context.Context) (Challenge, error)

	// RecordVerified durably records that the attempt with the given ID
	// completed with a verified proof.
	RecordVerified(ctx context.Context, attemptID string) error

	// Close releases resources held by the ledger.
	Close() error
}
