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
	"context"
	"crypto/ecdh"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/jeremyhahn/go-recovery/pkg/crypto/aead"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/rand"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/shamir"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/zeroize"
	"github.com/jeremyhahn/go-recovery/pkg/ledger"
	"github.com/jeremyhahn/go-recovery/pkg/logging"
	"github.com/jeremyhahn/go-recovery/pkg/metrics"
	"github.com/jeremyhahn/go-recovery/pkg/recovery/sealer"
)

// Coordinator performs recovery setup: it splits a master secret among
// guardians, seals each share to its guardian, and publishes the public
// configuration and proof challenge to a ledger.
type Coordinator struct {
	sealer    sealer.Sealer
	ledger    ledger.Ledger
	logger    *logging.Logger
	source    rand.Source
	algorithm string
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithSealer overrides the share sealing scheme. The default is the
// X25519 sealed box.
func WithSealer(s sealer.Sealer) CoordinatorOption {
	return func(c *Coordinator) {
		c.sealer = s
	}
}

// WithLogger overrides the coordinator's logger.
func WithLogger(l *logging.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithSource overrides the entropy source used for splitting and
// challenge generation.
func WithSource(s rand.Source) CoordinatorOption {
	return func(c *Coordinator) {
		c.source = s
	}
}

// WithAlgorithm pins the AEAD algorithm for the challenge instead of
// selecting by CPU capabilities.
func WithAlgorithm(algorithm string) CoordinatorOption {
	return func(c *Coordinator) {
		c.algorithm = algorithm
	}
}

// NewCoordinator creates a Coordinator publishing to the given ledger.
func NewCoordinator(led ledger.Ledger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		sealer:    sealer.NewX25519(),
		ledger:    led,
		logger:    logging.DefaultLogger(),
		source:    rand.NewSource(),
		algorithm: aead.SelectOptimal(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetupRecovery splits the master secret into one share per guardian,
// seals share i to guardian i's X25519 key, computes the per-guardian
// commitments, generates the proof challenge, and publishes the public
// configuration and challenge to the ledger.
//
// Guardian i receives the share issued at index i+1; the binding is
// recorded in both the commitment and the sealed share so the index
// survives any reordering downstream.
//
// All intermediate secret material (plaintext shares, their wire forms)
// is wiped before returning. The caller retains ownership of masterSecret
// and is responsible for wiping it.
func (c *Coordinator) SetupRecovery(ctx context.Context, masterSecret []byte, guardians []Guardian, threshold int) (*RecoverySetup, error) {
	if len(masterSecret) != SecretLength {
		return nil, ErrInvalidSecretLength
	}
	if len(guardians) > MaxGuardians {
		return nil, ErrTooManyGuardians
	}
	if threshold < 2 || threshold > len(guardians) {
		return nil, ErrInvalidThreshold
	}

	seen := make(map[string]bool, len(guardians))
	for _, g := range guardians {
		if g.SealingKey == nil {
			return nil, ErrMissingSealingKey
		}
		key := base64.StdEncoding.EncodeToString(g.Pubkey)
		if seen[key] {
			return nil, ErrDuplicateGuardian
		}
		seen[key] = true
	}

	shares, err := shamir.SplitWithSource(c.source, masterSecret, threshold, len(guardians))
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range shares {
			zeroize.Bytes(shares[i].Data)
		}
	}()

	setup := &RecoverySetup{
		Threshold:        threshold,
		Algorithm:        c.algorithm,
		MasterSecretHash: sha256.Sum256(masterSecret),
		Commitments:      make([]GuardianCommitment, len(guardians)),
		EncryptedShares:  make([]EncryptedShare, len(guardians)),
	}

	for i, g := range guardians {
		share := shares[i]
		setup.Commitments[i] = GuardianCommitment{
			GuardianPubkey: g.Pubkey,
			ShareIndex:     share.Index,
			Commitment:     ComputeCommitment(share.Data, g.Pubkey),
			Status:         g.Status,
		}

		wire := make([]byte, 1+len(share.Data))
		wire[0] = share.Index
		copy(wire[1:], share.Data)
		sealed, err := c.sealer.Seal(g.SealingKey, wire)
		zeroize.Bytes(wire)
		if err != nil {
			return nil, fmt.Errorf("recovery: failed to seal share for guardian %d: %w", i, err)
		}
		setup.EncryptedShares[i] = EncryptedShare{
			GuardianPubkey: g.Pubkey,
			ShareIndex:     share.Index,
			Sealed:         sealed,
		}
	}

	challenge, err := generateChallenge(c.source, masterSecret, c.algorithm)
	if err != nil {
		return nil, err
	}
	setup.Challenge = challenge

	configRecord, err := MarshalRecoveryConfig(setup.Config())
	if err != nil {
		return nil, err
	}
	if err := c.ledger.PublishCommitments(ctx, configRecord); err != nil {
		return nil, fmt.Errorf("recovery: failed to publish commitments: %w", err)
	}
	if err := c.ledger.PublishChallenge(ctx, ledger.Challenge{
		Encrypted: challenge.Encrypted,
		Hash:      challenge.Hash,
	}); err != nil {
		return nil, fmt.Errorf("recovery: failed to publish challenge: %w", err)
	}

	metrics.RecordSetup()
	c.logger.Info("recovery setup complete",
		"guardians", len(guardians),
		"threshold", threshold,
		"algorithm", c.algorithm)

	return setup, nil
}

// OpenSealedShare is the guardian-side counterpart of SetupRecovery: it
// opens a sealed share with the guardian's X25519 private key and returns
// the share with its issued index intact.
func OpenSealedShare(s sealer.Sealer, key *ecdh.PrivateKey, sealed []byte) (shamir.Share, error) {
	wire, err := s.Open(key, sealed)
	if err != nil {
		return shamir.Share{}, err
	}
	defer zeroize.Bytes(wire)

	if len(wire) < 2 || wire[0] == 0 {
		return shamir.Share{}, ErrUnableToVerify
	}
	share := shamir.Share{
		Index: wire[0],
		Data:  make([]byte, len(wire)-1),
	}
	copy(share.Data, wire[1:])
	return share, nil
}
