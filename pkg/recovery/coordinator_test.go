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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-recovery/pkg/ledger"
	"github.com/jeremyhahn/go-recovery/pkg/recovery/sealer"
)

// testGuardianSet generates n guardians with fresh X25519 keys. The
// guardian identity is the sealing public key.
func testGuardianSet(t *testing.T, n int) ([]Guardian, []*ecdh.PrivateKey) {
	t.Helper()
	guardians := make([]Guardian, n)
	keys := make([]*ecdh.PrivateKey, n)
	for i := range guardians {
		key, err := sealer.GenerateKeyPair()
		require.NoError(t, err)
		keys[i] = key
		guardians[i] = NewGuardian(key.PublicKey().Bytes(), key.PublicKey())
	}
	return guardians, keys
}

func testSecret() []byte {
	secret := make([]byte, SecretLength)
	for i := range secret {
		secret[i] = byte(i*7 + 3)
	}
	return secret
}

func TestSetupRecovery(t *testing.T) {
	guardians, keys := testGuardianSet(t, 5)
	led := ledger.NewMemory()
	coordinator := NewCoordinator(led)
	ctx := context.Background()

	secret := testSecret()
	setup, err := coordinator.SetupRecovery(ctx, secret, guardians, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, setup.Threshold)
	assert.Len(t, setup.Commitments, 5)
	assert.Len(t, setup.EncryptedShares, 5)
	assert.Equal(t, sha256.Sum256(secret), setup.MasterSecretHash)
	assert.NotEmpty(t, setup.Algorithm)
	assert.NotEmpty(t, setup.Challenge.Encrypted)

	// Shares are issued at indexes 1..N, one per guardian, in order.
	for i, c := range setup.Commitments {
		assert.Equal(t, byte(i+1), c.ShareIndex)
		assert.Equal(t, guardians[i].Pubkey, c.GuardianPubkey)
		assert.Equal(t, GuardianActive, c.Status)
		assert.Equal(t, c.ShareIndex, setup.EncryptedShares[i].ShareIndex)
	}

	// The public config round-trips through the ledger.
	record, err := led.ReadCommitments(ctx)
	require.NoError(t, err)
	config, err := UnmarshalRecoveryConfig(record)
	require.NoError(t, err)
	assert.Equal(t, setup.Config(), config)

	challenge, err := led.ReadChallenge(ctx)
	require.NoError(t, err)
	assert.Equal(t, setup.Challenge.Encrypted, challenge.Encrypted)
	assert.Equal(t, setup.Challenge.Hash, challenge.Hash)

	// Each guardian can open its sealed share, and the opened share
	// verifies against the published commitment.
	box := sealer.NewX25519()
	for i, enc := range setup.EncryptedShares {
		share, err := OpenSealedShare(box, keys[i], enc.Sealed)
		require.NoError(t, err)
		assert.Equal(t, enc.ShareIndex, share.Index)

		err = VerifySubmission(ShareSubmission{
			GuardianPubkey: guardians[i].Pubkey,
			ShareIndex:     share.Index,
			ShareData:      share.Data,
		}, setup.Commitments)
		assert.NoError(t, err)
	}
}

func TestSetupRecoveryValidation(t *testing.T) {
	guardians, _ := testGuardianSet(t, 3)
	coordinator := NewCoordinator(ledger.NewMemory())
	ctx := context.Background()
	secret := testSecret()

	_, err := coordinator.SetupRecovery(ctx, secret[:16], guardians, 2)
	assert.ErrorIs(t, err, ErrInvalidSecretLength)

	_, err = coordinator.SetupRecovery(ctx, secret, guardians, 1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = coordinator.SetupRecovery(ctx, secret, guardians, 4)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	big, _ := testGuardianSet(t, MaxGuardians+1)
	_, err = coordinator.SetupRecovery(ctx, secret, big, 3)
	assert.ErrorIs(t, err, ErrTooManyGuardians)

	dup := append([]Guardian{}, guardians...)
	dup[2] = dup[0]
	_, err = coordinator.SetupRecovery(ctx, secret, dup, 2)
	assert.ErrorIs(t, err, ErrDuplicateGuardian)

	missing := append([]Guardian{}, guardians...)
	missing[1].SealingKey = nil
	_, err = coordinator.SetupRecovery(ctx, secret, missing, 2)
	assert.ErrorIs(t, err, ErrMissingSealingKey)
}

func TestSetupAtMaxGuardians(t *testing.T) {
	guardians, _ := testGuardianSet(t, MaxGuardians)
	coordinator := NewCoordinator(ledger.NewMemory())

	setup, err := coordinator.SetupRecovery(context.Background(), testSecret(), guardians, MaxGuardians)
	require.NoError(t, err)
	assert.Len(t, setup.EncryptedShares, MaxGuardians)
}

func TestOpenSealedShareWrongKey(t *testing.T) {
	guardians, keys := testGuardianSet(t, 3)
	coordinator := NewCoordinator(ledger.NewMemory())

	setup, err := coordinator.SetupRecovery(context.Background(), testSecret(), guardians, 2)
	require.NoError(t, err)

	// Guardian 1's key cannot open guardian 0's share.
	_, err = OpenSealedShare(sealer.NewX25519(), keys[1], setup.EncryptedShares[0].Sealed)
	assert.Error(t, err)
}

func TestCommitmentDeterminism(t *testing.T) {
	shareData := []byte{1, 2, 3, 4}
	pubkey := []byte{9, 9, 9}

	first := ComputeCommitment(shareData, pubkey)
	second := ComputeCommitment(shareData, pubkey)
	assert.Equal(t, first, second)

	// Commitment binds the guardian identity, not just the share.
	other := ComputeCommitment(shareData, []byte{8, 8, 8})
	assert.NotEqual(t, first, other)

	// Plain concatenation is boundary-ambiguous: shifting a byte between
	// share data and pubkey hashes the same preimage. Uniqueness relies on
	// fixed-length share data and guardian keys within one setup.
	a := ComputeCommitment([]byte{1, 2}, []byte{3})
	b := ComputeCommitment([]byte{1}, []byte{2, 3})
	assert.Equal(t, a, b)
}
