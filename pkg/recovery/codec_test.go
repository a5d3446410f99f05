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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-recovery/pkg/ledger"
)

func TestRecoveryConfigRoundTrip(t *testing.T) {
	config := RecoveryConfig{
		Threshold:        3,
		Algorithm:        "aes256-gcm",
		MasterSecretHash: [32]byte{1, 2, 3},
		Commitments: []GuardianCommitment{
			{
				GuardianPubkey: []byte{10, 20, 30},
				ShareIndex:     1,
				Commitment:     [32]byte{4, 5, 6},
				Status:         GuardianActive,
			},
			{
				GuardianPubkey: []byte{40, 50, 60},
				ShareIndex:     2,
				Commitment:     [32]byte{7, 8, 9},
				Status:         GuardianRevoked,
			},
		},
	}

	encoded, err := MarshalRecoveryConfig(config)
	require.NoError(t, err)

	decoded, err := UnmarshalRecoveryConfig(encoded)
	require.NoError(t, err)
	assert.Equal(t, config, decoded)

	// Re-encoding reproduces the original bytes.
	reencoded, err := MarshalRecoveryConfig(decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func TestRecoverySetupRoundTrip(t *testing.T) {
	guardians, _ := testGuardianSet(t, 4)
	coordinator := NewCoordinator(ledger.NewMemory())

	setup, err := coordinator.SetupRecovery(context.Background(), testSecret(), guardians, 2)
	require.NoError(t, err)

	encoded, err := MarshalRecoverySetup(setup)
	require.NoError(t, err)

	decoded, err := UnmarshalRecoverySetup(encoded)
	require.NoError(t, err)
	assert.Equal(t, setup, decoded)

	reencoded, err := MarshalRecoverySetup(decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func TestCodecRejectsMalformedRecords(t *testing.T) {
	_, err := UnmarshalRecoveryConfig([]byte("not json"))
	assert.Error(t, err)

	_, err = UnmarshalRecoverySetup([]byte("{"))
	assert.Error(t, err)

	// Valid JSON, invalid base64.
	_, err = UnmarshalRecoveryConfig([]byte(`{"threshold":2,"algorithm":"aes256-gcm","master_secret_hash":"***","commitments":[]}`))
	assert.Error(t, err)

	// Valid base64, wrong hash length.
	_, err = UnmarshalRecoveryConfig([]byte(`{"threshold":2,"algorithm":"aes256-gcm","master_secret_hash":"AAEC","commitments":[]}`))
	assert.Error(t, err)

	// Commitment of the wrong length.
	_, err = UnmarshalRecoveryConfig([]byte(`{"threshold":2,"algorithm":"aes256-gcm","master_secret_hash":"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=","commitments":[{"guardian_pubkey":"AA==","share_index":1,"commitment":"AAEC","status":1}]}`))
	assert.Error(t, err)
}
