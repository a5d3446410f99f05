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
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Wire envelopes. Binary fields are base64; structure is JSON so records
// remain inspectable. Encoding is deterministic for a given value, so a
// decode/encode round trip reproduces the original bytes.

type commitmentJSON struct {
	GuardianPubkey string `json:"guardian_pubkey"`
	ShareIndex     byte   `json:"share_index"`
	Commitment     string `json:"commitment"`
	Status         uint8  `json:"status"`
}

type encryptedShareJSON struct {
	GuardianPubkey string `json:"guardian_pubkey"`
	ShareIndex     byte   `json:"share_index"`
	Sealed         string `json:"sealed"`
}

type challengeJSON struct {
	Encrypted string `json:"encrypted"`
	Hash      string `json:"hash"`
}

type configJSON struct {
	Threshold        int              `json:"threshold"`
	Algorithm        string           `json:"algorithm"`
	MasterSecretHash string           `json:"master_secret_hash"`
	Commitments      []commitmentJSON `json:"commitments"`
}

type setupJSON struct {
	Threshold        int                  `json:"threshold"`
	Algorithm        string               `json:"algorithm"`
	MasterSecretHash string               `json:"master_secret_hash"`
	Commitments      []commitmentJSON     `json:"commitments"`
	EncryptedShares  []encryptedShareJSON `json:"encrypted_shares"`
	Challenge        challengeJSON        `json:"challenge"`
}

func encodeCommitments(commitments []GuardianCommitment) []commitmentJSON {
	out := make([]commitmentJSON, len(commitments))
	for i, c := range commitments {
		out[i] = commitmentJSON{
			GuardianPubkey: base64.StdEncoding.EncodeToString(c.GuardianPubkey),
			ShareIndex:     c.ShareIndex,
			Commitment:     base64.StdEncoding.EncodeToString(c.Commitment[:]),
			Status:         uint8(c.Status),
		}
	}
	return out
}

func decodeCommitments(encoded []commitmentJSON) ([]GuardianCommitment, error) {
	out := make([]GuardianCommitment, len(encoded))
	for i, c := range encoded {
		pubkey, err := base64.StdEncoding.DecodeString(c.GuardianPubkey)
		if err != nil {
			return nil, fmt.Errorf("recovery: invalid guardian pubkey encoding: %w", err)
		}
		commitment, err := base64.StdEncoding.DecodeString(c.Commitment)
		if err != nil {
			return nil, fmt.Errorf("recovery: invalid commitment encoding: %w", err)
		}
		if len(commitment) != 32 {
			return nil, fmt.Errorf("recovery: commitment must be 32 bytes, got %d", len(commitment))
		}
		out[i] = GuardianCommitment{
			GuardianPubkey: pubkey,
			ShareIndex:     c.ShareIndex,
			Status:         GuardianStatus(c.Status),
		}
		copy(out[i].Commitment[:], commitment)
	}
	return out, nil
}

func decodeHash32(encoded, field string) ([32]byte, error) {
	var hash [32]byte
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return hash, fmt.Errorf("recovery: invalid %s encoding: %w", field, err)
	}
	if len(raw) != 32 {
		return hash, fmt.Errorf("recovery: %s must be 32 bytes, got %d", field, len(raw))
	}
	copy(hash[:], raw)
	return hash, nil
}

// MarshalRecoveryConfig encodes the public configuration for publication
// to a ledger.
func MarshalRecoveryConfig(config RecoveryConfig) ([]byte, error) {
	return json.Marshal(configJSON{
		Threshold:        config.Threshold,
		Algorithm:        config.Algorithm,
		MasterSecretHash: base64.StdEncoding.EncodeToString(config.MasterSecretHash[:]),
		Commitments:      encodeCommitments(config.Commitments),
	})
}

// UnmarshalRecoveryConfig decodes a configuration record published by
// MarshalRecoveryConfig.
func UnmarshalRecoveryConfig(data []byte) (RecoveryConfig, error) {
	var aux configJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return RecoveryConfig{}, fmt.Errorf("recovery: invalid config record: %w", err)
	}

	hash, err := decodeHash32(aux.MasterSecretHash, "master secret hash")
	if err != nil {
		return RecoveryConfig{}, err
	}
	commitments, err := decodeCommitments(aux.Commitments)
	if err != nil {
		return RecoveryConfig{}, err
	}

	return RecoveryConfig{
		Threshold:        aux.Threshold,
		Algorithm:        aux.Algorithm,
		MasterSecretHash: hash,
		Commitments:      commitments,
	}, nil
}

// MarshalRecoverySetup encodes a full setup bundle, sealed shares
// included, for storage or out-of-band delivery.
func MarshalRecoverySetup(setup *RecoverySetup) ([]byte, error) {
	encShares := make([]encryptedShareJSON, len(setup.EncryptedShares))
	for i, s := range setup.EncryptedShares {
		encShares[i] = encryptedShareJSON{
			GuardianPubkey: base64.StdEncoding.EncodeToString(s.GuardianPubkey),
			ShareIndex:     s.ShareIndex,
			Sealed:         base64.StdEncoding.EncodeToString(s.Sealed),
		}
	}

	return json.Marshal(setupJSON{
		Threshold:        setup.Threshold,
		Algorithm:        setup.Algorithm,
		MasterSecretHash: base64.StdEncoding.EncodeToString(setup.MasterSecretHash[:]),
		Commitments:      encodeCommitments(setup.Commitments),
		EncryptedShares:  encShares,
		Challenge: challengeJSON{
			Encrypted: base64.StdEncoding.EncodeToString(setup.Challenge.Encrypted),
			Hash:      base64.StdEncoding.EncodeToString(setup.Challenge.Hash[:]),
		},
	})
}

// UnmarshalRecoverySetup decodes a bundle produced by
// MarshalRecoverySetup.
func UnmarshalRecoverySetup(data []byte) (*RecoverySetup, error) {
	var aux setupJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, fmt.Errorf("recovery: invalid setup bundle: %w", err)
	}

	masterHash, err := decodeHash32(aux.MasterSecretHash, "master secret hash")
	if err != nil {
		return nil, err
	}
	commitments, err := decodeCommitments(aux.Commitments)
	if err != nil {
		return nil, err
	}

	encShares := make([]EncryptedShare, len(aux.EncryptedShares))
	for i, s := range aux.EncryptedShares {
		pubkey, err := base64.StdEncoding.DecodeString(s.GuardianPubkey)
		if err != nil {
			return nil, fmt.Errorf("recovery: invalid guardian pubkey encoding: %w", err)
		}
		sealed, err := base64.StdEncoding.DecodeString(s.Sealed)
		if err != nil {
			return nil, fmt.Errorf("recovery: invalid sealed share encoding: %w", err)
		}
		encShares[i] = EncryptedShare{
			GuardianPubkey: pubkey,
			ShareIndex:     s.ShareIndex,
			Sealed:         sealed,
		}
	}

	encrypted, err := base64.StdEncoding.DecodeString(aux.Challenge.Encrypted)
	if err != nil {
		return nil, fmt.Errorf("recovery: invalid challenge encoding: %w", err)
	}
	challengeHash, err := decodeHash32(aux.Challenge.Hash, "challenge hash")
	if err != nil {
		return nil, err
	}

	return &RecoverySetup{
		Threshold:        aux.Threshold,
		Algorithm:        aux.Algorithm,
		MasterSecretHash: masterHash,
		Commitments:      commitments,
		EncryptedShares:  encShares,
		Challenge: RecoveryChallenge{
			Encrypted: encrypted,
			Hash:      challengeHash,
		},
	}, nil
}
