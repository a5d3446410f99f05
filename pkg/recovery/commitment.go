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
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
)

// ComputeCommitment binds a share to a guardian identity:
// SHA-256(shareData || guardianPubkey). Including the public key prevents
// one guardian from replaying another guardian's share under its own
// identity.
func ComputeCommitment(shareData, guardianPubkey []byte) [32]byte {
	h := sha256.New()
	h.Write(shareData)
	h.Write(guardianPubkey)

	var commitment [32]byte
	copy(commitment[:], h.Sum(nil))
	return commitment
}

// VerifySubmission checks a share submission against the published
// commitment set. The submitting guardian must be known and active, the
// submitted index must match the index the share was issued under, and
// the recomputed commitment must match the published one.
func VerifySubmission(sub ShareSubmission, commitments []GuardianCommitment) error {
	for _, c := range commitments {
		if !bytes.Equal(c.GuardianPubkey, sub.GuardianPubkey) {
			continue
		}
		if c.Status != GuardianActive {
			return ErrGuardianNotActive
		}
		if c.ShareIndex != sub.ShareIndex {
			return ErrCommitmentMismatch
		}
		expected := ComputeCommitment(sub.ShareData, sub.GuardianPubkey)
		if subtle.ConstantTimeCompare(expected[:], c.Commitment[:]) != 1 {
			return ErrCommitmentMismatch
		}
		return nil
	}
	return ErrUnknownGuardian
}
