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

import "errors"

// Input validation errors. Surfaced synchronously, never retried; the
// caller must correct the inputs. Each names the violated constraint.
var (
	// ErrInvalidSecretLength indicates a master secret that is not 32 bytes.
	ErrInvalidSecretLength = errors.New("recovery: master secret must be 32 bytes")

	// ErrInvalidThreshold indicates a threshold below 2 or above the
	// guardian count.
	ErrInvalidThreshold = errors.New("recovery: threshold must be between 2 and the number of guardians")

	// ErrTooManyGuardians indicates more guardians than the product cap.
	// The cap bounds protocol and storage complexity; it is not a
	// cryptographic requirement.
	ErrTooManyGuardians = errors.New("recovery: too many guardians")

	// ErrDuplicateGuardian indicates the same guardian public key appears
	// twice in a guardian set.
	ErrDuplicateGuardian = errors.New("recovery: duplicate guardian public key")

	// ErrMissingSealingKey indicates a guardian without a sealing key.
	ErrMissingSealingKey = errors.New("recovery: guardian has no sealing key")

	// ErrUnknownGuardian indicates a share submission from a public key
	// that holds no published commitment.
	ErrUnknownGuardian = errors.New("recovery: unknown guardian")

	// ErrGuardianNotActive indicates a submission from a guardian whose
	// published status is not active.
	ErrGuardianNotActive = errors.New("recovery: guardian is not active")

	// ErrDuplicateSubmission indicates a guardian or share index that has
	// already been submitted to this attempt.
	ErrDuplicateSubmission = errors.New("recovery: duplicate share submission")

	// ErrInvalidState indicates a protocol operation invoked out of order.
	ErrInvalidState = errors.New("recovery: operation not valid in current state")
)

// Data integrity errors. The attempt is aborted; retrying with the same
// shares cannot succeed, fresh shares are required.
var (
	// ErrCommitmentMismatch indicates a submitted share does not match
	// the guardian's published commitment.
	ErrCommitmentMismatch = errors.New("recovery: share does not match published commitment")

	// ErrShareSetDisagreement indicates two distinct threshold-subsets of
	// the submitted shares reconstructed different secrets, evidence of a
	// faulty or malicious guardian.
	ErrShareSetDisagreement = errors.New("recovery: share subsets disagree on reconstructed secret")
)

// ErrUnableToVerify is the generic failure for the cryptographic steps of
// an attempt. The message deliberately does not reveal which step failed
// so a caller probing the protocol learns nothing about where it broke.
var ErrUnableToVerify = errors.New("recovery: unable to verify recovery")
