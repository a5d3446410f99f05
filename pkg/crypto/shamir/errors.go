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

package shamir

import "errors"

// Input validation errors. These are surfaced synchronously and are never
// retried: the caller must correct the inputs.
var (
	// ErrInvalidThreshold indicates the threshold is outside [2, 255].
	ErrInvalidThreshold = errors.New("shamir: threshold must be between 2 and 255")

	// ErrInvalidShareCount indicates the total share count is below the
	// threshold or above 255.
	ErrInvalidShareCount = errors.New("shamir: total shares must be between threshold and 255")

	// ErrEmptySecret indicates an empty secret was supplied for splitting.
	ErrEmptySecret = errors.New("shamir: secret cannot be empty")

	// ErrEmptyShareList indicates no shares were supplied for reconstruction.
	ErrEmptyShareList = errors.New("shamir: no shares provided")

	// ErrEmptyShareData indicates a share carrying no data bytes.
	ErrEmptyShareData = errors.New("shamir: share has no data")

	// ErrLengthMismatch indicates the supplied shares do not all carry the
	// same data length.
	ErrLengthMismatch = errors.New("shamir: shares have mismatched data lengths")

	// ErrInvalidShareIndex indicates a share index outside [1, 255].
	// Index 0 is the secret's own evaluation point and is never a share.
	ErrInvalidShareIndex = errors.New("shamir: share index must be between 1 and 255")

	// ErrDuplicateShareIndex indicates two supplied shares carry the same index.
	ErrDuplicateShareIndex = errors.New("shamir: duplicate share index")

	// ErrInsufficientShares indicates fewer shares were supplied than the
	// required minimum. Reconstructing below the original threshold would
	// silently yield garbage, so the minimum is enforced up front.
	ErrInsufficientShares = errors.New("shamir: insufficient shares for reconstruction")
)
