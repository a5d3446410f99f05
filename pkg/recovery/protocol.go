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
	"crypto/sha256"
	"crypto/subtle"
	"sync"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-recovery/pkg/crypto/shamir"
	"github.com/jeremyhahn/go-recovery/pkg/crypto/zeroize"
	"github.com/jeremyhahn/go-recovery/pkg/ledger"
	"github.com/jeremyhahn/go-recovery/pkg/logging"
	"github.com/jeremyhahn/go-recovery/pkg/metrics"
)

// State is the phase of a recovery attempt. Transitions are strictly
// ordered; an operation invoked in the wrong state returns
// ErrInvalidState rather than being silently reinterpreted.
type State int

const (
	// StateIdle is the zero value; an attempt leaves it on construction.
	StateIdle State = iota

	// StateChallengeIssued means the published challenge and commitments
	// have been read and share submissions are being accepted.
	StateChallengeIssued

	// StateSharesCollected means at least threshold verified shares are
	// held and reconstruction may proceed.
	StateSharesCollected

	// StateSecretReconstructed means the secret has been rebuilt and the
	// proof may be generated.
	StateSecretReconstructed

	// StateProofSubmitted means the proof awaits verification.
	StateProofSubmitted

	// StateVerified is the terminal success state.
	StateVerified

	// StateFailed is the terminal failure state. A failed attempt cannot
	// be resumed; a new attempt must be started.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChallengeIssued:
		return "challenge-issued"
	case StateSharesCollected:
		return "shares-collected"
	case StateSecretReconstructed:
		return "secret-reconstructed"
	case StateProofSubmitted:
		return "proof-submitted"
	case StateVerified:
		return "verified"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Attempt is one run of the challenge-response recovery protocol. It is
// safe for concurrent use; guardians may submit shares from separate
// goroutines.
type Attempt struct {
	mu          sync.Mutex
	id          uuid.UUID
	state       State
	threshold   int
	algorithm   string
	masterHash  [32]byte
	commitments []GuardianCommitment
	challenge   RecoveryChallenge
	submissions []ShareSubmission
	secret      []byte
	ledger      ledger.Ledger
	logger      *logging.Logger
}

// AttemptOption configures an Attempt.
type AttemptOption func(*Attempt)

// WithAttemptLogger overrides the attempt's logger.
func WithAttemptLogger(l *logging.Logger) AttemptOption {
	return func(a *Attempt) {
		a.logger = l
	}
}

// NewAttempt starts a recovery attempt against the given ledger. It reads
// the published configuration and challenge and enters
// StateChallengeIssued, ready to accept share submissions.
func NewAttempt(ctx context.Context, led ledger.Ledger, opts ...AttemptOption) (*Attempt, error) {
	a := &Attempt{
		id:     uuid.New(),
		state:  StateIdle,
		ledger: led,
		logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}

	record, err := led.ReadCommitments(ctx)
	if err != nil {
		return nil, err
	}
	config, err := UnmarshalRecoveryConfig(record)
	if err != nil {
		return nil, err
	}

	challenge, err := led.ReadChallenge(ctx)
	if err != nil {
		return nil, err
	}

	a.threshold = config.Threshold
	a.algorithm = config.Algorithm
	a.masterHash = config.MasterSecretHash
	a.commitments = config.Commitments
	a.challenge = RecoveryChallenge{
		Encrypted: challenge.Encrypted,
		Hash:      challenge.Hash,
	}
	a.state = StateChallengeIssued

	a.logger.Info("recovery attempt started",
		"attempt", a.id.String(),
		"threshold", a.threshold,
		"guardians", len(a.commitments))
	return a, nil
}

// ID returns the attempt's unique identifier.
func (a *Attempt) ID() string {
	return a.id.String()
}

// State returns the attempt's current state.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Submissions returns how many verified shares the attempt holds.
func (a *Attempt) Submissions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.submissions)
}

// SubmitShare verifies a guardian's share against its published
// commitment and records it. Submissions are accepted until the secret is
// reconstructed; collecting more than threshold shares strengthens the
// cross-check performed at reconstruction. The state advances to
// StateSharesCollected once threshold verified shares are held.
func (a *Attempt) SubmitShare(sub ShareSubmission) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateChallengeIssued && a.state != StateSharesCollected {
		return ErrInvalidState
	}
	if err := VerifySubmission(sub, a.commitments); err != nil {
		a.logger.Warn("share submission rejected",
			"attempt", a.id.String(),
			"reason", err.Error())
		return err
	}
	for _, existing := range a.submissions {
		if existing.ShareIndex == sub.ShareIndex {
			return ErrDuplicateSubmission
		}
	}

	data := make([]byte, len(sub.ShareData))
	copy(data, sub.ShareData)
	pubkey := make([]byte, len(sub.GuardianPubkey))
	copy(pubkey, sub.GuardianPubkey)
	a.submissions = append(a.submissions, ShareSubmission{
		GuardianPubkey: pubkey,
		ShareIndex:     sub.ShareIndex,
		ShareData:      data,
	})

	if len(a.submissions) >= a.threshold {
		a.state = StateSharesCollected
	}
	metrics.RecordShareSubmitted()
	a.logger.Debug("share accepted",
		"attempt", a.id.String(),
		"index", sub.ShareIndex,
		"collected", len(a.submissions))
	return nil
}

// Reconstruct rebuilds the master secret from the collected shares and
// checks it against the published master secret hash. On any mismatch the
// attempt fails terminally with ErrUnableToVerify.
func (a *Attempt) Reconstruct() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateSharesCollected {
		return nil, ErrInvalidState
	}

	secret, err := ReconstructFromSubmissions(a.submissions, a.threshold)
	if err != nil {
		a.fail()
		return nil, err
	}

	hash := sha256.Sum256(secret)
	if subtle.ConstantTimeCompare(hash[:], a.masterHash[:]) != 1 {
		zeroize.Bytes(secret)
		a.fail()
		return nil, ErrUnableToVerify
	}

	a.secret = secret
	a.state = StateSecretReconstructed

	result := make([]byte, len(secret))
	copy(result, secret)
	return result, nil
}

// GenerateProof decrypts the challenge with the reconstructed secret. On
// failure the attempt fails terminally.
func (a *Attempt) GenerateProof() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateSecretReconstructed {
		return nil, ErrInvalidState
	}

	proof, err := GenerateProof(a.challenge, a.secret, a.algorithm)
	if err != nil {
		a.fail()
		return nil, err
	}

	a.state = StateProofSubmitted
	return proof, nil
}

// VerifyProof checks the proof against the published challenge hash. A
// valid proof moves the attempt to StateVerified and records the outcome
// on the ledger; an invalid one fails the attempt terminally. Either way
// the attempt's copy of the secret is wiped.
func (a *Attempt) VerifyProof(ctx context.Context, proof []byte) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateProofSubmitted {
		return false, ErrInvalidState
	}

	defer func() {
		zeroize.Bytes(a.secret)
		a.secret = nil
	}()

	if !VerifyProof(proof, a.challenge.Hash) {
		a.fail()
		return false, nil
	}

	a.state = StateVerified
	metrics.RecordAttempt(metrics.StatusVerified)
	if err := a.ledger.RecordVerified(ctx, a.id.String()); err != nil {
		a.logger.Errorf("failed to record verified attempt %s: %v", a.id, err)
	}
	a.logger.Info("recovery attempt verified", "attempt", a.id.String())
	return true, nil
}

// fail moves the attempt to its terminal failure state. Caller holds the
// lock.
func (a *Attempt) fail() {
	zeroize.Bytes(a.secret)
	a.secret = nil
	a.state = StateFailed
	metrics.RecordAttempt(metrics.StatusFailed)
	a.logger.Warn("recovery attempt failed", "attempt", a.id.String())
}

// ReconstructFromSubmissions rebuilds a secret from guardian submissions
// using each submission's issued share index. Fewer than threshold
// submissions fail loudly rather than yielding garbage. When more than
// threshold submissions are supplied the first and last threshold-sized
// subsets are both reconstructed and must agree, so a single corrupted
// share among the extras is detected instead of silently winning.
func ReconstructFromSubmissions(submissions []ShareSubmission, threshold int) ([]byte, error) {
	shares := make([]shamir.Share, len(submissions))
	for i, sub := range submissions {
		shares[i] = shamir.Share{
			Index: sub.ShareIndex,
			Data:  sub.ShareData,
		}
	}

	secret, err := shamir.Reconstruct(shares[:min(len(shares), threshold)], threshold)
	if err != nil {
		return nil, err
	}

	if len(shares) > threshold {
		other, err := shamir.Reconstruct(shares[len(shares)-threshold:], threshold)
		if err != nil {
			zeroize.Bytes(secret)
			return nil, err
		}
		agree := subtle.ConstantTimeCompare(secret, other) == 1
		zeroize.Bytes(other)
		if !agree {
			zeroize.Bytes(secret)
			return nil, ErrShareSetDisagreement
		}
	}

	return secret, nil
}
