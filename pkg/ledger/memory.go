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

package ledger

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory Ledger for tests, tooling, and single-process
// deployments. It is fully thread-safe and makes defensive copies of all
// byte slices to prevent external modification.
type Memory struct {
	mu            sync.RWMutex
	commitments   []byte
	challenge     *Challenge
	verified      []string
	lastChallenge time.Time
	cooldown      time.Duration
	now           func() time.Time
	closed        bool
}

// MemoryOption configures a Memory ledger.
type MemoryOption func(*Memory)

// WithCooldown enables rate limiting of challenge publication: a new
// challenge is rejected with ErrCooldownActive until the cooldown since
// the previous publication has elapsed.
func WithCooldown(d time.Duration) MemoryOption {
	return func(m *Memory) {
		m.cooldown = d
	}
}

// withClock overrides the time source, for tests.
func withClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates an in-memory ledger.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) PublishCommitments(_ context.Context, commitments []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	record := make([]byte, len(commitments))
	copy(record, commitments)
	m.commitments = record
	return nil
}

func (m *Memory) ReadCommitments(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.commitments == nil {
		return nil, ErrNotFound
	}

	record := make([]byte, len(m.commitments))
	copy(record, m.commitments)
	return record, nil
}

func (m *Memory) PublishChallenge(_ context.Context, challenge Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.cooldown > 0 && !m.lastChallenge.IsZero() {
		if m.now().Sub(m.lastChallenge) < m.cooldown {
			return ErrCooldownActive
		}
	}

	encrypted := make([]byte, len(challenge.Encrypted))
	copy(encrypted, challenge.Encrypted)
	m.challenge = &Challenge{Encrypted: encrypted, Hash: challenge.Hash}
	m.lastChallenge = m.now()
	return nil
}

func (m *Memory) ReadChallenge(_ context.Context) (Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Challenge{}, ErrClosed
	}
	if m.challenge == nil {
		return Challenge{}, ErrNotFound
	}

	encrypted := make([]byte, len(m.challenge.Encrypted))
	copy(encrypted, m.challenge.Encrypted)
	return Challenge{Encrypted: encrypted, Hash: m.challenge.Hash}, nil
}

func (m *Memory) RecordVerified(_ context.Context, attemptID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.verified = append(m.verified, attemptID)
	return nil
}

// Verified returns the IDs of attempts recorded as verified, in order.
func (m *Memory) Verified() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, len(m.verified))
	copy(ids, m.verified)
	return ids
}

// Close marks the ledger closed. All subsequent operations return
// ErrClosed. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.commitments = nil
	m.challenge = nil
	return nil
}
