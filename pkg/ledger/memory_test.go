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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitmentsRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.ReadCommitments(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	record := []byte{1, 2, 3}
	require.NoError(t, m.PublishCommitments(ctx, record))

	got, err := m.ReadCommitments(ctx)
	require.NoError(t, err)
	assert.Equal(t, record, got)

	// Defensive copies both ways.
	record[0] = 99
	got2, err := m.ReadCommitments(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(1), got2[0])
	got2[0] = 42
	got3, err := m.ReadCommitments(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(1), got3[0])
}

func TestChallengeRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.ReadChallenge(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	challenge := Challenge{Encrypted: []byte{9, 8, 7}, Hash: [32]byte{1}}
	require.NoError(t, m.PublishChallenge(ctx, challenge))

	got, err := m.ReadChallenge(ctx)
	require.NoError(t, err)
	assert.Equal(t, challenge.Encrypted, got.Encrypted)
	assert.Equal(t, challenge.Hash, got.Hash)
}

func TestChallengeCooldown(t *testing.T) {
	current := time.Unix(1000, 0)
	m := NewMemory(WithCooldown(time.Hour), withClock(func() time.Time { return current }))
	ctx := context.Background()

	challenge := Challenge{Encrypted: []byte{1}}
	require.NoError(t, m.PublishChallenge(ctx, challenge))

	// Second publication inside the cooldown window is rejected.
	current = current.Add(30 * time.Minute)
	assert.ErrorIs(t, m.PublishChallenge(ctx, challenge), ErrCooldownActive)

	// After the window it succeeds.
	current = current.Add(31 * time.Minute)
	assert.NoError(t, m.PublishChallenge(ctx, challenge))
}

func TestRecordVerified(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.RecordVerified(ctx, "attempt-1"))
	require.NoError(t, m.RecordVerified(ctx, "attempt-2"))
	assert.Equal(t, []string{"attempt-1", "attempt-2"}, m.Verified())
}

func TestClosed(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Close())
	require.NoError(t, m.Close()) // idempotent

	assert.ErrorIs(t, m.PublishCommitments(ctx, nil), ErrClosed)
	_, err := m.ReadCommitments(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.PublishChallenge(ctx, Challenge{}), ErrClosed)
	_, err = m.ReadChallenge(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.RecordVerified(ctx, "x"), ErrClosed)
}

func TestConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.PublishCommitments(ctx, []byte{1}))

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_, _ = m.ReadCommitments(ctx)
				_ = m.PublishCommitments(ctx, []byte{byte(j)})
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
