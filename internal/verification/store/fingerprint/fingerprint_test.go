package fingerprint

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustgate/internal/verification/ports"
	id "trustgate/pkg/domain"
)

func TestOf(t *testing.T) {
	a := Of("13-7404-001-0000123")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Of(" 13-7404-001-0000123 "))
	assert.NotEqual(t, a, Of("13-7404-001-0000124"))
	assert.Empty(t, Of("   "))
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	store := NewInMemoryStore(time.Hour)
	store.now = func() time.Time { return now }

	alice := id.ApplicantID(uuid.New())
	bob := id.ApplicantID(uuid.New())
	fp := Of("13-7404-001-0000123")

	dup, err := store.IsDuplicate(ctx, ports.DuplicateQuery{ApplicantID: alice, Fingerprint: fp})
	require.NoError(t, err)
	assert.False(t, dup, "first claim")

	dup, _ = store.IsDuplicate(ctx, ports.DuplicateQuery{ApplicantID: alice, Fingerprint: fp})
	assert.False(t, dup, "same applicant resubmitting")

	dup, _ = store.IsDuplicate(ctx, ports.DuplicateQuery{ApplicantID: bob, Fingerprint: fp})
	assert.True(t, dup, "another applicant")

	now = now.Add(2 * time.Hour)
	dup, _ = store.IsDuplicate(ctx, ports.DuplicateQuery{ApplicantID: bob, Fingerprint: fp})
	assert.False(t, dup, "expired claim is free again")

	dup, _ = store.IsDuplicate(ctx, ports.DuplicateQuery{ApplicantID: bob})
	assert.False(t, dup, "empty fingerprint is never a duplicate")
}
