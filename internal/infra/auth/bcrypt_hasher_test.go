package auth

import (
	"context"
	"testing"
	"time"

	domainerrors "gadgetry/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)
	ctx := context.Background()

	password := "correct horse battery staple"
	digest, err := hasher.Hash(ctx, password)
	assert.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.NotEqual(t, password, digest)

	// Verify the digest can be checked
	assert.True(t, hasher.Check(password, digest))
}

func TestBcryptHasher_DistinctSalts(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)
	ctx := context.Background()

	// Two accounts with the same password must never share a digest.
	first, err := hasher.Hash(ctx, "pw1")
	assert.NoError(t, err)
	second, err := hasher.Hash(ctx, "pw1")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.True(t, hasher.Check("pw1", first))
	assert.True(t, hasher.Check("pw1", second))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)
	ctx := context.Background()

	password := "pw1"
	digest, err := hasher.Hash(ctx, password)
	assert.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, digest))

	// Test incorrect password
	assert.False(t, hasher.Check("wrong", digest))

	// Test empty password
	assert.False(t, hasher.Check("", digest))

	// A malformed digest reads as a mismatch, never an error.
	assert.False(t, hasher.Check(password, "invalid_digest"))
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	hasher := NewBcryptHasherWithCost(customCost)
	ctx := context.Background()

	digest, err := hasher.Hash(ctx, "pw1")
	assert.NoError(t, err)
	assert.NotEmpty(t, digest)

	// Verify the digest uses the correct cost
	cost, err := bcrypt.Cost([]byte(digest))
	assert.NoError(t, err)
	assert.Equal(t, customCost, cost)
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(nil)
	ctx := context.Background()

	digest, err := hasher.Hash(ctx, "pw1")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	assert.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestBcryptHasher_HashingSlotTimeout(t *testing.T) {
	// Occupy the only hashing slot so the next Hash has to wait, then let the
	// context expire. The wait must surface the domain hashing failure.
	hasher := newBcryptHasher(bcrypt.MinCost, 1)
	require.NoError(t, hasher.slots.Acquire(context.Background(), 1))
	defer hasher.slots.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := hasher.Hash(ctx, "pw1")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrCredentialHashFailed))
}
