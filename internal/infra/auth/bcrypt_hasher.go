// Package auth provides concrete implementations for credential-related domain services.
package auth

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"gadgetry/config"
	domainerrors "gadgetry/internal/domain/errors"
	"gadgetry/internal/domain/service"
)

// bcryptHasher is a concrete implementation of the CredentialHasher interface using bcrypt.
//
// bcrypt is CPU-bound, so the hasher gates concurrent computations through a
// weighted semaphore. Request goroutines queue for a slot instead of piling
// unbounded bcrypt work onto the scheduler and starving unrelated requests.
type bcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

// NewBcryptHasher is the constructor for bcryptHasher.
// Cost and worker count come from config; zero values fall back to
// bcrypt.DefaultCost and GOMAXPROCS.
func NewBcryptHasher(cfg *config.Config) service.CredentialHasher {
	cost := 0
	workers := 0
	if cfg != nil && cfg.Auth != nil {
		cost = cfg.Auth.BcryptCost
		workers = cfg.Auth.HashWorkers
	}

	return newBcryptHasher(cost, workers)
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost, mainly for tests
// that want a cheap work factor.
func NewBcryptHasherWithCost(cost int) service.CredentialHasher {
	return newBcryptHasher(cost, 0)
}

func newBcryptHasher(cost, workers int) *bcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &bcryptHasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(workers)),
	}
}

// Hash generates a salted digest from a plaintext password using bcrypt.
// bcrypt embeds a freshly generated salt in the output, so two hashes of the
// same password never match. A failure here means the entropy source is
// exhausted; callers treat it as fatal rather than retrying.
func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", domainerrors.ErrCredentialHashFailed.WrapMessage("waiting for a hashing slot: " + err.Error())
	}
	defer h.slots.Release(1)

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrCredentialHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt digest in constant time.
// A malformed digest reads as a mismatch.
func (h *bcryptHasher) Check(password, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	// err is nil if the password and digest match.
	return err == nil
}
