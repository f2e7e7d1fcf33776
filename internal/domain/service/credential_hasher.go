// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// CredentialHasher defines the interface for credential hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type CredentialHasher interface {
	// Hash generates a salted digest from a plaintext password. Hashing is
	// CPU-bound, so implementations gate concurrency; the context bounds the
	// wait for a hashing slot.
	Hash(ctx context.Context, password string) (string, error)

	// Check compares a plaintext password with a digest to see if they match.
	// A malformed digest is reported as a mismatch, never as an error.
	Check(password, digest string) bool
}
