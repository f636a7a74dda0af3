// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// PasswordHasher is the Credential Hasher: a one-way, salted, cost-bounded password hash.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(ctx context.Context, password string) (string, error)

	// Check reports whether the plaintext matches the hash. A malformed hash is a mismatch;
	// the error is reserved for the caller's context ending before the check could run.
	Check(ctx context.Context, password, hash string) (bool, error)
}
