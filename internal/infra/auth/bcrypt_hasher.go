// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"time"

	"pgtiffin/config"
	domainerrors "pgtiffin/internal/domain/errors"
	"pgtiffin/internal/domain/service"
	"pgtiffin/internal/infra/metrics"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// maxPasswordBytes is the input length bcrypt accepts.
const maxPasswordBytes = 72

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
// A weighted semaphore caps concurrent hash work so a burst of logins cannot starve the CPU.
type bcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) (service.PasswordHasher, error) {
	if cfg == nil || cfg.Auth == nil {
		return nil, errors.New("auth configuration is required")
	}

	return NewBcryptHasherWithCost(cfg.Auth.BcryptCost, cfg.Auth.MaxConcurrentHashes)
}

// NewBcryptHasherWithCost creates a bcrypt hasher with an explicit cost and concurrency limit.
func NewBcryptHasherWithCost(cost, maxConcurrent int) (service.PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if maxConcurrent <= 0 {
		return nil, errors.Errorf("max concurrent hashes must be positive, got %d", maxConcurrent)
	}

	return &bcryptHasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(maxConcurrent)),
	}, nil
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	defer observe(metrics.OperationRegister, time.Now())

	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "wait for hash slot")
	}
	defer h.slots.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error()), "bcrypt generate")
	}

	return string(hashed), nil
}

// Check compares a plaintext password with a bcrypt hash.
// A mismatch, an over-long password and a malformed hash all report false without error.
func (h *bcryptHasher) Check(ctx context.Context, password, hash string) (bool, error) {
	defer observe(metrics.OperationLogin, time.Now())

	if len(password) > maxPasswordBytes {
		return false, nil
	}

	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, errors.Wrap(err, "wait for hash slot")
	}
	defer h.slots.Release(1)

	// err is nil if the password and hash match.
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}

func observe(operation string, start time.Time) {
	metrics.PasswordHashDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
