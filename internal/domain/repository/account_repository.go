// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"pgtiffin/internal/domain/entity"
)

// ErrAccountNotFound is a domain-specific error returned when no account matches a lookup.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository is the Account Store: the only shared mutable resource of the service.
// Email uniqueness is enforced by the storage itself, not by callers.
type AccountRepository interface {
	// FindByEmail retrieves a single account by its exact email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account and fills in its generated ID and timestamps.
	// A duplicate email yields domain errors.ErrAccountAlreadyExists.
	Create(ctx context.Context, account *entity.Account) error
}
