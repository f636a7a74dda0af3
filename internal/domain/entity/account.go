// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the sole identity record of the system: one person who can sign in.
type Account struct {
	ID           uuid.UUID // Global unique identifier, generated by the store.
	Name         string    // Display name.
	Email        string    // Unique, case-sensitive login identifier.
	PasswordHash string    `json:"-"` // Opaque bcrypt hash; only ever compared against.
	Role         Role      // Privilege level assigned at registration.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicAccount is the representation of an Account that may leave the service.
type PublicAccount struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips the credential from the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
