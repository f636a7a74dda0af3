package entity

import (
	"strings"

	"github.com/pkg/errors"
)

// Role represents the privilege level of an account.
type Role string

const (
	// RoleAdmin manages the whole PG and tiffin operation.
	RoleAdmin Role = "ADMIN"
	// RoleUser is a regular account without management rights.
	RoleUser Role = "USER"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole converts a configured role name into a Role. Matching ignores case and surrounding spaces.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", errors.Errorf("unknown role %q", s)
	}

	return role, nil
}
