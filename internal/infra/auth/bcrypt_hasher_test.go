package auth

import (
	"context"
	"strings"
	"testing"

	"pgtiffin/config"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *bcryptHasher {
	t.Helper()

	hasher, err := NewBcryptHasherWithCost(bcrypt.MinCost, 2)
	require.NoError(t, err)

	return hasher.(*bcryptHasher)
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := newTestHasher(t)
	ctx := context.Background()

	password := "secret123"
	hash, err := hasher.Hash(ctx, password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	matched, err := hasher.Check(ctx, password, hash)
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	hasher := newTestHasher(t)
	ctx := context.Background()

	first, err := hasher.Hash(ctx, "secret123")
	require.NoError(t, err)
	second, err := hasher.Hash(ctx, "secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := newTestHasher(t)
	ctx := context.Background()
	password := "secret123"

	hash, err := hasher.Hash(ctx, password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "correct password", password: password, hash: hash, want: true},
		{name: "wrong password", password: "nope", hash: hash, want: false},
		{name: "empty password", password: "", hash: hash, want: false},
		{name: "malformed hash", password: password, hash: "invalid_hash", want: false},
		{name: "password longer than 72 bytes", password: strings.Repeat("a", 73), hash: hash, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hasher.Check(ctx, tt.password, tt.hash)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6
	hasher, err := NewBcryptHasherWithCost(customCost, 1)
	require.NoError(t, err)

	hash, err := hasher.Hash(context.Background(), "secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, customCost, cost)
}

func TestNewBcryptHasher_FromConfig(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 5, MaxConcurrentHashes: 1}}

	hasher, err := NewBcryptHasher(cfg)
	require.NoError(t, err)

	hash, err := hasher.Hash(context.Background(), "secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestNewBcryptHasher_InvalidSettings(t *testing.T) {
	_, err := NewBcryptHasher(nil)
	assert.Error(t, err)

	_, err = NewBcryptHasherWithCost(bcrypt.MinCost-1, 1)
	assert.Error(t, err)

	_, err = NewBcryptHasherWithCost(bcrypt.MaxCost+1, 1)
	assert.Error(t, err)

	_, err = NewBcryptHasherWithCost(bcrypt.MinCost, 0)
	assert.Error(t, err)
}

func TestBcryptHasher_RespectsContextWhileWaitingForSlot(t *testing.T) {
	hasher := newTestHasher(t)

	// Occupy every slot so the next caller has to wait.
	require.NoError(t, hasher.slots.Acquire(context.Background(), 2))
	defer hasher.slots.Release(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, "secret123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	matched, err := hasher.Check(ctx, "secret123", "$2a$04$abcdefghijklmnopqrstuu")
	require.Error(t, err)
	assert.False(t, matched)
}
