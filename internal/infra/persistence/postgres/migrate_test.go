package postgres

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"pgtiffin/internal/infra/persistence/migrations"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_UsesEmbeddedDirectory(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir

		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), nil, nil))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_PropagatesFailure(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	boom := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return boom
	}

	err := RunMigrations(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestEmbeddedMigrations_CreateAccountsTable(t *testing.T) {
	files, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	content, err := fs.ReadFile(migrations.Migrations, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS accounts")
	assert.Contains(t, string(content), "CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_key")
}
