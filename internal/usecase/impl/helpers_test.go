package impl

import (
	"io"
	"log/slog"

	"pgtiffin/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(defaultRole string) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:          4,
			MaxConcurrentHashes: 2,
			DefaultRole:         defaultRole,
		},
	}
}
