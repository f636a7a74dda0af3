package main

import (
	"context"
	"log/slog"
	"os"

	"pgtiffin/config"
	"pgtiffin/internal/delivery"
	"pgtiffin/internal/delivery/http"
	"pgtiffin/internal/delivery/http/middleware"
	"pgtiffin/internal/delivery/http/pages"
	"pgtiffin/internal/delivery/http/router/handler"
	"pgtiffin/internal/infra/auth"
	logs "pgtiffin/internal/infra/log"
	"pgtiffin/internal/infra/persistence/postgres"
	"pgtiffin/internal/usecase/impl"

	"github.com/google/gops/agent"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startDiagnostics,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewAccountRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewHealthHandler,
			pages.New,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startDiagnostics runs the gops agent so a live process can be inspected with `gops`.
func startDiagnostics(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) {
	if cfg.Diagnostics == nil || !cfg.Diagnostics.Gops.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := agent.Listen(agent.Options{Addr: cfg.Diagnostics.Gops.Addr, ShutdownCleanup: true}); err != nil {
				return errors.Wrap(err, "start gops agent")
			}
			logger.Info("gops agent listening", slog.String("addr", cfg.Diagnostics.Gops.Addr))

			return nil
		},
		OnStop: func(context.Context) error {
			agent.Close()

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, d := range params.Deliveries {
				go func() {
					if err := d.Serve(ctx); err != nil {
						params.Logger.Error("Failed to start server", slog.Any("error", err))
						os.Exit(1)
					}
				}()
			}

			return nil
		},
	})
}
