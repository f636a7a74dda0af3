// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"pgtiffin/config"
	deliverycontext "pgtiffin/internal/delivery/context"
	"pgtiffin/internal/domain/entity"
	domainerrors "pgtiffin/internal/domain/errors"
	"pgtiffin/internal/domain/repository"
	"pgtiffin/internal/domain/service"
	"pgtiffin/internal/infra/metrics"
	"pgtiffin/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxPasswordBytes is the longest plaintext bcrypt can hash without truncation.
const maxPasswordBytes = 72

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	defaultRole entity.Role
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for the account service, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService.
// The default role comes from configuration and must name a known role.
func NewAccountService(params AccountServiceParams) (usecase.AccountUsecase, error) {
	roleName := ""
	if params.Config != nil && params.Config.Auth != nil {
		roleName = params.Config.Auth.DefaultRole
	}

	defaultRole, err := entity.ParseRole(roleName)
	if err != nil {
		return nil, errors.Wrap(err, "invalid auth.defaultRole")
	}

	return &accountService{
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		defaultRole: defaultRole,
		logger:      params.Logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account after checking that the email is free.
// On any failure nothing is written; the store's unique index settles concurrent registrations.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (output *usecase.RegisterOutput, err error) {
	defer func() { recordOutcome(metrics.OperationRegister, err) }()

	if input == nil || input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingFields.WrapMessage("register")
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, domainerrors.ErrPasswordTooLong.WrapMessage("register")
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	_, err = srv.accountRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		srv.log(ctx).Warn("Registration rejected, email already registered", slog.String("email", input.Email))

		return nil, domainerrors.ErrAccountAlreadyExists.WrapMessage("register")
	case !errors.Is(err, repository.ErrAccountNotFound):
		srv.log(ctx).Error("Failed to check existing account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to check existing account")
	}

	hashedPassword, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	account := &entity.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         srv.defaultRole,
	}

	if err = srv.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domainerrors.ErrAccountAlreadyExists) {
			srv.log(ctx).Warn("Registration lost race on unique email", slog.String("email", input.Email))
		} else {
			srv.log(ctx).Error("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to create account during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", account.ID), slog.Any("role", account.Role))

	return &usecase.RegisterOutput{Account: account}, nil
}

// Login verifies an email/password pair. Unknown email and wrong password fail identically.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (output *usecase.LoginOutput, err error) {
	defer func() { recordOutcome(metrics.OperationLogin, err) }()

	if input == nil || input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingCredentials.WrapMessage("login")
	}

	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Login failed, unknown email", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		srv.log(ctx).Error("Failed to load account for login", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	// bcrypt is CPU-bound; the hasher bounds how many run at once.
	matched, err := srv.hasher.Check(ctx, input.Password, account.PasswordHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !matched {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{Account: account}, nil
}

// recordOutcome classifies the result of an operation into the auth attempts counter.
func recordOutcome(operation string, err error) {
	metrics.AuthAttempts.WithLabelValues(operation, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domainerrors.ErrMissingFields),
		errors.Is(err, domainerrors.ErrMissingCredentials),
		errors.Is(err, domainerrors.ErrPasswordTooLong):
		return metrics.OutcomeValidation
	case errors.Is(err, domainerrors.ErrAccountAlreadyExists):
		return metrics.OutcomeConflict
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return metrics.OutcomeInvalidCredentials
	default:
		return metrics.OutcomeError
	}
}
