package postgres

import (
	"context"
	"time"

	"pgtiffin/config"
	"pgtiffin/internal/domain/entity"
	domainerrors "pgtiffin/internal/domain/errors"
	"pgtiffin/internal/domain/repository"
	"pgtiffin/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db           *gorm.DB
	queryTimeout time.Duration
	hasReplicas  bool
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface.
func NewAccountRepository(db *gorm.DB, cfg *config.Config) repository.AccountRepository {
	repo := &accountRepository{db: db}
	if cfg != nil && cfg.Persistence != nil {
		repo.queryTimeout = cfg.Persistence.QueryTimeout
	}
	if cfg != nil && cfg.Postgres != nil {
		repo.hasReplicas = len(cfg.Postgres.Replicas) > 0
	}

	return repo
}

func (repo *accountRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if repo.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, repo.queryTimeout)
}

// FindByEmail looks the account up on a replica first. A replica may lag behind a
// registration that just committed, so a miss is confirmed against the primary.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	accountM, err := repo.findByEmail(repo.db.WithContext(ctx), email)
	if errors.Is(err, gorm.ErrRecordNotFound) && repo.hasReplicas {
		accountM, err = repo.findByEmail(repo.db.WithContext(ctx).Clauses(dbresolver.Write), email)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}
		if isTimeout(ctx, err) {
			return nil, domainerrors.ErrStoreTimeout.WrapMessage("find account by email")
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account by email")
	}

	return toAccountDomain(accountM), nil
}

func (repo *accountRepository) findByEmail(db *gorm.DB, email string) (*model.AccountModel, error) {
	var accountM model.AccountModel
	if err := db.Where("email = ?", email).Take(&accountM).Error; err != nil {
		return nil, err
	}

	return &accountM, nil
}

// Create inserts the account on the primary and fills in the generated ID and timestamps.
// The unique index on email decides concurrent registrations for the same address.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		switch {
		case isUniqueConstraintViolation(err):
			return domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists")
		case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
			return domainerrors.ErrAccountCreationFailed.WrapMessage("account violates table constraints")
		case isTimeout(ctx, err):
			return domainerrors.ErrStoreTimeout.WrapMessage("create account")
		default:
			return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
		}
	}

	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

func toAccountDomain(m *model.AccountModel) *entity.Account {
	return &entity.Account{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         entity.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromAccountDomain(a *entity.Account) *model.AccountModel {
	return &model.AccountModel{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role.String(),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
