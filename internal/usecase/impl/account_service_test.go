package impl

import (
	"context"
	"testing"

	"pgtiffin/internal/domain/entity"
	domainerrors "pgtiffin/internal/domain/errors"
	"pgtiffin/internal/domain/repository"
	mockRepo "pgtiffin/internal/mocks/repository"
	mockSvc "pgtiffin/internal/mocks/service"
	"pgtiffin/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service     usecase.AccountUsecase
	accountRepo *mockRepo.MockAccountRepository
	hasher      *mockSvc.MockPasswordHasher
}

func createTestAccountService(t *testing.T, defaultRole string) accountServiceFixtures {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	svc, err := NewAccountService(AccountServiceParams{
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Config:      newTestConfig(defaultRole),
		Logger:      newDiscardLogger(),
	})
	require.NoError(t, err)

	return accountServiceFixtures{
		service:     svc,
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

func TestNewAccountService_RejectsUnknownRole(t *testing.T) {
	_, err := NewAccountService(AccountServiceParams{
		Config: newTestConfig("OWNER"),
		Logger: newDiscardLogger(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.defaultRole")
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t, "USER")
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret123"}
	generatedID := uuid.New()

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash(ctx, input.Password).Return("hashed_password", nil)
	fx.accountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(_ context.Context, account *entity.Account) {
			assert.Equal(t, "Alice", account.Name)
			assert.Equal(t, "a@x.com", account.Email)
			assert.Equal(t, "hashed_password", account.PasswordHash)
			assert.Equal(t, entity.RoleUser, account.Role)
			account.ID = generatedID
		}).
		Return(nil).
		Once()

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, generatedID, output.Account.ID)
	assert.Equal(t, input.Email, output.Account.Email)
}

func TestAccountService_Register_UsesConfiguredDefaultRole(t *testing.T) {
	fx := createTestAccountService(t, "admin")
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Owner", Email: "owner@x.com", Password: "secret123"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash(ctx, input.Password).Return("hashed_password", nil)
	fx.accountRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Account")).Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, output.Account.Role)
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	tests := map[string]*usecase.RegisterInput{
		"nil input":        nil,
		"missing name":     {Email: "a@x.com", Password: "secret123"},
		"missing email":    {Name: "Alice", Password: "secret123"},
		"missing password": {Name: "Alice", Email: "a@x.com"},
		"all empty":        {},
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			// Mocks without expectations fail the test on any store or hasher call.
			fx := createTestAccountService(t, "USER")

			output, err := fx.service.Register(context.Background(), input)

			assert.Nil(t, output)
			assert.True(t, errors.Is(err, domainerrors.ErrMissingFields))
		})
	}
}

func TestAccountService_Register_PasswordTooLong(t *testing.T) {
	fx := createTestAccountService(t, "USER")
	input := &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: longPassword()}

	output, err := fx.service.Register(context.Background(), input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordTooLong))
}

func TestAccountService_Register_EmailAlreadyExists(t *testing.T) {
	fx := createTestAccountService(t, "USER")
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Bob", Email: "a@x.com", Password: "secret123"}

	fx.accountRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(&entity.Account{ID: uuid.New(), Email: input.Email}, nil)

	output, err := fx.service.Register(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
	fx.hasher.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
	fx.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Register_LostRaceOnUniqueEmail(t *testing.T) {
	fx := createTestAccountService(t, "USER")
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret123"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash(ctx, input.Password).Return("hashed_password", nil)
	fx.accountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Return(domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists"))

	output, err := fx.service.Register(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
}

func TestAccountService_Register_StoreLookupFails(t *testing.T) {
	fx := createTestAccountService(t, "USER")
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret123"}
	storeErr := domainerrors.ErrStoreTimeout.WrapMessage("find account by email")

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, storeErr)

	output, err := fx.service.Register(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrStoreTimeout))
	assert.False(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
}

func TestAccountService_Register_HashFails(t *testing.T) {
	fx := createTestAccountService(t, "USER")
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret123"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash(ctx, input.Password).Return("", context.Canceled)

	output, err := fx.service.Register(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, context.Canceled))
	fx.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t, "USER")
	ctx := context.Background()
	input := &usecase.LoginInput{Email: "a@x.com", Password: "secret123"}
	stored := &entity.Account{ID: uuid.New(), Name: "Alice", Email: input.Email, PasswordHash: "hashed", Role: entity.RoleUser}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(stored, nil)
	fx.hasher.EXPECT().Check(ctx, input.Password, stored.PasswordHash).Return(true, nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, stored, output.Account)
}

func TestAccountService_Login_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	ctx := context.Background()

	unknown := createTestAccountService(t, "USER")
	unknown.accountRepo.EXPECT().FindByEmail(ctx, "nobody@x.com").Return(nil, repository.ErrAccountNotFound)
	_, unknownErr := unknown.service.Login(ctx, &usecase.LoginInput{Email: "nobody@x.com", Password: "secret123"})

	wrong := createTestAccountService(t, "USER")
	wrong.accountRepo.EXPECT().
		FindByEmail(ctx, "a@x.com").
		Return(&entity.Account{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hashed"}, nil)
	wrong.hasher.EXPECT().Check(ctx, "wrong", "hashed").Return(false, nil)
	_, wrongErr := wrong.service.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "wrong"})

	var unknownApp, wrongApp domainerrors.AppError
	require.True(t, errors.As(unknownErr, &unknownApp))
	require.True(t, errors.As(wrongErr, &wrongApp))
	assert.Equal(t, unknownApp.HTTPCode(), wrongApp.HTTPCode())
	assert.Equal(t, unknownApp.ErrorCode(), wrongApp.ErrorCode())
	assert.Equal(t, unknownApp.Message(), wrongApp.Message())
	unknown.hasher.AssertNotCalled(t, "Check", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_Login_MissingFields(t *testing.T) {
	tests := map[string]*usecase.LoginInput{
		"nil input":        nil,
		"missing email":    {Password: "secret123"},
		"missing password": {Email: "a@x.com"},
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			fx := createTestAccountService(t, "USER")

			output, err := fx.service.Login(context.Background(), input)

			assert.Nil(t, output)
			assert.True(t, errors.Is(err, domainerrors.ErrMissingCredentials))
		})
	}
}

func TestAccountService_Login_StoreFailureIsInternal(t *testing.T) {
	fx := createTestAccountService(t, "USER")
	ctx := context.Background()
	storeErr := domainerrors.NewDatabaseExecuteError(errors.New("connection refused"), "failed to find account by email")

	fx.accountRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, storeErr)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "secret123"})

	assert.Nil(t, output)
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.HTTPCode())
}

func TestAccountService_Login_HasherCancelled(t *testing.T) {
	fx := createTestAccountService(t, "USER")
	ctx := context.Background()
	stored := &entity.Account{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hashed"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, stored.Email).Return(stored, nil)
	fx.hasher.EXPECT().Check(ctx, "secret123", stored.PasswordHash).Return(false, context.DeadlineExceeded)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: stored.Email, Password: "secret123"})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, "success", outcomeOf(nil))
	assert.Equal(t, "validation_error", outcomeOf(domainerrors.ErrMissingFields.WrapMessage("x")))
	assert.Equal(t, "validation_error", outcomeOf(domainerrors.ErrMissingCredentials))
	assert.Equal(t, "conflict", outcomeOf(errors.Wrap(domainerrors.ErrAccountAlreadyExists, "x")))
	assert.Equal(t, "invalid_credentials", outcomeOf(domainerrors.ErrInvalidCredentials.WrapMessage("x")))
	assert.Equal(t, "error", outcomeOf(errors.New("boom")))
}

func longPassword() string {
	b := make([]byte, maxPasswordBytes+1)
	for i := range b {
		b[i] = 'a'
	}

	return string(b)
}
