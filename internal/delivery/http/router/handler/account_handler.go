// Package handler contains the HTTP handlers for the application.
package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	deliverycontext "pgtiffin/internal/delivery/context"
	"pgtiffin/internal/delivery/http/response"
	"pgtiffin/internal/delivery/http/validator"
	"pgtiffin/internal/domain/entity"
	domainerrors "pgtiffin/internal/domain/errors"
	"pgtiffin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	msgAdminCreated = "Admin user created successfully"
	msgUserCreated  = "User created successfully"
	msgLoginOK      = "Login successful"
)

// AccountHandler serves the register and login endpoints.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles POST /api/register.
func (h *AccountHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := decodeJSON(c, &input); err != nil {
		return errors.Wrap(err, "decode register body")
	}
	if err := c.Validate(&input); err != nil {
		h.log(c).Debug("Register request missing fields", slog.Any("fields", validator.MissingFields(err)))

		return domainerrors.ErrMissingFields.WrapMessage(strings.Join(validator.MissingFields(err), ","))
	}

	output, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	message := msgUserCreated
	if output.Account.Role == entity.RoleAdmin {
		message = msgAdminCreated
	}

	return response.Account(c, http.StatusCreated, message, output.Account)
}

// Login handles POST /api/login.
func (h *AccountHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := decodeJSON(c, &input); err != nil {
		return errors.Wrap(err, "decode login body")
	}
	if err := c.Validate(&input); err != nil {
		return domainerrors.ErrMissingCredentials.WrapMessage(strings.Join(validator.MissingFields(err), ","))
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Account(c, http.StatusOK, msgLoginOK, output.Account)
}

// decodeJSON reads the body as JSON whatever Content-Type the client sent, so plain
// fetch() and curl -d requests work. An empty body decodes to the zero value and is
// reported by validation as missing fields.
func decodeJSON(c echo.Context, v any) error {
	err := c.Echo().JSONSerializer.Deserialize(c, v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
		return httpErr
	}

	return domainerrors.ErrValidationFailed.WrapMessage("malformed JSON body: " + err.Error())
}

func (h *AccountHandler) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)
}
