// Package response renders the JSON bodies returned by the HTTP API.
package response

import (
	"net/http"

	deliverycontext "pgtiffin/internal/delivery/context"
	"pgtiffin/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// AccountResponse is the body of a successful register or login.
type AccountResponse struct {
	Message string               `json:"message"`
	User    entity.PublicAccount `json:"user"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string    `json:"message"`
	Error   ErrorInfo `json:"error"`
	Meta    Meta      `json:"meta"`
}

// ErrorInfo carries the machine-readable error code, e.g. "INVALID_CREDENTIALS".
type ErrorInfo struct {
	Code string `json:"code"`
}

type Meta struct {
	RequestID string `json:"request_id,omitempty"`
}

// Account writes a message together with the public view of account.
func Account(c echo.Context, statusCode int, message string, account *entity.Account) error {
	return c.JSON(statusCode, AccountResponse{
		Message: message,
		User:    account.Public(),
	})
}

// Error writes an error body tagged with the request ID.
func Error(c echo.Context, statusCode int, errorCode, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorResponse{
		Message: message,
		Error:   ErrorInfo{Code: errorCode},
		Meta:    Meta{RequestID: deliverycontext.RequestID(c)},
	})
}

