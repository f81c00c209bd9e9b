package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/layer-3/jumper/core"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    []string `json:"message"`
	Error      string   `json:"error"`
}

const internalErrorMessage = "Internal server error"

// abortWithError maps err to a status code and writes the uniform error body.
// Errors that do not map to a client error are logged and never echoed back.
func abortWithError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Any("error", err),
		)
	}
	abortWithStatus(c, status, message...)
}

func abortWithStatus(c *gin.Context, status int, message ...string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

func statusFor(err error) (int, []string) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			messages = append(messages, validationMessage(fe))
		}
		return http.StatusBadRequest, messages
	}

	switch {
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, []string{errBadBody.Error()}
	case errors.Is(err, core.ErrInvalidAddress):
		return http.StatusBadRequest, []string{"walletAddress must be an Ethereum address"}
	case errors.Is(err, core.ErrMalformedChallenge):
		return http.StatusBadRequest, []string{"message must be a valid SIWE message"}
	case errors.Is(err, core.ErrInvalidSignature):
		return http.StatusForbidden, []string{"Invalid signature"}
	case errors.Is(err, core.ErrUnknownWallet):
		return http.StatusNotFound, []string{"Wallet not found"}
	case errors.Is(err, core.ErrStaleNonce):
		return http.StatusUnauthorized, []string{"Invalid nonce"}
	case errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized, []string{"Unauthorized"}
	}
	return http.StatusInternalServerError, []string{internalErrorMessage}
}

var errBadBody = errors.New("request body must be valid JSON")

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s should not be empty", fe.Field())
	case "eth_addr":
		return fmt.Sprintf("%s must be an Ethereum address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
