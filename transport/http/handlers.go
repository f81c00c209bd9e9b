package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/layer-3/jumper/core"
	"github.com/layer-3/jumper/service"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// AuthHandlers contains HTTP handlers for wallet auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
	cookie      CookieConfig
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService, cookie CookieConfig) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		cookie:      cookie,
	}
}

type connectRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required,eth_addr"`
}

type connectResponse struct {
	Nonce string `json:"nonce"`
}

// Connect registers the wallet if needed and returns its current nonce
func (h *AuthHandlers) Connect(c *gin.Context) {
	var req connectRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	nonce, err := h.authService.Connect(c.Request.Context(), req.WalletAddress)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, connectResponse{Nonce: nonce})
}

type loginRequest struct {
	Message   string `json:"message" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// Login verifies the signed challenge and sets the session cookie
func (h *AuthHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	principal, err := h.authService.Login(ctx, req.Message, req.Signature)
	if err != nil {
		abortWithError(c, err)
		return
	}

	_, cookie, err := h.authService.StartSession(ctx, *principal)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.setCookie(c, cookie, int(h.cookie.MaxAge.Seconds()))
	c.Status(http.StatusOK)
}

// Logout destroys the current session and clears the cookie
func (h *AuthHandlers) Logout(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, core.ErrUnauthenticated)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), session); err != nil {
		abortWithError(c, err)
		return
	}

	h.setCookie(c, "", -1)
	c.Status(http.StatusOK)
}

func (h *AuthHandlers) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

// TokenHandlers contains HTTP handlers for balance endpoints
type TokenHandlers struct {
	tokenService *service.TokenService
}

// NewTokenHandlers creates new token handlers
func NewTokenHandlers(tokenService *service.TokenService) *TokenHandlers {
	return &TokenHandlers{tokenService: tokenService}
}

type tokenResponse struct {
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	Balance         float64 `json:"balance"`
	ContractAddress string  `json:"contractAddress"`
	ChainID         uint64  `json:"chainId"`
	ChainName       string  `json:"chainName"`
}

// Me returns the ERC-20 balances of the session's wallet
func (h *TokenHandlers) Me(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, core.ErrUnauthenticated)
		return
	}

	tokens, err := h.tokenService.WalletTokens(c.Request.Context(), session.WalletAddress)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]tokenResponse, 0, len(tokens))
	for _, t := range tokens {
		resp = append(resp, tokenResponse{
			Name:            t.Name,
			Symbol:          t.Symbol,
			Balance:         t.Balance.InexactFloat64(),
			ContractAddress: t.ContractAddress,
			ChainID:         t.ChainID,
			ChainName:       t.ChainName,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Health reports the status of every registered dependency. Failures are
// logged; the response only names the dependency that is down.
func Health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		results := make(map[string]string, len(checks))
		var down []string
		for name, check := range checks {
			if err := check(ctx); err != nil {
				slog.Error("health check failed", slog.String("check", name), slog.Any("error", err))
				down = append(down, name+" is unavailable")
				continue
			}
			results[name] = "ok"
		}

		if len(down) > 0 {
			sort.Strings(down)
			abortWithStatus(c, http.StatusServiceUnavailable, down...)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": results})
	}
}

// bindJSON binds the body. Validator errors are kept so each failed field
// gets its own message; anything else is a malformed body.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validationErrs
		}
		return errBadBody
	}
	return nil
}
