package http

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/layer-3/jumper/service"
)

// RouterConfig carries the transport settings of SetupRouter
type RouterConfig struct {
	Cookie       CookieConfig
	HealthChecks map[string]HealthCheck
}

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, tokenService *service.TokenService, cfg RouterConfig) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(RequestLogger(), Recovery())

	authHandlers := NewAuthHandlers(authService, cfg.Cookie)
	tokenHandlers := NewTokenHandlers(tokenService)
	requireSession := RequireSession(authService, cfg.Cookie.Name)

	router.GET("/health", Health(cfg.HealthChecks))

	v1 := router.Group("/v1")

	wallet := v1.Group("/auth/wallet")
	{
		wallet.POST("/connect", authHandlers.Connect)
		wallet.POST("/login", authHandlers.Login)
		wallet.POST("/logout", requireSession, authHandlers.Logout)
	}

	tokens := v1.Group("/tokens")
	tokens.Use(requireSession)
	{
		tokens.GET("/me", tokenHandlers.Me)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithStatus(c, http.StatusNotFound, "Cannot "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return router
}

// useJSONFieldNames makes validation messages name fields the way clients send them
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
}
