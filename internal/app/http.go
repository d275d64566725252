package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/todo-assistant/internal/assistant"
	"github.com/adanyl0v/todo-assistant/internal/config"
	"github.com/adanyl0v/todo-assistant/internal/delivery/http/v1"
	"github.com/adanyl0v/todo-assistant/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           router,
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		globalLogger.Info().
			Str("addr", server.Addr).
			Msg("serving http")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
		return
	case <-ctx.Done():
	}

	globalLogger.Info().
		Dur("timeout", httpCfg.ShutdownTimeout).
		Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()
	authService := services.NewAuthService(componentLogger("auth"), services.AuthParams{
		PasswordHash:      cfg.Auth.PasswordHash,
		JWTIssuer:         cfg.JWT.Issuer,
		JWTSigningKey:     []byte(cfg.JWT.SigningKey),
		JWTAccessTokenTTL: cfg.JWT.AccessTokenTTL,
	})

	v1Handler := v1.New(
		componentLogger("http"),
		authService,
		globalTaskService,
		assistant.New(),
	)
	v1.RegisterRoutes(router, v1Handler, authService.Enabled())
}
