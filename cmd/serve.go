package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	httpctx "github.com/dtroode/gophaccounts-server/internal/api/http/context"
	"github.com/dtroode/gophaccounts-server/internal/api/http/handler"
	"github.com/dtroode/gophaccounts-server/internal/api/http/middleware"
	"github.com/dtroode/gophaccounts-server/internal/api/http/router"
	httpServer "github.com/dtroode/gophaccounts-server/internal/api/http/server"
	"github.com/dtroode/gophaccounts-server/internal/config"
	"github.com/dtroode/gophaccounts-server/internal/logger"
	"github.com/dtroode/gophaccounts-server/internal/model"
	"github.com/dtroode/gophaccounts-server/internal/password"
	"github.com/dtroode/gophaccounts-server/internal/server"
	"github.com/dtroode/gophaccounts-server/internal/service"
	"github.com/dtroode/gophaccounts-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "parse config").Wrap(err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	store, closeStore, err := openStore(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	s := newHTTPServer(cfg, store, logger)
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			errCh <- err
		}
	}(s)

	logAppVersion(cmd)

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("received interruption signal, shutting down")
	case serveErr = <-errCh:
		serveErr = oops.Code("SERVER_FAILED").With("address", s.Address()).Wrap(serveErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := s.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", s.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")

	return serveErr
}

func newHTTPServer(cfg *config.Config, store model.AccountStore, logger *logger.Logger) *httpServer.HTTPServer {
	hasher := password.NewHasher(cfg.KDF.Iterations, cfg.KDF.KeyLen)
	tokenManager := token.NewJWT(cfg.Auth.TokenSecret)

	accountService := service.NewAccount(store, hasher, newCustomerCreator(cfg.Billing), logger.Module("accounts"))
	authService := service.NewAuth(store, hasher, cfg.Auth.ResetTTL, logger.Module("auth"))
	tokenService := service.NewTokenService(tokenManager, cfg.Auth.TokenTTL, logger.Module("token"))

	r := router.New(authService, accountService, tokenService, httpctx.NewManager(), middleware.NewMetrics(), router.Options{
		Cookie: handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Domain: cfg.HTTP.Host,
			Secure: cfg.HTTP.EnableHTTPS,
		},
		CORSOrigin:      cfg.HTTP.CORSOrigin,
		CreateCustomers: cfg.Billing.CreateCustomers,
	}, logger)

	return httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
}

func logAppVersion(cmd *cobra.Command) {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	cmd.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
