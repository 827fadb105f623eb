package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-blog-auth/auth"
	"github.com/jrsteele09/go-blog-auth/credentials"
	"github.com/jrsteele09/go-blog-auth/internal/config"
	"github.com/jrsteele09/go-blog-auth/server"
	sessionrepogorm "github.com/jrsteele09/go-blog-auth/sessions/repogorm"
	"github.com/jrsteele09/go-blog-auth/storage"
	"github.com/jrsteele09/go-blog-auth/token"
	userrepogorm "github.com/jrsteele09/go-blog-auth/users/repogorm"
)

const sessionSweepInterval = time.Hour

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("server stopped")
}

func run(logger zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	displayAppname(cfg.AppName)

	db, err := storage.Open(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	userRepo := userrepogorm.New(db)
	sessionRepo := sessionrepogorm.New(db)

	hasher, err := credentials.NewHasher(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("building hasher: %w", err)
	}

	issuer, err := token.NewIssuer(
		token.NewHMACSigner(cfg.AccessTokenSecret),
		token.NewHMACSigner(cfg.RefreshTokenSecret),
		cfg.AppName,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	if err != nil {
		return fmt.Errorf("building issuer: %w", err)
	}

	rotator, err := auth.NewRotator(sessionRepo, userRepo, issuer, hasher)
	if err != nil {
		return fmt.Errorf("building rotator: %w", err)
	}

	authService, err := auth.NewService(auth.Repos{Users: userRepo, Sessions: sessionRepo}, rotator, hasher)
	if err != nil {
		return fmt.Errorf("building auth service: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Port,
		Handler: server.New(authService, issuer, logger),
	}

	stopSweep := startSessionSweep(sessionRepo, logger)
	defer stopSweep()

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("listen and serve")
		}
	}()

	waitForStopSignal()
	return shutdown(httpServer)
}

// startSessionSweep garbage-collects expired refresh sessions in the
// background. Expired rows are already invisible to rotation; this only
// keeps the table from growing without bound.
func startSessionSweep(repo *sessionrepogorm.Repo, logger zerolog.Logger) (stop func()) {
	ticker := time.NewTicker(sessionSweepInterval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				deleted, err := repo.DeleteExpired(time.Now())
				if err != nil {
					logger.Error().Err(err).Msg("session sweep")
					continue
				}
				if deleted > 0 {
					logger.Info().Int64("deleted", deleted).Msg("session sweep")
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
