package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/egdmrsy/TruBudget-SvKit/internal/auth"
	"github.com/egdmrsy/TruBudget-SvKit/internal/config"
	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/history"
	"github.com/egdmrsy/TruBudget-SvKit/internal/server"
	"github.com/egdmrsy/TruBudget-SvKit/internal/store/postgres"
	redisstore "github.com/egdmrsy/TruBudget-SvKit/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	var (
		issueUser   string
		issueOrg    string
		issueGroups []string
	)
	flagSet := pflag.NewFlagSet("svkit", pflag.ContinueOnError)
	flagSet.StringVar(&issueUser, "issue-token", "", "print a bearer token for this user id and exit")
	flagSet.StringVar(&issueOrg, "org", "", "organization id for --issue-token")
	flagSet.StringSliceVar(&issueGroups, "group", nil, "group id for --issue-token (repeatable)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if issueUser != "" {
		token, err := auth.IssueToken(cfg.JWT.Secret, cfg.JWT.Issuer, domain.AuthToken{
			UserID:         issueUser,
			OrganizationID: issueOrg,
			Groups:         issueGroups,
		}, cfg.JWT.TTL)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, token)
		return err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to the PostgreSQL ledger.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.DevMode {
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	// Connect to the Redis blob store.
	blobs, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer blobs.Close()

	redactor, err := history.NewRedactor(history.DefaultTable)
	if err != nil {
		return fmt.Errorf("history table: %w", err)
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(ctx, cfg, server.Deps{
		Ledger:   store.Streams(),
		Blobs:    blobs,
		Redactor: redactor,
		Checks: map[string]server.Pinger{
			"ledger": store,
			"blobs":  blobs,
		},
	})

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
