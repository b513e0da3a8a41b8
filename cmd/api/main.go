// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/briangreenhill/coachbot/internal/auth"
	"github.com/briangreenhill/coachbot/internal/coach"
	"github.com/briangreenhill/coachbot/internal/config"
	"github.com/briangreenhill/coachbot/internal/email"
	"github.com/briangreenhill/coachbot/internal/http/routes"
	"github.com/briangreenhill/coachbot/internal/jobs"
	"github.com/briangreenhill/coachbot/internal/prompt"
	"github.com/briangreenhill/coachbot/internal/store"
	"github.com/briangreenhill/coachbot/web"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Plan history
	var plans store.Store = store.NewMemoryStore()
	if cfg.HasDatabase() {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("db error")
		}
		defer pool.Close()
		pg := store.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("db migrate error")
		}
		plans = pg
	} else {
		logger.Warn().Msg("DATABASE_URL not set, plan history is kept in memory")
	}

	// Text generation
	gen, err := coach.FromConfig(ctx, &cfg.Coach)
	if err != nil {
		logger.Fatal().Err(err).Msg("coach provider error")
	}
	svc := coach.NewService(coach.ServiceOptions{
		Generator: gen,
		Catalog:   prompt.Default(prompt.WithPhilosophy(cfg.Coach.DetailedPrompt)),
		Store:     plans,
		Sampling:  coach.SamplingFromConfig(&cfg.Coach),
		Logger:    logger,
	})

	// Sessions
	sess := scs.New()
	sess.Lifetime = 12 * time.Hour
	sess.Cookie.HttpOnly = true
	sess.Cookie.SameSite = http.SameSiteLaxMode
	sess.Cookie.Secure = false

	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatal().Err(err).Msg("parse templates")
	}

	// Share link helper
	secret := []byte(cfg.ShareSecret)
	if len(secret) == 0 {
		if secret, err = auth.NewSecret(); err != nil {
			logger.Fatal().Err(err).Msg("share secret")
		}
		logger.Warn().Msg("SHARE_SECRET not set, share links stop working after a restart")
	}
	share := auth.ShareLink{Secret: secret, BaseURL: cfg.BaseURL}

	// Mail: queue through the worker when Redis is configured
	var sender email.Sender = email.StdoutSender{Log: logger}
	if cfg.SMTPAddr != "" {
		sender = email.NewSMTPSender(cfg.SMTPAddr, cfg.MailFrom)
	}
	var dispatcher jobs.Dispatcher = jobs.InlineDispatcher{Sender: sender}
	if cfg.HasQueue() {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("close asynq client")
			}
		}()
		dispatcher = jobs.QueueDispatcher{Client: client}
	}

	s := routes.New(routes.ServerOptions{
		Sess:   sess,
		Tmpl:   tmpl,
		Coach:  svc,
		Share:  share,
		Jobs:   dispatcher,
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("port", cfg.Port).Str("provider", svc.Provider()).Msg("starting app")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
