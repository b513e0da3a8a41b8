package main

import (
	"os"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/coachbot/internal/config"
	"github.com/briangreenhill/coachbot/internal/email"
	"github.com/briangreenhill/coachbot/internal/jobs"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "worker").Logger()

	// the worker only needs Redis and SMTP, not a generation credential
	cfg, err := config.LoadWorker()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}
	if !cfg.HasQueue() {
		logger.Fatal().Msg("REDIS_ADDR is required for the worker")
	}

	var sender email.Sender = email.StdoutSender{Log: logger}
	if cfg.SMTPAddr != "" {
		sender = email.NewSMTPSender(cfg.SMTPAddr, cfg.MailFrom)
	}

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency:    4,
		StrictPriority: false,
		Queues: map[string]int{
			jobs.QueueMail: 10,
			"default":      5,
		},
	})
	mux := asynq.NewServeMux()
	mux.Handle(jobs.TaskEmailPlan, jobs.HandleEmailPlan(sender, logger))

	logger.Info().Str("redis", cfg.RedisAddr).Msg("worker running")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}
