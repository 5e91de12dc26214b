package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"syscall"

	"eventreg/internal/config"
	"eventreg/internal/logging"
	"eventreg/internal/mail"
	"eventreg/internal/observability"
	"eventreg/internal/queue"
	"eventreg/internal/store"
)

// The worker drains the mail outbox. It shares nothing with the API process
// beyond the queue and the SMTP configuration.
func main() {
	cfg := config.Load()

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "eventreg-worker")
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := store.NewRedis(cfg.RedisAddr)
	q := queue.NewRedisQueue(redisClient.Client, "eventreg:mail")

	dispatcher := mail.NewDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.FromEmail, cfg.SMTPSecure, lg.Sugar)
	if !dispatcher.Enabled() {
		lg.Sugar.Warn("SMTP configuration not set - messages will be dropped")
	}

	msgs, err := q.Consume(ctx)
	if err != nil {
		lg.Sugar.Fatalw("queue consume failed", "err", err)
	}

	lg.Sugar.Info("worker started")
	for msg := range msgs {
		if msg.Type != queue.TypeMail {
			lg.Sugar.Warnw("unknown job type", "type", msg.Type)
			continue
		}
		var m mail.Message
		if err := json.Unmarshal(msg.Body, &m); err != nil {
			lg.Sugar.Errorw("decode mail job", "err", err)
			continue
		}
		if err := dispatcher.Send(m); err != nil {
			lg.Sugar.Errorw("send mail", "to", m.To, "err", err)
			observability.CaptureErr(err)
			continue
		}
		lg.Sugar.Infow("mail sent", "to", m.To)
	}
	lg.Sugar.Info("worker stopped")
}
