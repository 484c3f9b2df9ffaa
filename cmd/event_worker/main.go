package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-user-registry/config"
	"github.com/oksasatya/go-ddd-user-registry/internal/infrastructure/messaging"
	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-registry/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-user-registry/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-event-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; event worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, ch, err := helpers.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	brand := mailtpl.Brand{
		AppName:        cfg.AppName,
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
	notifier := messaging.NewNotifier(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), brand, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- messaging.Consume(ctx, msgs, notifier, logger) }()

	logger.Infof("event worker listening on queue=%s", cfg.RabbitMQEventsQueue)
	select {
	case err := <-done:
		if err != nil {
			// exit non-zero so a supervisor restarts the worker
			_ = ch.Close()
			_ = conn.Close()
			logger.WithError(err).Fatal("event worker stopped consuming")
		}
	case <-ctx.Done():
		logger.Info("shutting down...")
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}
}
