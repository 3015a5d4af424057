// Package notifier читает очередь уведомлений и рассылает письма.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/study-tools-hub/internal/config"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/smtp"
	notifierservice "github.com/magabrotheeeer/study-tools-hub/internal/services/notifier"
)

// ErrNotConfigured не заданы брокер или почтовый сервер
var ErrNotConfigured = errors.New("notifier requires rabbitmq.url and smtp.host")

type App struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	notifier *notifierservice.NotifierService
	logger   *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.notifier.New"

	if cfg.RabbitMQURL == "" || cfg.SMTPHost == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.ConnectRetries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.NotificationQueues())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:     conn,
		ch:       ch,
		notifier: notifierservice.NewNotifierService(transport, logger),
		logger:   logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueSubscriptionExpired, a.logger, a.notifier.SendSubscriptionExpired)
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", rabbitmq.QueueSubscriptionExpired), sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
