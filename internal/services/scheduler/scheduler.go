// Package services периодически переводит просроченные подписки в EXPIRED
// и публикует уведомление по каждому такому пользователю.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/study-tools-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
)

type Expirer interface {
	ExpireOverdue(ctx context.Context) ([]models.User, error)
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

type SchedulerService struct {
	expirer   Expirer
	publisher Publisher
	interval  time.Duration
	now       func() time.Time
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(expirer Expirer, publisher Publisher, interval time.Duration, log *slog.Logger) *SchedulerService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SchedulerService{
		expirer:   expirer,
		publisher: publisher,
		interval:  interval,
		now:       time.Now,
		log:       log,
	}
}

// Run выполняет проверку сразу и затем каждые interval, пока не отменён ctx.
func (s *SchedulerService) Run(ctx context.Context) {
	s.runExpireOverdue(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runExpireOverdue(ctx)
		}
	}
}

func (s *SchedulerService) runExpireOverdue(ctx context.Context) {
	if _, err := s.ExpireOnce(ctx); err != nil {
		s.log.Error("failed to expire subscriptions", sl.Err(err))
	}
}

// ExpireOnce выполняет одну проверку и возвращает число опубликованных уведомлений.
// Ошибка публикации одного уведомления не прерывает остальные.
func (s *SchedulerService) ExpireOnce(ctx context.Context) (int, error) {
	const op = "services.scheduler.ExpireOnce"

	s.log.Info("starting service to find overdue subscriptions")
	users, err := s.expirer.ExpireOverdue(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(users) == 0 {
		s.log.Info("no overdue subscriptions found")
		return 0, nil
	}
	s.log.Info("expired subscriptions", "count", len(users))

	published := 0
	now := s.now().UTC()
	for _, u := range users {
		msg := models.ExpiredNotification{
			UserID:    u.ID,
			Email:     u.Email,
			Name:      u.Name,
			ExpiredAt: now,
		}
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingSubscriptionExpired, msg); err != nil {
			s.log.Error("failed to publish message", slog.String("user_id", u.ID), sl.Err(err))
			continue
		}
		published++
	}
	return published, nil
}
