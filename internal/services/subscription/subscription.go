// Package services содержит бизнес-логику подписки: доступ по пробному периоду,
// оформление и активацию платной подписки, перевод просроченных подписок в EXPIRED.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/paymentprovider"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
)

// DefaultTrialPeriod длительность пробного периода по умолчанию
const DefaultTrialPeriod = 30 * 24 * time.Hour

// ErrNoCustomer у пользователя нет клиента в платёжном провайдере
var ErrNoCustomer = errors.New("customer not found")

var errNotOverdue = errors.New("subscription is not overdue")

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Find(ctx context.Context, q query.Query) ([]models.User, error)
	FindByIDAndUpdate(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	Modify(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error)
}

// Provider оформляет подписки у платёжного провайдера.
type Provider interface {
	CreateSubscription(ctx context.Context, customerID, planID string) (*paymentprovider.Subscription, error)
	PublicKey() string
}

// Status состояние подписки пользователя для клиента
type Status struct {
	SubscriptionStatus  models.SubscriptionStatus `json:"subscriptionStatus"`
	TrialStartDate      time.Time                 `json:"trialStartDate"`
	TrialEndDate        time.Time                 `json:"trialEndDate"`
	TrialDaysLeft       int                       `json:"trialDaysLeft"`
	SubscriptionEndDate *time.Time                `json:"subscriptionEndDate,omitempty"`
	HasAccess           bool                      `json:"hasAccess"`
}

// Checkout оформленная подписка и ключ для клиентской оплаты
type Checkout struct {
	Subscription *paymentprovider.Subscription `json:"subscription"`
	Key          string                        `json:"key"`
}

// SubscriptionService реализует правила доступа и жизненный цикл подписки.
type SubscriptionService struct {
	users        UserRepository
	provider     Provider
	trial        time.Duration
	periodMonths int
	now          func() time.Time
	log          *slog.Logger
}

type Option func(*SubscriptionService)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *SubscriptionService) { s.now = now }
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// Нулевые trial и periodMonths заменяются на 30 дней и 1 месяц.
func NewSubscriptionService(users UserRepository, provider Provider, trial time.Duration, periodMonths int, log *slog.Logger, opts ...Option) *SubscriptionService {
	if trial <= 0 {
		trial = DefaultTrialPeriod
	}
	if periodMonths <= 0 {
		periodMonths = 1
	}
	s := &SubscriptionService{
		users:        users,
		provider:     provider,
		trial:        trial,
		periodMonths: periodMonths,
		now:          time.Now,
		log:          log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasAccess: ACTIVE, либо TRIAL и текущий момент не позже конца пробного периода.
func HasAccess(user models.User, now time.Time, trial time.Duration) bool {
	switch user.SubscriptionStatus {
	case models.StatusActive:
		return true
	case models.StatusTrial:
		return !now.After(trialStart(user, now).Add(trial))
	default:
		return false
	}
}

// trialStart возвращает начало пробного периода; незаданная дата считается текущим моментом.
func trialStart(user models.User, now time.Time) time.Time {
	if user.TrialStartDate.IsZero() {
		return now
	}
	return user.TrialStartDate
}

func (s *SubscriptionService) HasAccess(user models.User) bool {
	return HasAccess(user, s.now(), s.trial)
}

// Status возвращает состояние подписки пользователя.
func (s *SubscriptionService) Status(ctx context.Context, userID string) (*Status, error) {
	const op = "services.subscription.Status"

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	trialEnd := trialStart(*user, now).Add(s.trial)
	return &Status{
		SubscriptionStatus:  user.SubscriptionStatus,
		TrialStartDate:      user.TrialStartDate,
		TrialEndDate:        trialEnd,
		TrialDaysLeft:       daysLeft(now, trialEnd),
		SubscriptionEndDate: user.SubscriptionEndDate,
		HasAccess:           HasAccess(*user, now, s.trial),
	}, nil
}

func daysLeft(now, end time.Time) int {
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// CreateSubscription оформляет подписку на премиум-план для клиента пользователя.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, userID string) (*Checkout, error) {
	const op = "services.subscription.CreateSubscription"

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.BillingCustomerID == "" {
		return nil, ErrNoCustomer
	}
	sub, err := s.provider.CreateSubscription(ctx, user.BillingCustomerID, paymentprovider.PremiumPlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Checkout{Subscription: sub, Key: s.provider.PublicKey()}, nil
}

// Activate переводит пользователя в ACTIVE на periodMonths месяцев от текущего момента.
func (s *SubscriptionService) Activate(ctx context.Context, userID string) (*models.User, error) {
	const op = "services.subscription.Activate"

	status := models.StatusActive
	end := s.now().UTC().AddDate(0, s.periodMonths, 0)
	user, err := s.users.FindByIDAndUpdate(ctx, userID, models.UserPatch{
		SubscriptionStatus:  &status,
		SubscriptionEndDate: &end,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription activated", slog.String("user_id", userID), slog.Time("end_date", end))
	return user, nil
}

// ExpireOverdue переводит в EXPIRED пользователей с истёкшим пробным периодом
// и активных пользователей с прошедшей датой окончания. Возвращает изменённых.
func (s *SubscriptionService) ExpireOverdue(ctx context.Context) ([]models.User, error) {
	const op = "services.subscription.ExpireOverdue"

	candidates, err := s.users.Find(ctx, query.Or(
		query.Equals("subscriptionStatus", models.StatusTrial),
		query.Equals("subscriptionStatus", models.StatusActive),
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	var expired []models.User
	for _, c := range candidates {
		if !s.overdue(c, now) {
			continue
		}
		user, err := s.users.Modify(ctx, c.ID, func(u *models.User) error {
			if !s.overdue(*u, now) {
				return errNotOverdue
			}
			u.SubscriptionStatus = models.StatusExpired
			return nil
		})
		if errors.Is(err, errNotOverdue) {
			continue
		}
		if err != nil {
			s.log.Error("failed to expire subscription", slog.String("user_id", c.ID), sl.Err(err))
			continue
		}
		expired = append(expired, *user)
	}
	return expired, nil
}

func (s *SubscriptionService) overdue(u models.User, now time.Time) bool {
	switch u.SubscriptionStatus {
	case models.StatusTrial:
		return now.After(trialStart(u, now).Add(s.trial))
	case models.StatusActive:
		return u.SubscriptionEndDate != nil && now.After(*u.SubscriptionEndDate)
	default:
		return false
	}
}
