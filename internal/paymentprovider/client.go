// Package paymentprovider имитирует платёжного провайдера: клиентов и подписки.
// Реальных запросов не выполняется, идентификаторы строятся из текущего времени.
package paymentprovider

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	// PremiumPlanID тарифный план, на который оформляется подписка
	PremiumPlanID = "plan_mock_premium"
	// PublicKeyID публичный ключ, отдаваемый клиенту вместе с подпиской
	PublicKeyID = "mock_key_id"

	StatusCreated = "created"
)

// Customer клиент платёжного провайдера
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Subscription подписка у платёжного провайдера
type Subscription struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PlanID     string `json:"plan_id"`
	CustomerID string `json:"customer_id,omitempty"`
}

type Client struct {
	now func() time.Time
}

// NewClient создаёт клиент. now используется для идентификаторов, nil означает time.Now.
func NewClient(now func() time.Time) *Client {
	if now == nil {
		now = time.Now
	}
	return &Client{now: now}
}

// CreateCustomer регистрирует клиента, id вида cust_<unix ms>
func (c *Client) CreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	const op = "paymentprovider.CreateCustomer"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Customer{
		ID:    "cust_" + c.stamp(),
		Name:  name,
		Email: email,
	}, nil
}

// CreateSubscription оформляет подписку на план, id вида sub_mock_<unix ms>
func (c *Client) CreateSubscription(ctx context.Context, customerID, planID string) (*Subscription, error) {
	const op = "paymentprovider.CreateSubscription"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Subscription{
		ID:         "sub_mock_" + c.stamp(),
		Status:     StatusCreated,
		PlanID:     planID,
		CustomerID: customerID,
	}, nil
}

// PublicKey ключ для клиентской части оплаты
func (c *Client) PublicKey() string {
	return PublicKeyID
}

func (c *Client) stamp() string {
	return strconv.FormatInt(c.now().UnixMilli(), 10)
}
