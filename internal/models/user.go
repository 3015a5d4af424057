// Package models содержит доменные структуры сервиса: пользователей, инструменты каталога,
// посты и комментарии форума. Теги json совпадают с именами полей в файлах коллекций.
package models

import "time"

// Role — роль пользователя.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// SubscriptionStatus — состояние подписки пользователя.
type SubscriptionStatus string

const (
	StatusTrial   SubscriptionStatus = "TRIAL"
	StatusActive  SubscriptionStatus = "ACTIVE"
	StatusExpired SubscriptionStatus = "EXPIRED"
)

// Exam — экзамен, к которому готовится пользователь.
type Exam string

const (
	ExamJEE  Exam = "JEE"
	ExamNEET Exam = "NEET"
	ExamBoth Exam = "BOTH"
)

// User представляет зарегистрированного пользователя.
// PasswordHash хранится в поле "password" и никогда не отдаётся клиенту напрямую.
type User struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Email               string             `json:"email"`
	PasswordHash        string             `json:"password"`
	Role                Role               `json:"role"`
	SubscriptionStatus  SubscriptionStatus `json:"subscriptionStatus"`
	PreparingFor        Exam               `json:"preparingFor"`
	TrialStartDate      time.Time          `json:"trialStartDate"`
	SubscriptionEndDate *time.Time         `json:"subscriptionEndDate,omitempty"`
	BillingCustomerID   string             `json:"billingCustomerId,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// UserPatch — частичное обновление пользователя. Nil-поля не меняются.
type UserPatch struct {
	Name                *string             `json:"name,omitempty"`
	Role                *Role               `json:"role,omitempty"`
	SubscriptionStatus  *SubscriptionStatus `json:"subscriptionStatus,omitempty"`
	PreparingFor        *Exam               `json:"preparingFor,omitempty"`
	SubscriptionEndDate *time.Time          `json:"subscriptionEndDate,omitempty"`
	BillingCustomerID   *string             `json:"billingCustomerId,omitempty"`
}

// PublicUser — проекция пользователя без хеша пароля.
type PublicUser struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Email               string             `json:"email"`
	Role                Role               `json:"role"`
	SubscriptionStatus  SubscriptionStatus `json:"subscriptionStatus"`
	PreparingFor        Exam               `json:"preparingFor"`
	TrialStartDate      time.Time          `json:"trialStartDate"`
	SubscriptionEndDate *time.Time         `json:"subscriptionEndDate,omitempty"`
}

// Public возвращает проекцию пользователя для ответа клиенту.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		SubscriptionStatus:  u.SubscriptionStatus,
		PreparingFor:        u.PreparingFor,
		TrialStartDate:      u.TrialStartDate,
		SubscriptionEndDate: u.SubscriptionEndDate,
	}
}
