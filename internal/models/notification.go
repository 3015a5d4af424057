package models

import "time"

// ExpiredNotification тело сообщения subscription.expired
type ExpiredNotification struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiredAt time.Time `json:"expiredAt"`
}
