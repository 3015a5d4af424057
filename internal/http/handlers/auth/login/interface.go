package login

import (
	"context"

	"github.com/magabrotheeeer/study-tools-hub/internal/models"
)

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}
