package register

import (
	"context"

	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	authservice "github.com/magabrotheeeer/study-tools-hub/internal/services/auth"
)

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, in authservice.RegisterInput) (*models.User, error)
}
