package usecases_port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type LoginAdminUseCasePort interface {
	Execute(ctx context.Context, email, password string) (*domain.AdminUser, string, error) // Возвращает JWT токен
}

type ValidateSessionUseCasePort interface {
	Execute(ctx context.Context, token string) (*domain.Session, error)
}
