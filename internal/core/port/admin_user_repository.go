package port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type AdminUserRepositoryPort interface {
	// FindByEmail возвращает (nil, nil), если пользователь не найден
	FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	// EnsureUser создает пользователя, если email еще не занят
	EnsureUser(ctx context.Context, user *domain.AdminUser) (created bool, err error)
}
