package port

import (
	"context"
	"showcase-service/internal/core/domain"
	"time"
)

type TokenServicePort interface {
	GenerateToken(ctx context.Context, user *domain.AdminUser, ttl time.Duration) (string, error)
	// ValidateToken возвращает domain.ErrTokenInvalid для любой невалидной подписи или срока
	ValidateToken(ctx context.Context, token string) (*domain.Session, error)
}
