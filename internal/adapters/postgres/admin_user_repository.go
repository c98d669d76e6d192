package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminUserRepository - учетные записи админки
type AdminUserRepository struct {
	pool *pgxpool.Pool
}

func NewAdminUserRepository(pool *pgxpool.Pool) (*AdminUserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &AdminUserRepository{pool: pool}, nil
}

// FindByEmail возвращает (nil, nil), если пользователь не найден
func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "AdminUserRepository",
		"method":    "FindByEmail",
		"email":     email,
	})

	query := `SELECT id, email, name, password_hash, role, created_at FROM admin_users WHERE email = $1`

	var user domain.AdminUser
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("User not found by email.", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to find user by email", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// EnsureUser не трогает существующую запись: пароль, измененный в базе, не перетирается конфигом
func (r *AdminUserRepository) EnsureUser(ctx context.Context, user *domain.AdminUser) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "AdminUserRepository",
		"method":    "EnsureUser",
		"email":     user.Email,
	})

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO admin_users (id, email, name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		repoLogger.Error("Failed to ensure user", err, nil)
		return false, fmt.Errorf("failed to ensure user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
