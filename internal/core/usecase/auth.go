package usecase

import (
	"context"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"strings"
	"time"
)

type LoginAdminUseCase struct {
	users          port.AdminUserRepositoryPort
	tokenSvc       port.TokenServicePort
	accessTokenTTL time.Duration
}

func NewLoginAdminUseCase(users port.AdminUserRepositoryPort, tokenSvc port.TokenServicePort, accessTokenTTL time.Duration) *LoginAdminUseCase {
	return &LoginAdminUseCase{
		users:          users,
		tokenSvc:       tokenSvc,
		accessTokenTTL: accessTokenTTL,
	}
}

func (uc *LoginAdminUseCase) Execute(ctx context.Context, email, password string) (*domain.AdminUser, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "LoginAdmin",
		"email":    email,
	})
	ucLogger.Info("Use case started: attempting to login administrator", nil)

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		ucLogger.Error("Repository failed to find user by email", err, nil)
		return nil, "", fmt.Errorf("internal server error: %w", err)
	}
	// неизвестный email и неверный пароль неразличимы снаружи
	if user == nil || !user.CheckPassword(password) {
		ucLogger.Warn("Login failed: invalid credentials", nil)
		return nil, "", domain.ErrInvalidCredentials
	}

	ucLogger = ucLogger.WithFields(port.Fields{"user_id": user.ID})

	if user.Role != domain.RoleAdmin {
		ucLogger.Warn("Login failed: user is not an administrator", port.Fields{"role": user.Role})
		return nil, "", domain.ErrForbidden
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user, uc.accessTokenTTL)
	if err != nil {
		ucLogger.Error("Failed to generate token after successful login", err, nil)
		return nil, "", err
	}

	ucLogger.Info("Use case finished: administrator logged in successfully", nil)
	return user, token, nil
}

type ValidateSessionUseCase struct {
	tokenSvc port.TokenServicePort
}

func NewValidateSessionUseCase(tokenSvc port.TokenServicePort) *ValidateSessionUseCase {
	return &ValidateSessionUseCase{tokenSvc: tokenSvc}
}

func (uc *ValidateSessionUseCase) Execute(ctx context.Context, token string) (*domain.Session, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ValidateSession"})
	logger.Debug("Use case started", nil)

	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	session, err := uc.tokenSvc.ValidateToken(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrTokenInvalid) {
			logger.Error("Token service failed", err, nil)
		}
		return nil, domain.ErrTokenInvalid
	}

	logger.Debug("Use case finished", port.Fields{"user_id": session.UserID, "role": session.Role})
	return session, nil
}

// EnsureAdminUseCase создает администратора из конфигурации при первом запуске
type EnsureAdminUseCase struct {
	users port.AdminUserRepositoryPort
	clock func() time.Time
	newID func() string
}

func NewEnsureAdminUseCase(users port.AdminUserRepositoryPort, newID func() string) *EnsureAdminUseCase {
	return &EnsureAdminUseCase{users: users, clock: time.Now, newID: newID}
}

func (uc *EnsureAdminUseCase) Execute(ctx context.Context, email, name, password string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "EnsureAdmin", "email": email})

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		logger.Info("Bootstrap administrator is not configured, skipping", nil)
		return nil
	}

	user, err := domain.NewAdminUser(uc.newID(), email, name, password, domain.RoleAdmin, uc.clock().UTC())
	if err != nil {
		return fmt.Errorf("failed to hash administrator password: %w", err)
	}

	created, err := uc.users.EnsureUser(ctx, user)
	if err != nil {
		logger.Error("Failed to ensure administrator", err, nil)
		return fmt.Errorf("failed to ensure administrator: %w", err)
	}
	if created {
		logger.Info("Bootstrap administrator created", nil)
	}
	return nil
}
