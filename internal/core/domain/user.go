package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

// AdminUser - учетная запись сотрудника админки
type AdminUser struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Session - данные проверенного токена, доступные обработчикам админки
type Session struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// IsAdmin - сессия дает доступ к админке
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Identity - подпись для полей аудита (lastUpdatedBy)
func (s *Session) Identity() string {
	if s == nil {
		return ""
	}
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}

// NewAdminUser создает пользователя, хэшируя пароль bcrypt'ом
func NewAdminUser(id, email, name, password, role string, now time.Time) (*AdminUser, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminUser{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    now,
	}, nil
}

// CheckPassword сравнивает пароль с хэшем
func (u *AdminUser) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
