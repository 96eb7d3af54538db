package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/eventhub/internal/domain"
	"github.com/campushub/eventhub/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrWrongPassword   = errors.New("wrong password")
	ErrInvalidRole     = errors.New("invalid role")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	repo     AuthUserRepository
	notifier Notifier
}

func NewAuthService(repo AuthUserRepository, notifier Notifier) *AuthService {
	return &AuthService{
		repo:     repo,
		notifier: notifier,
	}
}

// Signup registers a student or an organizer. Students are active
// immediately; organizers stay inactive until an admin approves them.
// Admin accounts are provisioned out of band, not through signup.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	if user.Role != domain.RoleStudent && user.Role != domain.RoleOrganizer {
		return domain.User{}, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	user.Password = string(hash)
	user.IsActive = user.Role == domain.RoleStudent

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if created.Role == domain.RoleOrganizer {
		s.notify("user.organizer_pending", created)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// RequestPasswordReset enqueues a reset notice for the given address.
// It intentionally reports nothing about whether the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			zap.L().Error("password reset lookup failed", zap.Error(err))
		}

		return
	}

	s.notify("user.password_reset", user)
}

func (s *AuthService) notify(routingKey string, user domain.User) {
	if err := s.notifier.Publish(routingKey, map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"name":    user.FullName(),
	}); err != nil {
		zap.L().Warn("failed to publish notification",
			zap.String("routing_key", routingKey), zap.Error(err))
	}
}
