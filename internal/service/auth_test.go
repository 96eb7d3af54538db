package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/eventhub/internal/domain"
	"github.com/campushub/eventhub/internal/repository"
)

type mockAuthRepo struct {
	createFn      func(ctx context.Context, user domain.User) (domain.User, error)
	findByEmailFn func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockAuthRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.createFn(ctx, user)
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.findByEmailFn(ctx, email)
}

func TestSignup_StudentIsActiveImmediately(t *testing.T) {
	var inserted domain.User
	repo := &mockAuthRepo{
		createFn: func(ctx context.Context, user domain.User) (domain.User, error) {
			inserted = user
			user.ID = 1
			return user, nil
		},
	}

	notifier := &recordingNotifier{}
	svc := NewAuthService(repo, notifier)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "tom@campus.io",
		Password: "secretpass1",
		Role:     domain.RoleStudent,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(1), created.ID)
	assert.True(t, inserted.IsActive)
	assert.Empty(t, notifier.routingKeys)

	// Password is stored hashed, never in clear.
	assert.NotEqual(t, "secretpass1", inserted.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.Password), []byte("secretpass1")))
}

func TestSignup_OrganizerStartsInactiveAndNotifies(t *testing.T) {
	var inserted domain.User
	repo := &mockAuthRepo{
		createFn: func(ctx context.Context, user domain.User) (domain.User, error) {
			inserted = user
			user.ID = 2
			return user, nil
		},
	}

	notifier := &recordingNotifier{}
	svc := NewAuthService(repo, notifier)

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "marie@campus.io",
		Password: "secretpass1",
		Role:     domain.RoleOrganizer,
	})

	require.NoError(t, err)
	assert.False(t, inserted.IsActive)
	assert.Contains(t, notifier.routingKeys, "user.organizer_pending")
}

func TestSignup_AdminRoleRejected(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, &recordingNotifier{})

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "root@campus.io",
		Password: "secretpass1",
		Role:     domain.RoleAdmin,
	})

	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{
		createFn: func(ctx context.Context, user domain.User) (domain.User, error) {
			return domain.User{}, repository.ErrUserEmailExists
		},
	}

	svc := NewAuthService(repo, &recordingNotifier{})
	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "tom@campus.io",
		Password: "secretpass1",
		Role:     domain.RoleStudent,
	})

	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secretpass1"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockAuthRepo{
		findByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			return domain.User{ID: 1, Email: email, Password: string(hash)}, nil
		},
	}

	svc := NewAuthService(repo, &recordingNotifier{})
	user, err := svc.Login(context.Background(), "tom@campus.io", "secretpass1")

	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secretpass1"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockAuthRepo{
		findByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			return domain.User{ID: 1, Email: email, Password: string(hash)}, nil
		},
	}

	svc := NewAuthService(repo, &recordingNotifier{})
	_, err = svc.Login(context.Background(), "tom@campus.io", "wrongpass")

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &mockAuthRepo{
		findByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			return domain.User{}, repository.ErrUserNotFound
		},
	}

	svc := NewAuthService(repo, &recordingNotifier{})
	_, err := svc.Login(context.Background(), "nobody@campus.io", "secretpass1")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestPasswordReset_KnownAddressNotifies(t *testing.T) {
	repo := &mockAuthRepo{
		findByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			return domain.User{ID: 1, Email: email}, nil
		},
	}

	notifier := &recordingNotifier{}
	svc := NewAuthService(repo, notifier)
	svc.RequestPasswordReset(context.Background(), "tom@campus.io")

	assert.Contains(t, notifier.routingKeys, "user.password_reset")
}

func TestRequestPasswordReset_UnknownAddressIsSilent(t *testing.T) {
	repo := &mockAuthRepo{
		findByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			return domain.User{}, repository.ErrUserNotFound
		},
	}

	notifier := &recordingNotifier{}
	svc := NewAuthService(repo, notifier)
	svc.RequestPasswordReset(context.Background(), "nobody@campus.io")

	assert.Empty(t, notifier.routingKeys)
}

func TestRequestPasswordReset_LookupFailureIsSilent(t *testing.T) {
	repo := &mockAuthRepo{
		findByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			return domain.User{}, errors.New("connection reset")
		},
	}

	notifier := &recordingNotifier{}
	svc := NewAuthService(repo, notifier)
	svc.RequestPasswordReset(context.Background(), "tom@campus.io")

	assert.Empty(t, notifier.routingKeys)
}
