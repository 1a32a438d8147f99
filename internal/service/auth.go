package service

import (
	"context"

	"github.com/avanti-store/catalog-backend/internal/hash"
	"github.com/avanti-store/catalog-backend/internal/models"
	"github.com/avanti-store/catalog-backend/internal/store"
	"github.com/avanti-store/catalog-backend/pkg/logging"
)

// AuthService manages the admin accounts in the user collection. Registration
// is gated by a shared secret; every registered account is an admin.
type AuthService struct {
	Users  *store.Collection[models.User]
	Secret string
}

func (s *AuthService) Register(ctx context.Context, username, password, secret string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if secret != s.Secret {
		l.Warn("register_failed", "status", 403, "reason", "wrong registration secret")
		return nil, ErrBadSecret
	}
	if username == "" || password == "" {
		l.Warn("register_failed", "status", 400, "reason", "missing username or password")
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         models.RoleAdmin,
	}

	// uniqueness is checked under the collection lock so two concurrent
	// registrations of the same name cannot both win
	err = s.Users.Update(func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Username == username {
				return nil, ErrUserExists
			}
		}
		return append(users, user), nil
	})
	if err != nil {
		if err == ErrUserExists {
			l.Warn("register_failed", "status", 409, "reason", "username taken", "username", username)
		} else {
			l.Error("register_failed", "status", 500, "error", err)
		}
		return nil, err
	}

	l.Info("register_success", "username", username)
	user.PasswordHash = ""
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	users, err := s.Users.Load()
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	for _, u := range users {
		if u.Username != username {
			continue
		}
		if !hash.CheckPassword(u.PasswordHash, password) {
			break
		}
		l.Info("login_success", "role", u.Role)
		u.PasswordHash = ""
		return &u, nil
	}

	l.Warn("login_failed", "status", 401, "reason", "unknown user or wrong password")
	return nil, ErrInvalidCredentials
}
