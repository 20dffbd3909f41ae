package auth

import (
	"context"
	"testing"

	"github.com/presencehq/presence-backend-go/internal/domain/auth"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
	"github.com/presencehq/presence-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret     = "test-secret-key-for-jwt"
	testAccessExp  = "1h"
	testRefreshExp = "24h"
)

type fakeDirectory struct {
	users map[string]user.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeDirectory) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	var found []user.User
	for _, u := range f.users {
		if u.HasRole(role) {
			found = append(found, u)
		}
	}
	return found, nil
}

func (f *fakeDirectory) SystemUser(ctx context.Context) (user.User, error) {
	return f.GetByEmail(ctx, user.SystemEmail)
}

func newAuthFixture(t *testing.T) (Service, jwt.Service) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashedStr := string(hashed)

	users := &fakeDirectory{
		users: map[string]user.User{
			"emp-1": {
				ID:           "emp-1",
				Email:        "alice@example.com",
				FirstName:    "Alice",
				LastName:     "Martin",
				PasswordHash: &hashedStr,
				Roles:        []user.Role{user.RoleEmployee},
			},
		},
	}
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	return NewAuthService(users, jwtService), jwtService
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return tokens", func(t *testing.T) {
		svc, jwtService := newAuthFixture(t)

		resp, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, "emp-1", resp.UserID)
		assert.Equal(t, []string{"employee"}, resp.Roles)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		tok, err := jwtService.JWTAuth().Decode(resp.AccessToken)
		require.NoError(t, err)
		tokenType, _ := tok.Get("type")
		assert.Equal(t, "access", tokenType)
		userID, _ := tok.Get("user_id")
		assert.Equal(t, "emp-1", userID)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "alice@example.com",
			Password: "nope",
		})

		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "ghost@example.com",
			Password: "password123",
		})

		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("malformed request is rejected", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "not-an-email"})

		require.Error(t, err)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh token yields a new access token", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		login, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		resp, err := svc.Refresh(ctx, login.RefreshToken)

		require.NoError(t, err)
		assert.Equal(t, "emp-1", resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		login, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, login.AccessToken)

		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("revoked token is refused", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		login, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, login.RefreshToken))

		_, err = svc.Refresh(ctx, login.RefreshToken)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage token is refused", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.Refresh(ctx, "not-a-token")

		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
