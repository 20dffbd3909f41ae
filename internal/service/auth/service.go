package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/presencehq/presence-backend-go/internal/domain/auth"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
	"github.com/presencehq/presence-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)

	// Refresh exchanges a valid refresh token for a new access token
	Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error)

	// Logout revokes a refresh token
	Logout(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	users user.Directory
	jwt   jwt.Service
}

func NewAuthService(users user.Directory, jwtSvc jwt.Service) Service {
	return &AuthServiceImpl{users: users, jwt: jwtSvc}
}

// Login implements Service.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if u.PasswordHash == nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	accessToken, accessExp, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.Roles)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshExp, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}

	return auth.LoginResponse{
		AccessToken:  accessToken,
		ExpiresAt:    accessExp,
		RefreshToken: refreshToken,
		RefreshExp:   refreshExp,
		UserID:       u.ID,
		Email:        u.Email,
		Roles:        roles,
	}, nil
}

// Refresh implements Service.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	if s.jwt.IsTokenRevoked(refreshToken) {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	tok, err := s.jwt.JWTAuth().Decode(refreshToken)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	tokenType, ok := tok.Get("type")
	if !ok || tokenType != "refresh" {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	userIDClaim, ok := tok.Get("user_id")
	if !ok {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	userID, ok := userIDClaim.(string)
	if !ok || userID == "" {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidToken
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	accessToken, accessExp, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.Roles)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}

	return auth.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   accessExp,
		UserID:      u.ID,
		Email:       u.Email,
		Roles:       roles,
	}, nil
}

// Logout implements Service.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	s.jwt.RevokeToken(refreshToken)
	return nil
}
