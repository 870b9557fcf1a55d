package auth

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	jwt.Service
}

func NewAuthService(jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{Service: jwtService}
}

// IssueToken signs an access token for an operator. Tokens are handed out by
// ledgerctl; the API only verifies them.
func (a *AuthServiceImpl) IssueToken(ctx context.Context, req auth.IssueTokenRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	token, expiresAt, err := a.GenerateAccessToken(req.Subject, auth.Role(req.Role), req.TTL)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		Role:        req.Role,
		ExpiresAt:   expiresAt,
	}, nil
}
