package auth

import (
	"errors"
	"time"

	"github.com/timiwhyte01/fan-mvp/internal/config"
	"github.com/timiwhyte01/fan-mvp/internal/identity"
)

// ErrInvalidToken indicates a malformed, tampered or expired bearer token.
var ErrInvalidToken = errors.New("invalid token")

// Service issues and verifies bearer tokens. There is no refresh flow:
// the access token carries a fixed expiry window.
type Service struct {
	cfg config.Config
}

// NewService creates a token service.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// Token is the bearer credential returned on registration and login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Issue signs an access token whose subject is the user's phone number.
func (s *Service) Issue(user identity.User) (Token, error) {
	now := time.Now()
	claims := map[string]any{
		"sub": user.Phone,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.AccessTokenTTL).Unix(),
	}
	signed, err := SignHS256(claims, []byte(s.cfg.JWTSecret))
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, TokenType: "bearer", ExpiresIn: int64(s.cfg.AccessTokenTTL.Seconds())}, nil
}

// Subject verifies the token and returns the phone number it was issued for.
func (s *Service) Subject(token string) (string, error) {
	claims, err := ParseAndVerifyHS256(token, []byte(s.cfg.JWTSecret))
	if err != nil {
		return "", ErrInvalidToken
	}
	exp, ok := claims["exp"].(float64)
	if !ok || time.Now().Unix() >= int64(exp) {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
