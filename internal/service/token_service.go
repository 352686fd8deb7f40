package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/gophaccounts-server/internal/logger"
	"github.com/dtroode/gophaccounts-server/internal/model"
)

// TokenService issues bearer tokens for accounts and resolves them back to identities.
type TokenService struct {
	manager model.TokenManager
	ttl     time.Duration
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, ttl time.Duration, logger *logger.Logger) *TokenService {
	if ttl <= 0 {
		ttl = model.DefaultTokenTTL
	}
	return &TokenService{manager: manager, ttl: ttl, logger: logger}
}

func (s *TokenService) Issue(account model.Account) (string, error) {
	token, err := s.manager.Issue(account.Identity(), s.ttl)
	if err != nil {
		s.logger.Error("Token service: failed to issue token",
			"account_id", account.ID,
			"error", err.Error())
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// GetIdentity verifies the token. It never consults the account store.
func (s *TokenService) GetIdentity(_ context.Context, token string) (model.Identity, error) {
	return s.manager.Verify(token)
}
