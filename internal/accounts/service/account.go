package service

import (
	"context"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/store"
)

type AccountService struct {
	Store store.Store
}

// GetAccountByUsername fetches the account a verified token names.
func (s *AccountService) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	return s.Store.Accounts().GetAccountByUsername(ctx, username)
}
