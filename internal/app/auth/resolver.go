package auth

import (
	"context"
	"fmt"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// Resolver turns an authenticated username into a role claim
type Resolver struct {
	accounts repositories.IAccountRepository
}

// NewResolver creates a new Resolver
func NewResolver(accounts repositories.IAccountRepository) *Resolver {
	return &Resolver{accounts: accounts}
}

// Resolve reads the account on every call; claims must not be cached across requests
func (r *Resolver) Resolve(ctx context.Context, username string) (models.RoleClaim, error) {
	account, err := r.accounts.FindByUsername(ctx, username)
	if err != nil {
		return models.RoleClaim{}, fmt.Errorf("resolving principal: %w", err)
	}
	if account == nil {
		return models.RoleClaim{}, apperrors.ErrPrincipalNotFound
	}

	return models.RoleClaim{
		AccountID:       account.ID,
		Username:        account.Username,
		Role:            account.Role,
		LinkedProfileID: account.LinkedProfileID(),
	}, nil
}
