package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/registrar/internal/app/auth"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
)

// AccountService is the account registry plus the login flow that feeds it
type AccountService struct {
	accountRepo repositories.IAccountRepository
	hasher      auth.PasswordHasher
	jwtService  *auth.JWTService
	guard       *authz.Guard
	logger      zerolog.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo repositories.IAccountRepository,
	hasher auth.PasswordHasher,
	jwtService *auth.JWTService,
	guard *authz.Guard,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		hasher:      hasher,
		jwtService:  jwtService,
		guard:       guard,
		logger:      logger,
	}
}

// Register creates an unlinked account with the given role
func (s *AccountService) Register(ctx context.Context, username, rawPassword string, role models.Role) (*models.Account, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperrors.NewValidationError("username cannot be empty")
	}
	if rawPassword == "" {
		return nil, apperrors.NewValidationError("password cannot be empty")
	}
	if len(rawPassword) > auth.MaxPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password cannot exceed %d bytes", auth.MaxPasswordLength))
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}

	exists, err := s.accountRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error checking if username exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := s.accountRepo.Save(ctx, &models.Account{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info().
		Int64("accountID", account.ID).
		Str("username", account.Username).
		Str("role", string(account.Role)).
		Msg("Account registered")

	return account, nil
}

// FindByUsername returns the account or nil when absent
func (s *AccountService) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.accountRepo.FindByUsername(ctx, username)
}

// Exists reports whether an account with the exact username exists
func (s *AccountService) Exists(ctx context.Context, username string) (bool, error) {
	return s.accountRepo.ExistsByUsername(ctx, username)
}

// Login checks the credential and issues an access token whose subject is the username
func (s *AccountService) Login(ctx context.Context, username, password string) (*dto.AuthResponse, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	if account == nil || !s.hasher.Compare(account.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(account.Username, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	s.logger.Info().Int64("accountID", account.ID).Msg("Account logged in")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		Account: dto.NewAccountResponse(account),
	}, nil
}

// Me returns the caller's current role claim
func (s *AccountService) Me(ctx context.Context, username string) (models.RoleClaim, error) {
	return s.guard.Resolve(ctx, username)
}
