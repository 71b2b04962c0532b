package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/room-reservation/internal/auth"
	"github.com/spec-kit/room-reservation/internal/config"
	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/events"
	"github.com/spec-kit/room-reservation/internal/repository"
	apperrors "github.com/spec-kit/room-reservation/pkg/util"
)

// AuthService coordinates registration, login and account approval.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// RegisterInput is a self-service sign-up request.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     domain.Role
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
	Landing   domain.Landing
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:   deps.AccountRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates an unapproved account. Only delegate and instructor may be
// chosen; an empty role defaults to delegate.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	email := repository.NormalizeEmail(input.Email)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"field": "name"})
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, apperrors.NewValidationError("a valid email is required", map[string]any{"field": "email"})
	}
	role := input.Role
	if role == "" {
		role = domain.RoleDelegate
	}
	if !role.SelfAssignable() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
		}
		return nil, err
	}

	account := &domain.Account{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         role,
		Approved:     false,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", zap.String("account_id", account.ID), zap.String("role", string(account.Role)))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventAccountRegistered,
		ActorID: account.ID,
		Payload: events.AccountRegisteredPayload{
			AccountID: account.ID,
			Name:      account.Name,
			Email:     account.Email,
			Role:      account.Role,
		},
	})
	return account, nil
}

// Authenticate checks credentials and issues a token for an approved account.
// Unknown emails and wrong passwords are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.CompareDummy(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !account.Approved {
		return nil, domain.ErrPendingApproval
	}

	token, exp, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, err
	}
	s.logger.Info("login succeeded", zap.String("account_id", account.ID))
	return &LoginResult{
		Account:   account,
		Token:     token,
		ExpiresAt: exp,
		Landing:   domain.LandingFor(account.Role),
	}, nil
}

// Approve marks the given accounts approved and returns how many exist.
// Already approved accounts are counted and left unchanged.
func (s *AuthService) Approve(ctx context.Context, admin domain.Actor, ids []string) (int, error) {
	if err := requireAdmin(admin); err != nil {
		return 0, err
	}
	valid := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		valid = append(valid, id)
	}
	if len(valid) == 0 {
		return 0, nil
	}

	n, err := s.accounts.Approve(ctx, valid)
	if err != nil {
		return 0, err
	}
	s.logger.Info("accounts approved", zap.String("admin_id", admin.AccountID), zap.Int("count", n))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventAccountsApproved,
		ActorID: admin.AccountID,
		Payload: events.AccountsApprovedPayload{AccountIDs: valid, Count: n},
	})
	return n, nil
}

// ListPending returns accounts awaiting approval, oldest first.
func (s *AuthService) ListPending(ctx context.Context, admin domain.Actor, limit int) ([]domain.Account, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	return s.accounts.ListPending(ctx, limit)
}

// Account loads an account by id.
func (s *AuthService) Account(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "account")
	}
	return account, nil
}

// BootstrapAdmin ensures an approved administrator exists for cfg.AdminEmail.
// It is a no-op when the email is unset or already registered.
func (s *AuthService) BootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig) error {
	email := repository.NormalizeEmail(cfg.AdminEmail)
	if email == "" {
		return nil
	}
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Administrator"
	}
	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdministrator,
		Approved:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil
		}
		return err
	}
	s.logger.Info("administrator bootstrapped", zap.String("account_id", account.ID))
	return nil
}
