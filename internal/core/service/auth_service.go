package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentlink/identity-api/internal/core/domain"
	"github.com/talentlink/identity-api/internal/core/ports"
)

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	issuer   *TokenIssuer
	registry ports.TokenRegistry
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, issuer *TokenIssuer, registry ports.TokenRegistry, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		roles:    roles,
		issuer:   issuer,
		registry: registry,
		log:      log,
	}
}

// Register creates the user record, then assigns the effective role
// (supplied role or the default client role). A missing role is reported
// after the user was persisted and is not rolled back.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Email,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Country:      in.Country,
		Bio:          in.Bio,
		BioTitle:     in.BioTitle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleClient
	}

	exists, err := s.roles.Exists(ctx, role)
	if err != nil {
		return created, "", fmt.Errorf("check role: %w", err)
	}
	if !exists {
		return created, "", &domain.RoleNotFoundError{Role: role}
	}

	if err := s.users.AddToRole(ctx, created.ID, role); err != nil {
		return created, "", fmt.Errorf("assign role: %w", err)
	}
	created.Roles = append(created.Roles, role)

	return created, role, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password collapse into the same ErrInvalidLogin so callers cannot
// enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidLogin
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidLogin
	}

	token, err := s.issuer.Issue(user.Username)
	if err != nil {
		return "", err
	}

	// Best-effort: a registry outage must not block logins.
	if s.registry != nil {
		if err := s.registry.Record(ctx, token.ID, s.issuer.TTL()); err != nil {
			s.log.Warn().Err(err).Str("jti", token.ID).Msg("token registry write failed")
		}
	}

	return token.Token, nil
}

// Profile resolves the full record behind an authenticated subject.
func (s *AuthService) Profile(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, email)
}
