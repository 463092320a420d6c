package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minexboard/minex/internal/shared"
)

// Repository loads user rows.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// Service resolves identities from tokens and authenticates logins.
type Service struct {
	repo     Repository
	verifier *Verifier
	tokenTTL time.Duration
}

// NewService constructs a new Service.
func NewService(repo Repository, verifier *Verifier, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, verifier: verifier, tokenTTL: tokenTTL}
}

// Verifier exposes the underlying token verifier for callers that only need
// signature checks without the user lookup.
func (s *Service) Verifier() *Verifier {
	return s.verifier
}

// LoadAndValidate verifies the token, loads the user and checks it is
// active. The returned identity carries the role currently stored on the
// user row, not the token's role claim.
func (s *Service) LoadAndValidate(ctx context.Context, token string) (*shared.Identity, *Claims, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, nil, err
	}
	if claims.Subject == "" {
		return nil, nil, ErrInvalidPayload
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil, ErrInvalidPayload
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}
	identity := &shared.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	return identity, claims, nil
}

// Login validates email/password credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*shared.Identity, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	token, err := s.verifier.Issue(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	identity := &shared.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	return identity, token, nil
}
