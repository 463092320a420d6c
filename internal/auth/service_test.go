package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minexboard/minex/internal/rbac"
	"github.com/minexboard/minex/internal/shared"
	_ "github.com/minexboard/minex/testing"
)

type stubRepo struct {
	users map[int64]*User
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func newService(repo Repository) *Service {
	return NewService(repo, NewVerifier("test-secret"), time.Hour)
}

func TestLoadAndValidateUsesFreshRole(t *testing.T) {
	repo := &stubRepo{users: map[int64]*User{
		7: {ID: 7, Name: "Ama Mensah", Email: "ama@board.test", Role: rbac.RoleFinance, IsActive: true},
	}}
	svc := newService(repo)

	// Token issued while the user was still a TELLER.
	token, err := svc.Verifier().Issue(7, rbac.RoleTeller, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	identity, claims, err := svc.LoadAndValidate(context.Background(), token)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if identity.Role != rbac.RoleFinance {
		t.Fatalf("expected fresh role FINANCE, got %s", identity.Role)
	}
	if claims.Role != string(rbac.RoleTeller) {
		t.Fatalf("expected stale claim TELLER preserved, got %s", claims.Role)
	}
}

func TestLoadAndValidateUserNotFound(t *testing.T) {
	svc := newService(&stubRepo{users: map[int64]*User{}})
	token, _ := svc.Verifier().Issue(99, rbac.RoleUser, time.Hour)

	_, _, err := svc.LoadAndValidate(context.Background(), token)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLoadAndValidateInactiveUser(t *testing.T) {
	repo := &stubRepo{users: map[int64]*User{
		3: {ID: 3, Email: "gone@board.test", Role: rbac.RoleUser, IsActive: false},
	}}
	svc := newService(repo)
	token, _ := svc.Verifier().Issue(3, rbac.RoleUser, time.Hour)

	_, _, err := svc.LoadAndValidate(context.Background(), token)
	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != FailUserInactive {
		t.Fatalf("expected inactive failure, got %v", err)
	}
	if failure.Status != 403 {
		t.Fatalf("expected status 403, got %d", failure.Status)
	}
}

func TestLoadAndValidateExpiredTokenBubblesUp(t *testing.T) {
	repo := &stubRepo{users: map[int64]*User{
		7: {ID: 7, Role: rbac.RoleFinance, IsActive: true},
	}}
	svc := newService(repo)
	token, _ := svc.Verifier().Issue(7, rbac.RoleFinance, -time.Minute)

	_, _, err := svc.LoadAndValidate(context.Background(), token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestLoginHappyPath(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{users: map[int64]*User{
		1: {ID: 1, Name: "Kofi Asante", Email: "kofi@board.test", PasswordHash: string(hash), Role: rbac.RoleTeller, IsActive: true},
	}}
	svc := newService(repo)

	identity, token, err := svc.Login(context.Background(), "kofi@board.test", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.ID != 1 || identity.Role != rbac.RoleTeller {
		t.Fatalf("unexpected identity %+v", identity)
	}
	claims, err := svc.Verifier().Verify(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Subject != "1" {
		t.Fatalf("expected subject 1, got %q", claims.Subject)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	repo := &stubRepo{users: map[int64]*User{
		1: {ID: 1, Email: "kofi@board.test", PasswordHash: string(hash), Role: rbac.RoleTeller, IsActive: true},
	}}
	svc := newService(repo)

	_, _, err := svc.Login(context.Background(), "kofi@board.test", "wrong")
	if !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	repo := &stubRepo{users: map[int64]*User{
		1: {ID: 1, Email: "kofi@board.test", PasswordHash: string(hash), Role: rbac.RoleTeller, IsActive: false},
	}}
	svc := newService(repo)

	_, _, err := svc.Login(context.Background(), "kofi@board.test", "s3cret")
	if !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}
