package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"gitlab.com/judgerunner.net/internal/adapter/crypto"
	"gitlab.com/judgerunner.net/internal/adapter/logging"
	"gitlab.com/judgerunner.net/internal/config"
	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

type memoryUsers struct {
	byName map[string]*domain.Users
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byName: map[string]*domain.Users{}}
}

func (m *memoryUsers) Create(ctx context.Context, user *domain.Users) error {
	if _, ok := m.byName[user.UserName]; ok {
		return errs.UserAlreadyExists
	}
	user.ID = uuid.New()
	cp := *user
	m.byName[user.UserName] = &cp
	return nil
}

func (m *memoryUsers) GetByUserName(ctx context.Context, userName string) (*domain.Users, error) {
	return m.byName[userName], nil
}

func (m *memoryUsers) GetByGoogleID(ctx context.Context, googleID string) (*domain.Users, error) {
	for _, u := range m.byName {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, nil
}

func newJWT() primary.JWTService {
	return crypto.NewJWTService(&config.JwtConfig{Secret: "test-secret"})
}

func strPtr(s string) *string { return &s }

func TestLocalAuthService_SignupAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUsers()
	jwtSvc := newJWT()
	svc := NewLocalAuthService(users, jwtSvc, logging.NewNopLogger())

	if err := svc.Signup(ctx, "alice", "pw", domain.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if stored := users.byName["alice"]; stored.PasswordHash == nil || *stored.PasswordHash == "pw" {
		t.Fatal("password must be stored hashed")
	}

	token, err := svc.Login(ctx, &domain.Users{UserName: "alice", PasswordHash: strPtr("pw"), Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	payload, err := jwtSvc.ParseTokenHMAC(ctx, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if payload.Username != "alice" || payload.Role != domain.RoleUser {
		t.Errorf("payload = %+v", payload)
	}
}

func TestLocalAuthService_SignupErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewLocalAuthService(newMemoryUsers(), newJWT(), logging.NewNopLogger())

	if err := svc.Signup(ctx, "", "pw", domain.RoleUser); !errors.Is(err, errs.MissingCredentials) {
		t.Errorf("empty name = %v", err)
	}
	if err := svc.Signup(ctx, "bob", "", domain.RoleUser); !errors.Is(err, errs.MissingCredentials) {
		t.Errorf("empty password = %v", err)
	}
	if err := svc.Signup(ctx, "bob", "pw", domain.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.Signup(ctx, "bob", "pw2", domain.RoleUser); !errors.Is(err, errs.UserAlreadyExists) {
		t.Errorf("duplicate = %v", err)
	}
}

func TestLocalAuthService_LoginErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewLocalAuthService(newMemoryUsers(), newJWT(), logging.NewNopLogger())
	if err := svc.Signup(ctx, "carol", "pw", domain.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.Signup(ctx, "root", "pw", domain.RoleAdmin); err != nil {
		t.Fatalf("signup admin: %v", err)
	}

	tests := []struct {
		name string
		user *domain.Users
		want error
	}{
		{"unknown user", &domain.Users{UserName: "nobody", PasswordHash: strPtr("pw")}, errs.UserNotFound},
		{"wrong password", &domain.Users{UserName: "carol", PasswordHash: strPtr("nope")}, errs.InvalidCredentials},
		{"missing password", &domain.Users{UserName: "carol"}, errs.MissingCredentials},
		{"user on admin login", &domain.Users{UserName: "carol", PasswordHash: strPtr("pw"), Role: domain.RoleAdmin}, errs.UserNotFound},
		{"admin on user login", &domain.Users{UserName: "root", PasswordHash: strPtr("pw"), Role: domain.RoleUser}, errs.UserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tt.user); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := svc.Login(ctx, &domain.Users{UserName: "root", PasswordHash: strPtr("pw"), Role: domain.RoleAdmin}); err != nil {
		t.Errorf("admin login: %v", err)
	}
}

func TestGoogleAuthService_Login(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUsers()
	svc := NewGoogleAuthService(users, newJWT(), &config.GGAuthConfig{AllowedEmailDomain: "example.com"})

	_, err := svc.Login(ctx, &domain.Users{
		GoogleID:     strPtr("g-1"),
		Email:        strPtr("dave@other.org"),
		AuthProvider: string(domain.ProviderGoogle),
	})
	if !errors.Is(err, errs.EmailNotAllowed) {
		t.Fatalf("foreign domain = %v", err)
	}

	token, err := svc.Login(ctx, &domain.Users{
		GoogleID:     strPtr("g-1"),
		Email:        strPtr("dave@example.com"),
		AuthProvider: string(domain.ProviderGoogle),
	})
	if err != nil || token == "" {
		t.Fatalf("first login = %q, %v", token, err)
	}
	if created := users.byName["dave"]; created == nil || created.Role != domain.RoleUser {
		t.Fatalf("account not created: %+v", users.byName)
	}

	if _, err := svc.Login(ctx, &domain.Users{
		GoogleID:     strPtr("g-1"),
		Email:        strPtr("dave@example.com"),
		AuthProvider: string(domain.ProviderGoogle),
	}); err != nil {
		t.Errorf("second login: %v", err)
	}
	if len(users.byName) != 1 {
		t.Errorf("accounts = %d, want 1", len(users.byName))
	}
}

func TestGoogleAuthService_NameTakenByLocalAccount(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUsers()
	users.byName["erin"] = &domain.Users{UserName: "erin", Role: domain.RoleUser, AuthProvider: string(domain.ProviderLocal)}

	svc := NewGoogleAuthService(users, newJWT(), &config.GGAuthConfig{})
	if _, err := svc.Login(ctx, &domain.Users{
		GoogleID:     strPtr("1098765432"),
		Email:        strPtr("erin@example.com"),
		AuthProvider: string(domain.ProviderGoogle),
	}); err != nil {
		t.Fatalf("login: %v", err)
	}

	created := users.byName["erin-109876"]
	if created == nil || created.GoogleID == nil || *created.GoogleID != "1098765432" {
		t.Fatalf("accounts = %+v", users.byName)
	}
}

func TestGoogleAuthService_RequiresEmail(t *testing.T) {
	svc := NewGoogleAuthService(newMemoryUsers(), newJWT(), &config.GGAuthConfig{})
	_, err := svc.Login(context.Background(), &domain.Users{
		GoogleID:     strPtr("g-2"),
		AuthProvider: string(domain.ProviderGoogle),
	})
	if !errors.Is(err, errs.EmailRequired) {
		t.Errorf("err = %v, want EmailRequired", err)
	}
}
