package auth

import (
	"context"
	"errors"
	"strings"

	"gitlab.com/judgerunner.net/internal/config"
	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/ports/secondary"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

var _ IAuthService = &googleAuthService{}

type googleAuthService struct {
	userPort    secondary.UserPort
	jwtProvider primary.JWTService
	cfg         *config.GGAuthConfig
}

func NewGoogleAuthService(userPort secondary.UserPort, jwtProvider primary.JWTService, cfg *config.GGAuthConfig) IAuthService {
	return &googleAuthService{
		userPort:    userPort,
		jwtProvider: jwtProvider,
		cfg:         cfg,
	}
}

func (g googleAuthService) ProviderName() domain.Provider {
	return domain.ProviderGoogle
}

// Login signs in the Google account identified by users.GoogleID, creating a
// local user for it on first sight.
func (g googleAuthService) Login(ctx context.Context, users *domain.Users) (string, error) {
	if users.GoogleID == nil || users.AuthProvider != string(domain.ProviderGoogle) {
		return "", errs.InvalidCredentials
	}
	if err := g.checkEmail(users.Email); err != nil {
		return "", err
	}

	usr, err := g.userPort.GetByGoogleID(ctx, *users.GoogleID)
	if err != nil {
		return "", err
	}
	if usr == nil {
		if usr, err = g.register(ctx, *users.GoogleID, *users.Email); err != nil {
			return "", err
		}
	}

	return generateToken(ctx, g.jwtProvider, usr)
}

func (g googleAuthService) checkEmail(email *string) error {
	if email == nil || *email == "" {
		return errs.EmailRequired
	}
	allowed := g.cfg.AllowedEmailDomain
	if allowed != "" && !strings.HasSuffix(*email, "@"+allowed) {
		return errs.EmailNotAllowed
	}
	return nil
}

// register creates the account named after the mailbox. When a local account
// already owns that name the google id is appended.
func (g googleAuthService) register(ctx context.Context, googleID, email string) (*domain.Users, error) {
	name, _, _ := strings.Cut(email, "@")
	candidates := []string{name, name + "-" + shortID(googleID)}

	for _, userName := range candidates {
		usr := &domain.Users{
			UserName:     userName,
			Email:        &email,
			GoogleID:     &googleID,
			Role:         domain.RoleUser,
			AuthProvider: string(domain.ProviderGoogle),
		}
		err := g.userPort.Create(ctx, usr)
		if errors.Is(err, errs.UserAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, errs.FailedToCreateUser
		}
		return usr, nil
	}
	return nil, errs.FailedToCreateUser
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
