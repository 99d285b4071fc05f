package auth

import (
	"context"
	"errors"
	"strings"

	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/ports/secondary"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

var (
	_ IAuthService   = &localAuthService{}
	_ ISignupService = &localAuthService{}
)

type localAuthService struct {
	userPort    secondary.UserPort
	jwtProvider primary.JWTService
	logger      primary.Logger
}

type LocalAuthService interface {
	IAuthService
	ISignupService
}

func NewLocalAuthService(
	userPort secondary.UserPort,
	jwtProvider primary.JWTService,
	logger primary.Logger,
) LocalAuthService {
	return &localAuthService{
		userPort:    userPort,
		jwtProvider: jwtProvider,
		logger:      logger,
	}
}

func (g localAuthService) ProviderName() domain.Provider {
	return domain.ProviderLocal
}

func (g localAuthService) Signup(ctx context.Context, userName, password string, role domain.Role) error {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return errs.MissingCredentials
	}

	existing, err := g.userPort.GetByUserName(ctx, userName)
	if err != nil {
		g.logger.Error("Failed to look up user", "user", userName, "error", err)
		return errs.FailedToCreateUser
	}
	if existing != nil {
		return errs.UserAlreadyExists
	}

	hash, err := g.jwtProvider.EncryptPassword(ctx, password)
	if err != nil {
		g.logger.Error("Failed to hash password", "error", err)
		return errs.InternalError
	}

	err = g.userPort.Create(ctx, &domain.Users{
		UserName:     userName,
		PasswordHash: &hash,
		Role:         role,
		AuthProvider: string(domain.ProviderLocal),
	})
	if errors.Is(err, errs.UserAlreadyExists) {
		return err
	}
	if err != nil {
		return errs.FailedToCreateUser
	}

	g.logger.Info("User created", "user", userName, "role", role)
	return nil
}

// Login checks the password of users.UserName. users.PasswordHash carries the
// clear-text password and users.Role the account kind the caller asks for;
// an account of another kind is reported as not found.
func (g localAuthService) Login(ctx context.Context, users *domain.Users) (string, error) {
	if users.UserName == "" || users.PasswordHash == nil || *users.PasswordHash == "" {
		return "", errs.MissingCredentials
	}

	usr, err := g.userPort.GetByUserName(ctx, users.UserName)
	if err != nil {
		g.logger.Error("Failed to look up user", "user", users.UserName, "error", err)
		return "", errs.InternalError
	}
	if usr == nil {
		return "", errs.UserNotFound
	}
	if users.Role != "" && usr.Role != users.Role {
		return "", errs.UserNotFound
	}
	if usr.PasswordHash == nil {
		return "", errs.InvalidCredentials
	}

	valid, err := g.jwtProvider.VerifyPassword(ctx, *usr.PasswordHash, *users.PasswordHash)
	if err != nil || !valid {
		return "", errs.InvalidCredentials
	}

	return generateToken(ctx, g.jwtProvider, usr)
}
