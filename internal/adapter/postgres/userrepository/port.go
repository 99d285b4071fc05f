package userrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/judgerunner.net/internal/adapter/postgres"
	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/ports/secondary"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

var _ secondary.UserPort = &userRepo{}

type userRepo struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func New(db *sqlx.DB, logger primary.Logger, schema string) secondary.UserPort {
	return &userRepo{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func (u userRepo) Create(ctx context.Context, user *domain.Users) error {
	userTbl := domain.GetUserTable()
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?, ?) RETURNING %s",
		postgres.Table(u.schema, userTbl.TableName()),
		userTbl.UserName, userTbl.Email, userTbl.PasswordHash,
		userTbl.Role, userTbl.AuthProvider, userTbl.GoogleID,
		userTbl.ID,
	)
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	err := u.db.QueryRowxContext(ctx, query,
		user.UserName, user.Email, user.PasswordHash,
		user.Role, user.AuthProvider, user.GoogleID,
	).Scan(&user.ID)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return errs.UserAlreadyExists
		}
		u.logger.Error("Failed to create user", "user", user.UserName, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (u userRepo) GetByUserName(ctx context.Context, userName string) (*domain.Users, error) {
	return u.getBy(ctx, domain.GetUserTable().UserName, userName)
}

func (u userRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.Users, error) {
	return u.getBy(ctx, domain.GetUserTable().GoogleID, googleID)
}

func (u userRepo) getBy(ctx context.Context, column string, value string) (*domain.Users, error) {
	userTbl := domain.GetUserTable()
	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = ?",
		userTbl.ID, userTbl.UserName, userTbl.PasswordHash, userTbl.Email,
		userTbl.Role, userTbl.AuthProvider, userTbl.GoogleID,
		postgres.Table(u.schema, userTbl.TableName()),
		column,
	)
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var user domain.Users
	err := u.db.GetContext(ctx, &user, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}
