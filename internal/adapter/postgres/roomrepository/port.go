package roomrepository

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

var _ secondary.RoomRepository = (*RoomRepository)(nil)

// RoomRepository stores rooms in PostgreSQL
type RoomRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	table  string
}

func NewRoomRepository(db *sqlx.DB, logger primary.Logger, schema string) *RoomRepository {
	return &RoomRepository{
		db:     db,
		logger: logger,
		table:  postgres.Table(schema, domain.GetRoomTable().TableName()),
	}
}

func (r *RoomRepository) SaveRoom(ctx context.Context, room *domain.Room) error {
	tbl := domain.GetRoomTable()
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)",
		r.table, tbl.Code, tbl.ProjectName, tbl.PasswordHash, tbl.CreatedAt)

	_, err := r.db.ExecContext(ctx, query, room.Code, room.ProjectName, room.PasswordHash, room.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return errs.RoomCodeTaken
		}
		r.logger.Error("Failed to save room", "error", err)
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

func (r *RoomRepository) GetRoom(ctx context.Context, code string) (*domain.Room, error) {
	tbl := domain.GetRoomTable()
	query := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s WHERE %s = $1",
		tbl.Code, tbl.ProjectName, tbl.PasswordHash, tbl.CreatedAt, r.table, tbl.Code)

	var room domain.Room
	if err := r.db.GetContext(ctx, &room, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get room", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}
