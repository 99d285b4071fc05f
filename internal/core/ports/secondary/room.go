package secondary

import (
	"context"

	"gitlab.com/judgerunner.net/internal/domain"
)

type RoomRepository interface {
	// SaveRoom inserts a room; the code must not exist yet
	SaveRoom(ctx context.Context, room *domain.Room) error

	// GetRoom returns nil when no room has this code
	GetRoom(ctx context.Context, code string) (*domain.Room, error)
}
