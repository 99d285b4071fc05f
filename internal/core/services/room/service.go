package room

import "context"

// IRoomService manages password protected workspaces
type IRoomService interface {
	// Create registers a room and returns its join code
	Create(ctx context.Context, projectName, password string) (string, error)

	// Join checks the room password
	Join(ctx context.Context, code, password string) error
}
