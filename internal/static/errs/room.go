package errs

import "errors"

var (
	MissingRoomFields = errors.New("missing project name or password")
	MissingJoinFields = errors.New("missing room code or password")
	RoomNotFound      = errors.New("room not found")
	RoomCodeTaken     = errors.New("room code already exists")
)
