package domain

import "time"

// Room is a shared workspace protected by a password
type Room struct {
	Code         string    `db:"room_code"`
	ProjectName  string    `db:"project_name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type RoomTable struct {
	Code         string
	ProjectName  string
	PasswordHash string
	CreatedAt    string
}

func GetRoomTable() RoomTable {
	return RoomTable{
		Code:         "room_code",
		ProjectName:  "project_name",
		PasswordHash: "password_hash",
		CreatedAt:    "created_at",
	}
}

func (RoomTable) TableName() string {
	return "rooms"
}
