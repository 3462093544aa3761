package models

import (
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

type Player struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`

	// BirthDate seeds the initial turn order; only month and day are used.
	BirthDate time.Time `json:"birth_date"`

	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`

	User *User `json:"-"`
}
