// internal/models/models.go
package models

import (
	"strings"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// MaxNameLength is the longest display name kept, in runes.
const MaxNameLength = 20

// DefaultName replaces a blank display name.
const DefaultName = "Player"

// User identifies the person behind a seat.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Player is a roster entry in a running match. Conn is nil while the player
// is disconnected.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	User      *User           `json:"user"`
	Conn      *websocket.Conn `json:"-"`
	Connected bool            `json:"connected"`
}

// GameAction is one inbound message from a client.
type GameAction struct {
	ActionType string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// SanitizeName trims a display name, falls back to DefaultName when it is
// blank and truncates it to MaxNameLength runes.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	r := []rune(name)
	return strings.TrimSpace(string(r[:MaxNameLength]))
}
