// internal/lobby/lobby.go
package lobby

import (
	"sync"

	"github.com/google/uuid"
)

// MaxPlayers caps a table at the secret supply: 18 secrets, 3 per player.
const MaxPlayers = 6

// MinPlayers is the smallest table a game can start with.
const MinPlayers = 2

// Lobby is an ephemeral grouping of users waiting for a game to start. The
// engine treats the lobby layer as an external collaborator: it only learns
// about a lobby when the lobby spawns a game.
type Lobby struct {
	ID         uuid.UUID `json:"id"`
	HostUserID uuid.UUID `json:"host_user_id"`
	Name       string    `json:"name"`

	// Users maps userID -> ready state.
	Users map[uuid.UUID]bool `json:"-"`

	GameID uuid.UUID `json:"game_id,omitempty"`
	InGame bool      `json:"in_game"`

	// OnEmpty is called when the last user leaves, typically wired to
	// store deletion by whoever created the lobby.
	OnEmpty func(lobbyID uuid.UUID) `json:"-"`

	Mu sync.Mutex
}

// New creates an ephemeral lobby hosted by the given user.
func New(hostID uuid.UUID, name string) *Lobby {
	id, _ := uuid.NewRandom()
	l := &Lobby{
		ID:         id,
		HostUserID: hostID,
		Name:       name,
		Users:      make(map[uuid.UUID]bool),
	}
	l.Users[hostID] = false
	return l
}

// Join seats a user. Returns false when the lobby is full or already
// playing.
func (l *Lobby) Join(userID uuid.UUID) bool {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	if l.InGame {
		return false
	}
	if _, seated := l.Users[userID]; seated {
		return true
	}
	if len(l.Users) >= MaxPlayers {
		return false
	}
	l.Users[userID] = false
	return true
}

// Leave removes a user and fires OnEmpty when the room drains.
func (l *Lobby) Leave(userID uuid.UUID) {
	l.Mu.Lock()
	delete(l.Users, userID)
	empty := len(l.Users) == 0
	l.Mu.Unlock()
	if empty && l.OnEmpty != nil {
		l.OnEmpty(l.ID)
	}
}

// SetReady flips a seated user's ready flag.
func (l *Lobby) SetReady(userID uuid.UUID, ready bool) {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	if _, seated := l.Users[userID]; seated {
		l.Users[userID] = ready
	}
}

// CanStart reports whether the table is big enough and everyone is ready.
func (l *Lobby) CanStart() bool {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	if l.InGame || len(l.Users) < MinPlayers {
		return false
	}
	for _, ready := range l.Users {
		if !ready {
			return false
		}
	}
	return true
}

// UserIDs snapshots the seated users.
func (l *Lobby) UserIDs() []uuid.UUID {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	out := make([]uuid.UUID, 0, len(l.Users))
	for id := range l.Users {
		out = append(out, id)
	}
	return out
}
