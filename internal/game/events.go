// internal/game/events.go
package game

import (
	"github.com/google/uuid"

	"github.com/sospecha/server/internal/models"
)

// GameEventType is an enum-like type for broadcasting game actions.
type GameEventType string

const (
	EventGameStart          GameEventType = "game_start"
	EventGamePlayerTurn     GameEventType = "game_player_turn"
	EventGameEnd            GameEventType = "game_end"
	EventPlayerSetPlayed    GameEventType = "player_set_played"
	EventPlayerSetExtended  GameEventType = "player_set_extended"
	EventPlayerEventPlayed  GameEventType = "player_event_played"
	EventActionProposed     GameEventType = "action_proposed"
	EventNotSoFastPlayed    GameEventType = "not_so_fast_played"
	EventActionExecuted     GameEventType = "action_executed"
	EventActionCancelled    GameEventType = "action_cancelled"
	EventSecretRevealed     GameEventType = "secret_revealed"
	EventSecretHidden       GameEventType = "secret_hidden"
	EventSecretStolen       GameEventType = "secret_stolen"
	EventPlayerDisgraced    GameEventType = "player_disgraced"
	EventDraftRefilled      GameEventType = "draft_refilled"
	EventDraftTaken         GameEventType = "draft_taken"
	EventCardSent           GameEventType = "card_sent"
	EventVoteOpened         GameEventType = "vote_opened"
	EventVoteCast           GameEventType = "vote_cast"
	EventVoteResolved       GameEventType = "vote_resolved"
	EventPrivateHand        GameEventType = "private_hand"
	EventPrivateSecretDealt GameEventType = "private_secret_dealt"
)

// EventUser identifies a player inside a GameEvent payload.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// EventCard identifies a card instance inside a GameEvent payload. Type is
// omitted for face-down cards the audience should not learn.
type EventCard struct {
	ID   uuid.UUID     `json:"id"`
	Type models.TypeID `json:"type,omitempty"`
}

// GameEvent holds data about an event that can be broadcast to the clients
// in a consistent format. The transport layer owns delivery; the engine only
// hands these to BroadcastFn / BroadcastToPlayerFn.
type GameEvent struct {
	Type   GameEventType `json:"type"`
	User   *EventUser    `json:"user,omitempty"`
	Target *EventUser    `json:"target,omitempty"`
	Card   *EventCard    `json:"card,omitempty"`
	Cards  []EventCard   `json:"cards,omitempty"`

	Payload map[string]interface{} `json:"payload,omitempty"`
}

// broadcast hands an event to the registered sink, if any.
func (g *SospechaGame) broadcast(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
	g.logAction(ev)
}

// broadcastToPlayer hands a private event to a single player's sink.
func (g *SospechaGame) broadcastToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}
