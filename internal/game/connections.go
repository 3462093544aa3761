// internal/game/connections.go
package game

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// HandleReconnect attaches a live connection to a seated player and resends
// their private view (hand, secrets, whose turn it is).
func (g *SospechaGame) HandleReconnect(playerID uuid.UUID, conn *websocket.Conn) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p, err := g.PlayerByID(playerID)
	if err != nil {
		return
	}
	p.Conn = conn
	p.Connected = true

	if g.State != StatePlaying {
		return
	}
	g.sendPrivateHand(playerID)

	ev := GameEvent{Type: EventPrivateSecretDealt}
	for _, c := range g.playerSecrets(playerID) {
		ev.Cards = append(ev.Cards, EventCard{ID: c.ID, Type: c.Type})
	}
	g.broadcastToPlayer(playerID, ev)
	g.broadcastToPlayer(playerID, GameEvent{
		Type: EventGamePlayerTurn,
		User: &EventUser{ID: g.CurrentPlayerID},
	})
}

// HandleDisconnect marks a player's connection as gone. The game keeps the
// seat; the player may reconnect at any time.
func (g *SospechaGame) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p, err := g.PlayerByID(playerID)
	if err != nil {
		return
	}
	p.Conn = nil
	p.Connected = false
}
