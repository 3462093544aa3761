// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sospecha/server/internal/game"
	"github.com/sospecha/server/internal/models"
)

// GameMessage is the shape of incoming WebSocket messages during play. Type
// selects the engine action; Payload carries its parameters (ids as
// strings).
type GameMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// GameWSHandler upgrades the HTTP connection to WebSocket for a specific
// game instance (/game/ws/{game_id}), authenticates the user, verifies they
// are seated, registers the connection and runs the read loop.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/game/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "missing game_id in path (/game/ws/{game_id})", http.StatusBadRequest)
			return
		}
		gameID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "invalid game_id format", http.StatusBadRequest)
			return
		}

		g, ok := gs.GameStore.GetGame(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error during handler exit")

		if c.Subprotocol() != "game" {
			logger.Warnf("client for game %s connected with invalid subprotocol: %s", gameID, c.Subprotocol())
			c.Close(BadSubprotocolError, "client must use the 'game' subprotocol")
			return
		}

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("user authentication failed for game %s: %v", gameID, err)
			c.Close(InvalidAuthTokenError, "authentication failed")
			return
		}

		if _, err := g.PlayerByID(userID); err != nil {
			logger.Warnf("user %s is not a player in game %s", userID, gameID)
			c.Close(InvalidUserIDError, "you are not a player in this game")
			return
		}

		g.Mu.Lock()
		if g.BroadcastFn == nil {
			g.BroadcastFn = createBroadcastFunc(g, logger)
		}
		if g.BroadcastToPlayerFn == nil {
			g.BroadcastToPlayerFn = createBroadcastToPlayerFunc(g, logger)
		}
		g.Mu.Unlock()

		g.HandleReconnect(userID, c)
		logger.Infof("user %s connected to game %s", userID, gameID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readGameMessages(ctx, c, g, userID, logger)

		g.HandleDisconnect(userID)
		logger.Infof("user %s disconnected from game %s", userID, gameID)
	}
}

// createBroadcastFunc builds a BroadcastFn that fans an event out to every
// connected player. Called while the game lock is held, so the writes
// happen asynchronously against a snapshot of connections.
func createBroadcastFunc(g *game.SospechaGame, logger *logrus.Logger) func(ev game.GameEvent) {
	return func(ev game.GameEvent) {
		var conns []*websocket.Conn
		for _, p := range g.Players {
			if p.Connected && p.Conn != nil {
				conns = append(conns, p.Conn)
			}
		}

		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal broadcast event (%s) for game %s: %v", ev.Type, g.ID, err)
			return
		}

		go func(conns []*websocket.Conn, data []byte) {
			for _, conn := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					logger.Warnf("failed to write broadcast message in game %s: %v", g.ID, err)
				}
			}
		}(conns, data)
	}
}

// createBroadcastToPlayerFunc builds a BroadcastToPlayerFn for private
// events.
func createBroadcastToPlayerFunc(g *game.SospechaGame, logger *logrus.Logger) func(playerID uuid.UUID, ev game.GameEvent) {
	return func(playerID uuid.UUID, ev game.GameEvent) {
		var conn *websocket.Conn
		for _, p := range g.Players {
			if p.ID == playerID {
				if p.Connected && p.Conn != nil {
					conn = p.Conn
				}
				break
			}
		}
		if conn == nil {
			return
		}
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal private event (%s) for player %s: %v", ev.Type, playerID, err)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Warnf("failed to write private message to player %s in game %s: %v", playerID, g.ID, err)
			}
		}()
	}
}

// readGameMessages reads client messages until the connection drops and
// routes each one into the engine.
func readGameMessages(ctx context.Context, c *websocket.Conn, g *game.SospechaGame, userID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for user %s in game %s", userID, g.ID)
			} else {
				logger.Warnf("error reading from websocket for user %s in game %s: %v", userID, g.ID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid JSON from user %s in game %s: %v", userID, g.ID, err)
			sendWsError(ctx, c, "invalid JSON format")
			continue
		}

		logger.Debugf("received action %q from user %s in game %s", msg.Type, userID, g.ID)

		action := models.GameAction{ActionType: msg.Type, Payload: msg.Payload}
		if err := g.HandlePlayerAction(ctx, userID, action); err != nil {
			logger.Debugf("action %q from user %s rejected: %v", msg.Type, userID, err)
			sendWsError(ctx, c, err.Error())
		}
	}
}

// sendWsError pushes a simple error frame back to one client.
func sendWsError(ctx context.Context, c *websocket.Conn, message string) {
	payload := map[string]string{"type": "error", "message": message}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = c.Write(writeCtx, websocket.MessageText, data)
}
