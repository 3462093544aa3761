// internal/handlers/game_server.go
package handlers

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/database"
	"github.com/sospecha/server/internal/game"
	"github.com/sospecha/server/internal/lobby"
	"github.com/sospecha/server/internal/models"
)

// GameServer owns the in-memory stores and spawns game instances from
// lobbies.
type GameServer struct {
	Mutex      sync.Mutex
	LobbyStore *lobby.Store
	GameStore  *game.GameStore

	// Persist enables the pgx-backed ledger saver and result recording.
	// Off in tests and in DB-less development runs.
	Persist bool
}

func NewGameServer(persist bool) *GameServer {
	return &GameServer{
		LobbyStore: lobby.NewStore(),
		GameStore:  game.NewGameStore(),
		Persist:    persist,
	}
}

// NewGameFromLobby seats every lobby user into a fresh game instance and
// starts it.
func (gs *GameServer) NewGameFromLobby(ctx context.Context, l *lobby.Lobby) (*game.SospechaGame, error) {
	var saver game.CardSaver
	if gs.Persist {
		saver = database.CardWriter{}
	}
	g := game.NewSospechaGame(saver)
	g.LobbyID = l.ID

	for _, userID := range l.UserIDs() {
		p := &models.Player{ID: userID, Connected: false}
		if u, err := database.GetUserByID(ctx, userID); err == nil {
			p.DisplayName = u.Username
			p.BirthDate = u.BirthDate
			p.User = u
		} else {
			log.Warnf("lobby %s: no user record for %s: %v", l.ID, userID, err)
		}
		g.AddPlayer(p)
	}

	g.OnGameEnd = func(gameID uuid.UUID, outcome game.Outcome, murdererID uuid.UUID) {
		l.Mu.Lock()
		l.InGame = false
		for uid := range l.Users {
			l.Users[uid] = false
		}
		l.Mu.Unlock()
		if gs.Persist {
			if err := database.RecordGameResult(context.Background(), gameID, g.Players, string(outcome), murdererID, g.AccompliceID); err != nil {
				log.Errorf("game %s: failed to record result: %v", gameID, err)
			}
		}
	}

	gs.GameStore.AddGame(g)

	if err := g.Start(ctx); err != nil {
		gs.GameStore.DeleteGame(g.ID)
		return nil, err
	}

	l.Mu.Lock()
	l.GameID = g.ID
	l.InGame = true
	l.Mu.Unlock()

	return g, nil
}
