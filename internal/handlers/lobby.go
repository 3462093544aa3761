// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/auth"
	"github.com/sospecha/server/internal/lobby"
)

// authedUserID resolves the caller from the auth cookie, writing the HTTP
// error itself when the cookie is missing or bad.
func authedUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	cookie := r.Header.Get("Cookie")
	if !strings.Contains(cookie, "auth_token=") {
		http.Error(w, "missing auth_token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	token := extractCookieToken(cookie, "auth_token")
	userIDStr, err := auth.AuthenticateJWT(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "invalid user id format in token", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return userID, true
}

type createLobbyRequest struct {
	Name string `json:"name"`
}

// CreateLobbyHandler creates an ephemeral in-memory lobby hosted by the
// caller.
func CreateLobbyHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUserID(w, r)
		if !ok {
			return
		}

		var req createLobbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			http.Error(w, "bad lobby request payload", http.StatusBadRequest)
			return
		}

		l := lobby.New(userID, req.Name)
		l.OnEmpty = func(lobbyID uuid.UUID) {
			gs.LobbyStore.Delete(lobbyID)
		}
		gs.LobbyStore.Add(l)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(l)
	}
}

// ListLobbiesHandler returns the in-memory lobby store.
func ListLobbiesHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authedUserID(w, r); !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gs.LobbyStore.List())
	}
}

type lobbyActionRequest struct {
	LobbyID string `json:"lobby_id"`
	Ready   bool   `json:"ready"`
}

// JoinLobbyHandler seats the caller in a lobby.
func JoinLobbyHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUserID(w, r)
		if !ok {
			return
		}
		var req lobbyActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		lobbyID, err := uuid.Parse(req.LobbyID)
		if err != nil {
			http.Error(w, "invalid lobby_id", http.StatusBadRequest)
			return
		}
		l, exists := gs.LobbyStore.Get(lobbyID)
		if !exists {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}
		if !l.Join(userID) {
			http.Error(w, "lobby is full or already playing", http.StatusConflict)
			return
		}
		l.SetReady(userID, req.Ready)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(l)
	}
}

// StartGameHandler spawns a game from a lobby once every seat is ready.
// Only the host may start.
func StartGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authedUserID(w, r)
		if !ok {
			return
		}
		var req lobbyActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		lobbyID, err := uuid.Parse(req.LobbyID)
		if err != nil {
			http.Error(w, "invalid lobby_id", http.StatusBadRequest)
			return
		}
		l, exists := gs.LobbyStore.Get(lobbyID)
		if !exists {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}
		if l.HostUserID != userID {
			http.Error(w, "only the host may start the game", http.StatusForbidden)
			return
		}
		if !l.CanStart() {
			http.Error(w, "lobby is not ready to start", http.StatusConflict)
			return
		}

		g, err := gs.NewGameFromLobby(r.Context(), l)
		if err != nil {
			http.Error(w, "failed to start game: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"game_id": g.ID.String()})
	}
}
