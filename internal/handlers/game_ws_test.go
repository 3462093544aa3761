// internal/handlers/game_ws_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sospecha/server/internal/auth"
	"github.com/sospecha/server/internal/game"
)

// newWSTestServer stands up a game WS endpoint over one unstarted game.
func newWSTestServer(t *testing.T) (*httptest.Server, *game.SospechaGame) {
	t.Helper()
	auth.Init()
	gs := NewGameServer(false)
	g := game.NewSospechaGame(nil)
	gs.GameStore.AddGame(g)

	srv := httptest.NewServer(GameWSHandler(logrus.New(), gs))
	return srv, g
}

// readCloseStatus reads until the server closes the connection and returns
// the close code it sent.
func readCloseStatus(t *testing.T, c *websocket.Conn) websocket.StatusCode {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, _, err := c.Read(ctx)
	if err == nil {
		t.Fatalf("expected the server to close the connection")
	}
	return websocket.CloseStatus(err)
}

// TestGameWSClosesOnBadSubprotocol checks that a client that does not speak
// the game subprotocol is closed with the dedicated code.
func TestGameWSClosesOnBadSubprotocol(t *testing.T) {
	srv, g := newWSTestServer(t)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, srv.URL+"/game/ws/"+g.ID.String(), nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	if got := readCloseStatus(t, c); got != BadSubprotocolError {
		t.Fatalf("expected close code %d, got %d", BadSubprotocolError, got)
	}
}

// TestGameWSClosesOnNonPlayer checks that an authenticated user who is not
// seated in the game is closed with the dedicated code.
func TestGameWSClosesOnNonPlayer(t *testing.T) {
	srv, g := newWSTestServer(t)
	defer srv.Close()

	token, err := auth.CreateJWT(uuid.NewString())
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	hdr := http.Header{}
	hdr.Set("Cookie", "auth_token="+token)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, srv.URL+"/game/ws/"+g.ID.String(), &websocket.DialOptions{
		Subprotocols: []string{"game"},
		HTTPHeader:   hdr,
	})
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	if got := readCloseStatus(t, c); got != InvalidUserIDError {
		t.Fatalf("expected close code %d, got %d", InvalidUserIDError, got)
	}
}
