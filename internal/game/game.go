// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/sospecha/server/internal/cache"
	"github.com/sospecha/server/internal/catalog"
	"github.com/sospecha/server/internal/models"
)

// GameState is the lifecycle of a game instance.
type GameState int

const (
	StateLobby GameState = iota
	StatePlaying
	StateFinished
)

// Outcome names who won a finished game.
type Outcome string

const (
	OutcomeMurdererWins  Outcome = "murderer_wins"
	OutcomeDetectivesWin Outcome = "detectives_win"
)

const (
	// HandSize is the hand players refill to at end of turn.
	HandSize = 6
	// SecretsPerPlayer is how many secret instances each player is dealt.
	SecretsPerPlayer = 3
	// TotalSecrets is how many secret instances are minted per game.
	TotalSecrets = 18
	// DraftRowSize is the target size of the shared draft row.
	DraftRowSize = 3
	// AccompliceThreshold is the player count at which an accomplice is
	// assigned alongside the murderer.
	AccompliceThreshold = 5
)

// OnGameEndFunc receives the final outcome so the lobby layer can report
// results and tear the instance down.
type OnGameEndFunc func(gameID uuid.UUID, outcome Outcome, murdererID uuid.UUID)

// SospechaGame holds the entire state for a single game instance in memory.
// Every externally triggered operation locks Mu for its whole duration, so a
// game is one logical resource; different games never share state.
type SospechaGame struct {
	ID      uuid.UUID
	LobbyID uuid.UUID

	State   GameState
	Players []*models.Player
	Ledger  *Ledger

	// TurnOrder is fixed at Start and never reordered.
	TurnOrder       []uuid.UUID
	CurrentPlayerID uuid.UUID

	// Pending is the zero-or-one in-flight cancelable action.
	Pending *ActionContext

	// Sets is the append-only record of played detective combinations.
	Sets []*SetRecord

	// Voting state for the accusation event. accuserID remembers who
	// played the accusation so a wrong verdict can cost them a secret.
	VotingOpen bool
	Ballots    map[uuid.UUID]uuid.UUID
	accuserID  uuid.UUID

	MurdererID   uuid.UUID
	AccompliceID uuid.UUID
	Outcome      Outcome

	Mu sync.Mutex

	// BroadcastFn is used to send events to all players. If nil, no
	// broadcast is done.
	BroadcastFn func(ev GameEvent)

	// BroadcastToPlayerFn sends an event to a single specific player.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)

	// OnGameEnd is invoked once when the game finishes.
	OnGameEnd OnGameEndFunc

	rng         *rand.Rand
	actionIndex int

	// lastTouched is the most recent instance a player moved this turn; it
	// gets a best-effort persistence refresh at end of turn.
	lastTouched uuid.UUID
}

// NewSospechaGame builds an empty instance. saver may be nil for ephemeral
// games; with a saver every ledger move is durable before it returns.
func NewSospechaGame(saver CardSaver) *SospechaGame {
	id, _ := uuid.NewRandom()
	return &SospechaGame{
		ID:      id,
		State:   StateLobby,
		Ledger:  NewLedger(id, saver),
		Ballots: make(map[uuid.UUID]uuid.UUID),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddPlayer registers a player while the game sits in the lobby state, or
// re-attaches the connection of a player who is already seated.
func (g *SospechaGame) AddPlayer(p *models.Player) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, existing := range g.Players {
		if existing.ID == p.ID {
			existing.Connected = true
			existing.Conn = p.Conn
			return
		}
	}
	g.Players = append(g.Players, p)
}

// PlayerByID finds a seated player.
func (g *SospechaGame) PlayerByID(id uuid.UUID) (*models.Player, error) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("player %s: %w", id, ErrPlayerNotFound)
}

// Start mints the deck and secrets, deals hands, fixes the turn order and
// fills the draft row. The caller (lobby layer) decides when enough players
// have joined.
func (g *SospechaGame) Start(ctx context.Context) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.State != StateLobby {
		return ErrGameFinished
	}
	if len(g.Players) < 2 {
		return fmt.Errorf("need at least 2 players: %w", ErrGameNotStarted)
	}

	for _, t := range catalog.DeckTypes() {
		id, _ := uuid.NewRandom()
		g.Ledger.Add(&models.Card{
			ID:       id,
			Type:     t,
			Facing:   models.FaceDown,
			Location: models.LocDrawPile,
		})
	}

	if err := g.assignSecrets(ctx); err != nil {
		return err
	}

	for _, p := range g.Players {
		if err := g.fillHand(ctx, p.ID); err != nil {
			return err
		}
	}

	g.TurnOrder = g.initialOrder(g.Players)
	g.CurrentPlayerID = g.TurnOrder[0]
	g.State = StatePlaying

	if err := g.RefillDraft(ctx); err != nil {
		return err
	}

	g.broadcast(GameEvent{Type: EventGameStart, Payload: map[string]interface{}{
		"turn_order": g.TurnOrder,
	}})
	g.broadcast(GameEvent{Type: EventGamePlayerTurn, User: &EventUser{ID: g.CurrentPlayerID}})
	for _, p := range g.Players {
		g.sendPrivateHand(p.ID)
	}
	return nil
}

// requirePlaying rejects operations on games that are not mid-play.
func (g *SospechaGame) requirePlaying() error {
	switch g.State {
	case StateLobby:
		return ErrGameNotStarted
	case StateFinished:
		return ErrGameFinished
	}
	return nil
}

// requireTurn rejects operations from players who do not hold the turn.
func (g *SospechaGame) requireTurn(playerID uuid.UUID) error {
	if err := g.requirePlaying(); err != nil {
		return err
	}
	if _, err := g.PlayerByID(playerID); err != nil {
		return err
	}
	if g.CurrentPlayerID != playerID {
		return fmt.Errorf("player %s: %w", playerID, ErrNotPlayersTurn)
	}
	return nil
}

// drawOne moves a uniformly random card from the draw pile into a hand.
// Returns nil, nil when the draw pile is exhausted.
func (g *SospechaGame) drawOne(ctx context.Context, playerID uuid.UUID) (*models.Card, error) {
	loc := models.LocDrawPile
	pile := g.Ledger.Find(Filter{Location: &loc})
	if len(pile) == 0 {
		return nil, nil
	}
	c := pile[g.rng.Intn(len(pile))]
	if err := g.Ledger.MoveOne(ctx, c.ID, Move{To: models.LocHand, Owner: &playerID}); err != nil {
		return nil, err
	}
	return c, nil
}

// fillHand draws until the player's hand holds HandSize cards or the draw
// pile runs dry.
func (g *SospechaGame) fillHand(ctx context.Context, playerID uuid.UUID) error {
	loc := models.LocHand
	for len(g.Ledger.Find(Filter{Location: &loc, Owner: &playerID})) < HandSize {
		c, err := g.drawOne(ctx, playerID)
		if err != nil {
			return err
		}
		if c == nil {
			return nil
		}
	}
	return nil
}

// hand returns the player's current hand.
func (g *SospechaGame) hand(playerID uuid.UUID) []*models.Card {
	loc := models.LocHand
	return g.Ledger.Find(Filter{Location: &loc, Owner: &playerID})
}

func (g *SospechaGame) sendPrivateHand(playerID uuid.UUID) {
	ev := GameEvent{Type: EventPrivateHand}
	for _, c := range g.hand(playerID) {
		ev.Cards = append(ev.Cards, EventCard{ID: c.ID, Type: c.Type})
	}
	g.broadcastToPlayer(playerID, ev)
}

// SendCard transfers one hand card to another seated player. Blocked while
// the sender is in disgrace; not cancelable, so it resolves immediately.
// Instances consumed by the pending action stay put until the window closes.
func (g *SospechaGame) SendCard(ctx context.Context, fromID, toID, cardID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.requireTurn(fromID); err != nil {
		return err
	}
	if g.IsInDisgrace(fromID) {
		return fmt.Errorf("player %s: %w", fromID, ErrPlayerInDisgrace)
	}
	if _, err := g.PlayerByID(toID); err != nil {
		return err
	}
	if g.Pending != nil {
		for _, id := range g.Pending.ConsumedIDs {
			if id == cardID {
				return fmt.Errorf("instance %s: %w", cardID, ErrActionPending)
			}
		}
	}
	c, err := g.Ledger.Get(cardID)
	if err != nil {
		return err
	}
	if c.Location != models.LocHand || c.OwnerID != fromID {
		return fmt.Errorf("instance %s: %w", cardID, ErrCardNotInHand)
	}
	if err := g.Ledger.MoveOne(ctx, cardID, Move{To: models.LocHand, Owner: &toID}); err != nil {
		return err
	}
	g.lastTouched = cardID
	g.broadcast(GameEvent{
		Type:   EventCardSent,
		User:   &EventUser{ID: fromID},
		Target: &EventUser{ID: toID},
		Card:   &EventCard{ID: cardID},
	})
	g.sendPrivateHand(toID)
	return nil
}

// EndTurn refills the current player's hand to HandSize, tops up the draft
// row and passes the turn. The end-of-turn refresh of the last touched card
// is best effort and never fails the call.
func (g *SospechaGame) EndTurn(ctx context.Context, playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.requireTurn(playerID); err != nil {
		return err
	}
	if g.Pending != nil {
		return ErrActionPending
	}
	if err := g.fillHand(ctx, playerID); err != nil {
		return err
	}
	if err := g.RefillDraft(ctx); err != nil {
		return err
	}
	g.refreshLastTouched(ctx)

	next, err := g.advanceLocked()
	if err != nil {
		return err
	}
	g.sendPrivateHand(playerID)
	g.broadcast(GameEvent{Type: EventGamePlayerTurn, User: &EventUser{ID: next}})
	return nil
}

// refreshLastTouched re-persists the last moved card so its row reflects any
// facing or owner change applied after its move. Failures are logged and
// swallowed; this is the only error path that is not surfaced.
func (g *SospechaGame) refreshLastTouched(ctx context.Context) {
	if g.lastTouched == uuid.Nil {
		return
	}
	c, err := g.Ledger.Get(g.lastTouched)
	if err == nil && g.Ledger.saver != nil {
		if err := g.Ledger.saver.SaveCard(ctx, g.ID, c); err != nil {
			log.Warnf("game %s: end-of-turn refresh of %s failed: %v", g.ID, c.ID, err)
		}
	}
	g.lastTouched = uuid.Nil
}

// finish ends the game exactly once. Caller holds the game lock.
func (g *SospechaGame) finish(outcome Outcome) {
	if g.State == StateFinished {
		return
	}
	g.State = StateFinished
	g.Outcome = outcome
	g.Pending = nil
	g.broadcast(GameEvent{Type: EventGameEnd, Payload: map[string]interface{}{
		"outcome":  string(outcome),
		"murderer": g.MurdererID.String(),
	}})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, outcome, g.MurdererID)
	}
}

// logAction pushes the event onto the historian queue, best effort.
func (g *SospechaGame) logAction(ev GameEvent) {
	if cache.Rdb == nil {
		return
	}
	g.actionIndex++
	rec := cache.GameEventRecord{
		GameID:      g.ID,
		ActionIndex: g.actionIndex,
		EventType:   string(ev.Type),
		Timestamp:   time.Now().UnixMilli(),
	}
	if ev.User != nil {
		rec.ActorID = ev.User.ID
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.PublishGameEvent(ctx, rec); err != nil {
		log.Warnf("game %s: historian publish failed: %v", g.ID, err)
	}
}
