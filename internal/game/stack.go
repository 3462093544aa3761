// internal/game/stack.go
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/catalog"
	"github.com/sospecha/server/internal/models"
)

// ActionKind tags which cancelable move an ActionContext carries.
type ActionKind string

const (
	ActionPlaySet   ActionKind = "play_set"
	ActionPlayEvent ActionKind = "play_event"
)

// Response is one interrupt play on the stack.
type Response struct {
	PlayerID uuid.UUID     `json:"player_id"`
	CardID   uuid.UUID     `json:"card_id"`
	Type     models.TypeID `json:"type"`
}

// ActionContext is the single pending cancelable action of a game: the move
// a player proposed, the hand instances it will consume, the payload needed
// to replay it if it survives, and the interrupt responses stacked against
// it.
type ActionContext struct {
	Kind        ActionKind             `json:"kind"`
	PlayerID    uuid.UUID              `json:"player_id"`
	ConsumedIDs []uuid.UUID            `json:"consumed_ids"`
	Payload     map[string]interface{} `json:"payload"`
	Responses   []Response             `json:"responses"`
}

// ActionResolution reports how a pending action resolved. For a cancelled
// action the full context plus the new top-of-discard type come back so the
// transport can show what was lost.
type ActionResolution struct {
	Executed       bool
	Context        *ActionContext
	TopDiscardType models.TypeID
}

// beginAction installs a new pending action. Caller holds the game lock and
// has fully validated the move; only the one-pending-action invariant is
// enforced here.
func (g *SospechaGame) beginAction(kind ActionKind, playerID uuid.UUID, consumed []uuid.UUID, payload map[string]interface{}) error {
	if g.Pending != nil {
		return ErrActionPending
	}
	g.Pending = &ActionContext{
		Kind:        kind,
		PlayerID:    playerID,
		ConsumedIDs: consumed,
		Payload:     payload,
	}
	ev := GameEvent{
		Type: EventActionProposed,
		User: &EventUser{ID: playerID},
		Payload: map[string]interface{}{
			"kind": string(kind),
		},
	}
	if raw, ok := payload["target_player_id"].(string); ok {
		if targetID, err := uuid.Parse(raw); err == nil {
			target := &EventUser{ID: targetID}
			if p, err := g.PlayerByID(targetID); err == nil {
				target.Name = p.DisplayName
			}
			ev.Target = target
		}
	}
	g.broadcast(ev)
	return nil
}

// PlayNotSoFast stacks one interrupt card against the pending action. Any
// seated player may respond, disgraced players included, any number of
// times while they hold the cards.
func (g *SospechaGame) PlayNotSoFast(ctx context.Context, playerID, cardID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.requirePlaying(); err != nil {
		return err
	}
	if g.Pending == nil {
		return ErrNoActionPending
	}
	if _, err := g.PlayerByID(playerID); err != nil {
		return err
	}
	c, err := g.Ledger.Get(cardID)
	if err != nil {
		return err
	}
	if c.Location != models.LocHand || c.OwnerID != playerID {
		return fmt.Errorf("instance %s: %w", cardID, ErrCardNotInHand)
	}
	if c.Type != catalog.TypeNotSoFast {
		return fmt.Errorf("instance %s is %s: %w", cardID, c.Type, ErrNotAnInstantCard)
	}
	if err := g.Ledger.MoveOne(ctx, cardID, Move{To: models.LocResponsePile}); err != nil {
		return err
	}
	g.Pending.Responses = append(g.Pending.Responses, Response{
		PlayerID: playerID,
		CardID:   cardID,
		Type:     c.Type,
	})
	g.broadcast(GameEvent{
		Type: EventNotSoFastPlayed,
		User: &EventUser{ID: playerID},
		Card: &EventCard{ID: cardID, Type: c.Type},
		Payload: map[string]interface{}{
			"responses": len(g.Pending.Responses),
		},
	})
	return nil
}

// ResolvePendingAction settles the response window by parity: with an even
// number of interrupts the proposed action executes from its stored payload;
// with an odd number it is cancelled and its consumed cards are discarded.
// All stacked interrupt cards are discarded either way, but only once the
// outcome has committed: a failed resolve leaves the window untouched so the
// transport can retry without re-spending anything. The engine never times
// the window out; this call is the transport's explicit trigger.
func (g *SospechaGame) ResolvePendingAction(ctx context.Context) (*ActionResolution, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.requirePlaying(); err != nil {
		return nil, err
	}
	if g.Pending == nil {
		return nil, ErrNoActionPending
	}
	ac := g.Pending

	if len(ac.Responses)%2 == 0 {
		if err := g.executeAction(ctx, ac); err != nil {
			return nil, err
		}
		if err := g.discardResponses(ctx, ac); err != nil {
			return nil, err
		}
		g.Pending = nil
		g.broadcast(GameEvent{
			Type: EventActionExecuted,
			User: &EventUser{ID: ac.PlayerID},
			Payload: map[string]interface{}{
				"kind":      string(ac.Kind),
				"responses": len(ac.Responses),
			},
		})
		return &ActionResolution{Executed: true}, nil
	}

	// Cancelled: the consumed instances go to the discard instead of being
	// played.
	if err := g.discardResponses(ctx, ac); err != nil {
		return nil, err
	}
	if err := g.Ledger.MoveMany(ctx, ac.ConsumedIDs, Move{To: models.LocDiscard}); err != nil {
		return nil, err
	}
	g.Pending = nil
	res := &ActionResolution{Executed: false, Context: ac}
	if top := g.Ledger.TopOfDiscard(); top != nil {
		res.TopDiscardType = top.Type
	}
	g.broadcast(GameEvent{
		Type: EventActionCancelled,
		User: &EventUser{ID: ac.PlayerID},
		Payload: map[string]interface{}{
			"kind":        string(ac.Kind),
			"responses":   len(ac.Responses),
			"top_discard": res.TopDiscardType,
		},
	})
	return res, nil
}

// discardResponses spends the stacked interrupt cards.
func (g *SospechaGame) discardResponses(ctx context.Context, ac *ActionContext) error {
	for _, r := range ac.Responses {
		if err := g.Ledger.MoveOne(ctx, r.CardID, Move{To: models.LocDiscard}); err != nil {
			return err
		}
	}
	return nil
}

// executeAction replays a surviving action from its stored payload.
func (g *SospechaGame) executeAction(ctx context.Context, ac *ActionContext) error {
	switch ac.Kind {
	case ActionPlaySet:
		return g.executeSetPlay(ctx, ac)
	case ActionPlayEvent:
		return g.executeEvent(ctx, ac)
	}
	return fmt.Errorf("unknown action kind %q: %w", ac.Kind, ErrNoActionPending)
}
