// internal/game/draft.go
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/models"
)

// DraftRow returns the cards currently sitting in the shared draft row.
func (g *SospechaGame) DraftRow() []*models.Card {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	loc := models.LocDraftRow
	return g.Ledger.Find(Filter{Location: &loc})
}

// RefillDraft tops the draft row up to DraftRowSize whenever it has dropped
// to two cards or fewer, drawing uniformly at random from the draw pile one
// card at a time until the row is full or the pile is exhausted. Caller
// holds the game lock.
func (g *SospechaGame) RefillDraft(ctx context.Context) error {
	row := models.LocDraftRow
	pile := models.LocDrawPile

	if g.Ledger.CountByLocation(row) > DraftRowSize-1 {
		return nil
	}
	refilled := false
	for g.Ledger.CountByLocation(row) < DraftRowSize {
		candidates := g.Ledger.Find(Filter{Location: &pile})
		if len(candidates) == 0 {
			break
		}
		c := candidates[g.rng.Intn(len(candidates))]
		faceUp := models.FaceUp
		if err := g.Ledger.MoveOne(ctx, c.ID, Move{To: row, Facing: &faceUp}); err != nil {
			return err
		}
		refilled = true
	}
	if refilled {
		ev := GameEvent{Type: EventDraftRefilled}
		for _, c := range g.Ledger.Find(Filter{Location: &row}) {
			ev.Cards = append(ev.Cards, EventCard{ID: c.ID, Type: c.Type})
		}
		g.broadcast(ev)
	}
	return nil
}

// TakeFromDraft moves specific draft-row instances into the player's hand.
// The take is all-or-nothing: one absent instance rejects the whole request
// before anything moves. The row is refilled afterwards.
func (g *SospechaGame) TakeFromDraft(ctx context.Context, playerID uuid.UUID, instanceIDs []uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.requireTurn(playerID); err != nil {
		return err
	}
	for _, id := range instanceIDs {
		c, err := g.Ledger.Get(id)
		if err != nil {
			return err
		}
		if c.Location != models.LocDraftRow {
			return fmt.Errorf("instance %s: %w", id, ErrNotInDraftRow)
		}
	}

	faceDown := models.FaceDown
	if err := g.Ledger.MoveMany(ctx, instanceIDs, Move{
		To:     models.LocHand,
		Owner:  &playerID,
		Facing: &faceDown,
	}); err != nil {
		return err
	}
	if len(instanceIDs) > 0 {
		g.lastTouched = instanceIDs[len(instanceIDs)-1]
	}

	ev := GameEvent{Type: EventDraftTaken, User: &EventUser{ID: playerID}}
	for _, id := range instanceIDs {
		ev.Cards = append(ev.Cards, EventCard{ID: id})
	}
	g.broadcast(ev)
	g.sendPrivateHand(playerID)

	return g.RefillDraft(ctx)
}
