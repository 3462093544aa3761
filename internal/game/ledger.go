// internal/game/ledger.go
package game

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/models"
)

// CardSaver persists a single card instance. The ledger calls it after every
// move so a successful move is durable before the call returns. A nil saver
// keeps the ledger purely in-memory (tests, ephemeral games).
type CardSaver interface {
	SaveCard(ctx context.Context, gameID uuid.UUID, c *models.Card) error
}

// Ledger is the single source of truth for where every card instance of one
// game lives. It enforces only the location mechanics (one location per card,
// monotonic discard order, durability); game-rule legality is the caller's
// job and must be fully validated before any move.
type Ledger struct {
	gameID     uuid.UUID
	cards      map[uuid.UUID]*models.Card
	discardSeq int
	saver      CardSaver
}

// NewLedger builds an empty ledger for one game.
func NewLedger(gameID uuid.UUID, saver CardSaver) *Ledger {
	return &Ledger{
		gameID: gameID,
		cards:  make(map[uuid.UUID]*models.Card),
		saver:  saver,
	}
}

// Add registers a freshly minted card instance with the ledger.
func (l *Ledger) Add(c *models.Card) {
	l.cards[c.ID] = c
}

// Get returns the instance with the given id.
func (l *Ledger) Get(id uuid.UUID) (*models.Card, error) {
	c, ok := l.cards[id]
	if !ok {
		return nil, fmt.Errorf("instance %s: %w", id, ErrCardNotFound)
	}
	return c, nil
}

// Filter narrows a Find query. Nil fields match everything.
type Filter struct {
	Location *models.Location
	Owner    *uuid.UUID
	Type     *models.TypeID
	Facing   *models.Facing
}

// Find returns every instance matching the filter, ordered by id so results
// are stable across calls.
func (l *Ledger) Find(f Filter) []*models.Card {
	var out []*models.Card
	for _, c := range l.cards {
		if f.Location != nil && c.Location != *f.Location {
			continue
		}
		if f.Owner != nil && c.OwnerID != *f.Owner {
			continue
		}
		if f.Type != nil && c.Type != *f.Type {
			continue
		}
		if f.Facing != nil && c.Facing != *f.Facing {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// CountByLocation returns how many instances sit at a location.
func (l *Ledger) CountByLocation(loc models.Location) int {
	n := 0
	for _, c := range l.cards {
		if c.Location == loc {
			n++
		}
	}
	return n
}

// Move carries the optional attributes of a move. A nil field leaves the
// attribute untouched, except that moving to an unowned location (draw pile,
// draft row, table, discard, response pile) always clears the owner.
type Move struct {
	To     models.Location
	Owner  *uuid.UUID
	Facing *models.Facing
}

func ownedLocation(loc models.Location) bool {
	switch loc {
	case models.LocHand, models.LocPlayedSet, models.LocEventPlayed:
		return true
	case models.LocDrawPile, models.LocDraftRow, models.LocTable, models.LocDiscard, models.LocResponsePile:
		return false
	}
	return false
}

// MoveOne transitions a single instance. On a move to the discard the next
// discard-order value is assigned; the sequence is strictly increasing and
// never reused within a game. The move is persisted before returning.
func (l *Ledger) MoveOne(ctx context.Context, id uuid.UUID, mv Move) error {
	c, err := l.Get(id)
	if err != nil {
		return err
	}
	c.Location = mv.To
	if mv.Owner != nil {
		c.OwnerID = *mv.Owner
	} else if !ownedLocation(mv.To) {
		c.OwnerID = uuid.Nil
	}
	if mv.Facing != nil {
		c.Facing = *mv.Facing
	}
	if mv.To == models.LocDiscard {
		l.discardSeq++
		c.DiscardOrder = l.discardSeq
	}
	if l.saver != nil {
		if err := l.saver.SaveCard(ctx, l.gameID, c); err != nil {
			return fmt.Errorf("persist move of %s: %w", id, err)
		}
	}
	return nil
}

// MoveMany applies the same move to several instances. Every id is resolved
// before the first mutation so an unknown id rejects the whole batch.
func (l *Ledger) MoveMany(ctx context.Context, ids []uuid.UUID, mv Move) error {
	for _, id := range ids {
		if _, err := l.Get(id); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if err := l.MoveOne(ctx, id, mv); err != nil {
			return err
		}
	}
	return nil
}

// TopOfDiscard returns the most recently discarded instance, or nil when the
// discard is empty.
func (l *Ledger) TopOfDiscard() *models.Card {
	var top *models.Card
	for _, c := range l.cards {
		if c.Location != models.LocDiscard {
			continue
		}
		if top == nil || c.DiscardOrder > top.DiscardOrder {
			top = c
		}
	}
	return top
}
