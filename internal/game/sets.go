// internal/game/sets.go
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/catalog"
	"github.com/sospecha/server/internal/models"
)

// SetRecord is the append-only record of one played detective combination.
type SetRecord struct {
	ID      uuid.UUID     `json:"id"`
	OwnerID uuid.UUID     `json:"owner_id"`
	Members []models.TypeID `json:"members"`

	// Representative identifies the set for later additions. Chosen
	// non-wildcard at creation whenever the set holds any non-wildcard
	// member.
	Representative models.TypeID `json:"representative"`
}

// EffectiveRepresentative repairs legacy records whose stored representative
// is the wildcard: the first non-wildcard member takes over on read.
func (r *SetRecord) EffectiveRepresentative() models.TypeID {
	if r.Representative != catalog.Wildcard {
		return r.Representative
	}
	for _, m := range r.Members {
		if m != catalog.Wildcard {
			return m
		}
	}
	return r.Representative
}

// SetByID finds a played set record.
func (g *SospechaGame) SetByID(id uuid.UUID) (*SetRecord, error) {
	for _, s := range g.Sets {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("set %s: %w", id, ErrSetNotFound)
}

// distinctTypes returns the set of distinct type ids in a selection.
func distinctTypes(selected []models.TypeID) map[models.TypeID]bool {
	t := make(map[models.TypeID]bool, len(selected))
	for _, s := range selected {
		t[s] = true
	}
	return t
}

// ValidateDetectiveSelection is the pure legality predicate over a selected
// multiset of detective type ids. target is the set record an Ariadne Oliver
// card would extend, nil when the player is opening a new set. The rules are
// evaluated in priority order; the first that applies decides.
func ValidateDetectiveSelection(selected []models.TypeID, target *SetRecord) error {
	for _, t := range selected {
		if !catalog.IsDetective(t) {
			return fmt.Errorf("type %s: %w", t, ErrNotAllDetective)
		}
	}

	n := len(selected)
	types := distinctTypes(selected)
	hasWildcard := types[catalog.Wildcard]
	specials := 0
	for t := range types {
		if catalog.IsSpecial(t) {
			specials++
		}
	}

	// Rule 1: Ariadne Oliver only ever joins an existing set, alone.
	if types[catalog.TypeOliver] {
		if n != 1 {
			return fmt.Errorf("ariadne oliver cannot be combined: %w", ErrOliverNeedsSet)
		}
		if target == nil || len(target.Members) == 0 {
			return ErrOliverNeedsSet
		}
		return nil
	}

	switch n {
	case 2:
		// Rule 2: the Beresford pair.
		if !hasWildcard && len(types) == 2 && types[catalog.TypeTommy] && types[catalog.TypeTuppence] {
			return nil
		}
		// Rule 3: wildcard plus anything non-special.
		if hasWildcard && specials == 0 {
			return nil
		}
		// Rule 4: a plain duplicate pair.
		if len(types) == 1 && !hasWildcard && specials == 0 {
			return nil
		}
	case 3:
		// Rule 5: a special investigator triple.
		if len(types) == 1 && specials == 1 {
			return nil
		}
		// Rule 6: wildcard completing exactly one special investigator.
		if hasWildcard && specials == 1 {
			return nil
		}
	}

	// Rule 7.
	return fmt.Errorf("%d cards of %d types: %w", n, len(types), ErrIllegalSet)
}

// chooseRepresentative picks the stored representative for a new set: the
// first non-wildcard selected type. An all-wildcard pair has no candidate
// and keeps the wildcard; EffectiveRepresentative repairs such records when
// a later member lands.
func chooseRepresentative(selected []models.TypeID) models.TypeID {
	for _, t := range selected {
		if t != catalog.Wildcard {
			return t
		}
	}
	return catalog.Wildcard
}

// pickHandInstances selects, for every type in the selection, exactly as
// many hand instances of that type as were selected. Extra unselected copies
// stay untouched; missing copies reject the whole selection.
func (g *SospechaGame) pickHandInstances(playerID uuid.UUID, selected []models.TypeID) ([]uuid.UUID, error) {
	needed := make(map[models.TypeID]int)
	for _, t := range selected {
		needed[t]++
	}
	var picked []uuid.UUID
	for t, n := range needed {
		typ := t
		loc := models.LocHand
		have := g.Ledger.Find(Filter{Location: &loc, Owner: &playerID, Type: &typ})
		if len(have) < n {
			return nil, fmt.Errorf("need %d of %s, hand holds %d: %w", n, t, len(have), ErrCardNotInHand)
		}
		for i := 0; i < n; i++ {
			picked = append(picked, have[i].ID)
		}
	}
	return picked, nil
}

// PlayDetectiveSet proposes a detective combination. The play is cancelable:
// it only registers an ActionContext; the cards move once the response
// window resolves with even parity (see stack.go).
func (g *SospechaGame) PlayDetectiveSet(ctx context.Context, playerID uuid.UUID, selected []models.TypeID, targetSetID *uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.requireTurn(playerID); err != nil {
		return err
	}
	if g.IsInDisgrace(playerID) {
		return fmt.Errorf("player %s: %w", playerID, ErrPlayerInDisgrace)
	}

	var target *SetRecord
	if targetSetID != nil {
		var err error
		if target, err = g.SetByID(*targetSetID); err != nil {
			return err
		}
	}
	if err := ValidateDetectiveSelection(selected, target); err != nil {
		return err
	}
	consumed, err := g.pickHandInstances(playerID, selected)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{"selected": selected}
	if targetSetID != nil {
		payload["target_set_id"] = targetSetID.String()
	}
	return g.beginAction(ActionPlaySet, playerID, consumed, payload)
}

// executeSetPlay commits a resolved set play: the consumed instances land
// face-up on the table and the set record is created or extended.
func (g *SospechaGame) executeSetPlay(ctx context.Context, ac *ActionContext) error {
	selected := ac.Payload["selected"].([]models.TypeID)

	faceUp := models.FaceUp
	if err := g.Ledger.MoveMany(ctx, ac.ConsumedIDs, Move{
		To:     models.LocPlayedSet,
		Owner:  &ac.PlayerID,
		Facing: &faceUp,
	}); err != nil {
		return err
	}

	if raw, ok := ac.Payload["target_set_id"].(string); ok {
		setID, err := uuid.Parse(raw)
		if err != nil {
			return err
		}
		target, err := g.SetByID(setID)
		if err != nil {
			return err
		}
		target.Members = append(target.Members, selected...)
		g.broadcast(GameEvent{
			Type: EventPlayerSetExtended,
			User: &EventUser{ID: ac.PlayerID},
			Payload: map[string]interface{}{
				"set_id":         target.ID.String(),
				"representative": target.EffectiveRepresentative(),
			},
		})
		return nil
	}

	id, _ := uuid.NewRandom()
	rec := &SetRecord{
		ID:             id,
		OwnerID:        ac.PlayerID,
		Members:        append([]models.TypeID(nil), selected...),
		Representative: chooseRepresentative(selected),
	}
	g.Sets = append(g.Sets, rec)
	g.broadcast(GameEvent{
		Type: EventPlayerSetPlayed,
		User: &EventUser{ID: ac.PlayerID},
		Payload: map[string]interface{}{
			"set_id":         rec.ID.String(),
			"representative": rec.Representative,
			"members":        rec.Members,
		},
	})
	return nil
}
