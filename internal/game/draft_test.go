// internal/game/draft_test.go
package game

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sospecha/server/internal/models"
)

func draftIDs(g *SospechaGame) []uuid.UUID {
	var ids []uuid.UUID
	for _, c := range g.DraftRow() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestDraftRowStartsFaceUpAndFull(t *testing.T) {
	g, _, _ := setupTestGame(t, 2)
	row := g.DraftRow()
	require.Len(t, row, DraftRowSize)
	for _, c := range row {
		assert.Equal(t, models.FaceUp, c.Facing)
		assert.Equal(t, uuid.Nil, c.OwnerID)
	}
}

func TestTakeOneRefillsRow(t *testing.T) {
	g, players, mb := setupTestGame(t, 2)
	ctx := context.Background()
	playerA := players[0]

	taken := g.DraftRow()[0]
	handBefore := len(g.hand(playerA.ID))

	require.NoError(t, g.TakeFromDraft(ctx, playerA.ID, []uuid.UUID{taken.ID}))

	assert.Equal(t, models.LocHand, taken.Location)
	assert.Equal(t, playerA.ID, taken.OwnerID)
	assert.Equal(t, models.FaceDown, taken.Facing, "taken cards turn face-down in hand")
	assert.Len(t, g.hand(playerA.ID), handBefore+1)

	// The row tops straight back up.
	assert.Len(t, g.DraftRow(), DraftRowSize)
	require.NotNil(t, mb.lastOfType(EventDraftTaken))
	require.NotNil(t, mb.lastOfType(EventDraftRefilled))
}

func TestTakeWholeRow(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	ctx := context.Background()
	playerA := players[0]

	ids := draftIDs(g)
	require.Len(t, ids, DraftRowSize)
	require.NoError(t, g.TakeFromDraft(ctx, playerA.ID, ids))

	for _, id := range ids {
		c, err := g.Ledger.Get(id)
		require.NoError(t, err)
		assert.Equal(t, models.LocHand, c.Location)
		assert.Equal(t, playerA.ID, c.OwnerID)
	}
	// A fresh trio replaces the emptied row.
	fresh := draftIDs(g)
	assert.Len(t, fresh, DraftRowSize)
	for _, id := range fresh {
		assert.NotContains(t, ids, id)
	}
}

func TestTakeIsAllOrNothing(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	ctx := context.Background()
	playerA := players[0]

	ids := draftIDs(g)
	before := make(map[uuid.UUID]models.Location)
	for _, id := range ids {
		c, _ := g.Ledger.Get(id)
		before[id] = c.Location
	}

	bad := append([]uuid.UUID{}, ids[0], uuid.New())
	err := g.TakeFromDraft(ctx, playerA.ID, bad)
	require.ErrorIs(t, err, ErrCardNotFound)

	// A hand card mixed in rejects the batch too.
	handCard := g.hand(playerA.ID)[0]
	err = g.TakeFromDraft(ctx, playerA.ID, []uuid.UUID{ids[0], handCard.ID})
	require.ErrorIs(t, err, ErrNotInDraftRow)

	for id, loc := range before {
		c, _ := g.Ledger.Get(id)
		assert.Equal(t, loc, c.Location, "nothing moved")
	}
}

func TestRefillTopsUpShortRow(t *testing.T) {
	g, _, _ := setupTestGame(t, 2)
	ctx := context.Background()

	// Knock the row down to one card.
	row := g.DraftRow()
	require.NoError(t, g.Ledger.MoveOne(ctx, row[0].ID, Move{To: models.LocDiscard}))
	require.NoError(t, g.Ledger.MoveOne(ctx, row[1].ID, Move{To: models.LocDiscard}))
	require.Len(t, g.DraftRow(), 1)

	g.Mu.Lock()
	err := g.RefillDraft(ctx)
	g.Mu.Unlock()
	require.NoError(t, err)
	assert.Len(t, g.DraftRow(), DraftRowSize)
}

func TestTakeRejectsOutOfTurn(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	err := g.TakeFromDraft(context.Background(), players[1].ID, draftIDs(g))
	require.ErrorIs(t, err, ErrNotPlayersTurn)
}

func TestRefillStopsOnEmptyPile(t *testing.T) {
	g, _, _ := setupTestGame(t, 2)
	ctx := context.Background()

	// Drain the draw pile entirely.
	pile := models.LocDrawPile
	for _, c := range g.Ledger.Find(Filter{Location: &pile}) {
		require.NoError(t, g.Ledger.MoveOne(ctx, c.ID, Move{To: models.LocDiscard}))
	}

	// Empty the row, then ask for a refill.
	row := models.LocDraftRow
	for _, c := range g.Ledger.Find(Filter{Location: &row}) {
		require.NoError(t, g.Ledger.MoveOne(ctx, c.ID, Move{To: models.LocDiscard}))
	}
	g.Mu.Lock()
	err := g.RefillDraft(ctx)
	g.Mu.Unlock()
	require.NoError(t, err)
	assert.Empty(t, g.DraftRow(), "an exhausted pile leaves the row short")
}
