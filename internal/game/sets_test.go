// internal/game/sets_test.go
package game

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sospecha/server/internal/catalog"
	"github.com/sospecha/server/internal/models"
)

func TestValidateDetectiveSelection(t *testing.T) {
	existing := &SetRecord{
		ID:             uuid.New(),
		Members:        []models.TypeID{catalog.TypeBattle, catalog.TypeBattle},
		Representative: catalog.TypeBattle,
	}

	cases := []struct {
		name     string
		selected []models.TypeID
		target   *SetRecord
		wantErr  error
	}{
		{"beresford pair", []models.TypeID{catalog.TypeTommy, catalog.TypeTuppence}, nil, nil},
		{"wildcard pairs with plain detective", []models.TypeID{catalog.TypeQuin, catalog.TypeRace}, nil, nil},
		{"two wildcards", []models.TypeID{catalog.TypeQuin, catalog.TypeQuin}, nil, nil},
		{"duplicate plain pair", []models.TypeID{catalog.TypeBattle, catalog.TypeBattle}, nil, nil},
		{"special triple", []models.TypeID{catalog.TypePoirot, catalog.TypePoirot, catalog.TypePoirot}, nil, nil},
		{"wildcard completes special triple", []models.TypeID{catalog.TypeMarple, catalog.TypeMarple, catalog.TypeQuin}, nil, nil},
		{"oliver onto existing set", []models.TypeID{catalog.TypeOliver}, existing, nil},

		{"oliver without target", []models.TypeID{catalog.TypeOliver}, nil, ErrOliverNeedsSet},
		{"oliver combined", []models.TypeID{catalog.TypeOliver, catalog.TypeBattle}, existing, ErrOliverNeedsSet},
		{"special pair too short", []models.TypeID{catalog.TypePoirot, catalog.TypePoirot}, nil, ErrIllegalSet},
		{"wildcard with special pair", []models.TypeID{catalog.TypePoirot, catalog.TypeQuin}, nil, ErrIllegalSet},
		{"plain triple", []models.TypeID{catalog.TypeBattle, catalog.TypeBattle, catalog.TypeBattle}, nil, ErrIllegalSet},
		{"wildcard plain triple", []models.TypeID{catalog.TypeBattle, catalog.TypeBattle, catalog.TypeQuin}, nil, ErrIllegalSet},
		{"mixed pair", []models.TypeID{catalog.TypeBattle, catalog.TypeRace}, nil, ErrIllegalSet},
		{"single card", []models.TypeID{catalog.TypeBattle}, nil, ErrIllegalSet},
		{"non-detective", []models.TypeID{catalog.TypeRumour, catalog.TypeRumour}, nil, ErrNotAllDetective},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDetectiveSelection(tc.selected, tc.target)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestExtraCardBreaksAnyLegalSelection(t *testing.T) {
	legal := [][]models.TypeID{
		{catalog.TypeTommy, catalog.TypeTuppence},
		{catalog.TypeQuin, catalog.TypeRace},
		{catalog.TypeQuin, catalog.TypeQuin},
		{catalog.TypeBattle, catalog.TypeBattle},
		{catalog.TypePoirot, catalog.TypePoirot, catalog.TypePoirot},
		{catalog.TypeMarple, catalog.TypeMarple, catalog.TypeQuin},
	}
	for _, sel := range legal {
		require.NoError(t, ValidateDetectiveSelection(sel, nil))
		padded := append(append([]models.TypeID{}, sel...), catalog.TypePyne)
		assert.Error(t, ValidateDetectiveSelection(padded, nil),
			"selection %v plus an unrelated card must be rejected", sel)
	}
}

func TestPlayDetectiveSetCommits(t *testing.T) {
	g, players, mb := setupTestGame(t, 2)
	ctx := context.Background()
	playerA := players[0]

	purgeHand(t, g, playerA.ID, catalog.TypeBattle)
	a := giveCard(t, g, playerA.ID, catalog.TypeBattle)
	b := giveCard(t, g, playerA.ID, catalog.TypeBattle)

	sel := []models.TypeID{catalog.TypeBattle, catalog.TypeBattle}
	require.NoError(t, g.PlayDetectiveSet(ctx, playerA.ID, sel, nil))

	// Proposal only: the cards stay in hand until the window resolves.
	assert.Equal(t, models.LocHand, a.Location)
	require.NotNil(t, g.Pending)

	res, err := g.ResolvePendingAction(ctx)
	require.NoError(t, err)
	assert.True(t, res.Executed)
	assert.Nil(t, g.Pending)

	assert.Equal(t, models.LocPlayedSet, a.Location)
	assert.Equal(t, models.LocPlayedSet, b.Location)
	assert.Equal(t, models.FaceUp, a.Facing)
	assert.Equal(t, playerA.ID, a.OwnerID)

	require.Len(t, g.Sets, 1)
	rec := g.Sets[0]
	assert.Equal(t, playerA.ID, rec.OwnerID)
	assert.Equal(t, catalog.TypeBattle, rec.Representative)
	assert.Len(t, rec.Members, 2)

	require.NotNil(t, mb.lastOfType(EventPlayerSetPlayed))
}

func TestPlayDetectiveSetConsumesExactCopies(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	ctx := context.Background()
	playerA := players[0]

	purgeHand(t, g, playerA.ID, catalog.TypeRace)
	giveCard(t, g, playerA.ID, catalog.TypeRace)
	giveCard(t, g, playerA.ID, catalog.TypeRace)
	spare := giveCard(t, g, playerA.ID, catalog.TypeRace)

	sel := []models.TypeID{catalog.TypeRace, catalog.TypeRace}
	require.NoError(t, g.PlayDetectiveSet(ctx, playerA.ID, sel, nil))
	_, err := g.ResolvePendingAction(ctx)
	require.NoError(t, err)

	race := catalog.TypeRace
	loc := models.LocHand
	left := g.Ledger.Find(Filter{Location: &loc, Owner: &playerA.ID, Type: &race})
	require.Len(t, left, 1, "the unselected third copy stays in hand")
	assert.Equal(t, spare.Type, left[0].Type)
}

func TestPlayDetectiveSetRejectsMissingCards(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	playerA := players[0]

	// Empty the hand of Beresfords so the pair cannot be backed by cards.
	purgeHand(t, g, playerA.ID, catalog.TypeTommy)
	purgeHand(t, g, playerA.ID, catalog.TypeTuppence)

	sel := []models.TypeID{catalog.TypeTommy, catalog.TypeTuppence}
	err := g.PlayDetectiveSet(context.Background(), playerA.ID, sel, nil)
	require.ErrorIs(t, err, ErrCardNotInHand)
	assert.Nil(t, g.Pending)
}

func TestPlayDetectiveSetRejectsOutOfTurn(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	playerB := players[1]
	giveCard(t, g, playerB.ID, catalog.TypeBattle)
	giveCard(t, g, playerB.ID, catalog.TypeBattle)

	sel := []models.TypeID{catalog.TypeBattle, catalog.TypeBattle}
	err := g.PlayDetectiveSet(context.Background(), playerB.ID, sel, nil)
	require.ErrorIs(t, err, ErrNotPlayersTurn)
}

func TestOliverExtendsExistingSet(t *testing.T) {
	g, players, mb := setupTestGame(t, 2)
	ctx := context.Background()
	playerA := players[0]

	purgeHand(t, g, playerA.ID, catalog.TypeBattle)
	giveCard(t, g, playerA.ID, catalog.TypeBattle)
	giveCard(t, g, playerA.ID, catalog.TypeBattle)
	require.NoError(t, g.PlayDetectiveSet(ctx, playerA.ID,
		[]models.TypeID{catalog.TypeBattle, catalog.TypeBattle}, nil))
	_, err := g.ResolvePendingAction(ctx)
	require.NoError(t, err)
	require.Len(t, g.Sets, 1)
	setID := g.Sets[0].ID

	purgeHand(t, g, playerA.ID, catalog.TypeOliver)
	oliver := giveCard(t, g, playerA.ID, catalog.TypeOliver)
	require.NoError(t, g.PlayDetectiveSet(ctx, playerA.ID,
		[]models.TypeID{catalog.TypeOliver}, &setID))
	_, err = g.ResolvePendingAction(ctx)
	require.NoError(t, err)

	require.Len(t, g.Sets, 1, "extension adds no new record")
	assert.Len(t, g.Sets[0].Members, 3)
	assert.Equal(t, models.LocPlayedSet, oliver.Location)
	require.NotNil(t, mb.lastOfType(EventPlayerSetExtended))
}

func TestOliverRejectsUnknownTarget(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	playerA := players[0]
	giveCard(t, g, playerA.ID, catalog.TypeOliver)

	bogus := uuid.New()
	err := g.PlayDetectiveSet(context.Background(), playerA.ID,
		[]models.TypeID{catalog.TypeOliver}, &bogus)
	require.ErrorIs(t, err, ErrSetNotFound)
}

func TestEffectiveRepresentativeRepairsWildcard(t *testing.T) {
	rec := &SetRecord{
		Members:        []models.TypeID{catalog.TypeQuin, catalog.TypeQuin},
		Representative: catalog.TypeQuin,
	}
	// Nothing better available yet.
	assert.Equal(t, catalog.TypeQuin, rec.EffectiveRepresentative())

	rec.Members = append(rec.Members, catalog.TypeOliver)
	assert.Equal(t, catalog.TypeOliver, rec.EffectiveRepresentative())
}
