// internal/game/turns_test.go
package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sospecha/server/internal/models"
)

func birth(month time.Month, day int) time.Time {
	return time.Date(1985, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDayOfYearDistance(t *testing.T) {
	assert.Equal(t, 0, dayOfYearDistance(birth(time.September, 15)))
	assert.Equal(t, 1, dayOfYearDistance(birth(time.September, 16)))
	assert.Equal(t, 1, dayOfYearDistance(birth(time.September, 14)))
	// Distance ignores the birth year entirely.
	assert.Equal(t, dayOfYearDistance(birth(time.March, 1)),
		dayOfYearDistance(time.Date(2003, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestInitialOrderClosestBirthDateOpens(t *testing.T) {
	// Scenario: 09-15 vs 03-01; the 09-15 player has distance 0 and must
	// open regardless of rng.
	g := NewSospechaGame(nil)
	pA := &models.Player{ID: uuid.New(), BirthDate: birth(time.September, 15)}
	pB := &models.Player{ID: uuid.New(), BirthDate: birth(time.March, 1)}

	for seed := int64(0); seed < 20; seed++ {
		g.rng = rand.New(rand.NewSource(seed))
		order := g.initialOrder([]*models.Player{pB, pA})
		require.Len(t, order, 2)
		assert.Equal(t, pA.ID, order[0])
		assert.Equal(t, pB.ID, order[1])
	}
}

func TestInitialOrderIsPermutation(t *testing.T) {
	g := NewSospechaGame(nil)
	g.rng = rand.New(rand.NewSource(7))

	var players []*models.Player
	for i := 0; i < 6; i++ {
		players = append(players, &models.Player{
			ID:        uuid.New(),
			BirthDate: birth(time.January, 1+i),
		})
	}
	order := g.initialOrder(players)
	require.Len(t, order, len(players))

	seen := make(map[uuid.UUID]bool)
	for _, id := range order {
		assert.False(t, seen[id], "no player appears twice")
		seen[id] = true
	}
	for _, p := range players {
		assert.True(t, seen[p.ID], "every player appears")
	}
}

func TestInitialOrderTieBreakIsRandom(t *testing.T) {
	g := NewSospechaGame(nil)
	pA := &models.Player{ID: uuid.New(), BirthDate: birth(time.September, 10)}
	pB := &models.Player{ID: uuid.New(), BirthDate: birth(time.September, 20)}

	firsts := make(map[uuid.UUID]int)
	for seed := int64(0); seed < 400; seed++ {
		g.rng = rand.New(rand.NewSource(seed))
		order := g.initialOrder([]*models.Player{pA, pB})
		firsts[order[0]]++
	}
	// Both are 5 days out; each should open a reasonable share of runs.
	assert.Greater(t, firsts[pA.ID], 100)
	assert.Greater(t, firsts[pB.ID], 100)
}

func TestAdvanceCyclesThroughOrder(t *testing.T) {
	g, players, _ := setupTestGame(t, 4)

	first, err := g.CurrentTurn()
	require.NoError(t, err)

	seen := map[uuid.UUID]bool{first: true}
	for i := 0; i < len(players)-1; i++ {
		next, err := g.AdvanceTurn()
		require.NoError(t, err)
		assert.False(t, seen[next], "no repeats inside one cycle")
		seen[next] = true
	}
	// One full cycle returns to the opener.
	next, err := g.AdvanceTurn()
	require.NoError(t, err)
	assert.Equal(t, first, next)
}

func TestAdvanceResetsWhenHolderUnknown(t *testing.T) {
	g, _, _ := setupTestGame(t, 3)

	g.Mu.Lock()
	g.CurrentPlayerID = uuid.New() // not in the stored order
	g.Mu.Unlock()

	next, err := g.AdvanceTurn()
	require.NoError(t, err)
	assert.Equal(t, g.TurnOrder[0], next)
}

func TestTurnOpsWithoutOrder(t *testing.T) {
	g := NewSospechaGame(nil)

	_, err := g.CurrentTurn()
	require.ErrorIs(t, err, ErrNoTurnOrder)
	_, err = g.AdvanceTurn()
	require.ErrorIs(t, err, ErrNoTurnOrder)
	require.ErrorIs(t, g.SetTurn(uuid.New()), ErrNoTurnOrder)
}

func TestSetTurn(t *testing.T) {
	g, players, _ := setupTestGame(t, 3)
	require.NoError(t, g.SetTurn(players[2].ID))

	cur, err := g.CurrentTurn()
	require.NoError(t, err)
	assert.Equal(t, players[2].ID, cur)

	require.ErrorIs(t, g.SetTurn(uuid.New()), ErrPlayerNotFound)
}
