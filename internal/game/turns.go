// internal/game/turns.go
package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/models"
)

// turnReference is the fixed date the opening player is measured against;
// only month and day matter (Agatha Christie's birthday).
var turnReference = time.Date(2001, time.September, 15, 0, 0, 0, 0, time.UTC)

// dayOfYearDistance is the absolute distance in day-of-year numbers between
// a birth date and the reference, with years normalized away.
func dayOfYearDistance(birth time.Time) int {
	normalized := time.Date(2001, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	d := normalized.YearDay() - turnReference.YearDay()
	if d < 0 {
		d = -d
	}
	return d
}

// initialOrder computes the fixed turn order: the player whose birth date
// falls closest to the reference date opens, ties broken uniformly at
// random; everyone else follows in uniformly random order.
func (g *SospechaGame) initialOrder(players []*models.Player) []uuid.UUID {
	best := -1
	var tied []uuid.UUID
	for _, p := range players {
		d := dayOfYearDistance(p.BirthDate)
		switch {
		case best == -1 || d < best:
			best = d
			tied = []uuid.UUID{p.ID}
		case d == best:
			tied = append(tied, p.ID)
		}
	}
	first := tied[g.rng.Intn(len(tied))]

	rest := make([]uuid.UUID, 0, len(players)-1)
	for _, p := range players {
		if p.ID != first {
			rest = append(rest, p.ID)
		}
	}
	g.rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	return append([]uuid.UUID{first}, rest...)
}

// CurrentTurn returns the player id holding the turn.
func (g *SospechaGame) CurrentTurn() (uuid.UUID, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if len(g.TurnOrder) == 0 {
		return uuid.Nil, ErrNoTurnOrder
	}
	return g.CurrentPlayerID, nil
}

// SetTurn forces the turn onto a specific seated player.
func (g *SospechaGame) SetTurn(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if len(g.TurnOrder) == 0 {
		return ErrNoTurnOrder
	}
	if _, err := g.PlayerByID(playerID); err != nil {
		return err
	}
	g.CurrentPlayerID = playerID
	return nil
}

// AdvanceTurn moves the turn to the next player in the stored order,
// wrapping at the end.
func (g *SospechaGame) AdvanceTurn() (uuid.UUID, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.advanceLocked()
}

func (g *SospechaGame) advanceLocked() (uuid.UUID, error) {
	if len(g.TurnOrder) == 0 {
		return uuid.Nil, ErrNoTurnOrder
	}
	idx := -1
	for i, id := range g.TurnOrder {
		if id == g.CurrentPlayerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Current holder is not in the stored order; reset to the opener.
		g.CurrentPlayerID = g.TurnOrder[0]
		return g.CurrentPlayerID, nil
	}
	g.CurrentPlayerID = g.TurnOrder[(idx+1)%len(g.TurnOrder)]
	return g.CurrentPlayerID, nil
}
