// internal/game/secrets.go
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/catalog"
	"github.com/sospecha/server/internal/models"
)

// assignSecrets mints the game's secret instances, deals three to every
// player and plants the murderer (and, at AccompliceThreshold players or
// more, the accomplice) among them. Caller holds the game lock.
func (g *SospechaGame) assignSecrets(ctx context.Context) error {
	for i := 0; i < TotalSecrets; i++ {
		id, _ := uuid.NewRandom()
		g.Ledger.Add(&models.Card{
			ID:       id,
			Type:     catalog.TypeCommonSecret,
			Facing:   models.FaceDown,
			Location: models.LocTable,
		})
	}

	murdererIdx := g.rng.Intn(len(g.Players))
	g.MurdererID = g.Players[murdererIdx].ID
	g.AccompliceID = uuid.Nil
	if len(g.Players) >= AccompliceThreshold {
		accompliceIdx := g.rng.Intn(len(g.Players) - 1)
		if accompliceIdx >= murdererIdx {
			accompliceIdx++
		}
		g.AccompliceID = g.Players[accompliceIdx].ID
	}

	loc := models.LocTable
	typ := catalog.TypeCommonSecret
	pool := g.Ledger.Find(Filter{Location: &loc, Type: &typ})
	dealt := 0
	for _, p := range g.Players {
		// Pick which of the three dealt secrets carries the role, before
		// any move persists, so the substituted type is durable too.
		roleIdx := -1
		var roleType models.TypeID
		switch p.ID {
		case g.MurdererID:
			roleIdx = g.rng.Intn(SecretsPerPlayer)
			roleType = catalog.TypeMurdererSecret
		case g.AccompliceID:
			roleIdx = g.rng.Intn(SecretsPerPlayer)
			roleType = catalog.TypeAccompliceSecret
		}
		ev := GameEvent{Type: EventPrivateSecretDealt}
		for i := 0; i < SecretsPerPlayer; i++ {
			c := pool[dealt]
			dealt++
			if i == roleIdx {
				c.Type = roleType
			}
			if err := g.Ledger.MoveOne(ctx, c.ID, Move{To: models.LocTable, Owner: &p.ID}); err != nil {
				return err
			}
			ev.Cards = append(ev.Cards, EventCard{ID: c.ID, Type: c.Type})
		}
		g.broadcastToPlayer(p.ID, ev)
	}
	return nil
}

// playerSecrets returns every secret instance a player owns.
func (g *SospechaGame) playerSecrets(playerID uuid.UUID) []*models.Card {
	var out []*models.Card
	for _, c := range g.Ledger.Find(Filter{Owner: &playerID}) {
		if catalog.Category(c.Type) == models.CategorySecret {
			out = append(out, c)
		}
	}
	return out
}

func (g *SospechaGame) secretByID(id uuid.UUID) (*models.Card, error) {
	c, err := g.Ledger.Get(id)
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", id, ErrSecretNotFound)
	}
	if catalog.Category(c.Type) != models.CategorySecret {
		return nil, fmt.Errorf("instance %s is %s: %w", id, c.Type, ErrSecretNotFound)
	}
	return c, nil
}

// RevealSecret flips a secret face-up. Revealing an already revealed secret
// is an error. A reveal can end the game: disgrace and the murderer-win
// condition are re-evaluated on every reveal.
func (g *SospechaGame) RevealSecret(ctx context.Context, secretID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.revealSecretLocked(ctx, secretID)
}

func (g *SospechaGame) revealSecretLocked(ctx context.Context, secretID uuid.UUID) error {
	c, err := g.secretByID(secretID)
	if err != nil {
		return err
	}
	if c.Facing == models.FaceUp {
		return fmt.Errorf("secret %s: %w", secretID, ErrSecretAlreadyFaced)
	}
	faceUp := models.FaceUp
	if err := g.Ledger.MoveOne(ctx, c.ID, Move{To: c.Location, Owner: &c.OwnerID, Facing: &faceUp}); err != nil {
		return err
	}
	g.broadcast(GameEvent{
		Type: EventSecretRevealed,
		User: &EventUser{ID: c.OwnerID},
		Card: &EventCard{ID: c.ID, Type: c.Type},
	})
	if g.IsInDisgrace(c.OwnerID) {
		g.broadcast(GameEvent{Type: EventPlayerDisgraced, User: &EventUser{ID: c.OwnerID}})
	}
	if g.MurdererHasWon() {
		g.finish(OutcomeMurdererWins)
	}
	return nil
}

// HideSecret flips a secret face-down. Hiding an already hidden secret is an
// error.
func (g *SospechaGame) HideSecret(ctx context.Context, secretID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.hideSecretLocked(ctx, secretID)
}

func (g *SospechaGame) hideSecretLocked(ctx context.Context, secretID uuid.UUID) error {
	c, err := g.secretByID(secretID)
	if err != nil {
		return err
	}
	if c.Facing == models.FaceDown {
		return fmt.Errorf("secret %s: %w", secretID, ErrSecretAlreadyFaced)
	}
	faceDown := models.FaceDown
	if err := g.Ledger.MoveOne(ctx, c.ID, Move{To: c.Location, Owner: &c.OwnerID, Facing: &faceDown}); err != nil {
		return err
	}
	g.broadcast(GameEvent{
		Type: EventSecretHidden,
		User: &EventUser{ID: c.OwnerID},
		Card: &EventCard{ID: c.ID},
	})
	return nil
}

// StealSecret re-owns a face-up secret to another player, face-down again.
func (g *SospechaGame) StealSecret(ctx context.Context, sourceID, destID, secretID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.stealSecretLocked(ctx, sourceID, destID, secretID)
}

func (g *SospechaGame) stealSecretLocked(ctx context.Context, sourceID, destID, secretID uuid.UUID) error {
	if _, err := g.PlayerByID(destID); err != nil {
		return err
	}
	c, err := g.secretByID(secretID)
	if err != nil {
		return err
	}
	if c.OwnerID != sourceID {
		return fmt.Errorf("secret %s is not owned by %s: %w", secretID, sourceID, ErrSecretNotFound)
	}
	if c.Facing != models.FaceUp {
		return fmt.Errorf("secret %s: %w", secretID, ErrSecretHiddenNoSteal)
	}
	faceDown := models.FaceDown
	if err := g.Ledger.MoveOne(ctx, c.ID, Move{To: c.Location, Owner: &destID, Facing: &faceDown}); err != nil {
		return err
	}
	g.broadcast(GameEvent{
		Type:   EventSecretStolen,
		User:   &EventUser{ID: destID},
		Target: &EventUser{ID: sourceID},
		Card:   &EventCard{ID: c.ID},
	})
	return nil
}

// IsInDisgrace reports whether every secret the player owns is face-up.
// This predicate and MurdererHasWon are the only definitions of these
// conditions; other call sites must go through them.
func (g *SospechaGame) IsInDisgrace(playerID uuid.UUID) bool {
	secrets := g.playerSecrets(playerID)
	if len(secrets) == 0 {
		return false
	}
	for _, c := range secrets {
		if c.Facing != models.FaceUp {
			return false
		}
	}
	return true
}

// MurdererHasWon reports whether disgrace has spread to every player at
// once.
func (g *SospechaGame) MurdererHasWon() bool {
	for _, p := range g.Players {
		if !g.IsInDisgrace(p.ID) {
			return false
		}
	}
	return len(g.Players) > 0
}
