// internal/game/event_cards.go
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/catalog"
	"github.com/sospecha/server/internal/models"
)

// EventPlay carries the client-supplied parameters of an event-card play.
type EventPlay struct {
	CardID uuid.UUID

	// TargetPlayerID names the player a rumour or a sleight of hand is
	// aimed at. Ignored by accusation and alibi.
	TargetPlayerID uuid.UUID

	// SecretID names the specific secret an alibi hides or a sleight of
	// hand steals. A rumour leaves it nil and the engine picks at random.
	SecretID uuid.UUID
}

// PlayEventCard proposes an event or devious card. Like a detective set the
// play is cancelable: the card only takes effect once the response window
// resolves with even parity. The card's parameters are validated here, so a
// proposal that survives the window cannot fail to execute.
func (g *SospechaGame) PlayEventCard(ctx context.Context, playerID uuid.UUID, play EventPlay) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.requireTurn(playerID); err != nil {
		return err
	}
	if g.Pending != nil {
		return ErrActionPending
	}
	if g.IsInDisgrace(playerID) {
		return fmt.Errorf("player %s: %w", playerID, ErrPlayerInDisgrace)
	}
	c, err := g.Ledger.Get(play.CardID)
	if err != nil {
		return err
	}
	if c.Location != models.LocHand || c.OwnerID != playerID {
		return fmt.Errorf("instance %s: %w", play.CardID, ErrCardNotInHand)
	}
	switch catalog.Category(c.Type) {
	case models.CategoryEvent, models.CategoryDevious:
	default:
		return fmt.Errorf("instance %s is %s: %w", play.CardID, c.Type, ErrNotAnEventCard)
	}

	payload := map[string]interface{}{"event_type": string(c.Type)}
	switch c.Type {
	case catalog.TypeAccusation:
		if g.VotingOpen {
			return ErrVotingAlreadyOpen
		}
	case catalog.TypeRumour:
		if _, err := g.PlayerByID(play.TargetPlayerID); err != nil {
			return err
		}
		payload["target_player_id"] = play.TargetPlayerID.String()
	case catalog.TypeAlibi:
		if play.SecretID != uuid.Nil {
			s, err := g.secretByID(play.SecretID)
			if err != nil {
				return err
			}
			if s.OwnerID != playerID {
				return fmt.Errorf("secret %s: %w", play.SecretID, ErrSecretNotFound)
			}
			if s.Facing != models.FaceUp {
				return fmt.Errorf("secret %s: %w", play.SecretID, ErrSecretAlreadyFaced)
			}
		}
	case catalog.TypeSleight:
		if _, err := g.PlayerByID(play.TargetPlayerID); err != nil {
			return err
		}
		s, err := g.secretByID(play.SecretID)
		if err != nil {
			return err
		}
		if s.OwnerID != play.TargetPlayerID {
			return fmt.Errorf("secret %s is not owned by %s: %w", play.SecretID, play.TargetPlayerID, ErrSecretNotFound)
		}
		if s.Facing != models.FaceUp {
			return fmt.Errorf("secret %s: %w", play.SecretID, ErrSecretHiddenNoSteal)
		}
		payload["target_player_id"] = play.TargetPlayerID.String()
	}
	if play.SecretID != uuid.Nil {
		payload["secret_id"] = play.SecretID.String()
	}

	if err := g.Ledger.MoveOne(ctx, play.CardID, Move{To: models.LocEventPlayed, Owner: &playerID}); err != nil {
		return err
	}
	g.lastTouched = play.CardID
	return g.beginAction(ActionPlayEvent, playerID, []uuid.UUID{play.CardID}, payload)
}

// executeEvent replays a surviving event card from its payload and then
// discards the card.
func (g *SospechaGame) executeEvent(ctx context.Context, ac *ActionContext) error {
	eventType := models.TypeID(ac.Payload["event_type"].(string))

	var targetID, secretID uuid.UUID
	if raw, ok := ac.Payload["target_player_id"].(string); ok {
		targetID, _ = uuid.Parse(raw)
	}
	if raw, ok := ac.Payload["secret_id"].(string); ok {
		secretID, _ = uuid.Parse(raw)
	}

	var err error
	switch eventType {
	case catalog.TypeAccusation:
		g.accuserID = ac.PlayerID
		err = g.openVoteLocked()
	case catalog.TypeRumour:
		err = g.executeRumour(ctx, targetID)
	case catalog.TypeAlibi:
		err = g.executeAlibi(ctx, ac.PlayerID, secretID)
	case catalog.TypeSleight:
		err = g.stealSecretLocked(ctx, targetID, ac.PlayerID, secretID)
	default:
		err = fmt.Errorf("event type %s: %w", eventType, ErrNotAnEventCard)
	}
	if err != nil {
		return err
	}

	if err := g.Ledger.MoveMany(ctx, ac.ConsumedIDs, Move{To: models.LocDiscard}); err != nil {
		return err
	}
	g.broadcast(GameEvent{
		Type:    EventPlayerEventPlayed,
		User:    &EventUser{ID: ac.PlayerID},
		Payload: map[string]interface{}{"event_type": string(eventType)},
	})
	return nil
}

// executeRumour reveals one of the target's face-down secrets, chosen
// uniformly at random. A fully revealed target makes the rumour fizzle.
func (g *SospechaGame) executeRumour(ctx context.Context, targetID uuid.UUID) error {
	var hidden []*models.Card
	for _, c := range g.playerSecrets(targetID) {
		if c.Facing == models.FaceDown {
			hidden = append(hidden, c)
		}
	}
	if len(hidden) == 0 {
		return nil
	}
	pick := hidden[g.rng.Intn(len(hidden))]
	return g.revealSecretLocked(ctx, pick.ID)
}

// executeAlibi hides one of the initiator's revealed secrets. With no
// explicit choice the first revealed secret is taken.
func (g *SospechaGame) executeAlibi(ctx context.Context, playerID, secretID uuid.UUID) error {
	if secretID != uuid.Nil {
		c, err := g.secretByID(secretID)
		if err != nil {
			return err
		}
		if c.OwnerID != playerID {
			return fmt.Errorf("secret %s: %w", secretID, ErrSecretNotFound)
		}
		return g.hideSecretLocked(ctx, secretID)
	}
	for _, c := range g.playerSecrets(playerID) {
		if c.Facing == models.FaceUp {
			return g.hideSecretLocked(ctx, c.ID)
		}
	}
	return nil
}
