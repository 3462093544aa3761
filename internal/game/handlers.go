// internal/game/handlers.go
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sospecha/server/internal/models"
)

// HandlePlayerAction translates a generic client action into the matching
// engine call. The websocket layer and the tests both drive games through
// this entry point.
func (g *SospechaGame) HandlePlayerAction(ctx context.Context, playerID uuid.UUID, action models.GameAction) error {
	switch action.ActionType {
	case "action_play_set":
		selected, err := payloadTypeIDs(action.Payload, "selected")
		if err != nil {
			return err
		}
		var target *uuid.UUID
		if id, ok, err := payloadUUID(action.Payload, "target_set_id"); err != nil {
			return err
		} else if ok {
			target = &id
		}
		return g.PlayDetectiveSet(ctx, playerID, selected, target)

	case "action_play_event":
		play := EventPlay{}
		id, ok, err := payloadUUID(action.Payload, "card_id")
		if err != nil || !ok {
			return fmt.Errorf("action_play_event needs card_id: %w", ErrCardNotFound)
		}
		play.CardID = id
		if id, ok, err := payloadUUID(action.Payload, "target_player_id"); err != nil {
			return err
		} else if ok {
			play.TargetPlayerID = id
		}
		if id, ok, err := payloadUUID(action.Payload, "secret_id"); err != nil {
			return err
		} else if ok {
			play.SecretID = id
		}
		return g.PlayEventCard(ctx, playerID, play)

	case "action_not_so_fast":
		id, ok, err := payloadUUID(action.Payload, "card_id")
		if err != nil || !ok {
			return fmt.Errorf("action_not_so_fast needs card_id: %w", ErrCardNotFound)
		}
		return g.PlayNotSoFast(ctx, playerID, id)

	case "action_resolve":
		_, err := g.ResolvePendingAction(ctx)
		return err

	case "action_take_draft":
		ids, err := payloadUUIDs(action.Payload, "instance_ids")
		if err != nil {
			return err
		}
		return g.TakeFromDraft(ctx, playerID, ids)

	case "action_send_card":
		cardID, ok, err := payloadUUID(action.Payload, "card_id")
		if err != nil || !ok {
			return fmt.Errorf("action_send_card needs card_id: %w", ErrCardNotFound)
		}
		toID, ok, err := payloadUUID(action.Payload, "to_player_id")
		if err != nil || !ok {
			return fmt.Errorf("action_send_card needs to_player_id: %w", ErrPlayerNotFound)
		}
		return g.SendCard(ctx, playerID, toID, cardID)

	case "action_reveal_secret":
		id, ok, err := payloadUUID(action.Payload, "secret_id")
		if err != nil || !ok {
			return fmt.Errorf("action_reveal_secret needs secret_id: %w", ErrSecretNotFound)
		}
		return g.RevealSecret(ctx, id)

	case "action_vote":
		accusedID, ok, err := payloadUUID(action.Payload, "accused_id")
		if err != nil || !ok {
			return fmt.Errorf("action_vote needs accused_id: %w", ErrPlayerNotFound)
		}
		return g.CastVote(ctx, playerID, accusedID)

	case "action_end_turn":
		return g.EndTurn(ctx, playerID)
	}

	return fmt.Errorf("unknown action type %q", action.ActionType)
}

func payloadUUID(payload map[string]interface{}, key string) (uuid.UUID, bool, error) {
	raw, exists := payload[key]
	if !exists || raw == nil {
		return uuid.Nil, false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false, fmt.Errorf("payload field %q must be a string id", key)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("payload field %q: %w", key, err)
	}
	return id, true, nil
}

func payloadUUIDs(payload map[string]interface{}, key string) ([]uuid.UUID, error) {
	raw, exists := payload[key]
	if !exists {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("payload field %q must be a list of ids", key)
	}
	out := make([]uuid.UUID, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("payload field %q must hold string ids", key)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("payload field %q: %w", key, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func payloadTypeIDs(payload map[string]interface{}, key string) ([]models.TypeID, error) {
	raw, exists := payload[key]
	if !exists {
		return nil, fmt.Errorf("payload field %q is required", key)
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("payload field %q must be a list of type ids", key)
	}
	out := make([]models.TypeID, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("payload field %q must hold string type ids", key)
		}
		out = append(out, models.TypeID(s))
	}
	return out, nil
}
