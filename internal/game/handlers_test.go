// internal/game/handlers_test.go
package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sospecha/server/internal/catalog"
	"github.com/sospecha/server/internal/models"
)

// TestHandlePlayerActionRound drives a full exchange through the generic
// action entry point with wire-shaped payloads, the way the websocket layer
// delivers them.
func TestHandlePlayerActionRound(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	ctx := context.Background()
	playerA, playerB := players[0], players[1]

	purgeHand(t, g, playerA.ID, catalog.TypeBattle)
	giveCard(t, g, playerA.ID, catalog.TypeBattle)
	giveCard(t, g, playerA.ID, catalog.TypeBattle)

	require.NoError(t, g.HandlePlayerAction(ctx, playerA.ID, models.GameAction{
		ActionType: "action_play_set",
		Payload: map[string]interface{}{
			"selected": []interface{}{"battle", "battle"},
		},
	}))

	nsf := giveCard(t, g, playerB.ID, catalog.TypeNotSoFast)
	require.NoError(t, g.HandlePlayerAction(ctx, playerB.ID, models.GameAction{
		ActionType: "action_not_so_fast",
		Payload:    map[string]interface{}{"card_id": nsf.ID.String()},
	}))

	require.NoError(t, g.HandlePlayerAction(ctx, playerA.ID, models.GameAction{
		ActionType: "action_resolve",
	}))
	// One interrupt: the set play was cancelled.
	assert.Empty(t, g.Sets)

	taken := g.DraftRow()[0]
	require.NoError(t, g.HandlePlayerAction(ctx, playerA.ID, models.GameAction{
		ActionType: "action_take_draft",
		Payload: map[string]interface{}{
			"instance_ids": []interface{}{taken.ID.String()},
		},
	}))
	assert.Equal(t, playerA.ID, taken.OwnerID)

	require.NoError(t, g.HandlePlayerAction(ctx, playerA.ID, models.GameAction{
		ActionType: "action_end_turn",
	}))
	assert.Equal(t, playerB.ID, g.CurrentPlayerID)
}

func TestHandlePlayerActionPayloadValidation(t *testing.T) {
	g, players, _ := setupTestGame(t, 2)
	ctx := context.Background()
	playerA := players[0]

	cases := []models.GameAction{
		{ActionType: "action_play_set", Payload: map[string]interface{}{}},
		{ActionType: "action_play_set", Payload: map[string]interface{}{"selected": "battle"}},
		{ActionType: "action_play_event", Payload: map[string]interface{}{}},
		{ActionType: "action_play_event", Payload: map[string]interface{}{"card_id": "not-a-uuid"}},
		{ActionType: "action_not_so_fast", Payload: map[string]interface{}{}},
		{ActionType: "action_send_card", Payload: map[string]interface{}{}},
		{ActionType: "action_take_draft", Payload: map[string]interface{}{"instance_ids": []interface{}{42}}},
		{ActionType: "action_vote", Payload: map[string]interface{}{}},
		{ActionType: "action_reveal_secret", Payload: map[string]interface{}{"secret_id": 7}},
	}
	for _, action := range cases {
		assert.Error(t, g.HandlePlayerAction(ctx, playerA.ID, action), "action %s", action.ActionType)
	}
}
