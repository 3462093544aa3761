// internal/database/card.go
package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sospecha/server/internal/models"
)

// CardWriter persists card moves for the engine's ledger. A single upsert
// per move keeps the ledger's durability contract: a move either lands in
// the cards table or the move call fails.
type CardWriter struct{}

func (CardWriter) SaveCard(ctx context.Context, gameID uuid.UUID, c *models.Card) error {
	q := `
	INSERT INTO cards (id, game_id, type_id, facing, location, owner_id, discard_order)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET facing=$4, location=$5, owner_id=$6, discard_order=$7
	`
	var owner interface{}
	if c.OwnerID != uuid.Nil {
		owner = c.OwnerID
	}
	var discardOrder interface{}
	if c.DiscardOrder > 0 {
		discardOrder = c.DiscardOrder
	}
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q,
			c.ID, gameID, string(c.Type),
			int(c.Facing), int(c.Location),
			owner, discardOrder,
		)
		return err
	})
}

// LoadGameCards rehydrates every card row of a game, most useful for
// debugging and the historian.
func LoadGameCards(ctx context.Context, gameID uuid.UUID) ([]*models.Card, error) {
	q := `
	SELECT id, type_id, facing, location, owner_id, discard_order
	FROM cards
	WHERE game_id=$1
	`
	rows, err := DB.Query(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Card
	for rows.Next() {
		var c models.Card
		var typeID string
		var facing, location int
		var owner *uuid.UUID
		var discardOrder *int
		if err := rows.Scan(&c.ID, &typeID, &facing, &location, &owner, &discardOrder); err != nil {
			return nil, err
		}
		c.Type = models.TypeID(typeID)
		c.Facing = models.Facing(facing)
		c.Location = models.Location(location)
		if owner != nil {
			c.OwnerID = *owner
		}
		if discardOrder != nil {
			c.DiscardOrder = *discardOrder
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
