// internal/database/game.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sospecha/server/internal/models"
)

// RecordGameResult persists the final outcome of a game: the game row flips
// to completed and one result row lands per seated player. didWin reports
// from each player's perspective (the murderer and accomplice win together;
// everyone else wins when the accusation lands).
func RecordGameResult(ctx context.Context, gameID uuid.UUID, players []*models.Player, outcome string, murdererID, accompliceID uuid.UUID) error {
	murdererWon := outcome == "murderer_wins"

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, status, outcome)
			VALUES ($1, 'completed', $2)
			ON CONFLICT (id) DO UPDATE SET status='completed', outcome=$2
		`
		if _, e := tx.Exec(ctx, upsertGame, gameID, outcome); e != nil {
			return e
		}

		for _, pl := range players {
			onMurderSide := pl.ID == murdererID || pl.ID == accompliceID
			didWin := onMurderSide == murdererWon
			q := `
				INSERT INTO game_results (game_id, player_id, did_win, was_murder_side)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (game_id, player_id)
				DO UPDATE SET did_win=$3, was_murder_side=$4
			`
			if _, e := tx.Exec(ctx, q, gameID, pl.ID, didWin, onMurderSide); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or results: %w", err)
	}
	return nil
}
