// internal/game/votes.go
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// OpenVote opens an accusation vote for the game. Normally reached through
// an Accusation event card resolving; exported for the transport layer too.
func (g *SospechaGame) OpenVote(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if err := g.requirePlaying(); err != nil {
		return err
	}
	if _, err := g.PlayerByID(playerID); err != nil {
		return err
	}
	g.accuserID = playerID
	return g.openVoteLocked()
}

func (g *SospechaGame) openVoteLocked() error {
	if g.VotingOpen {
		return ErrVotingAlreadyOpen
	}
	g.VotingOpen = true
	g.Ballots = make(map[uuid.UUID]uuid.UUID)
	g.broadcast(GameEvent{Type: EventVoteOpened})
	return nil
}

// CastVote records one ballot. A voter gets exactly one ballot per vote;
// once every seated player has voted the accusation resolves immediately.
func (g *SospechaGame) CastVote(ctx context.Context, voterID, accusedID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.requirePlaying(); err != nil {
		return err
	}
	if !g.VotingOpen {
		return ErrVotingNotOpen
	}
	if _, err := g.PlayerByID(voterID); err != nil {
		return err
	}
	if _, err := g.PlayerByID(accusedID); err != nil {
		return err
	}
	if _, voted := g.Ballots[voterID]; voted {
		return fmt.Errorf("voter %s: %w", voterID, ErrAlreadyVoted)
	}
	g.Ballots[voterID] = accusedID
	g.broadcast(GameEvent{
		Type:    EventVoteCast,
		User:    &EventUser{ID: voterID},
		Payload: map[string]interface{}{"ballots": len(g.Ballots)},
	})

	if len(g.Ballots) == len(g.Players) {
		_, err := g.resolveVoteLocked(ctx)
		return err
	}
	return nil
}

// BallotCount returns how many ballots the open vote has collected.
func (g *SospechaGame) BallotCount() int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return len(g.Ballots)
}

// ResolveVote forces resolution of the open vote, regardless of how many
// ballots are in.
func (g *SospechaGame) ResolveVote(ctx context.Context) (uuid.UUID, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.VotingOpen {
		return uuid.Nil, ErrVotingNotOpen
	}
	return g.resolveVoteLocked(ctx)
}

// resolveVoteLocked tallies the ballots, picks the most accused player
// (uniform random among ties), clears all voting state and applies the
// outcome: an accurate accusation finishes the game for the detectives, a
// wrong one costs the accuser one secret.
func (g *SospechaGame) resolveVoteLocked(ctx context.Context) (uuid.UUID, error) {
	counts := make(map[uuid.UUID]int)
	for _, accused := range g.Ballots {
		counts[accused]++
	}

	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	var top []uuid.UUID
	for accused, n := range counts {
		if n == max {
			top = append(top, accused)
		}
	}
	// Map iteration order is randomized but not uniform; walk the seating
	// order for a stable candidate list and pick with the game rng.
	var ordered []uuid.UUID
	for _, p := range g.Players {
		for _, id := range top {
			if id == p.ID {
				ordered = append(ordered, id)
			}
		}
	}
	var target uuid.UUID
	if len(ordered) > 0 {
		target = ordered[g.rng.Intn(len(ordered))]
	}

	g.Ballots = make(map[uuid.UUID]uuid.UUID)
	g.VotingOpen = false

	g.broadcast(GameEvent{
		Type:    EventVoteResolved,
		Target:  &EventUser{ID: target},
		Payload: map[string]interface{}{"votes": max},
	})

	if target == uuid.Nil {
		return target, nil
	}
	if target == g.MurdererID {
		g.finish(OutcomeDetectivesWin)
		return target, nil
	}
	if g.accuserID != uuid.Nil {
		if err := g.executeRumour(ctx, g.accuserID); err != nil {
			return target, err
		}
	}
	return target, nil
}

// CloseVote abandons an open vote without resolving it.
func (g *SospechaGame) CloseVote() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.VotingOpen {
		return ErrVotingNotOpen
	}
	g.VotingOpen = false
	g.clearBallots()
	return nil
}

func (g *SospechaGame) clearBallots() {
	g.Ballots = make(map[uuid.UUID]uuid.UUID)
}
