// internal/game/errors.go
package game

import "errors"

// Engine errors, grouped by how the transport layer should map them.
// Validation always runs before any mutation, so a returned error means no
// state changed. Test with errors.Is; most sites wrap these with the
// offending id via fmt.Errorf("...: %w", Err...).

// Not found.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found in game")
	ErrCardNotFound   = errors.New("card not found in game")
	ErrSecretNotFound = errors.New("secret not found")
	ErrSetNotFound    = errors.New("played set not found")
	ErrNoTurnOrder    = errors.New("game has no turn order yet")
)

// Invalid state.
var (
	ErrGameNotStarted      = errors.New("game has not started")
	ErrGameFinished        = errors.New("game is finished")
	ErrActionPending       = errors.New("another action is already pending")
	ErrNoActionPending     = errors.New("no action is pending")
	ErrVotingNotOpen       = errors.New("voting is not open")
	ErrVotingAlreadyOpen   = errors.New("voting is already open")
	ErrSecretAlreadyFaced  = errors.New("secret is already in the requested facing")
	ErrSecretHiddenNoSteal = errors.New("secret is hidden and cannot be stolen")
)

// Forbidden.
var (
	ErrNotPlayersTurn   = errors.New("not this player's turn")
	ErrPlayerInDisgrace = errors.New("player is in social disgrace")
)

// Rule violations.
var (
	ErrCardNotInHand    = errors.New("card is not in the player's hand")
	ErrNotAllDetective  = errors.New("every selected card must be a detective")
	ErrNotAnEventCard   = errors.New("card is not an event card")
	ErrNotAnInstantCard = errors.New("card is not an instant card")
	ErrIllegalSet       = errors.New("selection is not a legal detective set")
	ErrOliverNeedsSet   = errors.New("ariadne oliver must be played alone onto an existing set")
	ErrNotInDraftRow    = errors.New("card instance is not in the draft row")
)

// Conflicts.
var (
	ErrAlreadyVoted = errors.New("voter has already cast a ballot")
)
