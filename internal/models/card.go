// internal/models/card.go
package models

import "github.com/google/uuid"

// TypeID identifies one of the fixed card definitions in the catalog
// (e.g. "poirot", "not_so_fast"). Many Card instances may share a TypeID.
type TypeID string

// Category is the closed set of card categories.
type Category int

const (
	CategoryDetective Category = iota
	CategoryEvent
	CategoryDevious
	CategoryInstant
	CategorySecret
)

func (c Category) String() string {
	switch c {
	case CategoryDetective:
		return "detective"
	case CategoryEvent:
		return "event"
	case CategoryDevious:
		return "devious"
	case CategoryInstant:
		return "instant"
	case CategorySecret:
		return "secret"
	}
	return "unknown"
}

// Location is the closed set of places a card instance can occupy.
// A card is always in exactly one location.
type Location int

const (
	LocDrawPile Location = iota
	LocHand
	LocDraftRow
	LocDiscard
	LocTable
	LocPlayedSet
	LocEventPlayed
	LocResponsePile
)

func (l Location) String() string {
	switch l {
	case LocDrawPile:
		return "draw_pile"
	case LocHand:
		return "hand"
	case LocDraftRow:
		return "draft_row"
	case LocDiscard:
		return "discard"
	case LocTable:
		return "table"
	case LocPlayedSet:
		return "played_set"
	case LocEventPlayed:
		return "event_played"
	case LocResponsePile:
		return "response_pile"
	}
	return "unknown"
}

// Facing is whether a card instance is face-up or face-down.
type Facing int

const (
	FaceDown Facing = iota
	FaceUp
)

func (f Facing) String() string {
	if f == FaceUp {
		return "face_up"
	}
	return "face_down"
}

// Card is a single physical card instance in a game.
type Card struct {
	ID     uuid.UUID `json:"id"`
	Type   TypeID    `json:"type"`
	Facing Facing    `json:"facing"`

	Location Location `json:"location"`

	// OwnerID is uuid.Nil while the card is unowned (draw pile, draft row,
	// table, discard).
	OwnerID uuid.UUID `json:"owner_id"`

	// DiscardOrder is assigned once, on discard, from a per-game monotonic
	// sequence starting at 1. Zero means the card has never been discarded.
	DiscardOrder int `json:"discard_order,omitempty"`
}
