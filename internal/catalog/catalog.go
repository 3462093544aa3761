// internal/catalog/catalog.go
//
// Package catalog holds the fixed card definitions for a sospecha game. The
// catalog is immutable after process start: components read from it, never
// write. One Card instance is minted per definition per printed quantity at
// game start (secrets are minted separately, see the game package).
package catalog

import "github.com/sospecha/server/internal/models"

// Detective type ids.
const (
	TypePoirot   models.TypeID = "poirot"
	TypeMarple   models.TypeID = "marple"
	TypeTommy    models.TypeID = "tommy"
	TypeTuppence models.TypeID = "tuppence"
	TypeBattle   models.TypeID = "battle"
	TypeRace     models.TypeID = "race"
	TypePyne     models.TypeID = "pyne"
	TypeQuin     models.TypeID = "quin"   // wildcard
	TypeOliver   models.TypeID = "oliver" // appends to an existing set
)

// Event and devious type ids.
const (
	TypeAccusation models.TypeID = "accusation"
	TypeRumour     models.TypeID = "rumour"
	TypeAlibi      models.TypeID = "alibi"
	TypeSleight    models.TypeID = "sleight_of_hand"
)

// Instant type ids.
const (
	TypeNotSoFast models.TypeID = "not_so_fast"
)

// Secret type ids. Secret instances all start as the common type; the
// murderer/accomplice types are substituted in during secret assignment.
const (
	TypeCommonSecret     models.TypeID = "secret_common"
	TypeMurdererSecret   models.TypeID = "secret_murderer"
	TypeAccompliceSecret models.TypeID = "secret_accomplice"
)

// Wildcard is the detective type usable in place of a matching card.
const Wildcard = TypeQuin

// Def describes one printed card definition.
type Def struct {
	Name     string
	Category models.Category

	// Quantity is how many instances of this definition enter the deck at
	// game start. Secret definitions carry zero here; the 18 secret
	// instances are minted by the secret-assignment step.
	Quantity int
}

var defs = map[models.TypeID]Def{
	TypePoirot:   {Name: "Hercule Poirot", Category: models.CategoryDetective, Quantity: 3},
	TypeMarple:   {Name: "Miss Marple", Category: models.CategoryDetective, Quantity: 3},
	TypeTommy:    {Name: "Tommy Beresford", Category: models.CategoryDetective, Quantity: 2},
	TypeTuppence: {Name: "Tuppence Beresford", Category: models.CategoryDetective, Quantity: 2},
	TypeBattle:   {Name: "Superintendent Battle", Category: models.CategoryDetective, Quantity: 4},
	TypeRace:     {Name: "Colonel Race", Category: models.CategoryDetective, Quantity: 4},
	TypePyne:     {Name: "Parker Pyne", Category: models.CategoryDetective, Quantity: 4},
	TypeQuin:     {Name: "Harley Quin", Category: models.CategoryDetective, Quantity: 3},
	TypeOliver:   {Name: "Ariadne Oliver", Category: models.CategoryDetective, Quantity: 2},

	TypeAccusation: {Name: "Accusation", Category: models.CategoryEvent, Quantity: 4},
	TypeRumour:     {Name: "Rumour", Category: models.CategoryEvent, Quantity: 6},
	TypeAlibi:      {Name: "Alibi", Category: models.CategoryEvent, Quantity: 4},
	TypeSleight:    {Name: "Sleight of Hand", Category: models.CategoryDevious, Quantity: 3},

	TypeNotSoFast: {Name: "Not So Fast", Category: models.CategoryInstant, Quantity: 10},

	TypeCommonSecret:     {Name: "Secret", Category: models.CategorySecret},
	TypeMurdererSecret:   {Name: "I Am the Murderer", Category: models.CategorySecret},
	TypeAccompliceSecret: {Name: "I Am the Accomplice", Category: models.CategorySecret},
}

// Get returns the definition for a type id, and whether it exists.
func Get(t models.TypeID) (Def, bool) {
	d, ok := defs[t]
	return d, ok
}

// Category returns the category of a known type id. Callers must have
// validated the id via Get first; unknown ids yield the zero Category.
func Category(t models.TypeID) models.Category {
	return defs[t].Category
}

// IsDetective reports whether t is a known detective type.
func IsDetective(t models.TypeID) bool {
	d, ok := defs[t]
	return ok && d.Category == models.CategoryDetective
}

// IsSpecial reports whether t is one of the two triple-only investigators.
func IsSpecial(t models.TypeID) bool {
	return t == TypePoirot || t == TypeMarple
}

// DeckTypes returns every non-secret type id with its printed quantity, in a
// stable order. Used to mint the draw pile at game start.
func DeckTypes() []models.TypeID {
	ordered := []models.TypeID{
		TypePoirot, TypeMarple, TypeTommy, TypeTuppence,
		TypeBattle, TypeRace, TypePyne, TypeQuin, TypeOliver,
		TypeAccusation, TypeRumour, TypeAlibi, TypeSleight,
		TypeNotSoFast,
	}
	out := make([]models.TypeID, 0, 64)
	for _, t := range ordered {
		for i := 0; i < defs[t].Quantity; i++ {
			out = append(out, t)
		}
	}
	return out
}
