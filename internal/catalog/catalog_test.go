// internal/catalog/catalog_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sospecha/server/internal/models"
)

func TestDeckTypesComposition(t *testing.T) {
	deck := DeckTypes()
	assert.Len(t, deck, 54)

	counts := make(map[models.TypeID]int)
	for _, typ := range deck {
		counts[typ]++
	}
	for typ, n := range counts {
		d, ok := Get(typ)
		require.True(t, ok, "deck holds unknown type %s", typ)
		assert.Equal(t, d.Quantity, n, "printed quantity of %s", typ)
		assert.NotEqual(t, models.CategorySecret, d.Category, "secrets are minted separately")
	}

	// The order is stable across calls; the game relies on it when minting.
	assert.Equal(t, deck, DeckTypes())
}

func TestGetUnknownType(t *testing.T) {
	_, ok := Get(models.TypeID("mystery"))
	assert.False(t, ok)
}

func TestIsDetective(t *testing.T) {
	assert.True(t, IsDetective(TypeQuin))
	assert.True(t, IsDetective(TypeOliver))
	assert.False(t, IsDetective(TypeRumour))
	assert.False(t, IsDetective(TypeCommonSecret))
	assert.False(t, IsDetective(models.TypeID("mystery")))
}

func TestIsSpecial(t *testing.T) {
	assert.True(t, IsSpecial(TypePoirot))
	assert.True(t, IsSpecial(TypeMarple))
	assert.False(t, IsSpecial(TypeBattle))
	assert.False(t, IsSpecial(Wildcard))
}
