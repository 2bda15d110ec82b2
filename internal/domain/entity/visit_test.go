package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tigerroll/mapchat/internal/domain/entity"
)

func TestParseSemanticType(t *testing.T) {
	st, err := entity.ParseSemanticType("")
	assert.NoError(t, err)
	assert.Equal(t, entity.SemanticUnknown, st)

	st, err = entity.ParseSemanticType("INFERRED_HOME")
	assert.NoError(t, err)
	assert.Equal(t, entity.SemanticInferredHome, st)

	_, err = entity.ParseSemanticType("ALIASED_LOCATION")
	assert.Error(t, err)

	// the constraint is case sensitive
	_, err = entity.ParseSemanticType("home")
	assert.Error(t, err)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "visit", entity.Visit{}.TableName())
	assert.Equal(t, "raw_place", entity.RawPlace{}.TableName())
	assert.Equal(t, "places", entity.Place{}.TableName())
	assert.Equal(t, "chat", entity.ChatTurn{}.TableName())
	assert.Len(t, entity.PlaceColumns, 37)
	assert.Len(t, entity.SemanticTypes, 6)
}
