package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
)

type MockCatalog struct {
	entity.Catalog
	Unit string `db:"unit" json:"unit"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version",
		"created_at", "updated_at", "created_by", "updated_by",
		"code", "name", "active", "unit",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap(t *testing.T) {
	cat := MockCatalog{
		Catalog: entity.NewCatalog("BOLT-M8", "Hex bolt M8"),
		Unit:    "pc",
	}
	cat.Version = 5
	cat.DeletionMark = true

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "BOLT-M8", m["code"])
	assert.Equal(t, "Hex bolt M8", m["name"])
	assert.Equal(t, true, m["active"])
	assert.Equal(t, "pc", m["unit"])
}
