package product

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierLabelsRoundTrip(t *testing.T) {
	for i, tier := range Tiers() {
		assert.Equal(t, i+1, tier.Rank())
		got, err := ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, got)
	}
	assert.Equal(t, "", TierUnset.String())

	_, err := ParseTier("Muito Alta Rentabilidade")
	assert.Error(t, err)
}

func TestTableHelpers(t *testing.T) {
	tbl := &Table{
		Columns: []Column{{Name: "Produto"}, {Name: " Dias "}, {Name: "Venda"}},
		Records: []Record{{Revenue: 40}, {Revenue: 0}},
	}
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []float64{40, 0}, tbl.Revenues())
	assert.Equal(t, 1, tbl.ColumnIndex(ColumnDays))
	assert.Equal(t, -1, tbl.ColumnIndex(ColumnTier))
	assert.Equal(t, []string{"Produto", " Dias ", "Venda"}, tbl.ColumnNames())

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
}

func TestRowErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("load: %w", &RowError{Row: 4, Err: cause})
	assert.ErrorIs(t, err, cause)

	var re *RowError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 4, re.Row)
	assert.Equal(t, "row 4: boom", re.Error())
}

func TestMissingColumnErrorMessage(t *testing.T) {
	err := &MissingColumnError{Column: ColumnDays, Available: []string{"Produto", "Venda"}}
	assert.Contains(t, err.Error(), `"Dias"`)
	assert.Contains(t, err.Error(), "Produto, Venda")

	empty := &MissingColumnError{Column: ColumnPrice}
	assert.Contains(t, empty.Error(), "no header")
}
