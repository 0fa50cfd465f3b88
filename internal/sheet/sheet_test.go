package sheet

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/harvestrank-cli/internal/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves rows (header first) into a new workbook at path.
func writeWorkbook(t *testing.T, path, sheetName string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheetName != "" && sheetName != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	} else {
		sheetName = "Sheet1"
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetName, cell, &rows[i]))
	}
	require.NoError(t, f.SaveAs(path))
}

var productRows = [][]any{
	{"Produto", "Dias", "Venda"},
	{"Alface", 7, 10},
	{"Abóbora", 30, 100},
	{"Rúcula", 14, 2.5},
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lista-de-produtos.xlsx")
	writeWorkbook(t, path, "", productRows)

	tbl, faults, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Empty(t, faults)
	assert.Equal(t, "lista-de-produtos.xlsx", tbl.Name)
	assert.Equal(t, []string{"Produto", "Dias", "Venda"}, tbl.ColumnNames())
	assert.Equal(t, 1, tbl.DaysCol)
	assert.Equal(t, 2, tbl.PriceCol)
	assert.False(t, tbl.Columns[0].Numeric)
	assert.True(t, tbl.Columns[1].Numeric)
	assert.True(t, tbl.Columns[2].Numeric)

	require.Len(t, tbl.Records, 3)
	assert.Equal(t, 2, tbl.Records[0].Row)
	assert.Equal(t, 7, tbl.Records[0].Days)
	assert.Equal(t, 10.0, tbl.Records[0].Price)
	assert.Equal(t, "Alface", tbl.Records[0].Values[0])
	assert.Equal(t, 2.5, tbl.Records[2].Price)
}

func TestLoadSelectsSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("Produtos")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"other"}))
	for i, row := range productRows {
		r := row
		require.NoError(t, f.SetSheetRow("Produtos", "A"+string(rune('1'+i)), &r))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, _, err := Load(path, Options{SheetName: "produtos"})
	require.NoError(t, err)
	assert.Len(t, tbl.Records, 3)
	assert.Equal(t, "book.xlsx (sheet: produtos)", tbl.Name)

	tbl, _, err = Load(path, Options{SheetIndex: 2})
	require.NoError(t, err)
	assert.Len(t, tbl.Records, 3)

	_, _, err = Load(path, Options{})
	var mc *product.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, product.ColumnDays, mc.Column)

	_, _, err = Load(path, Options{SheetName: "Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Sheet1, Produtos")

	_, _, err = Load(path, Options{SheetIndex: 5})
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "lista-de-produtos.xlsx"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, _, err := Load("produtos.ods", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = Load("produtos.xlsm", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, Save(filepath.Join(t.TempDir(), "out.xlsm"), classifiedTable()), ErrUnsupportedFormat)
}

func TestLoadRejectsHugeCycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.xlsx")
	writeWorkbook(t, path, "", [][]any{
		{"Produto", "Dias", "Venda"},
		{"Alface", 7, 10},
		{"Eterno", 1e12, 10},
	})

	tbl, faults, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Len(t, tbl.Records, 1)
	require.Len(t, faults, 1)
	assert.Equal(t, 3, faults[0].Row)
	assert.ErrorIs(t, &faults[0], ErrCycleOutOfRange)
	assert.NotErrorIs(t, &faults[0], ErrFractionalCycle)
}

func TestLoadMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.xlsx")
	writeWorkbook(t, path, "", [][]any{{"Produto", "Dias"}, {"Alface", 7}})

	_, _, err := Load(path, Options{})
	var mc *product.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, product.ColumnPrice, mc.Column)
	assert.Equal(t, []string{"Produto", "Dias"}, mc.Available)
}

func TestLoadReportsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.xlsx")
	writeWorkbook(t, path, "", [][]any{
		{"Produto", "Dias", "Venda"},
		{"Alface", 7, 10},
		{"Sem dias", "", 10},
		{nil, nil, nil},
		{"Texto", "semana", 10},
		{"Meio", 7.5, 10},
		{"Sem preço", 14, "caro"},
		{"Zero", 0, 10},
	})

	tbl, faults, err := Load(path, Options{})
	require.NoError(t, err)

	// zero-day rows pass loading and are rejected by the revenue step
	require.Len(t, tbl.Records, 2)
	assert.Equal(t, 2, tbl.Records[0].Row)
	assert.Equal(t, 8, tbl.Records[1].Row)
	assert.Equal(t, 0, tbl.Records[1].Days)

	require.Len(t, faults, 4)
	assert.Equal(t, 3, faults[0].Row)
	assert.ErrorIs(t, &faults[0], ErrMissingValue)
	assert.Equal(t, 5, faults[1].Row)
	assert.ErrorIs(t, &faults[1], ErrNotNumeric)
	assert.Equal(t, 6, faults[2].Row)
	assert.ErrorIs(t, &faults[2], ErrFractionalCycle)
	assert.Equal(t, 7, faults[3].Row)
	assert.ErrorIs(t, &faults[3], ErrNotNumeric)
	assert.Contains(t, faults[3].Error(), "Venda")
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "produtos.csv")
	body := "\xef\xbb\xbfProduto;Dias;Venda\nAlface;7;10\nRúcula;14;2,5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	tbl, faults, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Empty(t, faults)
	assert.Equal(t, "Produto", tbl.Columns[0].Name)
	require.Len(t, tbl.Records, 2)
	assert.Equal(t, 2.5, tbl.Records[1].Price)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10", 10, true},
		{"2,5", 2.5, true},
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{" 7 ", 7, true},
		{"1e3", 1000, true},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, tt.in)
		}
	}
}

func classifiedTable() *product.Table {
	return &product.Table{
		Columns: []product.Column{{Name: "Produto"}, {Name: "Dias", Numeric: true}, {Name: "Venda", Numeric: true}},
		DaysCol: 1, PriceCol: 2,
		Records: []product.Record{
			{Row: 2, Values: []string{"Alface", "7", "10"}, Days: 7, Price: 10, Revenue: 40, Tier: product.TierVeryHigh},
			{Row: 3, Values: []string{"Abóbora", "30", "100"}, Days: 30, Price: 100, Revenue: 0, Tier: product.TierVeryLow},
		},
	}
}

func TestSaveXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plantas_classificadas.xlsx")
	require.NoError(t, Save(path, classifiedTable()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{OutputSheet}, f.GetSheetList())
	rows, err := f.GetRows(OutputSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Produto", "Dias", "Venda", product.ColumnRevenue, product.ColumnTier}, rows[0])
	assert.Equal(t, []string{"Alface", "7", "10", "40", "Very High Profitability"}, rows[1])
	assert.Equal(t, []string{"Abóbora", "30", "100", "0", "Very Low Profitability"}, rows[2])

	// reload: same row count and column set
	tbl, faults, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Empty(t, faults)
	assert.Len(t, tbl.Records, 2)
	assert.Equal(t, rows[0], tbl.ColumnNames())
	tier, err := product.ParseTier(tbl.Records[0].Values[4])
	require.NoError(t, err)
	assert.Equal(t, product.TierVeryHigh, tier)
}

func TestSaveOverwritesComputedColumns(t *testing.T) {
	tbl := classifiedTable()
	tbl.Columns = append(tbl.Columns, product.Column{Name: product.ColumnRevenue, Numeric: true}, product.Column{Name: product.ColumnTier})
	tbl.Records[0].Values = append(tbl.Records[0].Values, "999", "stale")
	tbl.Records[1].Values = append(tbl.Records[1].Values, "999", "stale")

	header, rows := outputRows(tbl)
	assert.Equal(t, []string{"Produto", "Dias", "Venda", product.ColumnRevenue, product.ColumnTier}, header)
	assert.Equal(t, []any{"Alface", 7, 10.0, 40.0, "Very High Profitability"}, rows[0])
}

func TestSaveKeepsPassThroughCells(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "produtos.xlsx")
	planted := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	writeWorkbook(t, in, "", [][]any{
		{"Produto", "Codigo", "Lote", "Plantio", "Dias", "Venda"},
		{"Alface", "007", "1.234", planted, 7, 10},
		{"Couve", "012", "2,5", planted.AddDate(0, 0, 14), 14, 2.5},
	})

	tbl, faults, err := Load(in, Options{})
	require.NoError(t, err)
	require.Empty(t, faults)
	assert.False(t, tbl.Columns[1].Numeric)
	assert.False(t, tbl.Columns[2].Numeric)
	assert.True(t, tbl.Columns[3].Numeric)
	assert.False(t, tbl.Columns[3].Format.IsZero())
	tbl.Records[0].Revenue, tbl.Records[0].Tier = 40, product.TierVeryHigh
	tbl.Records[1].Revenue, tbl.Records[1].Tier = 5, product.TierVeryLow

	out := filepath.Join(dir, "plantas_classificadas.xlsx")
	require.NoError(t, Save(out, tbl))

	src, err := excelize.OpenFile(in)
	require.NoError(t, err)
	defer src.Close()
	wantDate, err := src.GetCellValue("Sheet1", "D2")
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(OutputSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Alface", "007", "1.234", wantDate, "7", "10", "40", "Very High Profitability"}, rows[1])
	assert.Equal(t, []string{"012", "2,5"}, rows[2][1:3])

	typ, err := f.GetCellType(OutputSheet, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeUnset, typ)
	assert.NotEqual(t, excelize.CellTypeNumber, typ)
}

func TestCSVKeepsCodesAsText(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "produtos.csv")
	require.NoError(t, os.WriteFile(in, []byte("Produto;Codigo;Peso;Dias;Venda\nAlface;007;1,5;7;10,5\nCouve;12;2;14;3\n"), 0o644))

	tbl, faults, err := Load(in, Options{})
	require.NoError(t, err)
	require.Empty(t, faults)
	assert.False(t, tbl.Columns[1].Numeric)
	assert.False(t, tbl.Columns[2].Numeric)
	assert.Equal(t, 10.5, tbl.Records[0].Price)

	header, rows := outputRows(tbl)
	assert.Equal(t, []string{"Produto", "Codigo", "Peso", "Dias", "Venda", product.ColumnRevenue, product.ColumnTier}, header)
	assert.Equal(t, []any{"Alface", "007", "1,5", 7, 10.5, 0.0, ""}, rows[0])
	assert.Equal(t, []any{"Couve", 12.0, 2.0, 14, 3.0, 0.0, ""}, rows[1])
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Save(path, classifiedTable()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Produto,Dias,Venda,Venda Total,Categoria Rentabilidade\n"+
		"Alface,7,10,40,Very High Profitability\n"+
		"Abóbora,30,100,0,Very Low Profitability\n", string(b))
}

func TestSaveFailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.xlsx")
	err := Save(path, classifiedTable())
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}
