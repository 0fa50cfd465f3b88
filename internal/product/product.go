package product

import "strings"

// Column names used by the input and output spreadsheets.
const (
	ColumnDays    = "Dias"
	ColumnPrice   = "Venda"
	ColumnRevenue = "Venda Total"
	ColumnTier    = "Categoria Rentabilidade"
)

// Column describes one header of the source table.
type Column struct {
	Name string
	// Numeric is true when every non-empty cell of the column was stored as a number.
	Numeric bool
	// Format is the number format of the column's numeric cells, if the source had one.
	Format NumberFormat
}

// NumberFormat is a spreadsheet display format: a built-in ID or a custom code.
type NumberFormat struct {
	ID     int
	Custom string
}

// IsZero reports whether no format is set.
func (f NumberFormat) IsZero() bool { return f.ID == 0 && f.Custom == "" }

// Record is one product row. Values keeps the input cells in column order and
// Numbers marks the cells that were stored as numbers in the source.
type Record struct {
	Row     int
	Values  []string
	Numbers []bool
	Days    int
	Price   float64
	Revenue float64
	Tier    Tier
}

// IsNumber reports whether cell i was stored as a number.
func (r *Record) IsNumber(i int) bool { return i < len(r.Numbers) && r.Numbers[i] }

// Table is the ordered set of product records sharing one column schema.
type Table struct {
	Name     string
	Columns  []Column
	Records  []Record
	DaysCol  int
	PriceCol int
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Revenues returns the monthly revenue of every record in table order.
func (t *Table) Revenues() []float64 {
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.Revenue
	}
	return out
}

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.TrimSpace(c.Name) == name {
			return i
		}
	}
	return -1
}

// ColumnNames lists the headers in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Thresholds are the percentile cut points of monthly revenue for one batch.
type Thresholds struct {
	P20 float64 `json:"p20"`
	P40 float64 `json:"p40"`
	P60 float64 `json:"p60"`
	P80 float64 `json:"p80"`
}
