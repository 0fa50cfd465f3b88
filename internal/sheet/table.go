package sheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/harvestrank-cli/internal/product"
)

var (
	ErrMissingValue    = errors.New("value is empty")
	ErrNotNumeric      = errors.New("value is not a number")
	ErrFractionalCycle = errors.New("harvest cycle must be a whole number of days")
	ErrCycleOutOfRange = errors.New("harvest cycle is out of range")
)

func buildTable(g *Grid) (*product.Table, []product.RowError, error) {
	var header []string
	if len(g.Rows) > 0 {
		header = make([]string, len(g.Rows[0]))
		for i, h := range g.Rows[0] {
			header[i] = strings.TrimSpace(h)
		}
	}
	t := &product.Table{Columns: make([]product.Column, len(header))}
	for i, h := range header {
		t.Columns[i] = product.Column{Name: h, Format: g.format(i)}
	}
	t.DaysCol = t.ColumnIndex(product.ColumnDays)
	t.PriceCol = t.ColumnIndex(product.ColumnPrice)
	available := nonEmpty(header)
	if t.DaysCol < 0 {
		return nil, nil, &product.MissingColumnError{Column: product.ColumnDays, Available: available}
	}
	if t.PriceCol < 0 {
		return nil, nil, &product.MissingColumnError{Column: product.ColumnPrice, Available: available}
	}

	ncol := len(header)
	numCnt := make([]int, ncol)
	txtCnt := make([]int, ncol)
	var faults []product.RowError
	for i := 1; i < len(g.Rows); i++ {
		row := make([]string, ncol)
		copy(row, g.Rows[i])
		if isBlank(row) {
			continue
		}
		numbers := make([]bool, ncol)
		for j, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if g.isNumber(i, j) {
				numbers[j] = true
				numCnt[j]++
			} else {
				txtCnt[j]++
			}
		}
		// header is sheet row 1
		rec := product.Record{Row: i + 1, Values: row, Numbers: numbers}
		days, err := parseDays(row[t.DaysCol])
		if err != nil {
			faults = append(faults, product.RowError{Row: rec.Row, Err: fmt.Errorf("%s: %w", product.ColumnDays, err)})
			continue
		}
		price, err := parseCell(row[t.PriceCol])
		if err != nil {
			faults = append(faults, product.RowError{Row: rec.Row, Err: fmt.Errorf("%s: %w", product.ColumnPrice, err)})
			continue
		}
		rec.Days = days
		rec.Price = price
		t.Records = append(t.Records, rec)
	}
	for j := range t.Columns {
		t.Columns[j].Numeric = numCnt[j] > 0 && txtCnt[j] == 0
	}
	return t, faults, nil
}

func parseCell(s string) (float64, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, ErrMissingValue
	}
	x, ok := parseNumber(v)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, v)
	}
	return x, nil
}

func parseDays(s string) (int, error) {
	x, err := parseCell(s)
	if err != nil {
		return 0, err
	}
	if x != math.Trunc(x) {
		return 0, fmt.Errorf("%w (got %v)", ErrFractionalCycle, x)
	}
	if math.Abs(x) > math.MaxInt32 {
		return 0, fmt.Errorf("%w (got %v)", ErrCycleOutOfRange, x)
	}
	return int(x), nil
}

// parseNumber reads the Dias and Venda cells. It accepts '.' or ',' as decimal separator and drops thousands separators.
func parseNumber(s string) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := '.'
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	if cpos >= 0 && cpos > dpos {
		dec = ','
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// outputRows lays out the input columns followed by the computed ones.
// Computed columns already present in the input are overwritten in place.
// Pass-through cells keep their source type; Dias and Venda are written as
// the parsed values.
func outputRows(t *product.Table) ([]string, [][]any) {
	header := t.ColumnNames()
	revIdx := t.ColumnIndex(product.ColumnRevenue)
	if revIdx < 0 {
		revIdx = len(header)
		header = append(header, product.ColumnRevenue)
	}
	tierIdx := t.ColumnIndex(product.ColumnTier)
	if tierIdx < 0 {
		tierIdx = len(header)
		header = append(header, product.ColumnTier)
	}
	rows := make([][]any, 0, len(t.Records))
	for _, r := range t.Records {
		cells := make([]any, len(header))
		for j, v := range r.Values {
			if j >= len(t.Columns) {
				break
			}
			switch {
			case j == t.DaysCol:
				cells[j] = r.Days
			case j == t.PriceCol:
				cells[j] = r.Price
			case strings.TrimSpace(v) == "":
			case r.IsNumber(j):
				if x, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
					cells[j] = x
				} else {
					cells[j] = v
				}
			default:
				cells[j] = v
			}
		}
		cells[revIdx] = r.Revenue
		cells[tierIdx] = r.Tier.String()
		rows = append(rows, cells)
	}
	return header, rows
}

// columnFormats lists the source number format of every output column.
func columnFormats(t *product.Table, n int) []product.NumberFormat {
	out := make([]product.NumberFormat, n)
	for j, c := range t.Columns {
		if j < n {
			out[j] = c.Format
		}
	}
	return out
}

// plainNumber reports whether s is a number written in canonical form, so
// that storing it as a number and printing it back yields s again.
func plainNumber(s string) bool {
	x, err := strconv.ParseFloat(s, 64)
	return err == nil && strconv.FormatFloat(x, 'f', -1, 64) == s
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func nonEmpty(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
