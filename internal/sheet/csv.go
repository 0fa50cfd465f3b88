package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/harvestrank-cli/internal/product"
)

type csvFormat struct{}

func (csvFormat) CanHandle(path string) bool { return hasExt(path, ".csv", ".tsv") }

// Read marks a cell as a number only when it is written in canonical form,
// so codes such as "007" and decimal-comma text stay text.
func (csvFormat) Read(path string, opt Options) (*Grid, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, b)
	}
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	r.Comma = delim
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	g := &Grid{Rows: rows, Numbers: make([][]bool, len(rows))}
	for i, row := range rows {
		g.Numbers[i] = make([]bool, len(row))
		for j, v := range row {
			g.Numbers[i][j] = plainNumber(v)
		}
	}
	return g, nil
}

// sniffDelimiter picks tab for .tsv, otherwise the most frequent of ',' ';'
// and tab on the header line.
func sniffDelimiter(path string, data []byte) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestN := ',', strings.Count(line, ",")
	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(line, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}

func (csvFormat) Encode(header []string, rows [][]any, _ []product.NumberFormat) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for _, row := range rows {
		for i := range rec {
			rec[i] = ""
			if i < len(row) {
				rec[i] = formatCell(row[i])
			}
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
