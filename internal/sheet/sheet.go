package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/harvestrank-cli/internal/product"
	"github.com/KaramelBytes/harvestrank-cli/internal/utils"
)

// Options controls how a workbook is read.
type Options struct {
	// SheetName selects a worksheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based worksheet position, used when SheetName is empty.
	SheetIndex int
	// Delimiter for CSV. If 0, it is sniffed from the extension and header line.
	Delimiter rune
}

// Grid is the raw content of one sheet, header first.
type Grid struct {
	Rows [][]string
	// Numbers marks cells stored as numbers; a missing entry means text.
	Numbers [][]bool
	// Formats holds one number format per column, taken from its first numeric data cell.
	Formats []product.NumberFormat
}

func (g *Grid) isNumber(i, j int) bool {
	return i < len(g.Numbers) && j < len(g.Numbers[i]) && g.Numbers[i][j]
}

func (g *Grid) format(j int) product.NumberFormat {
	if j < len(g.Formats) {
		return g.Formats[j]
	}
	return product.NumberFormat{}
}

// Format reads and writes one tabular file type.
type Format interface {
	CanHandle(path string) bool
	// Read returns every row of the selected sheet with the source cell types.
	Read(path string, opt Options) (*Grid, error)
	// Encode renders a header and typed rows (string, int, float64 or nil
	// cells). formats carries a number format per column and may be ignored.
	Encode(header []string, rows [][]any, formats []product.NumberFormat) ([]byte, error)
}

var registry []Format

// Register adds a format implementation to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// ErrUnsupportedFormat indicates no registered format handles the file extension.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

func formatFor(path string) (Format, error) {
	for _, f := range registry {
		if f.CanHandle(path) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (use .xlsx, .csv or .tsv)", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads path into a product table. Rows whose harvest cycle or price
// cannot be read are left out of the table and returned as row faults.
func Load(path string, opt Options) (*product.Table, []product.RowError, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("input file: %w", err)
	}
	g, err := f.Read(path, opt)
	if err != nil {
		return nil, nil, err
	}
	t, faults, err := buildTable(g)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	t.Name = filepath.Base(path)
	if opt.SheetName != "" {
		t.Name = fmt.Sprintf("%s (sheet: %s)", t.Name, opt.SheetName)
	}
	return t, faults, nil
}

// Save writes the table with its computed revenue and tier columns. The file
// is replaced atomically, so a failed save never leaves a partial output.
func Save(path string, t *product.Table) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	header, rows := outputRows(t)
	b, err := f.Encode(header, rows, columnFormats(t, len(header)))
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func hasExt(path string, exts ...string) bool {
	lower := strings.ToLower(path)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(xlsxFormat{})
	Register(csvFormat{})
}
