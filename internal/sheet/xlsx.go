package sheet

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/harvestrank-cli/internal/product"
	"github.com/xuri/excelize/v2"
)

// OutputSheet is the worksheet name used when writing workbooks.
const OutputSheet = "Sheet1"

type xlsxFormat struct{}

// CanHandle accepts .xlsx only; macro-enabled packages are not written.
func (xlsxFormat) CanHandle(path string) bool { return hasExt(path, ".xlsx") }

func (xlsxFormat) Read(path string, opt Options) (*Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	name, err := selectSheet(f.GetSheetList(), opt)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	g := &Grid{Rows: rows, Numbers: make([][]bool, len(rows))}
	for i, row := range rows {
		g.Numbers[i] = make([]bool, len(row))
		if len(row) > len(g.Formats) {
			g.Formats = append(g.Formats, make([]product.NumberFormat, len(row)-len(g.Formats))...)
		}
		for j, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, cell)
			if err != nil {
				return nil, fmt.Errorf("read cell %s: %w", cell, err)
			}
			// numbers are stored without a type attribute
			if typ != excelize.CellTypeUnset && typ != excelize.CellTypeNumber {
				continue
			}
			g.Numbers[i][j] = true
			if i > 0 && g.Formats[j].IsZero() {
				g.Formats[j] = numberFormat(f, name, cell)
			}
		}
	}
	return g, nil
}

func numberFormat(f *excelize.File, sheet, cell string) product.NumberFormat {
	idx, err := f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return product.NumberFormat{}
	}
	st, err := f.GetStyle(idx)
	if err != nil || st == nil {
		return product.NumberFormat{}
	}
	nf := product.NumberFormat{ID: st.NumFmt}
	if st.CustomNumFmt != nil {
		nf.Custom = *st.CustomNumFmt
	}
	return nf
}

func selectSheet(sheets []string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s", opt.SheetName, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return sheets[idx-1], nil
}

func (xlsxFormat) Encode(header []string, rows [][]any, formats []product.NumberFormat) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(OutputSheet, "A1", &hdr); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if len(header) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(OutputSheet, "A1", last, style); err != nil {
			return nil, fmt.Errorf("header style: %w", err)
		}
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(OutputSheet, cell, &rows[i]); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if len(rows) > 0 {
		for j, nf := range formats {
			if nf.IsZero() {
				continue
			}
			st := &excelize.Style{NumFmt: nf.ID}
			if nf.Custom != "" {
				custom := nf.Custom
				st.CustomNumFmt = &custom
			}
			style, err := f.NewStyle(st)
			if err != nil {
				return nil, fmt.Errorf("column %d style: %w", j+1, err)
			}
			top, err := excelize.CoordinatesToCellName(j+1, 2)
			if err != nil {
				return nil, err
			}
			bottom, err := excelize.CoordinatesToCellName(j+1, len(rows)+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(OutputSheet, top, bottom, style); err != nil {
				return nil, fmt.Errorf("column %d style: %w", j+1, err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
