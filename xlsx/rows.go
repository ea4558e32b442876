// Package xlsx reads spreadsheet rows for merging. The first row of the sheet
// holds the column headers; every following non-blank row becomes one
// docmerge.Row in file order.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/docmerge"
)

var (
	// ErrNoSheet is returned when the workbook has no (matching) sheet.
	ErrNoSheet = errors.New("sheet not found")
	// ErrNoHeader is returned when data rows exist but the first row has no
	// column names.
	ErrNoHeader = errors.New("header row is empty")
)

// Options controls how rows are read.
type Options struct {
	Sheet string // sheet name; empty selects the first sheet
}

// Sheet holds the rows of one worksheet.
type Sheet struct {
	Name   string
	Header []string
	rows   []docmerge.Row
}

// Open reads the workbook at path.
func Open(path string, opts Options) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readWorkbook(f, opts)
}

// Read reads a workbook from r.
func Read(r io.Reader, opts Options) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readWorkbook(f, opts)
}

// Len returns the number of data rows (the header is not counted).
func (s *Sheet) Len() int {
	return len(s.rows)
}

// Row returns data row i (0-based).
func (s *Sheet) Row(i int) (docmerge.Row, error) {
	if i < 0 || i >= len(s.rows) {
		return nil, fmt.Errorf("row %d out of range [0,%d)", i, len(s.rows))
	}
	return s.rows[i], nil
}

func readWorkbook(f *excelize.File, opts Options) (*Sheet, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	name := sheets[0]
	if opts.Sheet != "" {
		found := false
		for _, sh := range sheets {
			if sh == opts.Sheet {
				name, found = sh, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrNoSheet, opts.Sheet)
		}
	}

	// rows[i] is sheet row i+1; missing rows come back empty.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	out := &Sheet{Name: name}
	if len(rows) == 0 {
		return out, nil
	}

	// column index -> header text
	columns := make(map[int]string)
	seen := make(map[string]int)
	for idx, raw := range rows[0] {
		col := strings.TrimSpace(raw)
		if col == "" {
			continue
		}
		// Repeated headers get a ".N" suffix so no column is shadowed.
		if n, dup := seen[col]; dup {
			seen[col] = n + 1
			col = col + "." + strconv.Itoa(n+1)
		} else {
			seen[col] = 0
		}
		columns[idx] = col
		out.Header = append(out.Header, col)
	}

	for i, row := range rows[1:] {
		rec := make(docmerge.Row, len(columns))
		blank := true
		for idx, raw := range row {
			if raw == "" {
				continue
			}
			blank = false
			col, ok := columns[idx]
			if !ok {
				continue
			}
			v, err := cellValue(f, name, idx, i+2, raw)
			if err != nil {
				return nil, err
			}
			rec[col] = v
		}
		if blank {
			continue
		}
		if len(columns) == 0 {
			return nil, fmt.Errorf("%w: sheet %q has data from row %d", ErrNoHeader, name, i+2)
		}
		if len(rec) == 0 {
			continue
		}
		out.rows = append(out.rows, rec)
	}

	return out, nil
}

// cellValue converts the raw text of a cell to float64, bool or string.
// col is 0-based, row is the 1-based sheet row.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) (any, error) {
	ref, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return nil, err
	}
	switch typ {
	case excelize.CellTypeBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b, nil
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n, nil
		}
	}
	return raw, nil
}
