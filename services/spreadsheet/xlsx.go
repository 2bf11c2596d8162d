package spreadsheet

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/academia/core/academics"
)

const (
	xlsxMIME   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	zipMIME    = "application/zip"
	oleMIME    = "application/x-ole-storage"
	exportName = "Sheet1"
)

var (
	ErrLegacyWorkbook = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx")
	ErrNotSpreadsheet = errors.New("file is not a spreadsheet")
)

// XLSXCodec reads and writes Office Open XML workbooks.
type XLSXCodec struct{}

var _ academics.Codec = (*XLSXCodec)(nil)

func NewXLSXCodec() *XLSXCodec { return &XLSXCodec{} }

func (XLSXCodec) Ext() string         { return ".xlsx" }
func (XLSXCodec) ContentType() string { return xlsxMIME }

// Decode reads the first sheet of the workbook. Numeric cells become numbers,
// everything else (shared strings, booleans, dates, errors, formulas) is kept as text.
func (c XLSXCodec) Decode(r io.Reader) (*academics.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading upload")
	}
	if err := sniff(data); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, academics.ErrEmptySheet
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, academics.ErrEmptySheet
	}
	rows, err = padToDimension(f, sheet, rows)
	if err != nil {
		return nil, err
	}

	headers := make([]string, len(rows[0]))
	copy(headers, rows[0])

	values := make([][]academics.Value, 0, len(rows)-1)
	for i, row := range rows[1:] {
		vals := make([]academics.Value, len(row))
		for j, raw := range row {
			v, err := cellValue(f, sheet, j+1, i+2, raw)
			if err != nil {
				return nil, err
			}
			vals[j] = v
		}
		values = append(values, vals)
	}
	return academics.NewGrid(headers, values), nil
}

// Encode writes the headers and values into a new workbook with a single sheet "Sheet1".
func (c XLSXCodec) Encode(w io.Writer, g *academics.Grid) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile creates "Sheet1"
	if err := writeRow(f, 1, toInterfaces(g.Headers)); err != nil {
		return err
	}
	for i, row := range g.Values() {
		vals := make([]interface{}, len(row))
		for j, v := range row {
			vals[j] = v.Interface()
		}
		if err := writeRow(f, i+2, vals); err != nil {
			return err
		}
	}
	// empty cells are not stored, the dimension keeps trailing blank rows and columns
	if cols := g.ColumnCount(); cols > 0 {
		last, err := excelize.CoordinatesToCellName(cols, g.RowCount()+1)
		if err != nil {
			return errors.Wrap(err, "computing sheet dimension")
		}
		if err := f.SetSheetDimension(exportName, "A1:"+last); err != nil {
			return errors.Wrap(err, "setting sheet dimension")
		}
	}
	return errors.Wrap(f.Write(w), "writing workbook")
}

// padToDimension extends `rows` with empty rows and cells up to the sheet's declared dimension.
// A missing or unreadable dimension leaves the rows as read.
func padToDimension(f *excelize.File, sheet string, rows [][]string) ([][]string, error) {
	dim, err := f.GetSheetDimension(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading dimension of %q", sheet)
	}
	parts := strings.Split(dim, ":")
	if dim == "" || len(parts) != 2 {
		return rows, nil
	}
	lastCol, lastRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return rows, nil
	}
	for len(rows) < lastRow {
		rows = append(rows, nil)
	}
	for len(rows[0]) < lastCol {
		rows[0] = append(rows[0], "")
	}
	return rows, nil
}

func writeRow(f *excelize.File, rowNum int, vals []interface{}) error {
	if len(vals) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.Wrapf(err, "row %d", rowNum)
	}
	return errors.Wrapf(f.SetSheetRow(exportName, cell, &vals), "writing row %d", rowNum)
}

func cellValue(f *excelize.File, sheet string, col, row int, raw string) (academics.Value, error) {
	if raw == "" {
		return academics.Text(""), nil
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return academics.Value{}, errors.Wrapf(err, "cell %d:%d", col, row)
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return academics.Value{}, errors.Wrapf(err, "reading type of %s", axis)
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if num, err := strconv.ParseFloat(raw, 64); err == nil {
			return academics.Number(num), nil
		}
	case excelize.CellTypeBool:
		if raw == "1" {
			return academics.Text("TRUE"), nil
		} else if raw == "0" {
			return academics.Text("FALSE"), nil
		}
	}
	return academics.Text(raw), nil
}

// sniff rejects payloads that cannot be an OOXML workbook before excelize parses them.
func sniff(data []byte) error {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is(xlsxMIME), m.Is(zipMIME):
			return nil
		case m.Is(oleMIME):
			return ErrLegacyWorkbook
		}
	}
	return errors.Wrap(ErrNotSpreadsheet, mt.String())
}

func toInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
