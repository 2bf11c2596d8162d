package spreadsheet_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/services/spreadsheet"
	testutil "github.com/trezcool/academia/tests"
)

func TestXLSXCodec_Decode(t *testing.T) {
	codec := spreadsheet.NewXLSXCodec()

	data := testutil.Workbook(t,
		[]interface{}{"Name", "Roll", "Semester"},
		[]interface{}{"Asha", "101", 3},
		[]interface{}{"Ravi", 102.5},
		[]interface{}{"Mina", true, nil, "extra"},
	)
	g, err := codec.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Roll", "Semester", ""}, g.Headers, "header padded to the widest row")
	require.Equal(t, 3, g.RowCount())
	for _, row := range g.Rows {
		assert.Len(t, row, 4)
		for _, c := range row {
			assert.False(t, c.Editing)
		}
	}
	assert.Equal(t, academics.Text("101"), g.Rows[0][1].Value, "text stays text")
	assert.Equal(t, academics.Number(3), g.Rows[0][2].Value)
	assert.Equal(t, academics.Number(102.5), g.Rows[1][1].Value)
	assert.Equal(t, academics.Text(""), g.Rows[1][2].Value, "missing cells are empty text")
	assert.Equal(t, academics.Text("TRUE"), g.Rows[2][1].Value)
	assert.Equal(t, academics.Text("extra"), g.Rows[2][3].Value)
}

func TestXLSXCodec_Decode_FirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"first"}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]interface{}{"second"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	g, err := spreadsheet.NewXLSXCodec().Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, g.Headers)
	assert.Equal(t, 0, g.RowCount())
}

func TestXLSXCodec_Decode_Errors(t *testing.T) {
	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 512)...)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "plain text", data: []byte("Name,Roll\nAsha,101\n"), wantErr: spreadsheet.ErrNotSpreadsheet},
		{name: "png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), wantErr: spreadsheet.ErrNotSpreadsheet},
		{name: "legacy xls", data: ole, wantErr: spreadsheet.ErrLegacyWorkbook},
		{name: "empty workbook", data: testutil.Workbook(t), wantErr: academics.ErrEmptySheet},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := spreadsheet.NewXLSXCodec().Decode(bytes.NewReader(tc.data))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestXLSXCodec_Encode(t *testing.T) {
	g := academics.NewGrid(
		[]string{"Name", "Roll", "Grade"},
		[][]academics.Value{
			{academics.Text("Asha"), academics.Number(101), academics.Text("A")},
			{academics.Text("Ravi"), academics.Text("102"), academics.Number(8.5)},
		},
	)
	require.NoError(t, g.ToggleEditing(0, 0))

	var buf bytes.Buffer
	require.NoError(t, spreadsheet.NewXLSXCodec().Encode(&buf, g))

	sheet, rows := testutil.ReadWorkbook(t, buf.Bytes())
	assert.Equal(t, "Sheet1", sheet)
	assert.Equal(t, [][]string{
		{"Name", "Roll", "Grade"},
		{"Asha", "101", "A"},
		{"Ravi", "102", "8.5"},
	}, rows)
}

func TestXLSXCodec_RoundTrip(t *testing.T) {
	codec := spreadsheet.NewXLSXCodec()

	// built from edits only
	g := academics.NewGrid(nil, nil)
	require.NoError(t, g.AddColumn("Name"))
	require.NoError(t, g.AddColumn("Roll"))
	require.NoError(t, g.AddColumn("Remarks"))
	g.AddRow()
	g.AddRow()
	require.NoError(t, g.SetCellValue(0, 0, academics.Text("Asha")))
	require.NoError(t, g.SetCellValue(0, 1, academics.Number(101)))
	require.NoError(t, g.SetCellValue(0, 2, academics.Text("0042")))
	require.NoError(t, g.SetCellValue(1, 0, academics.Text("Ravi")))
	require.NoError(t, g.SetCellValue(1, 1, academics.Number(-2.25)))
	require.NoError(t, g.SetCellValue(1, 2, academics.Text("ok")))

	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, g))
	got, err := codec.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.Headers, got.Headers)
	assert.Equal(t, g.Values(), got.Values())
}

func TestXLSXCodec_RoundTrip_BlankRows(t *testing.T) {
	codec := spreadsheet.NewXLSXCodec()

	g := academics.NewGrid(nil, nil)
	require.NoError(t, g.AddColumn("Name"))
	require.NoError(t, g.AddColumn("Roll"))
	require.NoError(t, g.AddColumn("Remarks"))
	g.AddRow()
	g.AddRow() // blank in the middle
	g.AddRow()
	g.AddRow() // blank at the end
	require.NoError(t, g.SetCellValue(0, 0, academics.Text("Asha")))
	require.NoError(t, g.SetCellValue(2, 1, academics.Number(102)))

	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, g))
	got, err := codec.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Roll", "Remarks"}, got.Headers)
	require.Equal(t, 4, got.RowCount())
	assert.Equal(t, g.Values(), got.Values())
}

func TestXLSXCodec_RoundTrip_HeadersOnly(t *testing.T) {
	codec := spreadsheet.NewXLSXCodec()

	g := academics.NewGrid(nil, nil)
	require.NoError(t, g.AddColumn("Name"))
	g.AddRow()

	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, g))
	got, err := codec.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name"}, got.Headers)
	assert.Equal(t, g.Values(), got.Values())
}
