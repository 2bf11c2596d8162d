package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/academia/core/user"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
)

// CreateUser seeds a user into the in-memory database.
func CreateUser(t *testing.T, db *inmemdb.DB, id, uname, name, pwd string, role user.Role, department ...string) user.User {
	t.Helper()
	usr := user.User{
		ID:       id,
		Name:     name,
		Username: strings.ToLower(uname),
		Role:     role,
	}
	if len(department) > 0 {
		usr.Department = department[0]
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	db.LoadUsers(usr)
	return usr
}

// Workbook builds an xlsx file whose first sheet ("Sheet1") holds `rows`.
// Strings are stored as text cells, numbers as numeric cells.
func Workbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		row := row
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Workbook() failed: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("Workbook() failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Workbook() failed: %v", err)
	}
	return buf.Bytes()
}

// ReadWorkbook returns the raw values of the first sheet of an xlsx file.
func ReadWorkbook(t *testing.T, data []byte) (sheet string, rows [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadWorkbook() failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheet = f.GetSheetList()[0]
	rows, err = f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("ReadWorkbook() failed: %v", err)
	}
	return sheet, rows
}
