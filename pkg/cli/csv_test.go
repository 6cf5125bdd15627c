package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irisworks/datadesk/pkg/tabular"
)

func TestParseCell(t *testing.T) {
	assert.Equal(t, tabular.Null(), parseCell(""))
	assert.Equal(t, tabular.Int(42), parseCell("42"))
	assert.Equal(t, tabular.Int(-7), parseCell("-7"))
	assert.Equal(t, tabular.Float(1.5), parseCell("1.5"))
	assert.Equal(t, tabular.Bool(true), parseCell("true"))
	assert.Equal(t, tabular.Bool(false), parseCell("FALSE"))
	assert.Equal(t, tabular.Text("hello world"), parseCell("hello world"))

	assert.Equal(t,
		tabular.DateTime(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)),
		parseCell("2024-03-01 09:30:00"))
	assert.Equal(t,
		tabular.DateTime(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)),
		parseCell("2024-03-01T09:30:00"))
	assert.Equal(t,
		tabular.Date(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		parseCell("2024-03-01"))
	assert.Equal(t,
		tabular.TimeOfDay(time.Date(0, 1, 1, 9, 30, 0, 0, time.UTC)),
		parseCell("09:30:00"))
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	content := "Name,Age,Salary,Hired\n" +
		"Ada,36,120000.5,2020-01-15\n" +
		"Grace,40,,2018-06-01\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tbl, err := readCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Age", "Salary", "Hired"}, tbl.ColumnNames())
	require.Equal(t, 2, tbl.NumRows())

	assert.Equal(t, tabular.Text("Ada"), tbl.Rows[0][0])
	assert.Equal(t, tabular.Int(36), tbl.Rows[0][1])
	assert.Equal(t, tabular.Float(120000.5), tbl.Rows[0][2])
	assert.Equal(t, tabular.KindDate, tbl.Rows[0][3].Kind)
	assert.True(t, tbl.Rows[1][2].IsNull())

	// column kinds refined from the cells
	assert.Equal(t, tabular.KindText, tbl.Columns[0].Kind)
	assert.Equal(t, tabular.KindInt, tbl.Columns[1].Kind)
	assert.Equal(t, tabular.KindFloat, tbl.Columns[2].Kind)
	assert.Equal(t, tabular.KindDate, tbl.Columns[3].Kind)
}

func TestReadCSVMalformedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	content := "Name,Age\n" +
		"Ada,36\n" +
		"\"Gra\"ce,40\n" +
		"Edsger,39\n" +
		"Barbara,41\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := readCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read csv record")
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := readCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
