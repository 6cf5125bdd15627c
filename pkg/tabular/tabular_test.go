package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRowRefinesKinds(t *testing.T) {
	tbl := New("n", "x", "s")
	require.NoError(t, tbl.AppendRow([]Value{Null(), Null(), Null()}))
	assert.Equal(t, KindNull, tbl.Columns[0].Kind)

	require.NoError(t, tbl.AppendRow([]Value{Int(1), Float(1.5), Text("a")}))
	assert.Equal(t, KindInt, tbl.Columns[0].Kind)
	assert.Equal(t, KindFloat, tbl.Columns[1].Kind)
	assert.Equal(t, KindText, tbl.Columns[2].Kind)

	// an int column widens to float, a float column absorbs ints
	require.NoError(t, tbl.AppendRow([]Value{Float(2.5), Int(2), Text("b")}))
	assert.Equal(t, KindFloat, tbl.Columns[0].Kind)
	assert.Equal(t, KindFloat, tbl.Columns[1].Kind)

	// anything else degrades to text
	require.NoError(t, tbl.AppendRow([]Value{Text("oops"), Null(), Text("c")}))
	assert.Equal(t, KindText, tbl.Columns[0].Kind)

	assert.Equal(t, 4, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumCols())
}

func TestAppendRowLengthMismatch(t *testing.T) {
	tbl := New("a", "b")
	err := tbl.AppendRow([]Value{Int(1)})
	require.Error(t, err)
	assert.Equal(t, 0, tbl.NumRows())
}

func TestValueArg(t *testing.T) {
	dt := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	assert.Nil(t, Null().Arg())
	assert.Equal(t, int64(7), Int(7).Arg())
	assert.Equal(t, 1.5, Float(1.5).Arg())
	assert.Equal(t, "hi", Text("hi").Arg())
	assert.Equal(t, true, Bool(true).Arg())
	assert.Equal(t, "2024-03-01", Date(dt).Arg())
	assert.Equal(t, "09:30:00", TimeOfDay(dt).Arg())
	assert.Equal(t, dt, DateTime(dt).Arg())
}

func TestValueRender(t *testing.T) {
	dt := time.Date(2024, 3, 1, 9, 30, 15, 0, time.UTC)

	assert.Equal(t, "", Null().Render())
	assert.Equal(t, "42", Int(42).Render())
	assert.Equal(t, "1.5", Float(1.5).Render())
	assert.Equal(t, "hello", Text("hello").Render())
	assert.Equal(t, "1", Bool(true).Render())
	assert.Equal(t, "0", Bool(false).Render())
	assert.Equal(t, "2024-03-01", Date(dt).Render())
	assert.Equal(t, "09:30:15", TimeOfDay(dt).Render())
	assert.Equal(t, "2024-03-01 09:30:15", DateTime(dt).Render())
}

func TestFromDriver(t *testing.T) {
	dt := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, Null(), FromDriver(nil))
	assert.Equal(t, Int(5), FromDriver(int64(5)))
	assert.Equal(t, Int(5), FromDriver(5))
	assert.Equal(t, Float(2.5), FromDriver(2.5))
	assert.Equal(t, Bool(true), FromDriver(true))
	assert.Equal(t, Text("s"), FromDriver("s"))
	assert.Equal(t, Text("bytes"), FromDriver([]byte("bytes")))
	assert.Equal(t, DateTime(dt), FromDriver(dt))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "First_Name", NormalizeName(" First Name "))
	assert.Equal(t, "unit_price", NormalizeName("unit.price"))
	assert.Equal(t, "plain", NormalizeName("plain"))
}

func TestNormalizedColumnNames(t *testing.T) {
	tbl := New(" First Name ", "unit.price", "id")
	assert.Equal(t, []string{"First_Name", "unit_price", "id"}, tbl.NormalizedColumnNames())
}

func TestColumnIndexAndValues(t *testing.T) {
	tbl := New("a", "b")
	require.NoError(t, tbl.AppendRow([]Value{Int(1), Text("x")}))
	require.NoError(t, tbl.AppendRow([]Value{Int(2), Text("y")}))

	assert.Equal(t, 1, tbl.ColumnIndex("b"))
	assert.Equal(t, -1, tbl.ColumnIndex("missing"))
	assert.Equal(t, []Value{Text("x"), Text("y")}, tbl.ColumnValues(1))
}
