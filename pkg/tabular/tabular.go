// Package tabular provides the in-memory table type exchanged with the store:
// ordered named columns, ordered rows, and a closed set of cell value kinds.
package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the primitive type of a cell value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindDate
	KindTime
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the supported cell kinds. The zero Value is null.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
	Bool  bool
	Time  time.Time
}

func Null() Value                 { return Value{Kind: KindNull} }
func Int(v int64) Value           { return Value{Kind: KindInt, Int: v} }
func Float(v float64) Value       { return Value{Kind: KindFloat, Float: v} }
func Text(v string) Value         { return Value{Kind: KindText, Str: v} }
func Bool(v bool) Value           { return Value{Kind: KindBool, Bool: v} }
func Date(v time.Time) Value      { return Value{Kind: KindDate, Time: v} }
func TimeOfDay(v time.Time) Value { return Value{Kind: KindTime, Time: v} }
func DateTime(v time.Time) Value  { return Value{Kind: KindDateTime, Time: v} }

// IsNull reports whether the value is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Arg converts the value into a driver-bindable argument.
func (v Value) Arg() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindText:
		return v.Str
	case KindBool:
		return v.Bool
	case KindDate:
		return v.Time.Format("2006-01-02")
	case KindTime:
		return v.Time.Format("15:04:05")
	case KindDateTime:
		return v.Time
	default:
		return nil
	}
}

// Render returns the display form of the value. Used both for console output
// and for measuring text length during type inference.
func (v Value) Render() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindText:
		return v.Str
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindDate:
		return v.Time.Format("2006-01-02")
	case KindTime:
		return v.Time.Format("15:04:05")
	case KindDateTime:
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// FromDriver converts a value scanned from database/sql into a Value.
func FromDriver(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case int64:
		return Int(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case float64:
		return Float(t)
	case float32:
		return Float(float64(t))
	case bool:
		return Bool(t)
	case string:
		return Text(t)
	case []byte:
		return Text(string(t))
	case time.Time:
		return DateTime(t)
	default:
		return Text(fmt.Sprint(t))
	}
}

// Column describes one table column: its name and dominant value kind.
type Column struct {
	Name string
	Kind Kind
}

// Table is an in-memory tabular value. Rows are positionally aligned with
// Columns. A Table with zero rows is a valid, explicitly-empty result.
type Table struct {
	Columns []Column
	Rows    [][]Value
}

// New creates an empty table with the given column names. Kinds start as null
// and are refined as rows are appended.
func New(names ...string) *Table {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Kind: KindNull}
	}
	return &Table{Columns: cols, Rows: [][]Value{}}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// AppendRow adds a row and refines column kinds from non-null cells. The row
// length must match the column count.
func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	for i, v := range row {
		if v.Kind == KindNull {
			continue
		}
		switch t.Columns[i].Kind {
		case KindNull:
			t.Columns[i].Kind = v.Kind
		case v.Kind:
			// unchanged
		case KindInt:
			// int column widens to float, anything else degrades to text
			if v.Kind == KindFloat {
				t.Columns[i].Kind = KindFloat
			} else {
				t.Columns[i].Kind = KindText
			}
		case KindFloat:
			if v.Kind != KindInt {
				t.Columns[i].Kind = KindText
			}
		default:
			t.Columns[i].Kind = KindText
		}
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnValues returns all values of the column at index i.
func (t *Table) ColumnValues(i int) []Value {
	vals := make([]Value, len(t.Rows))
	for r, row := range t.Rows {
		vals[r] = row[i]
	}
	return vals
}

// NormalizeName strips leading and trailing whitespace and replaces internal
// spaces and periods with underscores. Applied to column headers before they
// are embedded in SQL text or used as type-inference keys.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ".", "_")
	return name
}

// NormalizedColumnNames returns the column names after NormalizeName.
func (t *Table) NormalizedColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = NormalizeName(c.Name)
	}
	return names
}
