package irissql

import (
	"github.com/irisworks/datadesk/pkg/tabular"
)

const (
	maxVarcharLength = 255

	int32Min = -2147483648
	int32Max = 2147483647
)

// InferColumnTypes maps each column of a tabular value to an IRIS SQL type.
// Keys are normalized column names. The function is pure and never fails for
// a well-formed table.
//
// Precedence per column:
//  1. integer  -> BIGINT when any value leaves the signed 32-bit range, else INT
//  2. float    -> DOUBLE
//  3. datetime -> DATE when every value is at midnight, TIME when every value
//     sits on the epoch date, else DATETIME
//  4. date     -> DATE, time -> TIME
//  5. text     -> VARCHAR(255), or CLOB when the longest rendered value
//     exceeds 255 characters
//  6. bool     -> BIT
//  7. anything else (e.g. an all-null column) -> VARCHAR(255)
func InferColumnTypes(t *tabular.Table) map[string]string {
	types := make(map[string]string, len(t.Columns))

	for i, col := range t.Columns {
		name := tabular.NormalizeName(col.Name)
		values := t.ColumnValues(i)

		switch col.Kind {
		case tabular.KindInt:
			types[name] = inferIntegerType(values)
		case tabular.KindFloat:
			types[name] = "DOUBLE"
		case tabular.KindDateTime:
			types[name] = inferDateTimeType(values)
		case tabular.KindDate:
			types[name] = "DATE"
		case tabular.KindTime:
			types[name] = "TIME"
		case tabular.KindText:
			types[name] = inferTextType(values)
		case tabular.KindBool:
			types[name] = "BIT"
		default:
			types[name] = "VARCHAR(255)"
		}
	}
	return types
}

func inferIntegerType(values []tabular.Value) string {
	for _, v := range values {
		if v.Kind != tabular.KindInt {
			continue
		}
		if v.Int > int32Max || v.Int < int32Min {
			return "BIGINT"
		}
	}
	return "INT"
}

// inferDateTimeType narrows a datetime column by inspecting actual values:
// all-midnight means the time component carries no information (DATE), all
// values on the epoch date means only the time component does (TIME).
func inferDateTimeType(values []tabular.Value) string {
	allMidnight := true
	allEpochDate := true
	sawValue := false

	for _, v := range values {
		if v.Kind != tabular.KindDateTime {
			continue
		}
		sawValue = true
		h, m, s := v.Time.Clock()
		if h != 0 || m != 0 || s != 0 || v.Time.Nanosecond() != 0 {
			allMidnight = false
		}
		y, mo, d := v.Time.Date()
		if y != 1970 || mo != 1 || d != 1 {
			allEpochDate = false
		}
	}

	if !sawValue {
		return "DATETIME"
	}
	if allMidnight {
		return "DATE"
	}
	if allEpochDate {
		return "TIME"
	}
	return "DATETIME"
}

func inferTextType(values []tabular.Value) string {
	maxLen := 0
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if l := len(v.Render()); l > maxLen {
			maxLen = l
		}
	}
	if maxLen > maxVarcharLength {
		return "CLOB"
	}
	return "VARCHAR(255)"
}
