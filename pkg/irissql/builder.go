package irissql

import (
	"fmt"
	"sort"
	"strings"
)

// ColumnDef is one column of a CREATE TABLE statement.
type ColumnDef struct {
	Name string
	Type string
}

// ObjectKind selects the target of a DROP statement.
type ObjectKind string

const (
	ObjectTable ObjectKind = "TABLE"
	ObjectView  ObjectKind = "VIEW"
)

// IndexKind names the supported index forms. The kind is embedded in DDL
// text, so only members of this closed set are accepted.
type IndexKind string

const (
	IndexDefault  IndexKind = "index"
	IndexUnique   IndexKind = "unique"
	IndexBitmap   IndexKind = "bitmap"
	IndexBitslice IndexKind = "bitslice"
	IndexColumnar IndexKind = "columnar"
)

var indexKinds = map[IndexKind]bool{
	IndexDefault:  true,
	IndexUnique:   true,
	IndexBitmap:   true,
	IndexBitslice: true,
	IndexColumnar: true,
}

// BuildCreateTable renders CREATE TABLE with the column definitions in order,
// followed by any trailing constraint clauses (PRIMARY KEY, FOREIGN KEY, ...).
func BuildCreateTable(fullName string, columns []ColumnDef, constraints []string) string {
	defs := make([]string, 0, len(columns)+len(constraints))
	for _, c := range columns {
		defs = append(defs, c.Name+" "+c.Type)
	}
	defs = append(defs, constraints...)
	return fmt.Sprintf("CREATE TABLE %s ( %s )", fullName, strings.Join(defs, ", "))
}

// BuildDrop renders DROP TABLE/VIEW with an optional IF EXISTS guard.
func BuildDrop(kind ObjectKind, fullName string, ifExists bool) string {
	guard := ""
	if ifExists {
		guard = "IF EXISTS "
	}
	return fmt.Sprintf("DROP %s %s%s", kind, guard, fullName)
}

// BuildCreateIndex renders CREATE [kind] INDEX for the standard index forms.
// Unknown kinds are rejected because the kind is interpolated into DDL text.
func BuildCreateIndex(indexName, fullTable, column string, kind IndexKind) (string, error) {
	if kind == "" {
		kind = IndexDefault
	}
	if !indexKinds[kind] {
		return "", fmt.Errorf("unsupported index kind %q", kind)
	}
	if kind == IndexDefault {
		return fmt.Sprintf("CREATE INDEX %s ON %s(%s)", indexName, fullTable, column), nil
	}
	return fmt.Sprintf("CREATE %s INDEX %s ON %s(%s)", strings.ToUpper(string(kind)), indexName, fullTable, column), nil
}

// HNSW distance functions accepted by IRIS.
var hnswDistances = map[string]string{
	"cosine":     "Cosine",
	"dotproduct": "DotProduct",
}

// BuildCreateHNSWIndex renders the vector-index form:
//
//	CREATE INDEX name ON table(column) AS %SQL.Index.HNSW(Distance='Cosine', M=16, efConstruct=200)
//
// Distance is required and case-insensitive; M and efConstruct are emitted
// only when positive. The distance string is interpolated, so it is checked
// against the closed set of functions IRIS supports.
func BuildCreateHNSWIndex(indexName, fullTable, column, distance string, m, efConstruct int) (string, error) {
	canonical, ok := hnswDistances[strings.ToLower(distance)]
	if !ok {
		return "", fmt.Errorf("unsupported HNSW distance %q (want Cosine or DotProduct)", distance)
	}

	params := []string{fmt.Sprintf("Distance='%s'", canonical)}
	if m > 0 {
		params = append(params, fmt.Sprintf("M=%d", m))
	}
	if efConstruct > 0 {
		params = append(params, fmt.Sprintf("efConstruct=%d", efConstruct))
	}

	return fmt.Sprintf("CREATE INDEX %s ON %s(%s) AS %%SQL.Index.HNSW(%s)",
		indexName, fullTable, column, strings.Join(params, ", ")), nil
}

// BuildCreateView renders CREATE VIEW with the caller-supplied SELECT body
// verbatim. The body is not parsed or validated here.
func BuildCreateView(fullName, selectSQL string) string {
	return fmt.Sprintf("CREATE VIEW %s AS %s", fullName, selectSQL)
}

// BuildInsert renders a single parameterized INSERT for the given column
// order, one '?' placeholder per column. Used both for single rows and as the
// statement repeated across a batch.
func BuildInsert(fullName string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", fullName, strings.Join(columns, ", "), placeholders)
}

// BuildInsertRow renders an INSERT from a values map with deterministic
// (sorted) column order, returning the bound parameters in the same order.
func BuildInsertRow(fullName string, values map[string]any) (string, []any) {
	cols := sortedKeys(values)
	params := make([]any, len(cols))
	for i, c := range cols {
		params[i] = values[c]
	}
	return BuildInsert(fullName, cols), params
}

// BuildUpdate renders UPDATE ... SET ... WHERE with AND-joined equality
// predicates. Both clauses use positional placeholders; parameters are
// returned SET-first in deterministic (sorted) column order. Filter column
// names get the same space normalization as inserted headers.
func BuildUpdate(fullName string, newValues, filters map[string]any) (string, []any) {
	setCols := sortedKeys(newValues)
	whereCols := sortedKeys(filters)

	setParts := make([]string, len(setCols))
	params := make([]any, 0, len(setCols)+len(whereCols))
	for i, c := range setCols {
		setParts[i] = c + " = ?"
		params = append(params, newValues[c])
	}

	whereParts := make([]string, len(whereCols))
	for i, c := range whereCols {
		whereParts[i] = strings.ReplaceAll(c, " ", "_") + " = ?"
		params = append(params, filters[c])
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		fullName, strings.Join(setParts, ", "), strings.Join(whereParts, " AND "))
	return sql, params
}

// BuildAddColumn renders ALTER TABLE ... ADD for one column.
func BuildAddColumn(fullName, column, columnType string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD %s %s", fullName, column, columnType)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
