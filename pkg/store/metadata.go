package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/irisworks/datadesk/pkg/apperrors"
	"github.com/irisworks/datadesk/pkg/irissql"
	"github.com/irisworks/datadesk/pkg/tabular"
)

// ColumnDescription describes one column of a table as reported by the
// catalog.
type ColumnDescription struct {
	Schema        string
	Table         string
	Name          string
	DataType      string
	MaxLength     int64
	IsNullable    bool
	AutoIncrement bool
	Unique        bool
	PrimaryKey    bool
	ODBCType      int64
}

// IndexDescription describes one index entry of a table.
type IndexDescription struct {
	Name       string
	Column     string
	PrimaryKey bool
	Unique     bool
}

// TableDescription is the metadata snapshot returned by DescribeTable.
// Both lists are empty, not nil, when nothing matches; that alone does not
// prove the table exists, so callers wanting an authoritative answer should
// check TableExists first.
type TableDescription struct {
	Columns []ColumnDescription
	Indexes []IndexDescription
}

// ViewDependency is one edge of the view-uses-table relation.
type ViewDependency struct {
	TableSchema string
	TableName   string
	ViewSchema  string
	ViewName    string
}

// ForeignKeyEdge is one foreign-key constraint edge between two tables.
type ForeignKeyEdge struct {
	ConstraintName   string
	ReferencedSchema string
	ReferencedTable  string
	ReferencedColumn string
	TableSchema      string
	TableName        string
	ColumnName       string
}

// TableExists reports whether the catalog knows a table (or view) with the
// exact (name, schema) pair.
func (c *Client) TableExists(ctx context.Context, name, schema string) (bool, error) {
	if _, err := irissql.ValidateName(name, schema); err != nil {
		return false, err
	}

	const query = `
		SELECT COUNT(*)
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_NAME = ?
		AND TABLE_SCHEMA = ?`

	var count int
	if err := c.db.QueryRowContext(ctx, query, name, schema).Scan(&count); err != nil {
		return false, &apperrors.ExecutionError{Stmt: query, Err: err}
	}
	return count > 0, nil
}

// IndexExists reports whether an index with the given name exists on a table.
func (c *Client) IndexExists(ctx context.Context, name, schema, indexName string) (bool, error) {
	if _, err := irissql.ValidateName(name, schema); err != nil {
		return false, err
	}

	const query = `
		SELECT COUNT(*)
		FROM INFORMATION_SCHEMA.INDEXES
		WHERE TABLE_NAME = ?
		AND TABLE_SCHEMA = ?
		AND INDEX_NAME = ?`

	var count int
	if err := c.db.QueryRowContext(ctx, query, name, schema, indexName).Scan(&count); err != nil {
		return false, &apperrors.ExecutionError{Stmt: query, Err: err}
	}
	return count > 0, nil
}

// DescribeTable returns the column and index descriptors for a table. The
// snapshot is computed fresh on every call; nothing is cached.
func (c *Client) DescribeTable(ctx context.Context, name, schema string) (*TableDescription, error) {
	if _, err := irissql.ValidateName(name, schema); err != nil {
		return nil, err
	}

	desc := &TableDescription{
		Columns: []ColumnDescription{},
		Indexes: []IndexDescription{},
	}

	const columnsQuery = `
		SELECT TABLE_SCHEMA, TABLE_NAME,
		COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH,
		IS_NULLABLE, AUTO_INCREMENT, UNIQUE_COLUMN, PRIMARY_KEY, ODBCTYPE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = ?
		AND TABLE_SCHEMA = ?`

	rows, err := c.db.QueryContext(ctx, columnsQuery, name, schema)
	if err != nil {
		return nil, &apperrors.ExecutionError{Stmt: columnsQuery, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			col        ColumnDescription
			maxLen     sql.NullInt64
			isNullable sql.NullString
			autoInc    sql.NullString
			unique     sql.NullString
			primary    sql.NullString
			odbcType   sql.NullInt64
		)
		if err := rows.Scan(&col.Schema, &col.Table, &col.Name, &col.DataType,
			&maxLen, &isNullable, &autoInc, &unique, &primary, &odbcType); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		col.MaxLength = maxLen.Int64
		col.IsNullable = yes(isNullable)
		col.AutoIncrement = yes(autoInc)
		col.Unique = yes(unique)
		col.PrimaryKey = yes(primary)
		col.ODBCType = odbcType.Int64
		desc.Columns = append(desc.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}

	const indexesQuery = `
		SELECT INDEX_NAME, COLUMN_NAME, PRIMARY_KEY, NON_UNIQUE
		FROM INFORMATION_SCHEMA.INDEXES
		WHERE TABLE_NAME = ?
		AND TABLE_SCHEMA = ?`

	idxRows, err := c.db.QueryContext(ctx, indexesQuery, name, schema)
	if err != nil {
		return nil, &apperrors.ExecutionError{Stmt: indexesQuery, Err: err}
	}
	defer idxRows.Close()

	for idxRows.Next() {
		var (
			idx       IndexDescription
			primary   sql.NullString
			nonUnique sql.NullInt64
		)
		if err := idxRows.Scan(&idx.Name, &idx.Column, &primary, &nonUnique); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		idx.PrimaryKey = yes(primary)
		idx.Unique = nonUnique.Valid && nonUnique.Int64 == 0
		desc.Indexes = append(desc.Indexes, idx)
	}
	if err := idxRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index rows: %w", err)
	}

	return desc, nil
}

// ViewsUsingTable returns the views defined in terms of a table. Used to
// cascade drops.
func (c *Client) ViewsUsingTable(ctx context.Context, name, schema string) ([]ViewDependency, error) {
	if _, err := irissql.ValidateName(name, schema); err != nil {
		return nil, err
	}

	const query = `
		SELECT TABLE_SCHEMA, TABLE_NAME, VIEW_SCHEMA, VIEW_NAME
		FROM INFORMATION_SCHEMA.VIEW_TABLE_USAGE
		WHERE TABLE_NAME = ? AND TABLE_SCHEMA = ?`

	rows, err := c.db.QueryContext(ctx, query, name, schema)
	if err != nil {
		return nil, &apperrors.ExecutionError{Stmt: query, Err: err}
	}
	defer rows.Close()

	deps := []ViewDependency{}
	for rows.Next() {
		var d ViewDependency
		if err := rows.Scan(&d.TableSchema, &d.TableName, &d.ViewSchema, &d.ViewName); err != nil {
			return nil, fmt.Errorf("scan view dependency: %w", err)
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view dependencies: %w", err)
	}
	return deps, nil
}

const referenceQuery = `
		SELECT
			c.CONSTRAINT_NAME,
			c.UNIQUE_CONSTRAINT_SCHEMA,
			c.UNIQUE_CONSTRAINT_TABLE,
			k.REFERENCED_COLUMN_NAME,
			k.TABLE_SCHEMA,
			k.TABLE_NAME,
			k.COLUMN_NAME
		FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS AS c
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE AS k
			ON c.CONSTRAINT_NAME = k.CONSTRAINT_NAME`

// ReferencesFromTable returns the foreign-key edges originating from a table
// (constraints this table declares against others).
func (c *Client) ReferencesFromTable(ctx context.Context, name, schema string) ([]ForeignKeyEdge, error) {
	if _, err := irissql.ValidateName(name, schema); err != nil {
		return nil, err
	}
	query := referenceQuery + `
		WHERE k.TABLE_SCHEMA = ? AND k.TABLE_NAME = ?`
	return c.queryReferences(ctx, query, schema, name)
}

// ReferencesToTable returns the foreign-key edges terminating at a table
// (constraints other tables declare against it).
func (c *Client) ReferencesToTable(ctx context.Context, name, schema string) ([]ForeignKeyEdge, error) {
	if _, err := irissql.ValidateName(name, schema); err != nil {
		return nil, err
	}
	query := referenceQuery + `
		WHERE c.UNIQUE_CONSTRAINT_SCHEMA = ? AND c.UNIQUE_CONSTRAINT_TABLE = ?`
	return c.queryReferences(ctx, query, schema, name)
}

func (c *Client) queryReferences(ctx context.Context, query string, params ...any) ([]ForeignKeyEdge, error) {
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, &apperrors.ExecutionError{Stmt: query, Err: err}
	}
	defer rows.Close()

	edges := []ForeignKeyEdge{}
	for rows.Next() {
		var e ForeignKeyEdge
		if err := rows.Scan(&e.ConstraintName, &e.ReferencedSchema, &e.ReferencedTable,
			&e.ReferencedColumn, &e.TableSchema, &e.TableName, &e.ColumnName); err != nil {
			return nil, fmt.Errorf("scan foreign key edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign key edges: %w", err)
	}
	return edges, nil
}

// ListTables returns the base tables of the namespace, optionally filtered by
// name and schema.
func (c *Client) ListTables(ctx context.Context, nameFilter, schemaFilter string) (*tabular.Table, error) {
	query := `
		SELECT TABLE_SCHEMA, TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE='BASE TABLE'`
	params := []any{}
	if nameFilter != "" {
		query += " AND TABLE_NAME = ?"
		params = append(params, nameFilter)
	}
	if schemaFilter != "" {
		query += " AND TABLE_SCHEMA = ?"
		params = append(params, schemaFilter)
	}
	query += " ORDER BY TABLE_SCHEMA, TABLE_NAME"
	return c.Fetch(ctx, query, params...)
}

// ListSchemas returns the schemas of the namespace that hold base tables.
func (c *Client) ListSchemas(ctx context.Context) (*tabular.Table, error) {
	const query = `
		SELECT TABLE_SCHEMA
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE='BASE TABLE'
		GROUP BY TABLE_SCHEMA
		ORDER BY TABLE_SCHEMA`
	return c.Fetch(ctx, query)
}

func yes(v sql.NullString) bool {
	return v.Valid && (v.String == "YES" || v.String == "1")
}
