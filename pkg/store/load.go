package store

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/irisworks/datadesk/pkg/apperrors"
	"github.com/irisworks/datadesk/pkg/irissql"
	"github.com/irisworks/datadesk/pkg/tabular"
)

// IndexSpec declares one index to create alongside a loaded table. Kind is
// one of the standard irissql kinds, or "hnsw"/"vector" for a vector index
// with the HNSW-specific parameters.
type IndexSpec struct {
	Name   string
	Column string
	Kind   string

	// Vector-index parameters, used when Kind is "hnsw" or "vector".
	Distance    string
	M           int
	EfConstruct int
}

// IsVector reports whether the spec describes an HNSW vector index.
func (s IndexSpec) IsVector() bool {
	return s.Kind == "hnsw" || s.Kind == "vector"
}

// LoadOptions controls LoadTable behavior.
type LoadOptions struct {
	// ColumnTypes overrides type inference when non-nil.
	ColumnTypes map[string]string
	// PrimaryKey, when set, becomes the leading PRIMARY KEY constraint.
	PrimaryKey string
	// Constraints are appended after the primary key clause, in order.
	Constraints []string
	// ExistOK: an existing table is dropped (DropIfExists) or the whole load
	// becomes a no-op. Without ExistOK an existing table is TableExistsError.
	ExistOK      bool
	DropIfExists bool
	// DropRelatedViews cascades the drop over dependent views.
	DropRelatedViews bool
	// Indices are created after the table exists and before any row is
	// inserted, so the bulk insert never races index construction.
	Indices []IndexSpec
}

// LoadTable creates a table shaped after the tabular value and bulk-inserts
// all its rows.
//
// Steps: validate the qualified name, resolve existing-table policy, resolve
// column types (caller map wins, else inference), create the table with the
// primary key clause first, create the declared indexes, then execute one
// batched INSERT for every row and verify the reported count.
//
// Table creation and row insertion commit separately: a failure during
// insertion leaves the already-created table and indexes in place.
func (c *Client) LoadTable(ctx context.Context, data *tabular.Table, name, schema string, opts LoadOptions) error {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return err
	}

	exists, err := c.TableExists(ctx, name, schema)
	if err != nil {
		return err
	}
	if exists {
		if !opts.ExistOK {
			return &apperrors.TableExistsError{Table: fullName}
		}
		if !opts.DropIfExists {
			c.logger.Info("table already exists, skipping load", zap.String("table", fullName))
			return nil
		}
		if err := c.DropTable(ctx, name, schema, true, opts.DropRelatedViews, irissql.ObjectTable); err != nil {
			return err
		}
	}

	columnTypes := opts.ColumnTypes
	if columnTypes == nil {
		columnTypes = irissql.InferColumnTypes(data)
	}

	// Column order follows the tabular value, with any extra caller-supplied
	// columns appended in sorted order.
	columns := orderedColumnDefs(data, columnTypes)

	constraints := make([]string, 0, 1+len(opts.Constraints))
	if opts.PrimaryKey != "" {
		constraints = append(constraints, fmt.Sprintf("PRIMARY KEY (%s)", opts.PrimaryKey))
	}
	constraints = append(constraints, opts.Constraints...)

	if err := c.CreateTable(ctx, name, columns, constraints, schema, false); err != nil {
		return err
	}

	for _, idx := range opts.Indices {
		col := tabular.NormalizeName(idx.Column)
		idxName := idx.Name
		if idxName == "" {
			kind := idx.Kind
			if kind == "" {
				kind = string(irissql.IndexDefault)
			}
			idxName = fmt.Sprintf("%s_%s_%s", name, col, kind)
		}
		if idx.IsVector() {
			if err := c.CreateHNSWIndex(ctx, name, col, idxName, idx.Distance, idx.M, idx.EfConstruct, schema); err != nil {
				return err
			}
		} else {
			if err := c.CreateIndex(ctx, idxName, name, col, irissql.IndexKind(idx.Kind), schema); err != nil {
				return err
			}
		}
	}

	if data.NumRows() == 0 {
		c.logger.Info("table created with no rows to load", zap.String("table", fullName))
		return nil
	}

	headers := data.NormalizedColumnNames()
	stmt := irissql.BuildInsert(fullName, headers)
	batch := make([][]any, data.NumRows())
	for i, row := range data.Rows {
		params := make([]any, len(row))
		for j, v := range row {
			params[j] = v.Arg()
		}
		batch[i] = params
	}

	inserted, err := c.executeBatch(ctx, fullName, stmt, batch)
	if err != nil {
		return err
	}
	c.logger.Info("table loaded",
		zap.String("table", fullName),
		zap.Int64("rows", inserted))
	return nil
}

// orderedColumnDefs resolves the CREATE TABLE column order: tabular columns
// first in their own order, then any remaining typed columns sorted by name.
func orderedColumnDefs(data *tabular.Table, columnTypes map[string]string) []irissql.ColumnDef {
	defs := make([]irissql.ColumnDef, 0, len(columnTypes))
	seen := make(map[string]bool, len(columnTypes))

	for _, header := range data.NormalizedColumnNames() {
		if t, ok := columnTypes[header]; ok && !seen[header] {
			defs = append(defs, irissql.ColumnDef{Name: header, Type: t})
			seen[header] = true
		}
	}

	rest := make([]string, 0)
	for name := range columnTypes {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		defs = append(defs, irissql.ColumnDef{Name: name, Type: columnTypes[name]})
	}
	return defs
}
