package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/irisworks/datadesk/pkg/apperrors"
	"github.com/irisworks/datadesk/pkg/irissql"
)

// CreateTable creates a table from ordered column definitions and optional
// trailing constraint clauses. With checkExists, an existing table is
// reported as TableExistsError before any DDL runs.
func (c *Client) CreateTable(ctx context.Context, name string, columns []irissql.ColumnDef, constraints []string, schema string, checkExists bool) error {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return err
	}
	if checkExists {
		exists, err := c.TableExists(ctx, name, schema)
		if err != nil {
			return err
		}
		if exists {
			return &apperrors.TableExistsError{Table: fullName}
		}
	}

	stmt := irissql.BuildCreateTable(fullName, columns, constraints)
	if _, err := c.execute(ctx, stmt); err != nil {
		return err
	}
	c.logger.Info("table created", zap.String("table", fullName))
	return nil
}

// DropTable drops a table or view. With ifExists the drop is idempotent;
// without it, dropping a missing object surfaces the engine error. With
// dropRelatedViews, views depending on the table are dropped first.
func (c *Client) DropTable(ctx context.Context, name, schema string, ifExists, dropRelatedViews bool, kind irissql.ObjectKind) error {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return err
	}
	if kind == "" {
		kind = irissql.ObjectTable
	}

	if dropRelatedViews {
		views, err := c.ViewsUsingTable(ctx, name, schema)
		if err != nil {
			return err
		}
		for _, v := range views {
			if err := c.DropTable(ctx, v.ViewName, v.ViewSchema, false, false, irissql.ObjectView); err != nil {
				return err
			}
		}
	}

	stmt := irissql.BuildDrop(kind, fullName, ifExists)
	if _, err := c.execute(ctx, stmt); err != nil {
		return err
	}
	c.logger.Info("dropped", zap.String("kind", string(kind)), zap.String("name", fullName))
	return nil
}

// AddColumns appends columns to an existing table, one ALTER TABLE per
// column, each in its own commit unit.
func (c *Client) AddColumns(ctx context.Context, name string, newColumns []irissql.ColumnDef, schema string) error {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return err
	}
	for _, col := range newColumns {
		stmt := irissql.BuildAddColumn(fullName, col.Name, col.Type)
		if _, err := c.execute(ctx, stmt); err != nil {
			return err
		}
		c.logger.Info("column added",
			zap.String("table", fullName),
			zap.String("column", col.Name),
			zap.String("type", col.Type))
	}
	return nil
}

// CreateIndex creates a standard-form index. An existing index with the same
// name is reported as IndexExistsError before any DDL runs.
func (c *Client) CreateIndex(ctx context.Context, indexName, table, column string, kind irissql.IndexKind, schema string) error {
	fullName, err := irissql.ValidateName(table, schema)
	if err != nil {
		return err
	}

	exists, err := c.IndexExists(ctx, table, schema, indexName)
	if err != nil {
		return err
	}
	if exists {
		return &apperrors.IndexExistsError{Index: indexName, Table: fullName}
	}

	stmt, err := irissql.BuildCreateIndex(indexName, fullName, column, kind)
	if err != nil {
		return err
	}
	if _, err := c.execute(ctx, stmt); err != nil {
		return err
	}
	c.logger.Info("index created",
		zap.String("index", indexName),
		zap.String("table", fullName),
		zap.String("column", column))
	return nil
}

// CreateHNSWIndex creates a vector index over a fixed-length numeric vector
// column. Distance is Cosine or DotProduct; m and efConstruct are emitted
// only when positive (IRIS defaults both to 64). Failures follow the same
// rollback-and-return policy as every other mutating operation.
func (c *Client) CreateHNSWIndex(ctx context.Context, table, column, indexName, distance string, m, efConstruct int, schema string) error {
	fullName, err := irissql.ValidateName(table, schema)
	if err != nil {
		return err
	}
	if distance == "" {
		distance = "Cosine"
	}

	stmt, err := irissql.BuildCreateHNSWIndex(indexName, fullName, column, distance, m, efConstruct)
	if err != nil {
		return err
	}
	if _, err := c.execute(ctx, stmt); err != nil {
		return err
	}
	c.logger.Info("hnsw index created",
		zap.String("index", indexName),
		zap.String("table", fullName),
		zap.String("column", column),
		zap.String("distance", distance))
	return nil
}

// QuickCreateIndex creates a standard index named <column>_idx unless it
// already exists, in which case it is a no-op.
func (c *Client) QuickCreateIndex(ctx context.Context, table, column, schema string) error {
	if _, err := irissql.ValidateName(table, schema); err != nil {
		return err
	}
	indexName := column + "_idx"
	exists, err := c.IndexExists(ctx, table, schema, indexName)
	if err != nil {
		return err
	}
	if exists {
		c.logger.Debug("index already present", zap.String("index", indexName))
		return nil
	}
	return c.CreateIndex(ctx, indexName, table, column, irissql.IndexDefault, schema)
}

// CreateView creates a view over a caller-supplied SELECT body. existOK and
// dropIfExists mirror the table-creation flags: with existOK an existing view
// is dropped (dropIfExists) or left alone; without existOK an existing view
// is ViewExistsError.
func (c *Client) CreateView(ctx context.Context, name, selectSQL, schema string, existOK, dropIfExists bool) error {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return err
	}

	exists, err := c.TableExists(ctx, name, schema)
	if err != nil {
		return err
	}
	if exists {
		if !existOK {
			return &apperrors.ViewExistsError{View: fullName}
		}
		if !dropIfExists {
			c.logger.Info("view already exists, skipping creation", zap.String("view", fullName))
			return nil
		}
		if err := c.DropTable(ctx, name, schema, true, false, irissql.ObjectView); err != nil {
			return err
		}
	}

	stmt := irissql.BuildCreateView(fullName, selectSQL)
	if _, err := c.execute(ctx, stmt); err != nil {
		return err
	}
	c.logger.Info("view created", zap.String("view", fullName))
	return nil
}
