package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/irisworks/datadesk/pkg/apperrors"
	"github.com/irisworks/datadesk/pkg/tabular"
)

// Fetch runs a query and returns the full result as a tabular value. Column
// names come from the result-set description; an empty result yields a
// zero-row table, never nil. Reads run without explicit transaction framing.
func (c *Client) Fetch(ctx context.Context, sqlQuery string, params ...any) (*tabular.Table, error) {
	c.logger.Debug("fetch", zap.String("sql", sqlQuery), zap.Int("params", len(params)))

	rows, err := c.db.QueryContext(ctx, sqlQuery, params...)
	if err != nil {
		return nil, &apperrors.ExecutionError{Stmt: sqlQuery, Err: err}
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, &apperrors.ExecutionError{Stmt: sqlQuery, Err: err}
	}

	result := tabular.New(columnNames...)
	for rows.Next() {
		values := make([]any, len(columnNames))
		valuePtrs := make([]any, len(columnNames))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, &apperrors.ExecutionError{Stmt: sqlQuery, Err: err}
		}

		row := make([]tabular.Value, len(values))
		for i, v := range values {
			row[i] = tabular.FromDriver(v)
		}
		if err := result.AppendRow(row); err != nil {
			return nil, &apperrors.ExecutionError{Stmt: sqlQuery, Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.ExecutionError{Stmt: sqlQuery, Err: err}
	}

	return result, nil
}

// execute runs one mutating statement inside its own transaction: commit on
// success, rollback and surface the original cause on any failure. Returns
// the engine-reported affected-row count.
func (c *Client) execute(ctx context.Context, stmt string, params ...any) (int64, error) {
	c.logger.Debug("execute", zap.String("sql", stmt), zap.Int("params", len(params)))

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &apperrors.ExecutionError{Stmt: stmt, Err: err}
	}

	res, err := tx.ExecContext(ctx, stmt, params...)
	if err != nil {
		_ = tx.Rollback()
		return 0, &apperrors.ExecutionError{Stmt: stmt, Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		// Not every DDL result reports a count; treat that as zero affected.
		affected = 0
	}

	if err := tx.Commit(); err != nil {
		return 0, &apperrors.ExecutionError{Stmt: stmt, Err: err}
	}
	return affected, nil
}
