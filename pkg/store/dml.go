package store

import (
	"context"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/irisworks/datadesk/pkg/apperrors"
	"github.com/irisworks/datadesk/pkg/irissql"
	"github.com/irisworks/datadesk/pkg/tabular"
)

// InsertRow inserts one row given a column-to-value map.
func (c *Client) InsertRow(ctx context.Context, name string, values map[string]any, schema string) error {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return err
	}
	stmt, params := irissql.BuildInsertRow(fullName, values)
	if _, err := c.execute(ctx, stmt, params...); err != nil {
		return err
	}
	c.logger.Debug("row inserted", zap.String("table", fullName))
	return nil
}

// InsertMany inserts a batch of rows with one parameterized statement,
// executed once per row inside a single transaction. The column list comes
// from the first row's keys (normalized), and every row must supply those
// keys. A reported count short of len(rows) rolls the batch back and returns
// LoadIntegrityError with per-row detail; the caller never sees a short
// count.
func (c *Client) InsertMany(ctx context.Context, name string, rows []map[string]any, schema string) (int64, error) {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	columns := sortedRowKeys(rows[0])
	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = tabular.NormalizeName(col)
	}
	stmt := irissql.BuildInsert(fullName, normalized)

	batch := make([][]any, len(rows))
	for i, row := range rows {
		params := make([]any, len(columns))
		for j, col := range columns {
			params[j] = row[col]
		}
		batch[i] = params
	}

	inserted, err := c.executeBatch(ctx, fullName, stmt, batch)
	if err != nil {
		return 0, err
	}
	c.logger.Info("rows inserted", zap.String("table", fullName), zap.Int64("count", inserted))
	return inserted, nil
}

// executeBatch runs one prepared statement across a batch of parameter tuples
// inside a single transaction. Per-row failures are recorded rather than
// aborting the loop, so the integrity error can enumerate every failed row;
// any shortfall rolls back the whole batch.
func (c *Client) executeBatch(ctx context.Context, fullName, stmt string, batch [][]any) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &apperrors.ExecutionError{Stmt: stmt, Err: err}
	}

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, &apperrors.ExecutionError{Stmt: stmt, Err: err}
	}
	defer prepared.Close()

	var inserted int64
	var rowErrors []apperrors.RowError
	for i, params := range batch {
		res, err := prepared.ExecContext(ctx, params...)
		if err != nil {
			rowErrors = append(rowErrors, apperrors.RowError{Row: i, Err: err})
			continue
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		} else {
			inserted++
		}
	}

	if inserted != int64(len(batch)) {
		_ = tx.Rollback()
		return 0, &apperrors.LoadIntegrityError{
			Table:     fullName,
			Expected:  len(batch),
			Inserted:  int(inserted),
			RowErrors: rowErrors,
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &apperrors.ExecutionError{Stmt: stmt, Err: err}
	}
	return inserted, nil
}

// Update changes rows matching the AND-joined equality filters, returning the
// affected-row count.
func (c *Client) Update(ctx context.Context, name string, newValues, filters map[string]any, schema string) (int64, error) {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return 0, err
	}
	stmt, params := irissql.BuildUpdate(fullName, newValues, filters)
	affected, err := c.execute(ctx, stmt, params...)
	if err != nil {
		return 0, err
	}
	c.logger.Info("rows updated", zap.String("table", fullName), zap.Int64("count", affected))
	return affected, nil
}

// UpdateSpec pairs new values with the filters selecting the rows to change.
type UpdateSpec struct {
	NewValues map[string]any
	Filters   map[string]any
}

// UpdateMany applies a list of updates in one transaction and returns the
// total affected-row count.
func (c *Client) UpdateMany(ctx context.Context, name string, updates []UpdateSpec, schema string) (int64, error) {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return 0, err
	}
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &apperrors.ExecutionError{Stmt: "UPDATE " + fullName, Err: err}
	}

	var total int64
	for _, u := range updates {
		stmt, params := irissql.BuildUpdate(fullName, u.NewValues, u.Filters)
		res, err := tx.ExecContext(ctx, stmt, params...)
		if err != nil {
			_ = tx.Rollback()
			return 0, &apperrors.ExecutionError{Stmt: stmt, Err: err}
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &apperrors.ExecutionError{Stmt: "UPDATE " + fullName, Err: err}
	}
	c.logger.Info("rows updated", zap.String("table", fullName), zap.Int64("count", total))
	return total, nil
}

// GetRowID returns the IRIS row ID of the first row whose column equals the
// given value. Returns ErrNoRows when nothing matches.
func (c *Client) GetRowID(ctx context.Context, name, column string, value any, schema string) (int64, error) {
	fullName, err := irissql.ValidateName(name, schema)
	if err != nil {
		return 0, err
	}

	result, err := c.Fetch(ctx, "SELECT ID FROM "+fullName+" WHERE "+column+" = ?", value)
	if err != nil {
		return 0, err
	}
	if result.NumRows() == 0 {
		return 0, apperrors.ErrNoRows
	}

	v := result.Rows[0][0]
	switch v.Kind {
	case tabular.KindInt:
		return v.Int, nil
	case tabular.KindText:
		id, err := strconv.ParseInt(v.Str, 10, 64)
		if err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, apperrors.ErrNoRows
	}
}

// sortedRowKeys gives the generated statement a deterministic column order.
func sortedRowKeys(row map[string]any) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
