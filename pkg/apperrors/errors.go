// Package apperrors defines the error taxonomy for the store client.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIdentifier is returned when a table, view, or schema name
	// breaks the IRIS naming rules before any SQL is constructed.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNoRows is returned by lookups that require at least one row.
	ErrNoRows = errors.New("no rows found")
)

// InvalidIdentifierError carries the offending name alongside ErrInvalidIdentifier.
type InvalidIdentifierError struct {
	Name   string
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Name, e.Reason)
}

func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// TableExistsError is returned when table creation finds the target already present.
type TableExistsError struct {
	Table string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table %s already exists", e.Table)
}

// ViewExistsError is returned when view creation finds the target already present.
type ViewExistsError struct {
	View string
}

func (e *ViewExistsError) Error() string {
	return fmt.Sprintf("view %s already exists", e.View)
}

// IndexExistsError is returned when index creation finds the index already present.
type IndexExistsError struct {
	Index string
	Table string
}

func (e *IndexExistsError) Error() string {
	return fmt.Sprintf("index %s already exists on %s", e.Index, e.Table)
}

// ExecutionError wraps any failure from the driver or server during statement
// execution. The original cause is always preserved; the statement's
// transaction has already been rolled back by the time this is returned.
type ExecutionError struct {
	Stmt string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %q: %v", e.Stmt, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// RowError records a single failed row inside a batch insert.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// LoadIntegrityError is returned when a bulk insert reports fewer affected
// rows than were submitted. RowErrors holds whatever per-row detail the
// batch produced.
type LoadIntegrityError struct {
	Table     string
	Expected  int
	Inserted  int
	RowErrors []RowError
}

func (e *LoadIntegrityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bulk insert into %s inserted %d of %d rows", e.Table, e.Inserted, e.Expected)
	for _, re := range e.RowErrors {
		b.WriteString("\n  ")
		b.WriteString(re.Error())
	}
	return b.String()
}
