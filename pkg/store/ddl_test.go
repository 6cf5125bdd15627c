package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irisworks/datadesk/pkg/apperrors"
	"github.com/irisworks/datadesk/pkg/irissql"
)

func expectTableCount(mock sqlmock.Sqlmock, name, schema string, count int) {
	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM INFORMATION_SCHEMA.TABLES`).
		WithArgs(name, schema).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT"}).AddRow(count))
}

func expectIndexCount(mock sqlmock.Sqlmock, name, schema, index string, count int) {
	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM INFORMATION_SCHEMA.INDEXES`).
		WithArgs(name, schema, index).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT"}).AddRow(count))
}

func expectDDL(mock sqlmock.Sqlmock, pattern string) {
	mock.ExpectBegin()
	mock.ExpectExec(pattern).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
}

func TestCreateTable(t *testing.T) {
	c, mock := newMockClient(t)

	expectDDL(mock, `CREATE TABLE HR.Employee \( ID INT, Name VARCHAR\(100\), PRIMARY KEY \(ID\) \)`)

	err := c.CreateTable(context.Background(), "Employee",
		[]irissql.ColumnDef{{Name: "ID", Type: "INT"}, {Name: "Name", Type: "VARCHAR(100)"}},
		[]string{"PRIMARY KEY (ID)"}, "HR", false)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTableCheckExists(t *testing.T) {
	c, mock := newMockClient(t)

	expectTableCount(mock, "Employee", "HR", 1)

	err := c.CreateTable(context.Background(), "Employee",
		[]irissql.ColumnDef{{Name: "ID", Type: "INT"}}, nil, "HR", true)
	require.Error(t, err)

	var exists *apperrors.TableExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, "HR.Employee", exists.Table)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropTable(t *testing.T) {
	c, mock := newMockClient(t)

	expectDDL(mock, `DROP TABLE IF EXISTS HR.Employee`)

	err := c.DropTable(context.Background(), "Employee", "HR", true, false, irissql.ObjectTable)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropTableCascadesViews(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectQuery(`FROM INFORMATION_SCHEMA.VIEW_TABLE_USAGE`).
		WithArgs("Employee", "HR").
		WillReturnRows(sqlmock.NewRows([]string{
			"TABLE_SCHEMA", "TABLE_NAME", "VIEW_SCHEMA", "VIEW_NAME",
		}).AddRow("HR", "Employee", "HR", "Adults"))

	expectDDL(mock, `DROP VIEW HR.Adults`)
	expectDDL(mock, `DROP TABLE IF EXISTS HR.Employee`)

	err := c.DropTable(context.Background(), "Employee", "HR", true, true, irissql.ObjectTable)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddColumns(t *testing.T) {
	c, mock := newMockClient(t)

	expectDDL(mock, `ALTER TABLE HR.Employee ADD Salary DOUBLE`)
	expectDDL(mock, `ALTER TABLE HR.Employee ADD Hired DATE`)

	err := c.AddColumns(context.Background(), "Employee",
		[]irissql.ColumnDef{{Name: "Salary", Type: "DOUBLE"}, {Name: "Hired", Type: "DATE"}}, "HR")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIndex(t *testing.T) {
	c, mock := newMockClient(t)

	expectIndexCount(mock, "Employee", "HR", "AgeIdx", 0)
	expectDDL(mock, `CREATE BITMAP INDEX AgeIdx ON HR.Employee\(Age\)`)

	err := c.CreateIndex(context.Background(), "AgeIdx", "Employee", "Age", irissql.IndexBitmap, "HR")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIndexAlreadyExists(t *testing.T) {
	c, mock := newMockClient(t)

	expectIndexCount(mock, "Employee", "HR", "AgeIdx", 1)

	err := c.CreateIndex(context.Background(), "AgeIdx", "Employee", "Age", irissql.IndexDefault, "HR")
	require.Error(t, err)

	var exists *apperrors.IndexExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, "AgeIdx", exists.Index)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHNSWIndex(t *testing.T) {
	c, mock := newMockClient(t)

	expectDDL(mock, `CREATE INDEX EmbIdx ON SQLUser.Docs\(Embedding\) AS %SQL.Index.HNSW\(Distance='Cosine', M=16, efConstruct=200\)`)

	err := c.CreateHNSWIndex(context.Background(), "Docs", "Embedding", "EmbIdx", "Cosine", 16, 200, "SQLUser")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHNSWIndexFailurePropagates(t *testing.T) {
	c, mock := newMockClient(t)

	cause := errors.New("column is not a vector")
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE INDEX EmbIdx`).WillReturnError(cause)
	mock.ExpectRollback()

	err := c.CreateHNSWIndex(context.Background(), "Docs", "Embedding", "EmbIdx", "", 0, 0, "SQLUser")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuickCreateIndexSkipsExisting(t *testing.T) {
	c, mock := newMockClient(t)

	expectIndexCount(mock, "Employee", "HR", "Age_idx", 1)

	err := c.QuickCreateIndex(context.Background(), "Employee", "Age", "HR")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateView(t *testing.T) {
	c, mock := newMockClient(t)

	expectTableCount(mock, "Adults", "HR", 0)
	expectDDL(mock, `CREATE VIEW HR.Adults AS SELECT \* FROM HR.Employee WHERE Age >= 18`)

	err := c.CreateView(context.Background(), "Adults",
		"SELECT * FROM HR.Employee WHERE Age >= 18", "HR", false, false)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateViewAlreadyExists(t *testing.T) {
	c, mock := newMockClient(t)

	expectTableCount(mock, "Adults", "HR", 1)

	err := c.CreateView(context.Background(), "Adults", "SELECT 1", "HR", false, false)
	require.Error(t, err)

	var exists *apperrors.ViewExistsError
	require.True(t, errors.As(err, &exists))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateViewExistOKSkips(t *testing.T) {
	c, mock := newMockClient(t)

	expectTableCount(mock, "Adults", "HR", 1)

	err := c.CreateView(context.Background(), "Adults", "SELECT 1", "HR", true, false)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateViewDropAndRecreate(t *testing.T) {
	c, mock := newMockClient(t)

	expectTableCount(mock, "Adults", "HR", 1)
	expectDDL(mock, `DROP VIEW IF EXISTS HR.Adults`)
	expectDDL(mock, `CREATE VIEW HR.Adults AS SELECT 1`)

	err := c.CreateView(context.Background(), "Adults", "SELECT 1", "HR", true, true)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
