package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irisworks/datadesk/pkg/apperrors"
)

func TestInsertRow(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO HR.Employee \(Age, Name\) VALUES \(\?, \?\)`).
		WithArgs(36, "Ada").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := c.InsertRow(context.Background(), "Employee",
		map[string]any{"Name": "Ada", "Age": 36}, "HR")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMany(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO HR.Employee \(Age, Name\) VALUES \(\?, \?\)`)
	prep.ExpectExec().WithArgs(36, "Ada").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(40, "Grace").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	inserted, err := c.InsertMany(context.Background(), "Employee", []map[string]any{
		{"Name": "Ada", "Age": 36},
		{"Name": "Grace", "Age": 40},
	}, "HR")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertManyEmptyBatch(t *testing.T) {
	c, mock := newMockClient(t)

	inserted, err := c.InsertMany(context.Background(), "Employee", nil, "HR")
	require.NoError(t, err)
	assert.Zero(t, inserted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertManyNormalizesColumnNames(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO HR.Employee \(First_Name\) VALUES \(\?\)`)
	prep.ExpectExec().WithArgs("Ada").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := c.InsertMany(context.Background(), "Employee", []map[string]any{
		{"First Name": "Ada"},
	}, "HR")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertManyShortCountRollsBack(t *testing.T) {
	c, mock := newMockClient(t)

	cause := errors.New("UNIQUE constraint failed")
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO HR.Employee`)
	prep.ExpectExec().WithArgs(36, "Ada").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(40, "Grace").WillReturnError(cause)
	mock.ExpectRollback()

	_, err := c.InsertMany(context.Background(), "Employee", []map[string]any{
		{"Name": "Ada", "Age": 36},
		{"Name": "Grace", "Age": 40},
	}, "HR")
	require.Error(t, err)

	var integrity *apperrors.LoadIntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, "HR.Employee", integrity.Table)
	assert.Equal(t, 2, integrity.Expected)
	assert.Equal(t, 1, integrity.Inserted)
	require.Len(t, integrity.RowErrors, 1)
	assert.Equal(t, 1, integrity.RowErrors[0].Row)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE HR.Employee SET Age = \?, Name = \? WHERE ID = \?`).
		WithArgs(41, "Grace", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := c.Update(context.Background(), "Employee",
		map[string]any{"Name": "Grace", "Age": 41},
		map[string]any{"ID": 7}, "HR")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMany(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE HR.Employee SET Age = \? WHERE ID = \?`).
		WithArgs(41, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE HR.Employee SET Age = \? WHERE ID = \?`).
		WithArgs(36, 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	total, err := c.UpdateMany(context.Background(), "Employee", []UpdateSpec{
		{NewValues: map[string]any{"Age": 41}, Filters: map[string]any{"ID": 7}},
		{NewValues: map[string]any{"Age": 36}, Filters: map[string]any{"ID": 8}},
	}, "HR")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateManyRollsBackOnFailure(t *testing.T) {
	c, mock := newMockClient(t)

	cause := errors.New("no such column")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE HR.Employee`).WillReturnError(cause)
	mock.ExpectRollback()

	_, err := c.UpdateMany(context.Background(), "Employee", []UpdateSpec{
		{NewValues: map[string]any{"Agee": 41}, Filters: map[string]any{"ID": 7}},
	}, "HR")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRowID(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectQuery(`SELECT ID FROM HR.Employee WHERE Name = \?`).
		WithArgs("Ada").
		WillReturnRows(sqlmock.NewRows([]string{"ID"}).AddRow(int64(5)))

	id, err := c.GetRowID(context.Background(), "Employee", "Name", "Ada", "HR")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRowIDNoMatch(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectQuery(`SELECT ID FROM HR.Employee WHERE Name = \?`).
		WithArgs("Nobody").
		WillReturnRows(sqlmock.NewRows([]string{"ID"}))

	_, err := c.GetRowID(context.Background(), "Employee", "Name", "Nobody", "HR")
	assert.ErrorIs(t, err, apperrors.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
