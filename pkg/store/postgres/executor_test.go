package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_Execute_ExpandsParamsAndScansRows(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT branch, total FROM metric_values WHERE period_start = $1 AND period_end = $2").
		WithArgs("2025-01-01", "2025-01-31").
		WillReturnRows(sqlmock.NewRows([]string{"branch", "total"}).
			AddRow("Москва", 1500.5).
			AddRow("Казань", 320.0))

	executor := NewExecutor(db)
	rows, err := executor.Execute(context.Background(),
		"SELECT branch, total FROM metric_values WHERE period_start = :start AND period_end = :end",
		sqlstore.Params{"start": "2025-01-01", "end": "2025-01-31"})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Москва", rows[0]["branch"])
	assert.Equal(t, 1500.5, rows[0]["total"])
	assert.Equal(t, "Казань", rows[1]["branch"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_Execute_RejectsMutation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	executor := NewExecutor(db)
	_, err = executor.Execute(context.Background(), "DELETE FROM metric_values", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, sqlstore.ErrQueryRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_Execute_MissingParam(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	executor := NewExecutor(db)
	_, err = executor.Execute(context.Background(),
		"SELECT 1 FROM t WHERE a = :missing", sqlstore.Params{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), ":missing")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_Execute_EmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT branch FROM metric_values").
		WillReturnRows(sqlmock.NewRows([]string{"branch"}))

	executor := NewExecutor(db)
	rows, err := executor.Execute(context.Background(), "SELECT branch FROM metric_values", nil)

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
