package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(ClientConfig{Host: "db", Port: 5433, Database: "agro", SSLMode: "disable", User: "app", Password: "it's secret"})
	assert.Equal(t, `host=db port=5433 dbname=agro sslmode=disable user=app password='it\'s secret'`, dsn)

	plain := buildDSN(ClientConfig{Host: "db", Port: 5432, Database: "agro", SSLMode: "require", Password: "simple"})
	assert.Contains(t, plain, "password=simple")
	assert.NotContains(t, plain, "user=")
}

func TestObservationsSchema(t *testing.T) {
	stmts := ObservationsSchema("observations")
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS observations")
	assert.Contains(t, stmts[1], "observations_location_day_idx")
}

func TestInitSchema(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	c := NewClientFromDB(sqlx.NewDb(raw, "postgres"))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS observations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS observations_location_day_idx").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, c.InitSchema(context.Background(), ObservationsSchema("observations")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthPings(t *testing.T) {
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	c := NewClientFromDB(sqlx.NewDb(raw, "postgres"))

	mock.ExpectPing()
	assert.NoError(t, c.Health(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
