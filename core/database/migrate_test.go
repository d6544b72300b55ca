package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSource(t *testing.T) {
	for _, driver := range []string{DriverMySQL, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			src, err := MigrationSource(driver)
			require.NoError(t, err)

			first, err := src.First()
			require.NoError(t, err)
			assert.Equal(t, uint(1), first)
		})
	}
}

func TestMigrate_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	version, err := Migrate(db, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	columns, err := GetTableColumns(db, "countries")
	require.NoError(t, err)

	fields := make([]string, 0, len(columns))
	for _, c := range columns {
		fields = append(fields, c.Field)
	}
	assert.ElementsMatch(t, []string{
		"id", "name", "capital", "region", "population", "currency_code",
		"exchange_rate", "estimated_gdp", "flag_url", "last_refreshed_at",
	}, fields)

	// Running again is a no-op
	version, err = Migrate(db, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
