package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Driver
	}{
		{"empty defaults to sqlite", "", DriverSQLite},
		{"postgres scheme", "postgres://stagehand:pw@localhost:5432/stagehand", DriverPostgres},
		{"postgresql scheme", "postgresql://localhost/stagehand", DriverPostgres},
		{"sqlite scheme", "sqlite:///tmp/stagehand.db", DriverSQLite},
		{"file prefix", "file:stagehand.db", DriverSQLite},
		{"db suffix", "/var/lib/stagehand/stagehand.db", DriverSQLite},
		{"sqlite3 suffix", "data.sqlite3", DriverSQLite},
		{"unknown defaults to postgres", "mysql://localhost/db", DriverPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDriver(tt.url))
		})
	}
}

func TestDriver_IsValid(t *testing.T) {
	assert.True(t, DriverPostgres.IsValid())
	assert.True(t, DriverSQLite.IsValid())
	assert.False(t, Driver("oracle").IsValid())
}
