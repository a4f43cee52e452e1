package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "hirepath",
		Password: "secret",
		Name:     "hirepath",
		Host:     "db.internal",
		Port:     5433,
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "host=db.internal")
	require.Contains(t, dsn, "port=5433")
	require.Contains(t, dsn, "sslmode=disable")
}

func TestBuildPostgresDSNRequiresUser(t *testing.T) {
	_, err := buildPostgresDSN(Config{Name: "hirepath"})
	require.Error(t, err)
}

func TestBuildPostgresDSNHonoursOverride(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{DSN: "postgres://u:p@h/db"})
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@h/db", dsn)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "hirepath",
		Password: "secret",
		Name:     "hirepath",
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "hirepath:secret@tcp(127.0.0.1:3306)/hirepath")
	require.Contains(t, dsn, "parseTime=True")
}

func TestBuildMySQLDSNRequiresDatabase(t *testing.T) {
	_, err := buildMySQLDSN(Config{User: "hirepath"})
	require.Error(t, err)
}
