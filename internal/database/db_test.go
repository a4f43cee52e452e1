package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenDefaultsToSQLiteMemory(t *testing.T) {
	db, err := Open(Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))

	var count int64
	require.NoError(t, db.Table("job_applications").Count(&count).Error)
	require.Zero(t, count)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestMigrateNilHandle(t *testing.T) {
	require.Error(t, Migrate(nil))
}
