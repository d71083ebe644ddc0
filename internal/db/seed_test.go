package db

import (
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "seed.sqlite")
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, Migrate(gdb))
	return gdb
}

func TestSeedCreatesSampleData(t *testing.T) {
	gdb := setupDB(t)
	require.NoError(t, Seed(gdb))

	count := func(model any) int64 {
		t.Helper()
		var n int64
		require.NoError(t, gdb.Model(model).Count(&n).Error)
		return n
	}

	assert.EqualValues(t, 4, count(&Vendor{}))
	assert.EqualValues(t, 8, count(&Jurisdiction{}))
	assert.EqualValues(t, 500, count(&CriminalRecord{}))
	assert.EqualValues(t, 12, count(&AlertConfiguration{}))

	// Snapshots are the snapshot worker's job, not the seed's.
	assert.Zero(t, count(&VendorMetrics{}))
}

func TestSeedSkipsNonEmptyDatabase(t *testing.T) {
	gdb := setupDB(t)
	require.NoError(t, gdb.Create(&Vendor{Name: "Existing", CostPerRecord: 5, IsActive: true}).Error)

	require.NoError(t, Seed(gdb))

	var vendors int64
	require.NoError(t, gdb.Model(&Vendor{}).Count(&vendors).Error)
	assert.EqualValues(t, 1, vendors)
}
