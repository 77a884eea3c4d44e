// Package testdb opens throwaway in-memory sqlite databases for tests.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"finance-backend/internal/config"
	"finance-backend/internal/database"
	"finance-backend/internal/logging"
)

var counter atomic.Int64

// Open returns a migrated, empty database that is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		DBDriver:    config.DriverSQLite,
		DatabaseDSN: fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, counter.Add(1)),
	}

	db, err := database.Open(cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
