package migration

import (
	"testing"

	dbpkg "github.com/reservaspro/reservaspro/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAutoMigratesSQLite(t *testing.T) {
	db := dbpkg.NewTest(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	for _, table := range []string{
		"organizations",
		"loyalty_levels",
		"client_profiles",
		"offerings",
		"bookings",
		"earned_rewards",
		"xp_history",
		"api_keys",
		"audit_logs",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestEmbeddedMigrationsAreReadable(t *testing.T) {
	src, err := newSource()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "init", ident)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)
}

func TestRunRejectsNilHandle(t *testing.T) {
	assert.Error(t, Run(nil))
	assert.Error(t, RunMigrations(nil))
}
