package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_ProjectsWithoutCalendar simulates a database created
// before projects carried a deadline and working-day mask. Existing rows must
// survive and pick up the Monday-to-Friday default.
func TestMigrate_UpgradePath_ProjectsWithoutCalendar(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE projects (
		id         TEXT PRIMARY KEY,
		short_id   TEXT NOT NULL,
		name       TEXT NOT NULL,
		start_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO projects (id, short_id, name, start_date, created_at, updated_at)
		VALUES ('legacy', 'OLD01', 'Legacy', '2024-01-08', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var name, mask string
	var deadline sql.NullString
	err = db.QueryRow(`SELECT name, working_days, deadline FROM projects WHERE id = 'legacy'`).
		Scan(&name, &mask, &deadline)
	require.NoError(t, err)
	assert.Equal(t, "Legacy", name)
	assert.Equal(t, "1111100", mask)
	assert.False(t, deadline.Valid)

	// A second pass over the upgraded schema stays clean.
	require.NoError(t, Migrate(db))
}
