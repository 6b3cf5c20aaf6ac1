package colmap

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDB creates a minimal reconstruction database with two matched images.
func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.db")
	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer conn.Close()

	stmts := []string{
		`CREATE TABLE images (image_id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE keypoints (image_id INTEGER PRIMARY KEY, rows INTEGER)`,
		`CREATE TABLE matches (image_id1 INTEGER, image_id2 INTEGER)`,
		`INSERT INTO images VALUES (1, 'color_000.png'), (2, 'color_001.png'), (3, 'color_002.png')`,
		`INSERT INTO keypoints VALUES (1, 1500), (2, 900), (3, 0)`,
		`INSERT INTO matches VALUES (1, 2), (1, 3), (2, 3)`,
	}
	for _, s := range stmts {
		_, err := conn.Exec(s)
		require.NoError(t, err)
	}
	return path
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.db"))
	assert.Error(t, err, "must not create an empty database")
}

func TestKeypointCounts(t *testing.T) {
	db, err := Open(seedDB(t))
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.KeypointCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ImageStat{
		{Name: "color_000.png", Count: 1500},
		{Name: "color_001.png", Count: 900},
		{Name: "color_002.png", Count: 0},
	}, stats)
}

func TestMatchPartners(t *testing.T) {
	db, err := Open(seedDB(t))
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.MatchPartners(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ImageStat{
		{Name: "color_000.png", Count: 2},
		{Name: "color_001.png", Count: 1},
	}, stats)
}
