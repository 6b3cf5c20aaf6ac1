// Package colmap runs diagnostic queries against a reconstruction database
// produced by the downstream sparse-reconstruction tool. Read-only; the
// schema belongs to that tool.
package colmap

import (
	"context"
	"database/sql"
	"os"

	// sqlite driver, registered as "sqlite3".
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// DB wraps a read-only handle on a reconstruction database file.
type DB struct {
	conn *sql.DB
}

// Open fails when the file does not exist rather than silently creating an
// empty database.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "database %s", path)
	}
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening database %s", path)
	}
	return &DB{conn: conn}, nil
}

// Close releases the handle.
func (d *DB) Close() error {
	return d.conn.Close()
}

// ImageStat pairs an image name with a per-image count.
type ImageStat struct {
	Name  string
	Count int
}

// KeypointCounts returns the number of detected keypoints per image.
func (d *DB) KeypointCounts(ctx context.Context) ([]ImageStat, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT images.name, keypoints.rows
		FROM images
		JOIN keypoints ON images.image_id = keypoints.image_id
		ORDER BY images.name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying keypoint counts")
	}
	return collectStats(rows)
}

// MatchPartners returns, per image, how many distinct other images it was
// matched against.
func (d *DB) MatchPartners(ctx context.Context) ([]ImageStat, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT im.name, COUNT(DISTINCT m.image_id2)
		FROM matches AS m
		JOIN images AS im ON m.image_id1 = im.image_id
		GROUP BY im.name
		ORDER BY im.name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying match partners")
	}
	return collectStats(rows)
}

func collectStats(rows *sql.Rows) ([]ImageStat, error) {
	defer rows.Close()
	var stats []ImageStat
	for rows.Next() {
		var s ImageStat
		if err := rows.Scan(&s.Name, &s.Count); err != nil {
			return nil, errors.Wrap(err, "scanning image stat")
		}
		stats = append(stats, s)
	}
	return stats, errors.Wrap(rows.Err(), "iterating image stats")
}
