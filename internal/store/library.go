package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lumen-tui/lumen/internal/timeline"
)

// MediaItem is one indexed entry of the library.
type MediaItem struct {
	ID      string
	Path    string
	Kind    string
	TakenAt time.Time
}

// Day returns the item's bucket key.
func (m MediaItem) Day() string {
	return m.TakenAt.Format("2006-01-02")
}

// Buckets returns one descriptor per day that has items, ordered by day.
// This is the bucket metadata the timeline engine builds its skeleton from.
func (s *Store) Buckets(ctx context.Context, descending bool) ([]timeline.Bucket, error) {
	order := "ASC"
	if descending {
		order = "DESC"
	}
	query := fmt.Sprintf(`SELECT day, COUNT(*) FROM media_items GROUP BY day ORDER BY day %s`, order)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query buckets: %w", err)
	}
	defer rows.Close()

	var buckets []timeline.Bucket
	for rows.Next() {
		var b timeline.Bucket
		if err := rows.Scan(&b.ID, &b.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan bucket row: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read buckets: %w", err)
	}
	return buckets, nil
}

// Sections returns the items of one bucket grouped by date key. A day bucket
// holds exactly one section; the grouping survives in case buckets ever span
// more than a day.
func (s *Store) Sections(ctx context.Context, bucketID string) ([]timeline.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, day FROM media_items WHERE day = ? ORDER BY taken_at, id`, bucketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections for %s: %w", bucketID, err)
	}
	defer rows.Close()

	var sections []timeline.Section
	for rows.Next() {
		var item timeline.Item
		if err := rows.Scan(&item.ID, &item.Path, &item.DateKey); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		if n := len(sections); n == 0 || sections[n-1].DateKey != item.DateKey {
			sections = append(sections, timeline.Section{DateKey: item.DateKey})
		}
		last := &sections[len(sections)-1]
		last.Items = append(last.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sections: %w", err)
	}
	return sections, nil
}

// InsertItems stores a batch of media items, skipping paths already indexed.
func (s *Store) InsertItems(ctx context.Context, items []MediaItem) (int, error) {
	inserted := 0
	err := s.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO media_items (id, path, kind, taken_at, day) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, item := range items {
			res, err := stmt.ExecContext(ctx,
				item.ID, item.Path, item.Kind, item.TakenAt.UTC().Format(time.RFC3339), item.Day())
			if err != nil {
				return fmt.Errorf("failed to insert %s: %w", item.Path, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Stats summarizes the library.
type Stats struct {
	Items    int
	Days     int
	FirstDay string
	LastDay  string
}

// Stats returns item and bucket counts plus the covered date range.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT day), COALESCE(MIN(day), ''), COALESCE(MAX(day), '') FROM media_items`)
	if err := row.Scan(&st.Items, &st.Days, &st.FirstDay, &st.LastDay); err != nil {
		return Stats{}, fmt.Errorf("failed to read stats: %w", err)
	}
	return st, nil
}
