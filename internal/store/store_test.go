package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"), 1000, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return ts
}

func seedItems(t *testing.T, s *Store) {
	t.Helper()
	items := []MediaItem{
		{ID: "a1", Path: "/p/a1.jpg", Kind: "photo", TakenAt: day(t, "2026-03-01 09:00")},
		{ID: "a2", Path: "/p/a2.jpg", Kind: "photo", TakenAt: day(t, "2026-03-01 12:00")},
		{ID: "a3", Path: "/p/a3.mp4", Kind: "video", TakenAt: day(t, "2026-03-01 18:00")},
		{ID: "b1", Path: "/p/b1.jpg", Kind: "photo", TakenAt: day(t, "2026-03-03 10:00")},
		{ID: "c1", Path: "/p/c1.jpg", Kind: "photo", TakenAt: day(t, "2026-03-07 08:00")},
		{ID: "c2", Path: "/p/c2.jpg", Kind: "photo", TakenAt: day(t, "2026-03-07 09:00")},
	}
	inserted, err := s.InsertItems(context.Background(), items)
	require.NoError(t, err)
	require.Equal(t, len(items), inserted)
}

func TestBuckets(t *testing.T) {
	s := openTestStore(t)
	seedItems(t, s)

	buckets, err := s.Buckets(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	assert.Equal(t, "2026-03-01", buckets[0].ID)
	assert.Equal(t, 3, buckets[0].ItemCount)
	assert.Equal(t, "2026-03-03", buckets[1].ID)
	assert.Equal(t, 1, buckets[1].ItemCount)
	assert.Equal(t, "2026-03-07", buckets[2].ID)
	assert.Equal(t, 2, buckets[2].ItemCount)

	descending, err := s.Buckets(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-07", descending[0].ID)
	assert.Equal(t, "2026-03-01", descending[2].ID)
}

func TestBucketsEmptyLibrary(t *testing.T) {
	s := openTestStore(t)

	buckets, err := s.Buckets(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestSections(t *testing.T) {
	s := openTestStore(t)
	seedItems(t, s)

	sections, err := s.Sections(context.Background(), "2026-03-01")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "2026-03-01", sections[0].DateKey)
	require.Len(t, sections[0].Items, 3)

	// Ordered by capture time.
	assert.Equal(t, "a1", sections[0].Items[0].ID)
	assert.Equal(t, "a3", sections[0].Items[2].ID)

	empty, err := s.Sections(context.Background(), "2026-12-31")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInsertItemsIgnoresDuplicatePaths(t *testing.T) {
	s := openTestStore(t)
	seedItems(t, s)

	inserted, err := s.InsertItems(context.Background(), []MediaItem{
		{ID: "dup", Path: "/p/a1.jpg", Kind: "photo", TakenAt: day(t, "2026-03-01 09:00")},
		{ID: "new", Path: "/p/new.jpg", Kind: "photo", TakenAt: day(t, "2026-03-09 09:00")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	seedItems(t, s)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Items: 6, Days: 3, FirstDay: "2026-03-01", LastDay: "2026-03-07"}, stats)
}

func TestScanIndexesMediaFiles(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()

	write := func(rel string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	write("a.jpg")
	write("sub/b.MOV")
	write("notes.txt")
	write(".thumbnails/t.jpg")

	result, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 2, result.Indexed)

	// Re-scanning skips already-indexed paths.
	again, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Scanned)
	assert.Equal(t, 0, again.Indexed)
	assert.Equal(t, 2, again.Skipped)
}
