package store

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// mediaKinds maps file extensions to media kinds.
var mediaKinds = map[string]string{
	".jpg":  "photo",
	".jpeg": "photo",
	".png":  "photo",
	".gif":  "photo",
	".webp": "photo",
	".heic": "photo",
	".raw":  "photo",
	".dng":  "photo",
	".mp4":  "video",
	".mov":  "video",
	".mkv":  "video",
	".webm": "video",
	".avi":  "video",
}

const scanBatchSize = 500

// ScanResult summarizes one indexing pass.
type ScanResult struct {
	Scanned int
	Indexed int
	Skipped int
}

// Scan walks dir, indexing every media file it finds. Capture time is taken
// from file modification time; items already indexed (by path) are skipped.
func (s *Store) Scan(ctx context.Context, dir string) (ScanResult, error) {
	var result ScanResult
	batch := make([]MediaItem, 0, scanBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, err := s.InsertItems(ctx, batch)
		if err != nil {
			return err
		}
		result.Indexed += inserted
		result.Skipped += len(batch) - inserted
		batch = batch[:0]
		return nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			// Skip hidden directories like .thumbnails.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}

		kind, ok := mediaKinds[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
			return nil
		}

		result.Scanned++
		batch = append(batch, MediaItem{
			ID:      uuid.NewString(),
			Path:    path,
			Kind:    kind,
			TakenAt: info.ModTime(),
		})
		if len(batch) >= scanBatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("scan of %s failed: %w", dir, err)
	}

	if err := flush(); err != nil {
		return result, err
	}

	s.log.Info().
		Str("dir", dir).
		Int("scanned", result.Scanned).
		Int("indexed", result.Indexed).
		Msg("library scan complete")
	return result, nil
}
