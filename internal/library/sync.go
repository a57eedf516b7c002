package library

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/raido/internal/idg"
	"github.com/starford/raido/internal/loader"
	"github.com/starford/raido/internal/storage"
)

// Sync walks the domain library and brings the catalog up to date:
//   - new/changed domain files are parsed, validated, and upserted
//   - files removed from disk are deleted from the catalog
//
// Parse failures keep the old catalog row and are logged; a malformed file
// must not wipe out the last known-good entry.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := Catalog(db, m.Path, m.Checksum, data); err != nil {
			logger.Warn("sync: catalog failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: catalogued", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDomain(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// Catalog parses data, runs the referential validation report, and upserts
// the catalog row. Exported so the watcher and the story service can reuse it.
func Catalog(db *DB, path, checksum string, data []byte) error {
	d, err := loader.Parse(data)
	if err != nil {
		return err
	}

	report := idg.NewBuilder(d).Validate()

	name := d.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return db.UpsertDomain(DomainRow{
		Path:         path,
		Name:         name,
		Checksum:     checksum,
		Characters:   len(d.Characters),
		Locations:    len(d.Locations),
		Intentions:   len(d.Intentions),
		Dependencies: len(d.Dependencies),
		Valid:        len(report) == 0,
		Errors:       report,
		UpdatedAt:    time.Now(),
	})
}
