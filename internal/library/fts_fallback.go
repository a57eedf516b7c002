//go:build !sqlite_fts5

package library

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; story search uses a LIKE fallback on stories.content.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _ string) error {
	// Content is already stored in the stories table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// SearchStories performs a LIKE-based search (fallback when FTS5 is not
// compiled in).
func (db *DB) SearchStories(query string, limit int) ([]StorySearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT id, domain_path, substr(content, 1, 200)
		FROM stories
		WHERE content LIKE ? OR domain_path LIKE ?
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("library: search stories: %w", err)
	}
	defer rows.Close()

	var out []StorySearchResult
	for rows.Next() {
		var r StorySearchResult
		if err := rows.Scan(&r.ID, &r.DomainPath, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
