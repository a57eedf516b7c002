//go:build sqlite_fts5

package library

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS stories_fts USING fts5(
			id UNINDEXED,
			domain_path,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, id, domainPath, content string) error {
	_, _ = tx.Exec(`DELETE FROM stories_fts WHERE id = ?`, id)
	_, err := tx.Exec(`INSERT INTO stories_fts (id, domain_path, content) VALUES (?, ?, ?)`,
		id, domainPath, content)
	if err != nil {
		return fmt.Errorf("library: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) {
	_, _ = tx.Exec(`DELETE FROM stories_fts WHERE id = ?`, id)
}

// SearchStories performs an FTS5 full-text search over archived story content
// and returns matching results with snippets.
func (db *DB) SearchStories(query string, limit int) ([]StorySearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id,
		       domain_path,
		       snippet(stories_fts, 2, '<b>', '</b>', '...', 64)
		FROM stories_fts
		WHERE stories_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
