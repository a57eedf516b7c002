package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/raido/internal/apperr"
)

// DomainRow represents a catalogued domain file.
type DomainRow struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Checksum     string    `json:"checksum"`
	Characters   int       `json:"characters"`
	Locations    int       `json:"locations"`
	Intentions   int       `json:"intentions"`
	Dependencies int       `json:"dependencies"`
	Valid        bool      `json:"valid"`
	Errors       []string  `json:"errors"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StoryRow represents one archived rendered story.
type StoryRow struct {
	ID           string    `json:"id"`
	DomainPath   string    `json:"domain_path"`
	Metric       string    `json:"metric"`
	Score        float64   `json:"score"`
	IntentionIDs []string  `json:"intention_ids"`
	Prompt       string    `json:"prompt,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

// StorySearchResult represents one story search hit.
type StorySearchResult struct {
	ID         string `json:"id"`
	DomainPath string `json:"domain_path"`
	Snippet    string `json:"snippet"`
}

// UpsertDomain inserts or replaces a domain catalog row.
func (db *DB) UpsertDomain(d DomainRow) error {
	errsJSON, _ := json.Marshal(d.Errors)
	if d.Errors == nil {
		errsJSON = []byte("[]")
	}
	_, err := db.conn.Exec(`
		INSERT INTO domains (path, name, checksum, characters, locations, intentions, dependencies, valid, errors, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name         = excluded.name,
			checksum     = excluded.checksum,
			characters   = excluded.characters,
			locations    = excluded.locations,
			intentions   = excluded.intentions,
			dependencies = excluded.dependencies,
			valid        = excluded.valid,
			errors       = excluded.errors,
			updated_at   = excluded.updated_at
	`, d.Path, d.Name, d.Checksum, d.Characters, d.Locations, d.Intentions, d.Dependencies,
		boolInt(d.Valid), string(errsJSON), d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("library: upsert domain: %w", err)
	}
	return nil
}

// DeleteDomain removes a domain row and its archived stories.
func (db *DB) DeleteDomain(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("library: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	rows, qErr := tx.Query(`SELECT id FROM stories WHERE domain_path = ?`, path)
	if qErr == nil {
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err == nil {
				ids = append(ids, id)
			}
		}
		rows.Close()
		for _, id := range ids {
			ftsDelete(tx, id)
		}
	}

	_, _ = tx.Exec(`DELETE FROM stories WHERE domain_path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM domains WHERE path = ?`, path)

	return tx.Commit()
}

// GetDomain returns the catalog row for a domain path.
func (db *DB) GetDomain(path string) (*DomainRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, name, checksum, characters, locations, intentions, dependencies, valid, errors, updated_at
		FROM domains WHERE path = ?
	`, path)
	d, err := scanDomain(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("library: domain %q: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("library: get domain: %w", err)
	}
	return d, nil
}

// ListDomains returns every catalogued domain ordered by path.
func (db *DB) ListDomains() ([]DomainRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, name, checksum, characters, locations, intentions, dependencies, valid, errors, updated_at
		FROM domains ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("library: list domains: %w", err)
	}
	defer rows.Close()

	var out []DomainRow
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// AllChecksums returns the stored checksum for every catalogued domain path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM domains`)
	if err != nil {
		return nil, fmt.Errorf("library: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// InsertStory archives a rendered story and its FTS entry.
func (db *DB) InsertStory(s StoryRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("library: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	idsJSON, _ := json.Marshal(s.IntentionIDs)
	_, err = tx.Exec(`
		INSERT INTO stories (id, domain_path, metric, score, intentions, prompt, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.DomainPath, s.Metric, s.Score, string(idsJSON), s.Prompt, s.Content, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("library: insert story: %w", err)
	}

	if err := ftsUpsert(tx, s.ID, s.DomainPath, s.Content); err != nil {
		return err
	}

	return tx.Commit()
}

// GetStory returns one archived story by id.
func (db *DB) GetStory(id string) (*StoryRow, error) {
	row := db.conn.QueryRow(`
		SELECT id, domain_path, metric, score, intentions, prompt, content, created_at
		FROM stories WHERE id = ?
	`, id)
	s, err := scanStory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("library: story %q: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("library: get story: %w", err)
	}
	return s, nil
}

// ListStories returns archived stories, newest first, optionally filtered by
// domain path.
func (db *DB) ListStories(domainPath string, limit, offset int) ([]StoryRow, int, error) {
	if limit <= 0 {
		limit = 20
	}
	where := ""
	args := []any{}
	if domainPath != "" {
		where = "WHERE domain_path = ?"
		args = append(args, domainPath)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM stories `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("library: count stories: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := db.conn.Query(`
		SELECT id, domain_path, metric, score, intentions, prompt, content, created_at
		FROM stories `+where+`
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("library: list stories: %w", err)
	}
	defer rows.Close()

	var out []StoryRow
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDomain(sc scanner) (*DomainRow, error) {
	var d DomainRow
	var valid int
	var errsJSON string
	if err := sc.Scan(&d.Path, &d.Name, &d.Checksum, &d.Characters, &d.Locations,
		&d.Intentions, &d.Dependencies, &valid, &errsJSON, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Valid = valid != 0
	_ = json.Unmarshal([]byte(errsJSON), &d.Errors)
	return &d, nil
}

func scanStory(sc scanner) (*StoryRow, error) {
	var s StoryRow
	var idsJSON string
	if err := sc.Scan(&s.ID, &s.DomainPath, &s.Metric, &s.Score, &idsJSON,
		&s.Prompt, &s.Content, &s.CreatedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(idsJSON), &s.IntentionIDs)
	return &s, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
