package library

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "raido-library-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleDomain(path string) DomainRow {
	return DomainRow{
		Path:         path,
		Name:         "fairy_tale",
		Checksum:     "abc123",
		Characters:   3,
		Locations:    2,
		Intentions:   2,
		Dependencies: 1,
		Valid:        true,
		UpdatedAt:    time.Now(),
	}
}

func sampleStory(id, domainPath string) StoryRow {
	return StoryRow{
		ID:           id,
		DomainPath:   domainPath,
		Metric:       "novelty",
		Score:        0.75,
		IntentionIDs: []string{"kidnap", "rescue"},
		Prompt:       "Create a story",
		Content:      "Once upon a time a wolf appeared.",
		CreatedAt:    time.Now(),
	}
}

func TestUpsertAndGetDomain(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertDomain(sampleDomain("a.yaml")); err != nil {
		t.Fatalf("UpsertDomain: %v", err)
	}

	got, err := db.GetDomain("a.yaml")
	if err != nil {
		t.Fatalf("GetDomain: %v", err)
	}
	if got.Name != "fairy_tale" || got.Intentions != 2 || !got.Valid {
		t.Errorf("row = %+v", got)
	}

	// Upsert replaces.
	d := sampleDomain("a.yaml")
	d.Checksum = "def456"
	d.Valid = false
	d.Errors = []string{"Character 'x' missing (id: i1)."}
	if err := db.UpsertDomain(d); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, _ = db.GetDomain("a.yaml")
	if got.Checksum != "def456" || got.Valid {
		t.Errorf("row not replaced: %+v", got)
	}
	if len(got.Errors) != 1 {
		t.Errorf("errors = %v", got.Errors)
	}
}

func TestGetDomainMissing(t *testing.T) {
	db := testDB(t)
	_, err := db.GetDomain("nope.yaml")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListDomainsOrdered(t *testing.T) {
	db := testDB(t)
	for _, p := range []string{"b.yaml", "a.yaml", "c.yaml"} {
		if err := db.UpsertDomain(sampleDomain(p)); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := db.ListDomains()
	if err != nil {
		t.Fatalf("ListDomains: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	for i, want := range []string{"a.yaml", "b.yaml", "c.yaml"} {
		if rows[i].Path != want {
			t.Errorf("rows[%d].Path = %q, want %q", i, rows[i].Path, want)
		}
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDomain(sampleDomain("a.yaml"))

	cs, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if cs["a.yaml"] != "abc123" {
		t.Errorf("checksums = %v", cs)
	}
}

func TestInsertAndGetStory(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDomain(sampleDomain("a.yaml"))

	if err := db.InsertStory(sampleStory("s1", "a.yaml")); err != nil {
		t.Fatalf("InsertStory: %v", err)
	}

	got, err := db.GetStory("s1")
	if err != nil {
		t.Fatalf("GetStory: %v", err)
	}
	if got.Metric != "novelty" || got.Score != 0.75 {
		t.Errorf("story = %+v", got)
	}
	if len(got.IntentionIDs) != 2 || got.IntentionIDs[0] != "kidnap" {
		t.Errorf("intention ids = %v", got.IntentionIDs)
	}
}

func TestGetStoryMissing(t *testing.T) {
	db := testDB(t)
	_, err := db.GetStory("ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListStoriesFilterAndCount(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDomain(sampleDomain("a.yaml"))
	_ = db.UpsertDomain(sampleDomain("b.yaml"))
	_ = db.InsertStory(sampleStory("s1", "a.yaml"))
	_ = db.InsertStory(sampleStory("s2", "a.yaml"))
	_ = db.InsertStory(sampleStory("s3", "b.yaml"))

	all, total, err := db.ListStories("", 10, 0)
	if err != nil {
		t.Fatalf("ListStories: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Errorf("all stories = %d/%d, want 3/3", len(all), total)
	}

	filtered, total, err := db.ListStories("a.yaml", 10, 0)
	if err != nil {
		t.Fatalf("ListStories filtered: %v", err)
	}
	if total != 2 || len(filtered) != 2 {
		t.Errorf("filtered = %d/%d, want 2/2", len(filtered), total)
	}

	// Pagination: limit 1 still reports the full total.
	page, total, err := db.ListStories("a.yaml", 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || total != 2 {
		t.Errorf("page = %d/%d, want 1/2", len(page), total)
	}
}

func TestDeleteDomainCascadesStories(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDomain(sampleDomain("a.yaml"))
	_ = db.InsertStory(sampleStory("s1", "a.yaml"))

	if err := db.DeleteDomain("a.yaml"); err != nil {
		t.Fatalf("DeleteDomain: %v", err)
	}

	if _, err := db.GetDomain("a.yaml"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("domain still present: %v", err)
	}
	if _, err := db.GetStory("s1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("story survived domain delete: %v", err)
	}
}

func TestSearchStories(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDomain(sampleDomain("a.yaml"))
	_ = db.InsertStory(sampleStory("s1", "a.yaml"))

	results, err := db.SearchStories("wolf", 10)
	if err != nil {
		t.Fatalf("SearchStories: %v", err)
	}
	if len(results) != 1 || results[0].ID != "s1" {
		t.Errorf("results = %+v", results)
	}
	if results[0].Snippet == "" {
		t.Error("missing snippet")
	}

	none, err := db.SearchStories("spaceship", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("unexpected hits: %+v", none)
	}
}
