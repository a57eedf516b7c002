package library

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/raido/internal/storage"
)

const tinyDomainYAML = `name: tiny
characters: [hero, foe]
locations: [arena]
intentions:
  - {id: clash, character: hero, target: foe, location: arena}
`

func testStore(t *testing.T) storage.Provider {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSyncCatalogsNewFiles(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	_ = store.Write("tiny.yaml", []byte(tinyDomainYAML))

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	row, err := db.GetDomain("tiny.yaml")
	if err != nil {
		t.Fatalf("GetDomain: %v", err)
	}
	if row.Name != "tiny" || row.Characters != 2 || row.Intentions != 1 {
		t.Errorf("row = %+v", row)
	}
	if !row.Valid {
		t.Errorf("self-consistent domain should be valid: %v", row.Errors)
	}
}

func TestSyncRecordsValidationErrors(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	broken := "characters: [hero]\nlocations: [arena]\nintentions:\n  - {id: i1, character: ghost, target: hero, location: arena}\n"
	_ = store.Write("broken.yaml", []byte(broken))

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	row, err := db.GetDomain("broken.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if row.Valid {
		t.Error("domain with dangling character should be invalid")
	}
	if len(row.Errors) != 1 || row.Errors[0] != "Character 'ghost' missing (id: i1)." {
		t.Errorf("errors = %v", row.Errors)
	}
}

func TestSyncSkipsUnchanged(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	_ = store.Write("tiny.yaml", []byte(tinyDomainYAML))

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatal(err)
	}
	first, _ := db.GetDomain("tiny.yaml")

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatal(err)
	}
	second, _ := db.GetDomain("tiny.yaml")

	if !first.UpdatedAt.Equal(second.UpdatedAt) {
		t.Error("unchanged file should not be re-catalogued")
	}
}

func TestSyncRemovesStale(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	_ = store.Write("tiny.yaml", []byte(tinyDomainYAML))

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatal(err)
	}

	_ = store.Delete("tiny.yaml")
	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatal(err)
	}

	if _, err := db.GetDomain("tiny.yaml"); err == nil {
		t.Error("stale entry should be removed")
	}
}

func TestSyncKeepsRowOnParseFailure(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	_ = store.Write("tiny.yaml", []byte(tinyDomainYAML))
	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatal(err)
	}

	// Overwrite with garbage; the old catalog row must survive.
	_ = store.Write("tiny.yaml", []byte("intentions: [{id: 42}"))
	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatal(err)
	}

	row, err := db.GetDomain("tiny.yaml")
	if err != nil {
		t.Fatalf("row wiped by malformed file: %v", err)
	}
	if row.Name != "tiny" {
		t.Errorf("row = %+v", row)
	}
}

func TestCatalogNameFallsBackToFilename(t *testing.T) {
	db := testDB(t)
	data := []byte("characters: [a]\nlocations: [x]\nintentions: []\n")

	if err := Catalog(db, "tales/unnamed.yaml", "cs1", data); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	row, err := db.GetDomain("tales/unnamed.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if row.Name != "unnamed" {
		t.Errorf("name = %q, want filename stem", row.Name)
	}
}
