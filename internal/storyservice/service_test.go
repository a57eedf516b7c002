package storyservice

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/library"
	"github.com/starford/raido/internal/renderer"
	"github.com/starford/raido/internal/storage"
)

const fairyTaleYAML = `name: fairy_tale
characters: [princess, dragon, knight]
locations: [castle, forest]
intentions:
  - {id: kidnap, character: dragon, target: princess, location: castle}
  - {id: rescue, character: knight, target: princess, location: forest}
dependencies:
  - {from_intention: kidnap, to_intention: rescue, type: motivational}
`

const brokenYAML = `name: broken
characters: [hero]
locations: [cave]
intentions:
  - {id: i1, character: unknown, target: hero, location: cave}
`

func testService(t *testing.T) *Service {
	t.Helper()

	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "raido-storyservice-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := library.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewService(store, db, renderer.New(nil))
}

func mustCreate(t *testing.T, svc *Service, path, content string) {
	t.Helper()
	if _, err := svc.CreateDomain(context.Background(), path, []byte(content)); err != nil {
		t.Fatalf("CreateDomain(%s): %v", path, err)
	}
}

func TestCreateDomain(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	detail, err := svc.CreateDomain(ctx, "tale.yaml", []byte(fairyTaleYAML))
	if err != nil {
		t.Fatalf("CreateDomain: %v", err)
	}
	if detail.Domain.Name != "fairy_tale" || detail.NodeCount != 2 || detail.EdgeCount != 1 {
		t.Errorf("detail = %+v", detail)
	}
	if len(detail.Roots) != 1 || detail.Roots[0] != "kidnap" {
		t.Errorf("roots = %v", detail.Roots)
	}
	if len(detail.Leaves) != 1 || detail.Leaves[0] != "rescue" {
		t.Errorf("leaves = %v", detail.Leaves)
	}

	// Catalogued immediately, no sync pass needed.
	rows, err := svc.ListDomains(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Path != "tale.yaml" {
		t.Errorf("catalog = %+v", rows)
	}
}

func TestCreateDomainDuplicate(t *testing.T) {
	svc := testService(t)
	mustCreate(t, svc, "tale.yaml", fairyTaleYAML)

	_, err := svc.CreateDomain(context.Background(), "tale.yaml", []byte(fairyTaleYAML))
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("error = %v, want ErrAlreadyExists", err)
	}
}

func TestCreateDomainBadExtension(t *testing.T) {
	svc := testService(t)
	_, err := svc.CreateDomain(context.Background(), "tale.txt", []byte(fairyTaleYAML))
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
}

func TestCreateDomainUnparseable(t *testing.T) {
	svc := testService(t)
	_, err := svc.CreateDomain(context.Background(), "bad.yaml", []byte("intentions: [{id: 42}"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	// Nothing written on failure.
	if _, err := svc.GetDomain(context.Background(), "bad.yaml"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("file should not exist after failed create: %v", err)
	}
}

func TestGetDomainMissing(t *testing.T) {
	svc := testService(t)
	_, err := svc.GetDomain(context.Background(), "nope.yaml")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestValidateDomain(t *testing.T) {
	svc := testService(t)
	mustCreate(t, svc, "good.yaml", fairyTaleYAML)
	mustCreate(t, svc, "broken.yaml", brokenYAML)
	ctx := context.Background()

	report, err := svc.ValidateDomain(ctx, "good.yaml")
	if err != nil {
		t.Fatalf("ValidateDomain: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("report = %v, want empty", report)
	}

	report, err = svc.ValidateDomain(ctx, "broken.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(report) != 1 || report[0] != "Character 'unknown' missing (id: i1)." {
		t.Errorf("report = %v", report)
	}
}

func TestGraph(t *testing.T) {
	svc := testService(t)
	mustCreate(t, svc, "tale.yaml", fairyTaleYAML)

	view, err := svc.Graph(context.Background(), "tale.yaml")
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(view.Nodes) != 2 || len(view.Links) != 1 {
		t.Errorf("graph = %d nodes / %d links", len(view.Nodes), len(view.Links))
	}
	if view.Links[0].From != "kidnap" || view.Links[0].To != "rescue" || view.Links[0].Type != "motivational" {
		t.Errorf("link = %+v", view.Links[0])
	}
}

func TestTrajectoriesUnranked(t *testing.T) {
	svc := testService(t)
	mustCreate(t, svc, "tale.yaml", fairyTaleYAML)

	ts, err := svc.Trajectories(context.Background(), "tale.yaml", 0, nil, "")
	if err != nil {
		t.Fatalf("Trajectories: %v", err)
	}
	// [kidnap] and [kidnap rescue].
	if len(ts) != 2 {
		t.Fatalf("len = %d, want 2", len(ts))
	}
	for _, st := range ts {
		if st.Score != 0 {
			t.Errorf("unranked trajectory carries score %v", st.Score)
		}
	}
}

func TestTrajectoriesRanked(t *testing.T) {
	svc := testService(t)
	mustCreate(t, svc, "tale.yaml", fairyTaleYAML)

	ts, err := svc.Trajectories(context.Background(), "tale.yaml", 0, nil, "novelty")
	if err != nil {
		t.Fatalf("Trajectories: %v", err)
	}
	for i := 1; i < len(ts); i++ {
		if ts[i-1].Score < ts[i].Score {
			t.Errorf("scores not descending: %v then %v", ts[i-1].Score, ts[i].Score)
		}
	}
}

func TestTrajectoriesUnknownMetric(t *testing.T) {
	svc := testService(t)
	mustCreate(t, svc, "tale.yaml", fairyTaleYAML)

	_, err := svc.Trajectories(context.Background(), "tale.yaml", 0, nil, "spice")
	if !errors.Is(err, apperr.ErrUnknownMetric) {
		t.Errorf("error = %v, want ErrUnknownMetric", err)
	}
}

func TestClampLength(t *testing.T) {
	cases := map[int]int{
		0:   DefaultMaxLength,
		-3:  DefaultMaxLength,
		1:   1,
		12:  12,
		13:  HardMaxLength,
		100: HardMaxLength,
	}
	for in, want := range cases {
		if got := clampLength(in); got != want {
			t.Errorf("clampLength(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRandomTrajectory(t *testing.T) {
	svc := testService(t)
	mustCreate(t, svc, "tale.yaml", fairyTaleYAML)

	tr, err := svc.RandomTrajectory(context.Background(), "tale.yaml", 0, nil)
	if err != nil {
		t.Fatalf("RandomTrajectory: %v", err)
	}
	if tr.Len() < 1 || tr.Intentions[0].ID != "kidnap" {
		t.Errorf("trajectory = %v", tr.IDs())
	}
}

func TestRenderStoryArchives(t *testing.T) {
	svc := testService(t)
	mustCreate(t, svc, "tale.yaml", fairyTaleYAML)
	ctx := context.Background()

	story, err := svc.RenderStory(ctx, "tale.yaml", 0, nil, "")
	if err != nil {
		t.Fatalf("RenderStory: %v", err)
	}
	if story.Metric != "novelty" {
		t.Errorf("metric = %q, want default novelty", story.Metric)
	}
	if story.ID == "" || story.Content == "" || story.Prompt == "" {
		t.Errorf("story incomplete: %+v", story)
	}
	if len(story.IntentionIDs) == 0 {
		t.Error("intention ids missing")
	}

	got, err := svc.GetStory(ctx, story.ID)
	if err != nil {
		t.Fatalf("GetStory: %v", err)
	}
	if got.Content != story.Content {
		t.Error("archived content differs")
	}

	rows, total, err := svc.ListStories(ctx, "tale.yaml", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(rows) != 1 {
		t.Errorf("stories = %d/%d, want 1/1", len(rows), total)
	}
}

func TestRenderStoryNoTrajectories(t *testing.T) {
	svc := testService(t)
	// Pure cycle: no roots, default starts yield no trajectories.
	cycle := `name: loop
characters: [a, b]
locations: [x]
intentions:
  - {id: i1, character: a, target: b, location: x}
  - {id: i2, character: b, target: a, location: x}
dependencies:
  - {from_intention: i1, to_intention: i2, type: intentional}
  - {from_intention: i2, to_intention: i1, type: intentional}
`
	mustCreate(t, svc, "loop.yaml", cycle)

	_, err := svc.RenderStory(context.Background(), "loop.yaml", 0, nil, "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSearchStories(t *testing.T) {
	svc := testService(t)
	mustCreate(t, svc, "tale.yaml", fairyTaleYAML)
	ctx := context.Background()

	if _, err := svc.RenderStory(ctx, "tale.yaml", 0, nil, "drama"); err != nil {
		t.Fatal(err)
	}

	hits, err := svc.SearchStories(ctx, "wolf", 10)
	if err != nil {
		t.Fatalf("SearchStories: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].DomainPath != "tale.yaml" {
		t.Errorf("hit = %+v", hits[0])
	}
}
