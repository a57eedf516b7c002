// Package storyservice coordinates the domain library, the graph core, and
// the renderer: it loads domain files, builds and explores intention
// dependency graphs, and renders chosen trajectories into archived stories.
package storyservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/explorer"
	"github.com/starford/raido/internal/idg"
	"github.com/starford/raido/internal/library"
	"github.com/starford/raido/internal/loader"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/renderer"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/trajectory"
)

// Trajectory length bounds for the serving surfaces. The core enumerates
// unbounded except for max length; these keep a public endpoint from being
// driven into combinatorial blowup. The core itself never caps internally.
const (
	DefaultMaxLength = 5
	HardMaxLength    = 12
)

// DomainDetail is the full representation of one domain.
type DomainDetail struct {
	Path      string         `json:"path"`
	Domain    *models.Domain `json:"domain"`
	Report    []string       `json:"report"`
	Roots     []string       `json:"roots"`
	Leaves    []string       `json:"leaves"`
	NodeCount int            `json:"node_count"`
	EdgeCount int            `json:"edge_count"`
}

// GraphNode is one intention in a graph projection.
type GraphNode struct {
	ID string `json:"id"`
	idg.NodeData
}

// GraphLink is one dependency edge in a graph projection.
type GraphLink struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// GraphView is a domain's graph projected for visualization clients.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// ScoredTrajectory pairs a trajectory with its score under the ranking
// metric.
type ScoredTrajectory struct {
	Trajectory trajectory.Trajectory `json:"trajectory"`
	Score      float64               `json:"score"`
}

// Service coordinates storage, catalog, and rendering operations.
type Service struct {
	store    storage.Provider
	db       *library.DB
	renderer *renderer.Renderer
}

// NewService creates a new story service.
func NewService(store storage.Provider, db *library.DB, r *renderer.Renderer) *Service {
	return &Service{store: store, db: db, renderer: r}
}

// ListDomains returns the domain catalog.
func (s *Service) ListDomains(_ context.Context) ([]library.DomainRow, error) {
	return s.db.ListDomains()
}

// GetDomain loads a domain file and returns it with its referential report
// and graph topology summary.
func (s *Service) GetDomain(_ context.Context, path string) (*DomainDetail, error) {
	d, err := s.loadDomain(path)
	if err != nil {
		return nil, err
	}

	builder := idg.NewBuilder(d)
	g := builder.Build()

	return &DomainDetail{
		Path:      path,
		Domain:    d,
		Report:    nonNilSlice(builder.Validate()),
		Roots:     sortedIDs(g.RootIntentions()),
		Leaves:    sortedIDs(g.LeafIntentions()),
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
	}, nil
}

// CreateDomain writes a new domain file and catalogs it. The content must
// parse; structural errors fail fast before anything is written.
func (s *Service) CreateDomain(_ context.Context, path string, content []byte) (*DomainDetail, error) {
	if !storage.IsDomainFile(path) {
		return nil, fmt.Errorf("storyservice: %q is not a domain file path: %w", path, apperr.ErrInvalid)
	}
	if _, err := s.store.Read(path); err == nil {
		return nil, fmt.Errorf("storyservice: domain %q: %w", path, apperr.ErrAlreadyExists)
	}
	if _, err := loader.Parse(content); err != nil {
		return nil, err
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := library.Catalog(s.db, path, checksum.Sum(content), content); err != nil {
		return nil, err
	}
	return s.GetDomain(context.Background(), path)
}

// ValidateDomain returns the referential consistency report for a domain.
// An empty report means the domain is fully self-consistent.
func (s *Service) ValidateDomain(_ context.Context, path string) ([]string, error) {
	d, err := s.loadDomain(path)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(idg.NewBuilder(d).Validate()), nil
}

// Graph projects a domain's dependency graph for visualization.
func (s *Service) Graph(_ context.Context, path string) (*GraphView, error) {
	g, err := s.buildGraph(path)
	if err != nil {
		return nil, err
	}

	view := &GraphView{Nodes: []GraphNode{}, Links: []GraphLink{}}
	for _, id := range g.Intentions() {
		data, _ := g.IntentionData(id)
		view.Nodes = append(view.Nodes, GraphNode{ID: id, NodeData: data})
	}
	for _, e := range g.Edges() {
		data, _ := g.DependencyData(e.From, e.To)
		view.Links = append(view.Links, GraphLink{From: e.From, To: e.To, Type: data.Type})
	}
	return view, nil
}

// Trajectories enumerates trajectories through a domain's graph and, when
// metricName is non-empty, ranks them by it with per-trajectory scores.
func (s *Service) Trajectories(_ context.Context, path string, maxLength int, starts []string, metricName string) ([]ScoredTrajectory, error) {
	g, err := s.buildGraph(path)
	if err != nil {
		return nil, err
	}

	exp := explorer.New(g)
	ts, err := exp.Trajectories(clampLength(maxLength), starts)
	if err != nil {
		return nil, err
	}

	if metricName == "" {
		out := make([]ScoredTrajectory, len(ts))
		for i, t := range ts {
			out[i] = ScoredTrajectory{Trajectory: t}
		}
		return out, nil
	}

	ranked, err := exp.Rank(ts, metricName)
	if err != nil {
		return nil, err
	}
	m, _ := exp.Metric(metricName)
	out := make([]ScoredTrajectory, len(ranked))
	for i, t := range ranked {
		out[i] = ScoredTrajectory{Trajectory: t, Score: m.Score(t)}
	}
	return out, nil
}

// RandomTrajectory samples one random trajectory through a domain's graph.
func (s *Service) RandomTrajectory(_ context.Context, path string, maxLength int, starts []string) (trajectory.Trajectory, error) {
	g, err := s.buildGraph(path)
	if err != nil {
		return trajectory.Trajectory{}, err
	}
	return explorer.New(g).RandomTrajectory(clampLength(maxLength), starts)
}

// RenderStory enumerates and ranks a domain's trajectories, renders the
// best one, and archives the result. metricName defaults to "novelty".
func (s *Service) RenderStory(ctx context.Context, path string, maxLength int, starts []string, metricName string) (*library.StoryRow, error) {
	if metricName == "" {
		metricName = "novelty"
	}

	g, err := s.buildGraph(path)
	if err != nil {
		return nil, err
	}

	exp := explorer.New(g)
	ts, err := exp.Trajectories(clampLength(maxLength), starts)
	if err != nil {
		return nil, err
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("storyservice: domain %q has no trajectories: %w", path, apperr.ErrNotFound)
	}

	ranked, err := exp.Rank(ts, metricName)
	if err != nil {
		return nil, err
	}
	best := ranked[0]
	m, _ := exp.Metric(metricName)

	content, err := s.renderer.Render(ctx, best)
	if err != nil {
		return nil, err
	}

	prompt := renderer.BuildPrompt(best)
	now := time.Now()
	story := library.StoryRow{
		ID:           checksum.SumString(fmt.Sprintf("%s|%s|%d", path, prompt, now.UnixNano())),
		DomainPath:   path,
		Metric:       metricName,
		Score:        m.Score(best),
		IntentionIDs: best.IDs(),
		Prompt:       prompt,
		Content:      content,
		CreatedAt:    now,
	}
	if err := s.db.InsertStory(story); err != nil {
		return nil, err
	}
	return &story, nil
}

// GetStory returns one archived story.
func (s *Service) GetStory(_ context.Context, id string) (*library.StoryRow, error) {
	return s.db.GetStory(id)
}

// ListStories returns archived stories, optionally filtered by domain path.
func (s *Service) ListStories(_ context.Context, domainPath string, limit, offset int) ([]library.StoryRow, int, error) {
	return s.db.ListStories(domainPath, limit, offset)
}

// SearchStories delegates full-text story search to the library.
func (s *Service) SearchStories(_ context.Context, query string, limit int) ([]library.StorySearchResult, error) {
	return s.db.SearchStories(query, limit)
}

// loadDomain reads and parses a domain file from the library.
func (s *Service) loadDomain(path string) (*models.Domain, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storyservice: domain %q: %w", path, apperr.ErrNotFound)
		}
		return nil, err
	}
	return loader.Parse(data)
}

// buildGraph loads a domain and builds its dependency graph.
func (s *Service) buildGraph(path string) (*idg.IDG, error) {
	d, err := s.loadDomain(path)
	if err != nil {
		return nil, err
	}
	return idg.NewBuilder(d).Build(), nil
}

// clampLength applies the serving-surface trajectory length bounds.
func clampLength(n int) int {
	if n <= 0 {
		return DefaultMaxLength
	}
	if n > HardMaxLength {
		return HardMaxLength
	}
	return n
}

func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
