package api

import (
	"github.com/starford/raido/internal/library"
	"github.com/starford/raido/internal/storyservice"
	"github.com/starford/raido/internal/trajectory"
)

// CreateDomainRequest is the request body for creating a domain file.
type CreateDomainRequest struct {
	Path    string `json:"path" example:"tales/fairy.yaml" validate:"required"`
	Content string `json:"content" example:"name: fairy_tale\n..." validate:"required"`
}

// RenderStoryRequest is the request body for rendering a story.
type RenderStoryRequest struct {
	Path      string   `json:"path" example:"tales/fairy.yaml" validate:"required"`
	Metric    string   `json:"metric,omitempty" example:"drama"`
	MaxLength int      `json:"max_length,omitempty" example:"5"`
	Starts    []string `json:"starts,omitempty" example:"i1,i2"`
}

// DomainDetail is the full domain response type (aliased from the domain layer).
type DomainDetail = storyservice.DomainDetail

// DomainListResponse wraps the domain catalog listing.
type DomainListResponse struct {
	Domains []library.DomainRow `json:"domains" validate:"required"`
	Total   int                 `json:"total" example:"3" validate:"required"`
}

// ValidateResponse wraps a referential consistency report.
type ValidateResponse struct {
	Valid  bool     `json:"valid" example:"false" validate:"required"`
	Report []string `json:"report" validate:"required"`
}

// TrajectoriesResponse wraps enumerated (optionally ranked) trajectories.
type TrajectoriesResponse struct {
	Trajectories []storyservice.ScoredTrajectory `json:"trajectories" validate:"required"`
	Total        int                             `json:"total" example:"12" validate:"required"`
	Metric       string                          `json:"metric,omitempty" example:"novelty"`
}

// RandomTrajectoryResponse wraps a single sampled trajectory.
type RandomTrajectoryResponse struct {
	Trajectory trajectory.Trajectory `json:"trajectory" validate:"required"`
}

// StoryListResponse wraps paginated story listings.
type StoryListResponse struct {
	Stories []library.StoryRow `json:"stories" validate:"required"`
	Total   int                `json:"total" example:"7" validate:"required"`
}

// SearchResponse wraps full-text story search results.
type SearchResponse struct {
	Results []library.StorySearchResult `json:"results" validate:"required"`
}
