// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/storyservice"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *storyservice.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *storyservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_domains",
		mcp.WithDescription("List all catalogued narrative domains with their validity status."),
	), s.listDomains)

	s.mcp.AddTool(mcp.NewTool("read_domain",
		mcp.WithDescription("Read a narrative domain: its characters, locations, intentions, "+
			"dependency graph topology, and referential consistency report."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the domain file (e.g. tales/fairy.yaml)")),
	), s.readDomain)

	s.mcp.AddTool(mcp.NewTool("create_domain",
		mcp.WithDescription("Create a new narrative domain file at the specified path. "+
			"Content MUST follow the canonical domain format (YAML with characters, locations, "+
			"intentions, dependencies). Read the contract first via the get_domain_contract tool "+
			"or the raido://domain-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new domain (must end with .yaml or .yml)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("YAML content following the Raido domain format contract")),
	), s.createDomain)

	s.mcp.AddTool(mcp.NewTool("validate_domain",
		mcp.WithDescription("Report every dangling reference in a domain file. "+
			"An empty report means the domain is fully self-consistent."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the domain file")),
	), s.validateDomain)

	s.mcp.AddTool(mcp.NewTool("explore_trajectories",
		mcp.WithDescription("Enumerate trajectories (paths of intentions) through a domain's "+
			"dependency graph, optionally ranked by a metric (novelty, coherence, drama)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the domain file")),
		mcp.WithNumber("max_length", mcp.Description("Maximum trajectory length (default 5, cap 12)")),
		mcp.WithString("metric", mcp.Description("Ranking metric: novelty, coherence, or drama (empty for unranked)")),
		mcp.WithString("starts", mcp.Description("Comma-separated start intention ids (empty for all roots)")),
	), s.exploreTrajectories)

	s.mcp.AddTool(mcp.NewTool("random_trajectory",
		mcp.WithDescription("Sample one random trajectory through a domain's dependency graph."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the domain file")),
		mcp.WithNumber("max_length", mcp.Description("Maximum trajectory length (default 5, cap 12)")),
		mcp.WithString("starts", mcp.Description("Comma-separated start intention ids (empty for all roots)")),
	), s.randomTrajectory)

	s.mcp.AddTool(mcp.NewTool("render_story",
		mcp.WithDescription("Render the best trajectory of a domain into a prose story and "+
			"archive it. Trajectories are ranked by the given metric (default novelty)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the domain file")),
		mcp.WithString("metric", mcp.Description("Ranking metric: novelty, coherence, or drama (default novelty)")),
		mcp.WithNumber("max_length", mcp.Description("Maximum trajectory length (default 5, cap 12)")),
	), s.renderStory)

	s.mcp.AddTool(mcp.NewTool("search_stories",
		mcp.WithDescription("Full-text search through archived story content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchStories)

	s.mcp.AddTool(mcp.NewTool("get_domain_contract",
		mcp.WithDescription("Returns the canonical Raido domain format contract. "+
			"Call this before creating domain files to ensure correct structure."),
	), s.getDomainContract)

	// Resource: domain format contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://domain-format", "Domain Format Contract",
			mcp.WithResourceDescription("Canonical YAML domain format that all domain files must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDomainFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// startsArg splits a comma-separated starts argument. Empty input yields nil,
// which the explorer treats as "all roots".
func startsArg(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listDomains(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.svc.ListDomains(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rows), nil
}

func (s *Server) readDomain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetDomain(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return jsonResult(detail), nil
}

func (s *Server) createDomain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.CreateDomain(ctx, path, []byte(content)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", path)), nil
}

func (s *Server) validateDomain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.svc.ValidateDomain(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(report) == 0 {
		return mcp.NewToolResultText("domain is fully self-consistent"), nil
	}
	return mcp.NewToolResultText(strings.Join(report, "\n")), nil
}

func (s *Server) exploreTrajectories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxLength := req.GetInt("max_length", 0)
	metric := req.GetString("metric", "")
	starts := startsArg(req.GetString("starts", ""))

	scored, err := s.svc.Trajectories(ctx, path, maxLength, starts, metric)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(scored), nil
}

func (s *Server) randomTrajectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxLength := req.GetInt("max_length", 0)
	starts := startsArg(req.GetString("starts", ""))

	t, err := s.svc.RandomTrajectory(ctx, path, maxLength, starts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t), nil
}

func (s *Server) renderStory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	metric := req.GetString("metric", "")
	maxLength := req.GetInt("max_length", 0)

	story, err := s.svc.RenderStory(ctx, path, maxLength, nil, metric)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(story), nil
}

func (s *Server) searchStories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.SearchStories(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results), nil
}

func (s *Server) getDomainContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DomainFormatContract), nil
}

func (s *Server) readDomainFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://domain-format",
			MIMEType: "text/markdown",
			Text:     DomainFormatContract,
		},
	}, nil
}
