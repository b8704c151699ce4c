package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/climatiqq/climatiqq/internal/impact"
	"github.com/climatiqq/climatiqq/internal/store"
)

// ImpactStatsResult is the statistics view for one user.
type ImpactStatsResult struct {
	User string `json:"user"`
	impact.Stats
}

// RecentEntriesResult holds the newest entries for one user.
type RecentEntriesResult struct {
	User    string        `json:"user"`
	Entries []RecentEntry `json:"entries"`
}

// RecentEntry is a single stored entry as reported to MCP clients.
type RecentEntry struct {
	ID          int64   `json:"id"`
	MetricType  string  `json:"metric_type"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

var (
	userSchema        = json.RawMessage(`{"type":"object","properties":{"user":{"type":"string","description":"User whose entries are read (default from config)"}},"additionalProperties":false}`)
	recentNSchema     = json.RawMessage(`{"type":"object","properties":{"user":{"type":"string","description":"User whose entries are read (default from config)"},"n":{"type":"integer","description":"Number of entries to return (default 5)"}},"additionalProperties":false}`)
	userEntriesSchema = json.RawMessage(`{"type":"object","properties":{"entries":{"type":"array","description":"Impact entries with carbon_footprint, water_usage, energy_usage, created_at","items":{"type":"object"}}},"required":["entries"]}`)
)

// addTools registers all MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "predict_suggestions",
		Description: "Personalised sustainability suggestions computed from a user's stored impact entries.",
		InputSchema: userSchema,
		Handler:     s.handlePredictSuggestions,
	})
	s.registerTool(toolDef{
		Name:        "predict_from_entries",
		Description: "Sustainability suggestions for an inline list of impact entries.",
		InputSchema: userEntriesSchema,
		Handler:     s.handlePredictFromEntries,
	})
	s.registerTool(toolDef{
		Name:        "get_impact_stats",
		Description: "Entry counts and per-metric totals and averages for a user.",
		InputSchema: userSchema,
		Handler:     s.handleGetImpactStats,
	})
	s.registerTool(toolDef{
		Name:        "get_recent_entries",
		Description: "Last N impact entries for a user, newest first.",
		InputSchema: recentNSchema,
		Handler:     s.handleGetRecentEntries,
	})
}

// userArgs is the optional argument shape shared by the per-user tools.
type userArgs struct {
	User string `json:"user"`
	N    *int   `json:"n"`
}

// parseUserArgs decodes args leniently; a missing or empty user resolves
// to the configured default.
func (s *Server) parseUserArgs(args json.RawMessage) userArgs {
	var params userArgs
	if len(args) > 0 && string(args) != "null" {
		_ = json.Unmarshal(args, &params)
	}
	params.User = strings.TrimSpace(params.User)
	if params.User == "" {
		params.User = s.cfg.DefaultUser
	}
	return params
}

// handlePredictSuggestions runs the engine over the user's stored entries.
func (s *Server) handlePredictSuggestions(args json.RawMessage) (any, error) {
	params := s.parseUserArgs(args)

	records, err := s.db.ListEntries(store.EntryFilter{User: params.User, Limit: s.cfg.Suggest.MaxEntries})
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return s.engine.Predict(impact.ToUserData(records)), nil
}

// handlePredictFromEntries runs the engine over the caller's entries. The
// arguments object is itself the user-data document, so malformed input
// yields the fallback result rather than a tool error.
func (s *Server) handlePredictFromEntries(args json.RawMessage) (any, error) {
	return s.engine.PredictJSON(args), nil
}

// handleGetImpactStats summarises every stored entry for the user.
func (s *Server) handleGetImpactStats(args json.RawMessage) (any, error) {
	params := s.parseUserArgs(args)

	records, err := s.db.ListEntries(store.EntryFilter{User: params.User})
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	stats := impact.Summarize(records, s.now(), s.cfg.Stats.RecentDays, s.cfg.Stats.ActivityDays)
	return ImpactStatsResult{User: params.User, Stats: stats}, nil
}

// handleGetRecentEntries returns the last N entries for the user.
func (s *Server) handleGetRecentEntries(args json.RawMessage) (any, error) {
	params := s.parseUserArgs(args)
	n := 5
	if params.N != nil {
		n = *params.N
	}
	if n <= 0 {
		n = 5
	}
	if n > 50 {
		n = 50
	}

	records, err := s.db.ListEntries(store.EntryFilter{User: params.User, Limit: n})
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	entries := make([]RecentEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, RecentEntry{
			ID:          r.ID,
			MetricType:  string(r.MetricType),
			Value:       r.Value,
			Unit:        r.MetricType.Unit(),
			Description: r.Description,
			CreatedAt:   r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return RecentEntriesResult{User: params.User, Entries: entries}, nil
}
