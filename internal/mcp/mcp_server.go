// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/clutchmetrics/clutch/internal/contract"
)

// NewMCPServer initializes and configures the Clutch MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Clutch Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_top_players ---
	s.AddTool(mcp.NewTool("get_top_players",
		mcp.WithDescription("Rank player-seasons by Clutch Player Index (CPI), best first."),
		mcp.WithNumber("season", mcp.Description("Season to rank (defaults to the latest season in the dataset).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetTopPlayers)

	// --- 2. Tool: get_top_teams ---
	s.AddTool(mcp.NewTool("get_top_teams",
		mcp.WithDescription("Rank team-seasons by clutch win percentage, best first."),
		mcp.WithNumber("season", mcp.Description("Season to rank (defaults to the latest season in the dataset).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetTopTeams)

	// --- 3. Tool: get_player_profile ---
	s.AddTool(mcp.NewTool("get_player_profile",
		mcp.WithDescription("Fetch one player's clutch/non-clutch splits, CPI, and season history."),
		mcp.WithString("player", mcp.Description("Player ID or case-insensitive player name."), mcp.Required()),
		mcp.WithNumber("season", mcp.Description("Season to profile (defaults to the latest season the player appears in).")),
	), h.handleGetPlayerProfile)

	// --- 4. Tool: get_team_profile ---
	s.AddTool(mcp.NewTool("get_team_profile",
		mcp.WithDescription("Fetch one team's clutch record and top clutch performers."),
		mcp.WithString("team", mcp.Description("Team ID or case-insensitive team name."), mcp.Required()),
		mcp.WithNumber("season", mcp.Description("Season to profile (defaults to the latest season in the dataset).")),
	), h.handleGetTeamProfile)

	// --- 5. Tool: compare_players ---
	s.AddTool(mcp.NewTool("compare_players",
		mcp.WithDescription("Compare two players' clutch season rows head to head."),
		mcp.WithString("first", mcp.Description("First player ID or name."), mcp.Required()),
		mcp.WithString("second", mcp.Description("Second player ID or name."), mcp.Required()),
		mcp.WithNumber("season", mcp.Description("Season to compare within.")),
	), h.handleComparePlayers)

	// --- 6. Tool: simulate_usage_change ---
	s.AddTool(mcp.NewTool("simulate_usage_change",
		mcp.WithDescription("Project a player's clutch scoring line under a shot-volume change."),
		mcp.WithString("player", mcp.Description("Player ID or name."), mcp.Required()),
		mcp.WithNumber("usage_delta", mcp.Description("Percent change in clutch shot volume, -100 to 100. Defaults to 10.")),
		mcp.WithNumber("season", mcp.Description("Season to simulate from.")),
	), h.handleSimulateUsageChange)

	// --- 7. Tool: predict_next_season ---
	s.AddTool(mcp.NewTool("predict_next_season",
		mcp.WithDescription("Train the ensemble model and project next-season CPI for a player or the top of the board."),
		mcp.WithString("player", mcp.Description("Player ID or name (omit for the full ranked board).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of board results returned.")),
	), h.handlePredictNextSeason)

	return s
}

// StartMCPServer starts the Clutch MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
