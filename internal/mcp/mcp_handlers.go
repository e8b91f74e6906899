package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clutchmetrics/clutch/core"
	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applyCommonArgs copies the season and limit arguments onto a cloned config.
func (h *toolHandler) applyCommonArgs(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if s := request.GetInt("season", 0); s > 0 {
		cfg.Season = s
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return cfg
}

func (h *toolHandler) handleGetTopPlayers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.applyCommonArgs(request)

	ranked, _, err := core.GetPlayerResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTopTeams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.applyCommonArgs(request)

	ranked, _, err := core.GetTeamResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPlayerProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	player := request.GetString("player", "")
	if player == "" {
		return mcp.NewToolResultError("player is required"), nil
	}
	cfg := h.applyCommonArgs(request)

	row, history, _, err := core.GetPlayerProfileResults(core.WithSuppressHeader(ctx), cfg, h.mgr, player)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("profile lookup failed: %v", err)), nil
	}

	profile := struct {
		Player  *schema.PlayerPerformance  `json:"player"`
		History []schema.PlayerPerformance `json:"history,omitempty"`
	}{Player: row, History: history}
	jsonData, _ := json.MarshalIndent(profile, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTeamProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	team := request.GetString("team", "")
	if team == "" {
		return mcp.NewToolResultError("team is required"), nil
	}
	cfg := h.applyCommonArgs(request)

	row, _, err := core.GetTeamProfileResults(core.WithSuppressHeader(ctx), cfg, h.mgr, team)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("profile lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(row, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleComparePlayers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	first := request.GetString("first", "")
	second := request.GetString("second", "")
	if first == "" || second == "" {
		return mcp.NewToolResultError("first and second players are both required"), nil
	}
	cfg := h.applyCommonArgs(request)

	a, b, _, err := core.GetCompareResults(core.WithSuppressHeader(ctx), cfg, h.mgr, first, second)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	comparison := struct {
		Left  *schema.PlayerPerformance `json:"left"`
		Right *schema.PlayerPerformance `json:"right"`
	}{Left: a, Right: b}
	jsonData, _ := json.MarshalIndent(comparison, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSimulateUsageChange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	player := request.GetString("player", "")
	if player == "" {
		return mcp.NewToolResultError("player is required"), nil
	}
	cfg := h.applyCommonArgs(request)
	if d := request.GetFloat("usage_delta", 0); d != 0 {
		if d < -contract.MaxUsageDelta || d > contract.MaxUsageDelta {
			return mcp.NewToolResultError(fmt.Sprintf("usage_delta must be between -%.0f and %.0f percent", contract.MaxUsageDelta, contract.MaxUsageDelta)), nil
		}
		cfg.UsageDelta = d
	}

	result, _, err := core.GetSimulationResults(core.WithSuppressHeader(ctx), cfg, h.mgr, player)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("simulation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handlePredictNextSeason(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.applyCommonArgs(request)
	player := request.GetString("player", "")

	predictions, report, _, err := core.GetPredictionResults(core.WithSuppressHeader(ctx), cfg, h.mgr, player)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("prediction failed: %v", err)), nil
	}

	output := struct {
		Predictions []schema.PredictionResult `json:"predictions"`
		Report      *schema.ModelReport       `json:"model_report,omitempty"`
	}{Predictions: predictions, Report: report}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
