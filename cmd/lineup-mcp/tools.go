package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kickoffxi/lineup-api/internal/logic"
	"github.com/kickoffxi/lineup-api/internal/models"
)

type PredictArgs struct {
	Team           string `json:"team" jsonschema:"Team name, e.g. Arsenal (required)"`
	FixtureID      int    `json:"fixture_id,omitempty" jsonschema:"Fixture id (0 = next fixture)"`
	SkipNews       bool   `json:"skip_news,omitempty" jsonschema:"Ignore news signals"`
	SkipInjuries   bool   `json:"skip_injuries,omitempty" jsonschema:"Ignore injury data"`
	SkipForm       bool   `json:"skip_form,omitempty" jsonschema:"Ignore player form"`
	SkipHistorical bool   `json:"skip_historical,omitempty" jsonschema:"Ignore recent lineups"`
}

type TeamArgs struct {
	Team string `json:"team" jsonschema:"Team name (required)"`
}

func newServer(service logic.PredictionService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "lineup-mcp", Version: "1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "predict_lineup",
		Description: "Predicted formation, starting XI, bench and confidence for a team's next match",
	}, predictTool(service))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "team_injuries",
		Description: "Injured and suspended players with severity and squad impact",
	}, injuriesTool(service))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "team_news",
		Description: "Likely starters, doubts and absentees extracted from recent team news",
	}, newsTool(service))

	return server
}

func predictTool(service logic.PredictionService) func(context.Context, *mcp.CallToolRequest, PredictArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args PredictArgs) (*mcp.CallToolResult, any, error) {
		if args.Team == "" {
			return toolError(errors.New("team is required")), nil, nil
		}
		pr := models.NewPredictionRequest(args.Team)
		pr.FixtureID = args.FixtureID
		pr.UseNews = !args.SkipNews
		pr.UseInjuries = !args.SkipInjuries
		pr.UseForm = !args.SkipForm
		pr.UseHistorical = !args.SkipHistorical
		pr.CreatedBy = "mcp"
		return toolJSON(service.PredictLineup(ctx, pr))
	}
}

func injuriesTool(service logic.PredictionService) func(context.Context, *mcp.CallToolRequest, TeamArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
		if args.Team == "" {
			return toolError(errors.New("team is required")), nil, nil
		}
		return toolJSON(service.TeamInjuries(ctx, args.Team))
	}
}

func newsTool(service logic.PredictionService) func(context.Context, *mcp.CallToolRequest, TeamArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
		if args.Team == "" {
			return toolError(errors.New("team is required")), nil, nil
		}
		return toolJSON(service.TeamNews(ctx, args.Team))
	}
}

func toolJSON(v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	msg := err.Error()
	switch {
	case errors.Is(err, logic.ErrTeamNotFound):
		msg = "team not found"
	case errors.Is(err, logic.ErrSquadUnavailable):
		msg = "prediction unavailable for this team"
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %s", msg)}},
	}
}
