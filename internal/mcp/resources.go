// ABOUTME: MCP resource implementations for BMI history.
// ABOUTME: Provides bmi://history, bmi://latest, and bmi://trend resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/bmi/internal/bmi"
	"github.com/harperreed/bmi/internal/history"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	historyURI = "bmi://history"
	latestURI  = "bmi://latest"
	trendURI   = "bmi://trend"
)

func (s *Server) registerResources() {
	// bmi://history - Full newest-first listing
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "BMI History",
		Description: "All saved BMI records, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	// bmi://latest - Most recent record with its category guidance
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         latestURI,
		Name:        "Latest BMI",
		Description: "Most recent saved BMI with category description and tip",
		MIMEType:    "application/json",
	}, s.handleLatestResource)

	// bmi://trend - Chart-ready series
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         trendURI,
		Name:        "BMI Trend",
		Description: "BMI over time, oldest first, with padded axis bounds",
		MIMEType:    "application/json",
	}, s.handleTrendResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleHistoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(historyURI, map[string]any{
		"count":   len(records),
		"records": records,
	})
}

func (s *Server) handleLatestResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return jsonResource(latestURI, map[string]any{"message": "No records yet."})
	}

	latest := records[0]
	cat, known := bmi.CategoryFromLabel(latest.Category)
	if !known {
		cat = bmi.Classify(latest.BMI)
	}

	return jsonResource(latestURI, map[string]any{
		"record":      latest,
		"color":       cat.Color(),
		"description": cat.Description(),
		"tip":         cat.Tip(),
	})
}

func (s *Server) handleTrendResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(trendURI, history.Trend(records))
}
