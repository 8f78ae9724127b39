package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/interfaces"
)

// handleDetectSignalChains implements the detect_signal_chains tool
func handleDetectSignalChains(analysisService interfaces.AnalysisService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entityID, err := request.RequireString("entity_id")
		if err != nil || entityID == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: entity_id parameter is required"),
				},
			}, nil
		}

		chains, err := analysisService.DetectSignalChains(ctx, entityID)
		if err != nil {
			logger.Error().Err(err).Str("entity_id", entityID).Msg("Chain detection failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Chain detection error: %v", err)),
				},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatChains(entityID, chains)),
			},
		}, nil
	}
}

// handlePredictNextSignals implements the predict_next_signals tool
func handlePredictNextSignals(analysisService interfaces.AnalysisService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entityID, err := request.RequireString("entity_id")
		if err != nil || entityID == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: entity_id parameter is required"),
				},
			}, nil
		}

		predictions, err := analysisService.PredictNextSignals(ctx, entityID)
		if err != nil {
			logger.Error().Err(err).Str("entity_id", entityID).Msg("Prediction failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Prediction error: %v", err)),
				},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatPredictions(entityID, predictions)),
			},
		}, nil
	}
}

// handleAnalyzeSignalClusters implements the analyze_signal_clusters tool
func handleAnalyzeSignalClusters(analysisService interfaces.AnalysisService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		analysis, err := analysisService.AnalyzeSignalClusters(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Cluster analysis failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Cluster analysis error: %v", err)),
				},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatClusterAnalysis(analysis)),
			},
		}, nil
	}
}

// handleListEntities implements the list_entities tool
func handleListEntities(entityService interfaces.EntityService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)

		entities, err := entityService.ListEntities(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to list entities")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("List error: %v", err)),
				},
			}, nil
		}

		sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })
		if len(entities) > limit {
			entities = entities[:limit]
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatEntities(entities)),
			},
		}, nil
	}
}
