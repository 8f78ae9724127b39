package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createDetectSignalChainsTool returns the detect_signal_chains tool definition
func createDetectSignalChainsTool() mcp.Tool {
	return mcp.NewTool("detect_signal_chains",
		mcp.WithDescription("Detect recursive growth-signal chains for a business entity, strongest first"),
		mcp.WithString("entity_id",
			mcp.Required(),
			mcp.Description("Entity ID (format: ent_{uuid})"),
		),
	)
}

// createPredictNextSignalsTool returns the predict_next_signals tool definition
func createPredictNextSignalsTool() mcp.Tool {
	return mcp.NewTool("predict_next_signals",
		mcp.WithDescription("Predict which growth signal types an entity is likely to develop next, with probability and reasoning"),
		mcp.WithString("entity_id",
			mcp.Required(),
			mcp.Description("Entity ID (format: ent_{uuid})"),
		),
	)
}

// createAnalyzeSignalClustersTool returns the analyze_signal_clusters tool definition
func createAnalyzeSignalClustersTool() mcp.Tool {
	return mcp.NewTool("analyze_signal_clusters",
		mcp.WithDescription("Group detected chains across all entities by signal-type combination and rank recurring patterns"),
	)
}

// createListEntitiesTool returns the list_entities tool definition
func createListEntitiesTool() mcp.Tool {
	return mcp.NewTool("list_entities",
		mcp.WithDescription("List tracked business entities with their growth signal counts"),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20)"),
		),
	)
}
