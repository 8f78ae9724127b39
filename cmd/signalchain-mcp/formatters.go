package main

import (
	"fmt"
	"strings"

	"github.com/fundingpath/signalchain/internal/models"
)

// formatChains formats detected chains as markdown
func formatChains(entityID string, chains []models.SignalChain) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Signal Chains for %s (%d chains)\n\n", entityID, len(chains)))

	if len(chains) == 0 {
		sb.WriteString("No chains detected.\n")
		return sb.String()
	}

	for i, chain := range chains {
		sb.WriteString(fmt.Sprintf("### %d. Root: %s (%s)\n", i+1, chain.RootSignal.Type, chain.RootSignal.ID))
		sb.WriteString(fmt.Sprintf("**Strength:** %.4f | **Confidence:** %.4f\n", chain.ChainStrength, chain.TotalConfidence))
		sb.WriteString(fmt.Sprintf("**Path:** %s\n\n", strings.Join(chain.DiscoveryPath, " -> ")))

		for _, cs := range chain.ChainedSignals {
			sb.WriteString(fmt.Sprintf("- depth %d: %s (%s) via %s, confidence %.4f\n",
				cs.Depth, cs.Signal.Type, cs.Signal.ID, cs.Relationship, cs.Confidence))
		}
		sb.WriteString("\n---\n\n")
	}

	return sb.String()
}

// formatPredictions formats signal predictions as markdown
func formatPredictions(entityID string, predictions []models.SignalPrediction) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Predicted Next Signals for %s (%d predictions)\n\n", entityID, len(predictions)))

	if len(predictions) == 0 {
		sb.WriteString("No predictions above threshold.\n")
		return sb.String()
	}

	for i, p := range predictions {
		sb.WriteString(fmt.Sprintf("### %d. %s (probability %.4f)\n", i+1, p.SignalType, p.Probability))
		if p.Reasoning != "" {
			sb.WriteString(fmt.Sprintf("- %s\n", p.Reasoning))
		}
		if len(p.BasedOn) > 0 {
			sb.WriteString(fmt.Sprintf("**Based on:** %s\n", strings.Join(p.BasedOn, ", ")))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatClusterAnalysis formats a cluster analysis run as markdown
func formatClusterAnalysis(analysis *models.ClusterAnalysis) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Cluster Analysis %s\n\n", analysis.ID))
	sb.WriteString(fmt.Sprintf("**Entities with chains:** %d | **Total chains:** %d\n\n", analysis.EntityCount, analysis.ChainCount))

	if len(analysis.Patterns) == 0 {
		sb.WriteString("No recurring patterns found.\n")
		return sb.String()
	}

	sb.WriteString("### Patterns (by frequency)\n\n")
	for i, p := range analysis.Patterns {
		types := make([]string, len(p.SignalCombination))
		for j, t := range p.SignalCombination {
			types[j] = string(t)
		}
		sb.WriteString(fmt.Sprintf("%d. **%s** - frequency %d, avg confidence %.4f, entities: %s\n",
			i+1, strings.Join(types, " + "), p.Frequency, p.AvgConfidence, strings.Join(p.Entities, ", ")))
	}

	return sb.String()
}

// formatEntities formats the entity list as markdown
func formatEntities(entities []*models.Entity) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Entities (%d)\n\n", len(entities)))

	if len(entities) == 0 {
		sb.WriteString("No entities loaded.\n")
		return sb.String()
	}

	for _, e := range entities {
		sb.WriteString(fmt.Sprintf("- **%s** (%s): %d signals\n", e.Name, e.ID, len(e.Signals)))
	}

	return sb.String()
}
