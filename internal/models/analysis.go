package models

import (
	"encoding/gob"
	"time"
)

func init() {
	gob.Register(ClusterAnalysis{})
	gob.Register(SignalPattern{})
	gob.Register(SignalPrediction{})
}

// SignalPattern is a recurring chain shape observed across the population
type SignalPattern struct {
	SignalCombination []SignalType `json:"signal_combination"`
	Frequency         int          `json:"frequency"`
	AvgConfidence     float64      `json:"avg_confidence"`
	Entities          []string     `json:"entities"`
}

// ClusterAnalysis groups entities by the signal-type shape of their chains.
// Clusters map the sorted type-set key to the contributing entity ids;
// patterns are the same data ordered by descending frequency.
type ClusterAnalysis struct {
	ID          string              `json:"id" badgerhold:"key"`
	Clusters    map[string][]string `json:"clusters"`
	Patterns    []SignalPattern     `json:"patterns"`
	EntityCount int                 `json:"entity_count"`
	ChainCount  int                 `json:"chain_count"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// SignalPrediction ranks a signal type the entity is likely to develop next
type SignalPrediction struct {
	SignalType  SignalType `json:"signal_type"`
	Probability float64    `json:"probability"`
	Reasoning   string     `json:"reasoning"`
	BasedOn     []string   `json:"based_on"`
}
