package models

import (
	"encoding/gob"
	"sort"
	"strings"
	"time"
)

func init() {
	gob.Register(SignalChain{})
	gob.Register(ChainedSignal{})
}

// RelationshipType describes how a chained signal relates to its parent
type RelationshipType string

const (
	RelationshipTriggeredBy    RelationshipType = "triggered_by"
	RelationshipCorrelatedWith RelationshipType = "correlated_with"
	RelationshipImplies        RelationshipType = "implies"
)

// ChainedSignal is one discovered relationship inside a chain. Depth encodes
// tree position within the flattened traversal; ParentSignalID points at the
// signal this one was discovered from.
type ChainedSignal struct {
	Signal         GrowthSignal     `json:"signal"`
	Depth          int              `json:"depth"`
	ParentSignalID string           `json:"parent_signal_id"`
	Relationship   RelationshipType `json:"relationship_type"`
	Confidence     float64          `json:"confidence"`
}

// SignalChain is a root signal plus every signal discovered to be related to
// it, flattened with depth and relationship metadata.
type SignalChain struct {
	ID              string          `json:"id" badgerhold:"key"`
	EntityID        string          `json:"entity_id" badgerholdIndex:"EntityID"`
	RootSignal      GrowthSignal    `json:"root_signal"`
	ChainedSignals  []ChainedSignal `json:"chained_signals"`
	TotalConfidence float64         `json:"total_confidence"`
	ChainStrength   float64         `json:"chain_strength"`
	DiscoveryPath   []string        `json:"discovery_path"`
	DetectedAt      time.Time       `json:"detected_at"`
}

// SignalTypeKey returns the sorted, de-duplicated list of signal types in the
// chain (root included) joined with "+". Chains with the same key share a
// cluster.
func (c *SignalChain) SignalTypeKey() string {
	seen := map[SignalType]bool{c.RootSignal.Type: true}
	for _, cs := range c.ChainedSignals {
		seen[cs.Signal.Type] = true
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, string(t))
	}
	sort.Strings(types)
	return strings.Join(types, "+")
}

// SignalTypes returns the sorted, de-duplicated types present in the chain
func (c *SignalChain) SignalTypes() []SignalType {
	parts := strings.Split(c.SignalTypeKey(), "+")
	types := make([]SignalType, len(parts))
	for i, p := range parts {
		types[i] = SignalType(p)
	}
	return types
}
