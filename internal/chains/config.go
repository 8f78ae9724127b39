// Package chains implements recursive growth-signal chain detection:
// relationship scoring between detected business events, bounded recursive
// chain expansion with cycle safety, cross-entity cluster analysis, and
// next-signal prediction. The package is a pure in-memory computation over a
// supplied entity snapshot; persistence and ingestion live elsewhere.
package chains

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/fundingpath/signalchain/internal/models"
)

// ChainConfig controls chain expansion and scoring thresholds.
// Invalid values are rejected, never clamped.
type ChainConfig struct {
	MaxDepth             int                                      `json:"max_depth" toml:"max_depth" validate:"gte=0"`
	MinConfidence        float64                                  `json:"min_confidence" toml:"min_confidence" validate:"gte=0,lte=1"`
	CorrelationThreshold float64                                  `json:"correlation_threshold" toml:"correlation_threshold" validate:"gte=0,lte=1"`
	SignalTriggers       map[models.SignalType][]models.SignalType `json:"signal_triggers" toml:"signal_triggers"`
}

// DefaultChainConfig returns the documented default configuration
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		MaxDepth:             3,
		MinConfidence:        0.5,
		CorrelationThreshold: 0.6,
		SignalTriggers: map[models.SignalType][]models.SignalType{
			models.SignalTypeHiring:    {models.SignalTypeExpansion, models.SignalTypeEquipment},
			models.SignalTypeExpansion: {models.SignalTypeEquipment, models.SignalTypePermit, models.SignalTypeHiring},
			models.SignalTypeEquipment: {models.SignalTypeHiring},
			models.SignalTypePermit:    {models.SignalTypeEquipment, models.SignalTypeExpansion},
			models.SignalTypeContract:  {models.SignalTypeHiring, models.SignalTypeExpansion},
		},
	}
}

var validate = validator.New()

// Validate checks numeric bounds and trigger map types.
// A nil SignalTriggers map is valid and means no trigger edges.
func (c ChainConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid chain config: %w", err)
	}
	for source, targets := range c.SignalTriggers {
		if !source.IsValid() {
			return fmt.Errorf("invalid chain config: unknown trigger source type %q", source)
		}
		for _, target := range targets {
			if !target.IsValid() {
				return fmt.Errorf("invalid chain config: unknown trigger target type %q for source %q", target, source)
			}
		}
	}
	return nil
}
