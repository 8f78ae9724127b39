package chains

import (
	"testing"

	"github.com/fundingpath/signalchain/internal/models"
)

func TestChainConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ChainConfig)
		wantErr bool
	}{
		{"defaults are valid", func(c *ChainConfig) {}, false},
		{"zero depth is valid", func(c *ChainConfig) { c.MaxDepth = 0 }, false},
		{"nil triggers are valid", func(c *ChainConfig) { c.SignalTriggers = nil }, false},
		{"negative depth", func(c *ChainConfig) { c.MaxDepth = -1 }, true},
		{"negative min confidence", func(c *ChainConfig) { c.MinConfidence = -0.01 }, true},
		{"min confidence above one", func(c *ChainConfig) { c.MinConfidence = 1.01 }, true},
		{"negative correlation threshold", func(c *ChainConfig) { c.CorrelationThreshold = -1 }, true},
		{"correlation threshold above one", func(c *ChainConfig) { c.CorrelationThreshold = 1.5 }, true},
		{"unknown trigger source", func(c *ChainConfig) {
			c.SignalTriggers = map[models.SignalType][]models.SignalType{"ipo": {models.SignalTypeHiring}}
		}, true},
		{"unknown trigger target", func(c *ChainConfig) {
			c.SignalTriggers = map[models.SignalType][]models.SignalType{models.SignalTypeHiring: {"ipo"}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultChainConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultChainConfig(t *testing.T) {
	cfg := DefaultChainConfig()
	if cfg.MaxDepth != 3 || cfg.MinConfidence != 0.5 || cfg.CorrelationThreshold != 0.6 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	for _, signalType := range models.AllSignalTypes() {
		if _, ok := cfg.SignalTriggers[signalType]; !ok {
			t.Errorf("default triggers missing %s", signalType)
		}
	}
}
