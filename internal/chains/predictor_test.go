package chains

import (
	"context"
	"testing"

	"github.com/fundingpath/signalchain/internal/models"
)

func newTestPredictor(entities ...models.Entity) *Predictor {
	return NewPredictor(NewSignalIndex(entities))
}

func TestPredictNextSignals_ExcludesObservedTypes(t *testing.T) {
	entity := models.Entity{ID: "biz-1", Signals: []models.GrowthSignal{
		testSignal("s1", models.SignalTypeHiring, 0.9, 0),
		testSignal("s2", models.SignalTypeContract, 0.8, 5),
	}}
	p := newTestPredictor(entity)

	predictions, err := p.PredictNextSignals(context.Background(), "biz-1", DefaultChainConfig())
	if err != nil {
		t.Fatalf("PredictNextSignals() error: %v", err)
	}
	for _, pred := range predictions {
		if pred.SignalType == models.SignalTypeHiring || pred.SignalType == models.SignalTypeContract {
			t.Errorf("prediction includes already-observed type %s", pred.SignalType)
		}
	}
}

func TestPredictNextSignals_TriggerAndSynergyEvidence(t *testing.T) {
	entity := models.Entity{ID: "biz-1", Signals: []models.GrowthSignal{
		testSignal("s1", models.SignalTypeHiring, 0.9, 0),
		testSignal("s2", models.SignalTypeContract, 0.8, 5),
	}}
	p := newTestPredictor(entity)

	predictions, err := p.PredictNextSignals(context.Background(), "biz-1", DefaultChainConfig())
	if err != nil {
		t.Fatalf("PredictNextSignals() error: %v", err)
	}

	byType := map[models.SignalType]models.SignalPrediction{}
	for _, pred := range predictions {
		byType[pred.SignalType] = pred
	}

	// expansion: triggered by hiring (0.9*0.3) and contract (0.8*0.3), plus
	// hiring synergy 0.9*0.2; no similar entities in this population
	expansion, ok := byType[models.SignalTypeExpansion]
	if !ok {
		t.Fatal("expected an expansion prediction")
	}
	if diff := abs(expansion.Probability - 0.69); diff > 1e-9 {
		t.Errorf("expansion probability = %v, want 0.69", expansion.Probability)
	}
	if len(expansion.BasedOn) != 2 {
		t.Errorf("expansion based on = %v, want both trigger signals", expansion.BasedOn)
	}

	// equipment: triggered by hiring (0.9*0.3) plus hiring synergy 0.7*0.2
	equipment, ok := byType[models.SignalTypeEquipment]
	if !ok {
		t.Fatal("expected an equipment prediction")
	}
	if diff := abs(equipment.Probability - 0.41); diff > 1e-9 {
		t.Errorf("equipment probability = %v, want 0.41", equipment.Probability)
	}

	// permit: no trigger or synergy evidence, below the 0.3 threshold
	if _, ok := byType[models.SignalTypePermit]; ok {
		t.Error("permit prediction present, want filtered below threshold")
	}

	if len(predictions) >= 2 && predictions[0].Probability < predictions[1].Probability {
		t.Error("predictions not sorted by descending probability")
	}
}

func TestPredictNextSignals_HistoricalCoOccurrence(t *testing.T) {
	subject := models.Entity{ID: "biz-1", Signals: []models.GrowthSignal{
		testSignal("s1", models.SignalTypeHiring, 0.9, 0),
		testSignal("s2", models.SignalTypeExpansion, 0.8, 20),
	}}
	// Jaccard({hiring,expansion}, {hiring,expansion,permit}) = 2/3 > 0.5 and
	// the similar entity exhibits permit
	similar := models.Entity{ID: "biz-2", Signals: []models.GrowthSignal{
		testSignal("o1", models.SignalTypeHiring, 0.7, 0),
		testSignal("o2", models.SignalTypeExpansion, 0.7, 10),
		testSignal("o3", models.SignalTypePermit, 0.8, 30),
	}}
	// Jaccard({hiring,expansion}, {contract}) = 0, not population evidence
	dissimilar := models.Entity{ID: "biz-3", Signals: []models.GrowthSignal{
		testSignal("d1", models.SignalTypeContract, 0.9, 0),
	}}

	p := newTestPredictor(subject, similar, dissimilar)
	predictions, err := p.PredictNextSignals(context.Background(), "biz-1", DefaultChainConfig())
	if err != nil {
		t.Fatalf("PredictNextSignals() error: %v", err)
	}

	var permit *models.SignalPrediction
	for i := range predictions {
		if predictions[i].SignalType == models.SignalTypePermit {
			permit = &predictions[i]
		}
	}
	if permit == nil {
		t.Fatal("expected a permit prediction backed by population evidence")
	}
	// expansion triggers permit (0.8*0.3), expansion synergy 0.7*0.2,
	// historical co-occurrence 1.0*0.3
	if diff := abs(permit.Probability - 0.68); diff > 1e-9 {
		t.Errorf("permit probability = %v, want 0.68", permit.Probability)
	}
	found := false
	for _, basis := range permit.BasedOn {
		if basis == "population_co_occurrence" {
			found = true
		}
	}
	if !found {
		t.Errorf("permit based on = %v, want population_co_occurrence marker", permit.BasedOn)
	}
}

func TestPredictNextSignals_UnknownEntity(t *testing.T) {
	p := newTestPredictor()
	predictions, err := p.PredictNextSignals(context.Background(), "nope", DefaultChainConfig())
	if err != nil {
		t.Fatalf("PredictNextSignals() error: %v", err)
	}
	if len(predictions) != 0 {
		t.Errorf("predictions = %d, want 0", len(predictions))
	}
}

func TestPredictNextSignals_InvalidConfig(t *testing.T) {
	p := newTestPredictor()
	cfg := DefaultChainConfig()
	cfg.CorrelationThreshold = 2
	if _, err := p.PredictNextSignals(context.Background(), "biz-1", cfg); err == nil {
		t.Error("PredictNextSignals() = nil error, want config error")
	}
}

func TestJaccard(t *testing.T) {
	set := func(types ...models.SignalType) map[models.SignalType]bool {
		m := map[models.SignalType]bool{}
		for _, t := range types {
			m[t] = true
		}
		return m
	}

	tests := []struct {
		name string
		a, b map[models.SignalType]bool
		want float64
	}{
		{"identical", set(models.SignalTypeHiring), set(models.SignalTypeHiring), 1.0},
		{"disjoint", set(models.SignalTypeHiring), set(models.SignalTypePermit), 0},
		{"partial overlap", set(models.SignalTypeHiring, models.SignalTypeExpansion), set(models.SignalTypeHiring, models.SignalTypeExpansion, models.SignalTypePermit), 2.0 / 3.0},
		{"both empty", set(), set(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jaccard(tt.a, tt.b); abs(got-tt.want) > 1e-9 {
				t.Errorf("jaccard() = %v, want %v", got, tt.want)
			}
		})
	}
}
