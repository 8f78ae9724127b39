package chains

import (
	"testing"
	"time"

	"github.com/fundingpath/signalchain/internal/models"
)

var testBase = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func testSignal(id string, t models.SignalType, confidence float64, day int) models.GrowthSignal {
	return models.GrowthSignal{
		ID:           id,
		Type:         t,
		Confidence:   confidence,
		DetectedDate: testBase.AddDate(0, 0, day),
	}
}

func TestSynergy(t *testing.T) {
	tests := []struct {
		name string
		a, b models.SignalType
		want float64
	}{
		{"hiring-expansion", models.SignalTypeHiring, models.SignalTypeExpansion, 0.9},
		{"symmetric lookup", models.SignalTypeExpansion, models.SignalTypeHiring, 0.9},
		{"expansion-equipment", models.SignalTypeExpansion, models.SignalTypeEquipment, 0.8},
		{"absent pair falls back to default", models.SignalTypePermit, models.SignalTypeContract, defaultSynergy},
		{"same type", models.SignalTypeHiring, models.SignalTypeHiring, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Synergy(tt.a, tt.b); got != tt.want {
				t.Errorf("Synergy(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name string
		s1   models.GrowthSignal
		s2   models.GrowthSignal
		want float64
	}{
		{
			name: "same day, equal confidence, strong synergy",
			s1:   testSignal("a", models.SignalTypeHiring, 0.8, 0),
			s2:   testSignal("b", models.SignalTypeExpansion, 0.8, 0),
			// 0.4*1.0 + 0.3*1.0 + 0.3*0.9
			want: 0.97,
		},
		{
			name: "twenty days apart",
			s1:   testSignal("a", models.SignalTypeHiring, 0.9, 0),
			s2:   testSignal("b", models.SignalTypeExpansion, 0.8, 20),
			// 0.4*(1/3) + 0.3*0.9 + 0.3*0.9
			want: 0.4*(1.0/3.0) + 0.27 + 0.27,
		},
		{
			name: "outside the thirty day window",
			s1:   testSignal("a", models.SignalTypeHiring, 0.9, 0),
			s2:   testSignal("b", models.SignalTypeExpansion, 0.9, 31),
			want: 0,
		},
		{
			name: "direction independent",
			s1:   testSignal("a", models.SignalTypeExpansion, 0.8, 20),
			s2:   testSignal("b", models.SignalTypeHiring, 0.9, 0),
			want: 0.4*(1.0/3.0) + 0.27 + 0.27,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Correlation(tt.s1, tt.s2)
			if diff := abs(got - tt.want); diff > 1e-9 {
				t.Errorf("Correlation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRelationshipConfidence(t *testing.T) {
	hiring := testSignal("a", models.SignalTypeHiring, 0.9, 0)
	expansion20 := testSignal("b", models.SignalTypeExpansion, 0.8, 20)
	expansion120 := testSignal("c", models.SignalTypeExpansion, 0.8, 120)

	tests := []struct {
		name string
		s1   models.GrowthSignal
		s2   models.GrowthSignal
		kind models.RelationshipType
		want float64
	}{
		{
			// base (0.9+0.8)/2 = 0.85, gap 20 <= 90 so x1.2 = 1.02, capped
			name: "trigger boost capped at one",
			s1:   hiring, s2: expansion20,
			kind: models.RelationshipTriggeredBy,
			want: 1.0,
		},
		{
			name: "trigger reversed order penalized",
			s1:   expansion20, s2: hiring,
			kind: models.RelationshipTriggeredBy,
			want: 0.85 * 0.5,
		},
		{
			name: "trigger beyond ninety days gets no boost",
			s1:   hiring, s2: expansion120,
			kind: models.RelationshipTriggeredBy,
			want: 0.85,
		},
		{
			name: "implies discounts base",
			s1:   hiring, s2: expansion20,
			kind: models.RelationshipImplies,
			want: 0.85 * 0.9,
		},
		{
			name: "correlated passes base through",
			s1:   hiring, s2: expansion20,
			kind: models.RelationshipCorrelatedWith,
			want: 0.85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelationshipConfidence(tt.s1, tt.s2, tt.kind)
			if diff := abs(got - tt.want); diff > 1e-9 {
				t.Errorf("RelationshipConfidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateRuleTables(t *testing.T) {
	if err := ValidateRuleTables(); err != nil {
		t.Fatalf("ValidateRuleTables() = %v, want nil", err)
	}
}
