package chains

import (
	"github.com/fundingpath/signalchain/internal/models"
)

const (
	// correlationWindowDays bounds the time window for correlation scoring
	correlationWindowDays = 30.0
	// triggerWindowDays bounds the gap that earns the trigger ordering boost
	triggerWindowDays = 90.0
)

// Synergy looks up type-pair compatibility in the synergy matrix.
// Lookups are symmetric; absent pairs score defaultSynergy.
func Synergy(a, b models.SignalType) float64 {
	if row, ok := synergyMatrix[a]; ok {
		if v, ok := row[b]; ok {
			return v
		}
	}
	if row, ok := synergyMatrix[b]; ok {
		if v, ok := row[a]; ok {
			return v
		}
	}
	return defaultSynergy
}

// Correlation scores a time-windowed, direction-independent similarity
// between two signals. Signals more than 30 days apart score zero.
//
//	0.4*timeProximity + 0.3*confidenceSimilarity + 0.3*synergy
func Correlation(s1, s2 models.GrowthSignal) float64 {
	daysDiff := daysBetween(s1.DetectedDate, s2.DetectedDate)
	if daysDiff > correlationWindowDays {
		return 0
	}

	timeProximity := clamp(1-daysDiff/correlationWindowDays, 0, 1)
	confidenceSimilarity := 1 - abs(s1.Confidence-s2.Confidence)
	synergy := Synergy(s1.Type, s2.Type)

	score := 0.4*timeProximity + 0.3*confidenceSimilarity + 0.3*synergy
	return clamp(score, 0, 1)
}

// RelationshipConfidence scores a directional relationship from s1 to s2.
// The base is the mean of both signal confidences, adjusted by kind:
//
//	triggered_by: x1.2 when s2 follows s1 within 90 days (capped at 1.0),
//	              x0.5 when the ordering is reversed
//	implies:      x0.9
//	correlated_with: base unchanged (correlation edges use Correlation)
func RelationshipConfidence(s1, s2 models.GrowthSignal, kind models.RelationshipType) float64 {
	base := (s1.Confidence + s2.Confidence) / 2

	switch kind {
	case models.RelationshipTriggeredBy:
		if s2.DetectedDate.After(s1.DetectedDate) {
			if daysBetween(s1.DetectedDate, s2.DetectedDate) <= triggerWindowDays {
				return clamp(base*1.2, 0, 1)
			}
			return base
		}
		if s2.DetectedDate.Before(s1.DetectedDate) {
			return base * 0.5
		}
		return base
	case models.RelationshipImplies:
		return base * 0.9
	default:
		return base
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
