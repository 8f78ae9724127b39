package chains

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fundingpath/signalchain/internal/models"
)

const (
	// predictionThreshold filters weak predictions from the result
	predictionThreshold = 0.3
	// synergyEvidenceFloor is the synergy score above which a type pair
	// counts as prediction evidence
	synergyEvidenceFloor = 0.6
	// similarityFloor is the Jaccard similarity above which another entity
	// counts as population evidence
	similarityFloor = 0.5
)

// Predictor ranks signal types an entity has not yet exhibited by combining
// trigger and synergy evidence from its own signals with population-level
// historical co-occurrence.
type Predictor struct {
	index *SignalIndex
}

// NewPredictor creates a predictor over a signal index
func NewPredictor(index *SignalIndex) *Predictor {
	return &Predictor{index: index}
}

// PredictNextSignals returns predictions above the probability threshold,
// descending by probability, restricted to types not already observed on the
// entity. Unknown entity ids yield an empty result.
func (p *Predictor) PredictNextSignals(ctx context.Context, entityID string, cfg ChainConfig) ([]models.SignalPrediction, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entity, ok := p.index.Entity(entityID)
	if !ok {
		return []models.SignalPrediction{}, nil
	}
	observed := entity.SignalTypeSet()

	predictions := []models.SignalPrediction{}
	for _, candidate := range models.AllSignalTypes() {
		if observed[candidate] {
			continue
		}

		probability := 0.0
		basedOn := []string{}
		var reasons []string

		triggerCount := 0
		synergyTypes := map[models.SignalType]bool{}
		for _, sig := range entity.Signals {
			for _, target := range cfg.SignalTriggers[sig.Type] {
				if target == candidate {
					probability += sig.Confidence * 0.3
					basedOn = append(basedOn, sig.ID)
					triggerCount++
					break
				}
			}
			if synergy := Synergy(sig.Type, candidate); synergy > synergyEvidenceFloor {
				probability += synergy * 0.2
				synergyTypes[sig.Type] = true
			}
		}
		if triggerCount > 0 {
			reasons = append(reasons, fmt.Sprintf("%d observed signal(s) commonly trigger %s", triggerCount, candidate))
		}
		if len(synergyTypes) > 0 {
			reasons = append(reasons, fmt.Sprintf("strong synergy with %s", joinTypes(synergyTypes)))
		}

		if historical := p.historicalProbability(candidate, entityID, observed); historical > 0 {
			probability += historical * 0.3
			basedOn = append(basedOn, "population_co_occurrence")
			reasons = append(reasons, fmt.Sprintf("%.0f%% of similar businesses developed %s", historical*100, candidate))
		}

		probability = clamp(probability, 0, 1)
		if probability <= predictionThreshold {
			continue
		}
		predictions = append(predictions, models.SignalPrediction{
			SignalType:  candidate,
			Probability: round(probability, 4),
			Reasoning:   strings.Join(reasons, "; "),
			BasedOn:     basedOn,
		})
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		if predictions[i].Probability != predictions[j].Probability {
			return predictions[i].Probability > predictions[j].Probability
		}
		return predictions[i].SignalType < predictions[j].SignalType
	})
	return predictions, nil
}

// historicalProbability is the fraction of similar entities (Jaccard
// similarity of signal-type sets above similarityFloor) that exhibit the
// candidate type. Zero when no entity is similar enough.
func (p *Predictor) historicalProbability(candidate models.SignalType, subjectID string, subjectTypes map[models.SignalType]bool) float64 {
	similar := 0
	withCandidate := 0
	for _, id := range p.index.EntityIDs() {
		if id == subjectID {
			continue
		}
		other, _ := p.index.Entity(id)
		otherTypes := other.SignalTypeSet()
		if jaccard(subjectTypes, otherTypes) <= similarityFloor {
			continue
		}
		similar++
		if otherTypes[candidate] {
			withCandidate++
		}
	}
	if similar == 0 {
		return 0
	}
	return float64(withCandidate) / float64(similar)
}

// jaccard computes |A∩B| / |A∪B| over signal-type sets
func jaccard(a, b map[models.SignalType]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if b[t] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func joinTypes(set map[models.SignalType]bool) string {
	types := make([]string, 0, len(set))
	for t := range set {
		types = append(types, string(t))
	}
	sort.Strings(types)
	return strings.Join(types, ", ")
}
