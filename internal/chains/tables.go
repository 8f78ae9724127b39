package chains

import (
	"fmt"

	"github.com/fundingpath/signalchain/internal/models"
)

// defaultSynergy is used for type pairs absent from the synergy matrix
const defaultSynergy = 0.3

// synergyMatrix scores compatibility between two signal types. Lookups are
// symmetric; pairs not listed in either direction fall back to defaultSynergy.
var synergyMatrix = map[models.SignalType]map[models.SignalType]float64{
	models.SignalTypeHiring: {
		models.SignalTypeHiring:    0.5,
		models.SignalTypeExpansion: 0.9,
		models.SignalTypeEquipment: 0.7,
		models.SignalTypeContract:  0.8,
		models.SignalTypePermit:    0.4,
	},
	models.SignalTypeExpansion: {
		models.SignalTypeExpansion: 0.5,
		models.SignalTypeEquipment: 0.8,
		models.SignalTypePermit:    0.7,
		models.SignalTypeContract:  0.6,
	},
	models.SignalTypePermit: {
		models.SignalTypePermit:    0.4,
		models.SignalTypeEquipment: 0.6,
	},
	models.SignalTypeContract: {
		models.SignalTypeContract:  0.5,
		models.SignalTypeEquipment: 0.5,
	},
	models.SignalTypeEquipment: {
		models.SignalTypeEquipment: 0.4,
	},
}

// implicationTable lists the signal types a type logically anticipates.
// Implication is order-sensitive: the implied signal must be detected on or
// after the implying one.
var implicationTable = map[models.SignalType][]models.SignalType{
	models.SignalTypeHiring:    {models.SignalTypeExpansion, models.SignalTypeEquipment},
	models.SignalTypeExpansion: {models.SignalTypeEquipment, models.SignalTypePermit},
	models.SignalTypePermit:    {models.SignalTypeEquipment},
	models.SignalTypeContract:  {models.SignalTypeHiring, models.SignalTypeExpansion},
	models.SignalTypeEquipment: {},
}

// ValidateRuleTables checks the static rule tables for completeness across
// all known signal types. Called at engine construction so a malformed table
// fails startup instead of silently skewing scores.
func ValidateRuleTables() error {
	for _, t := range models.AllSignalTypes() {
		if _, ok := synergyMatrix[t]; !ok {
			return fmt.Errorf("synergy matrix missing row for signal type %q", t)
		}
		if _, ok := implicationTable[t]; !ok {
			return fmt.Errorf("implication table missing entry for signal type %q", t)
		}
	}
	for source, targets := range implicationTable {
		for _, target := range targets {
			if !target.IsValid() {
				return fmt.Errorf("implication table has unknown target %q for source %q", target, source)
			}
		}
	}
	return nil
}

// impliedTypes returns the types a signal type anticipates, empty for unknown types
func impliedTypes(t models.SignalType) []models.SignalType {
	return implicationTable[t]
}
