package models

import (
	"encoding/gob"
	"fmt"
	"time"
)

func init() {
	// Register types for gob encoding (required for BadgerHold storage)
	gob.Register(GrowthSignal{})
	gob.Register(Entity{})
}

// SignalType classifies a detected growth event
type SignalType string

const (
	SignalTypeHiring    SignalType = "hiring"
	SignalTypePermit    SignalType = "permit"
	SignalTypeContract  SignalType = "contract"
	SignalTypeExpansion SignalType = "expansion"
	SignalTypeEquipment SignalType = "equipment"
)

// AllSignalTypes returns every known signal type in a stable order
func AllSignalTypes() []SignalType {
	return []SignalType{
		SignalTypeHiring,
		SignalTypePermit,
		SignalTypeContract,
		SignalTypeExpansion,
		SignalTypeEquipment,
	}
}

// ParseSignalType converts a string to a SignalType, rejecting unknown values
func ParseSignalType(s string) (SignalType, error) {
	switch SignalType(s) {
	case SignalTypeHiring, SignalTypePermit, SignalTypeContract, SignalTypeExpansion, SignalTypeEquipment:
		return SignalType(s), nil
	default:
		return "", fmt.Errorf("unknown signal type: %q", s)
	}
}

// IsValid reports whether the signal type is one of the known types
func (t SignalType) IsValid() bool {
	_, err := ParseSignalType(string(t))
	return err == nil
}

// GrowthSignal is a discrete detected business event. Signals are immutable
// inputs owned by their entity; chains hold references, never copies with
// diverging state.
type GrowthSignal struct {
	ID           string     `json:"id" yaml:"id" validate:"required"`
	Type         SignalType `json:"type" yaml:"type" validate:"required"`
	Description  string     `json:"description" yaml:"description"`
	Confidence   float64    `json:"confidence" yaml:"confidence" validate:"gte=0,lte=1"`
	Score        float64    `json:"score" yaml:"score"`
	DetectedDate time.Time  `json:"detected_date" yaml:"detected_date" validate:"required"`
}

// Entity is a business with its ordered growth signal history. Signal order
// matters for relationship scoring, not for identity.
type Entity struct {
	ID        string         `json:"id" yaml:"id" badgerhold:"key" validate:"required"`
	Name      string         `json:"name" yaml:"name"`
	Signals   []GrowthSignal `json:"growth_signals" yaml:"growth_signals" validate:"dive"`
	CreatedAt time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt time.Time      `json:"updated_at" yaml:"-"`
}

// SignalTypeSet returns the set of signal types currently observed on the entity
func (e *Entity) SignalTypeSet() map[SignalType]bool {
	set := make(map[SignalType]bool, len(e.Signals))
	for _, s := range e.Signals {
		set[s.Type] = true
	}
	return set
}

// HasSignalType reports whether the entity has at least one signal of the given type
func (e *Entity) HasSignalType(t SignalType) bool {
	for _, s := range e.Signals {
		if s.Type == t {
			return true
		}
	}
	return false
}
