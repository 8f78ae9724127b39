package chains

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/fundingpath/signalchain/internal/models"
)

// SignalIndex is a read-only mapping from entity id to its ordered signal
// list, built once from a supplied entity snapshot. Safe for concurrent
// readers; the owning service rebuilds the whole index on refresh rather
// than mutating it in place.
type SignalIndex struct {
	entities map[string]models.Entity
	order    []string
	versions map[string]string
}

// NewSignalIndex builds an index from an entity snapshot. Later duplicates of
// an entity id replace earlier ones.
func NewSignalIndex(entities []models.Entity) *SignalIndex {
	idx := &SignalIndex{
		entities: make(map[string]models.Entity, len(entities)),
		versions: make(map[string]string, len(entities)),
	}
	for _, e := range entities {
		if _, seen := idx.entities[e.ID]; !seen {
			idx.order = append(idx.order, e.ID)
		}
		idx.entities[e.ID] = e
		idx.versions[e.ID] = signalSetVersion(e.Signals)
	}
	return idx
}

// Entity returns the entity for an id
func (idx *SignalIndex) Entity(id string) (models.Entity, bool) {
	e, ok := idx.entities[id]
	return e, ok
}

// Signals returns the ordered signal list for an entity, nil when unknown
func (idx *SignalIndex) Signals(id string) []models.GrowthSignal {
	return idx.entities[id].Signals
}

// EntityIDs returns entity ids in snapshot order
func (idx *SignalIndex) EntityIDs() []string {
	return idx.order
}

// Len returns the number of indexed entities
func (idx *SignalIndex) Len() int {
	return len(idx.entities)
}

// Version returns the signal-set version for an entity, empty when unknown.
// The version changes whenever the entity's signal id set changes, making it
// usable as a cache key component.
func (idx *SignalIndex) Version(id string) string {
	return idx.versions[id]
}

// signalSetVersion hashes the sorted signal ids into a stable version token
func signalSetVersion(signals []models.GrowthSignal) string {
	ids := make([]string, len(signals))
	for i, s := range signals {
		ids[i] = s.ID
	}
	sort.Strings(ids)

	h := fnv.New64a()
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
