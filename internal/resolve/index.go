// Package resolve translates free-text name references from loosely
// structured legacy records into canonical natural keys. Matching is
// name-exact after case and whitespace folding; there is no fuzzy matching,
// no name-order swapping and no diacritics folding.
package resolve

import (
	"toothpickeve.com/migrate/internal/metrics"
	"toothpickeve.com/migrate/internal/normalize"
)

// Entry is one canonical entity eligible for name resolution.
type Entry struct {
	SourceID  string
	FirstName *string
	LastName  *string
}

// NameIndex maps normalized "first last" keys to natural keys. It is built
// once per run from the current canonical tables and never maintained
// incrementally; rows written after the build are invisible to it.
type NameIndex struct {
	entity     string
	byName     map[string]string
	collisions int
	hits       int
	misses     int
}

// Build constructs the index for one entity type. Entities missing either
// name part are unresolvable by name and stay out of the index. When two
// entities normalize to the same key the later one wins; the collision is
// counted so runs can surface the ambiguity instead of hiding it.
func Build(entity string, entries []Entry) *NameIndex {
	idx := &NameIndex{
		entity: entity,
		byName: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.FirstName == nil || e.LastName == nil {
			continue
		}
		key := normalize.NameKey(*e.FirstName + " " + *e.LastName)
		if key == "" {
			continue
		}
		if _, exists := idx.byName[key]; exists {
			idx.collisions++
		}
		idx.byName[key] = e.SourceID
	}
	metrics.RecordNameIndexCollisions(entity, idx.collisions)
	return idx
}

// Lookup resolves free text to a natural key. Empty input and unknown names
// miss; misses are the caller's problem (typically a warning plus a nil
// reference on the dependent row).
func (idx *NameIndex) Lookup(freeText string) (string, bool) {
	key := normalize.NameKey(freeText)
	if key == "" {
		return "", false
	}
	id, ok := idx.byName[key]
	if ok {
		idx.hits++
	} else {
		idx.misses++
	}
	metrics.RecordNameLookup(idx.entity, ok)
	return id, ok
}

// Len reports how many distinct normalized names are resolvable.
func (idx *NameIndex) Len() int {
	return len(idx.byName)
}

// Collisions reports how many entries were overwritten during the build.
func (idx *NameIndex) Collisions() int {
	return idx.collisions
}

// Stats returns lookup hit/miss counts accumulated since the build.
func (idx *NameIndex) Stats() (hits, misses int) {
	return idx.hits, idx.misses
}
