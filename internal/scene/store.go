package scene

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// DefaultNearRadius is the proximity radius used when a caller does not
// supply one.
const DefaultNearRadius = 1.0

var foldCaser = cases.Fold()

// Store is the in-memory document of scene entities. It is the single
// addressable copy both local code and remote-origin mutations run against.
//
// The session's receive loop and the agent tool surface read and write the
// store from different goroutines, so access is guarded by an RWMutex.
type Store struct {
	mu       sync.RWMutex
	entities map[string]*Entity
	order    []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entities: make(map[string]*Entity)}
}

// Add inserts an entity and returns its id. Empty and duplicate ids are
// rejected so every id stays unique within the store.
func (s *Store) Add(entity Entity) (string, error) {
	id := strings.TrimSpace(entity.ID)
	if id == "" {
		return "", fmt.Errorf("entity id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[id]; exists {
		return "", fmt.Errorf("entity %q already exists", id)
	}
	entity.ID = id
	s.entities[id] = &entity
	s.order = append(s.order, id)
	return id, nil
}

// Remove deletes an entity. It reports whether the id was present; evicting
// the corresponding runtime handles is the caller's concern.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[id]; !exists {
		return false
	}
	delete(s.entities, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// GetByID returns a copy of the entity, if present.
func (s *Store) GetByID(id string) (Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *entity, true
}

// FindByName returns entities whose name contains text, compared with
// Unicode case folding.
func (s *Store) FindByName(text string) []Entity {
	folded := foldCaser.String(text)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []Entity
	for _, id := range s.order {
		entity := s.entities[id]
		if strings.Contains(foldCaser.String(entity.Name), folded) {
			matches = append(matches, *entity)
		}
	}
	return matches
}

// FindByCategory returns objects tagged with the given category.
func (s *Store) FindByCategory(category string) []Entity {
	folded := foldCaser.String(category)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []Entity
	for _, id := range s.order {
		entity := s.entities[id]
		if entity.Object == nil {
			continue
		}
		if foldCaser.String(entity.Object.Category) == folded {
			matches = append(matches, *entity)
		}
	}
	return matches
}

// FindNear returns entities whose position lies within radius of point,
// boundary inclusive. A non-positive radius falls back to DefaultNearRadius.
func (s *Store) FindNear(point Vec3, radius float64) []Entity {
	if radius <= 0 {
		radius = DefaultNearRadius
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []Entity
	for _, id := range s.order {
		entity := s.entities[id]
		if entity.Transform.Position.DistanceTo(point) <= radius {
			matches = append(matches, *entity)
		}
	}
	return matches
}

// Relations returns the relation list of an object entity.
func (s *Store) Relations(id string) ([]Relation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.entities[id]
	if !ok || entity.Object == nil {
		return nil, false
	}
	relations := make([]Relation, len(entity.Object.Relations))
	copy(relations, entity.Object.Relations)
	return relations, true
}

// ListMovable returns the objects whose movable property is true.
func (s *Store) ListMovable() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []Entity
	for _, id := range s.order {
		entity := s.entities[id]
		if entity.Movable() {
			matches = append(matches, *entity)
		}
	}
	return matches
}

// SetPosition merges the supplied axes into the entity's position, leaving
// omitted axes untouched. The partial merge is the documented contract:
// callers wanting atomic full replacement supply all three axes. Returns
// false without mutating anything when the id is unknown.
func (s *Store) SetPosition(id string, update PartialVec3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entity, ok := s.entities[id]
	if !ok {
		return false
	}
	update.MergeInto(&entity.Transform.Position)
	return true
}

// SetRotation merges the supplied axes into the entity's rotation, with the
// same partial-merge contract as SetPosition.
func (s *Store) SetRotation(id string, update PartialVec3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entity, ok := s.entities[id]
	if !ok {
		return false
	}
	update.MergeInto(&entity.Transform.Rotation)
	return true
}

// Len returns the number of entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Entities returns a copy of all entities in insertion order.
func (s *Store) Entities() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entities := make([]Entity, 0, len(s.order))
	for _, id := range s.order {
		entities = append(entities, *s.entities[id])
	}
	return entities
}
