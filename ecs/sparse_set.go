package ecs

// SparseSet stores one value per entity slot. Dense order is insertion order
// and Remove keeps it, so iteration is stable across ticks.
type SparseSet[T any] struct {
	denseEntities []Entity
	denseValues   []T
	sparse        []int
}

// Has reports whether e, including its generation, is in the set.
func (s *SparseSet[T]) Has(e Entity) bool {
	id := int(e.id())
	if s == nil || id <= 0 || id-1 >= len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.denseEntities) && s.denseEntities[idx] == e
}

// Get returns the value for e.
func (s *SparseSet[T]) Get(e Entity) (T, bool) {
	var zero T
	if !s.Has(e) {
		return zero, false
	}
	return s.denseValues[s.sparse[int(e.id())-1]], true
}

// Set inserts or replaces the value for e.
func (s *SparseSet[T]) Set(e Entity, v T) {
	id := int(e.id())
	if s == nil || id <= 0 {
		return
	}
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(e) {
		s.denseValues[s.sparse[id-1]] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseEntities) - 1
}

// Remove deletes e, shifting later entries down by one.
func (s *SparseSet[T]) Remove(e Entity) bool {
	if s == nil || !s.Has(e) {
		return false
	}
	idx := s.sparse[int(e.id())-1]
	copy(s.denseEntities[idx:], s.denseEntities[idx+1:])
	copy(s.denseValues[idx:], s.denseValues[idx+1:])
	last := len(s.denseEntities) - 1
	var zero T
	s.denseValues[last] = zero
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	for i := idx; i < last; i++ {
		s.sparse[int(s.denseEntities[i].id())-1] = i
	}
	s.sparse[int(e.id())-1] = -1
	return true
}

func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// Entities returns the dense entity list. Callers must not modify it.
func (s *SparseSet[T]) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

// Values returns the dense value list, parallel to Entities.
func (s *SparseSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.denseValues
}
