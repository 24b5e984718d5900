package service

import (
	"github.com/lshigami/Formlet/internal/apperr"
)

// delta is the outcome of a three-way diff between the persisted set and the
// submitted set of descriptors: tagged descriptors update, untagged ones
// insert, and persisted ids absent from the submission are deleted.
type delta[T any] struct {
	toInsert    []T
	toUpdate    []T
	toDeleteIDs []uint
}

// diffByID classifies submitted descriptors against the currently persisted
// ids. A submitted id that is not in the current set means the client tried to
// adopt an entity belonging elsewhere, which fails with a foreign-entity
// error. The diff is pure; applying it to storage is the caller's concern.
func diffByID[T any](entity string, currentIDs []uint, submitted []T, idOf func(T) *uint) (delta[T], error) {
	current := make(map[uint]struct{}, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = struct{}{}
	}

	var d delta[T]
	seen := make(map[uint]struct{}, len(submitted))
	for _, item := range submitted {
		id := idOf(item)
		if id == nil {
			d.toInsert = append(d.toInsert, item)
			continue
		}
		if _, ok := current[*id]; !ok {
			return delta[T]{}, apperr.Newf(apperr.CodeForeignEntity,
				"submitted %s %d does not belong to the target %s set", entity, *id, entity)
		}
		seen[*id] = struct{}{}
		d.toUpdate = append(d.toUpdate, item)
	}

	for _, id := range currentIDs {
		if _, ok := seen[id]; !ok {
			d.toDeleteIDs = append(d.toDeleteIDs, id)
		}
	}
	return d, nil
}
