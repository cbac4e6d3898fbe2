package features

import (
	"sort"

	"github.com/verte-zerg/segstat/internal/model"
)

// Index maps feature keys to the users holding them.
type Index struct {
	holders  map[model.FeatureKey]model.UserSet
	universe model.UserSet
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		holders:  map[model.FeatureKey]model.UserSet{},
		universe: model.UserSet{},
	}
}

// Add records that uid holds key.
func (ix *Index) Add(key model.FeatureKey, uid model.UserID) {
	set, ok := ix.holders[key]
	if !ok {
		set = model.UserSet{}
		ix.holders[key] = set
	}
	set[uid] = struct{}{}
	ix.universe[uid] = struct{}{}
}

// Keys returns all keys ordered by their encoding.
func (ix *Index) Keys() []model.FeatureKey {
	keys := make([]model.FeatureKey, 0, len(ix.holders))
	for k := range ix.holders {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Holders returns the users holding key; nil when key is absent.
func (ix *Index) Holders(key model.FeatureKey) model.UserSet {
	return ix.holders[key]
}

// Universe returns every user appearing in any holder set.
func (ix *Index) Universe() model.UserSet {
	return ix.universe
}

// CountIn counts holders of key that belong to users.
func (ix *Index) CountIn(key model.FeatureKey, users model.UserSet) int {
	return ix.holders[key].IntersectCount(users)
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	return len(ix.holders)
}
