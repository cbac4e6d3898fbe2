// Package model defines shared data structures.
package model

import "sort"

// UserID identifies a user within a profile corpus.
type UserID string

// UserSet is a set of user IDs.
type UserSet map[UserID]struct{}

// NewUserSet builds a set from the given IDs.
func NewUserSet(ids ...UserID) UserSet {
	set := make(UserSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set.
func (s UserSet) Has(id UserID) bool {
	_, ok := s[id]
	return ok
}

// IntersectCount counts IDs present in both sets.
func (s UserSet) IntersectCount(other UserSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for id := range small {
		if _, ok := large[id]; ok {
			n++
		}
	}
	return n
}

// Sorted returns the IDs in ascending order.
func (s UserSet) Sorted() []UserID {
	ids := make([]UserID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// KeyKind tags the FeatureKey variant.
type KeyKind uint8

const (
	// KindEvent marks an event-frequency key.
	KindEvent KeyKind = iota
	// KindProperty marks a property-value key.
	KindProperty
)

// FrequencyClass buckets how often a user triggered an event.
type FrequencyClass byte

const (
	// ClassLow marks a user who triggered the event fewer than cutoff times.
	ClassLow FrequencyClass = 'l'
	// ClassHigh marks a user who reached the cutoff.
	ClassHigh FrequencyClass = 'h'
)

// FeatureKey is either Event{Class, Name} or Property{Name, Value}.
type FeatureKey struct {
	Kind  KeyKind
	Class FrequencyClass
	Name  string
	Value string
}

// EventKey builds an event key.
func EventKey(class FrequencyClass, name string) FeatureKey {
	return FeatureKey{Kind: KindEvent, Class: class, Name: name}
}

// PropertyKey builds a property key.
func PropertyKey(name, value string) FeatureKey {
	return FeatureKey{Kind: KindProperty, Name: name, Value: value}
}

// String returns the canonical encoding: "e"+class+name or "p"+name+":"+value.
func (k FeatureKey) String() string {
	if k.Kind == KindEvent {
		return "e" + string(rune(k.Class)) + k.Name
	}
	return "p" + k.Name + ":" + k.Value
}

// HourCount is the number of times an event fired within one hour bucket.
type HourCount struct {
	Hour  int64 `json:"hour"`
	Count int   `json:"count"`
}

// Profile is a single user's behavioral record.
type Profile struct {
	UID        UserID                 `json:"uid"`
	Events     map[string][]HourCount `json:"events"`
	Properties map[string][]string    `json:"properties"`
}

// Segment is a named set of users supplied by the host.
type Segment struct {
	Name  string
	Users UserSet
}

// DiffRow is one significant differential observation.
type DiffRow struct {
	Diff          float64
	Key           FeatureKey
	RatioPrimary  float64
	RatioBaseline float64
	CountPrimary  int
	CountBaseline int
	PValue        float64
	Color         string
}

// ReportConfig holds engine limits.
type ReportConfig struct {
	TopN          int
	DiffTopN      int
	DiffLimit     float64
	MinUsersFloor int
	MaxTables     int
	Workers       int
	MaxPValue     float64
}

// FeatureConfig controls profile-to-feature extraction.
type FeatureConfig struct {
	Cutoff      int
	MaxValueLen int
}

// DefaultReportConfig returns the stock engine limits.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		TopN:          10,
		DiffTopN:      3,
		DiffLimit:     0.05,
		MinUsersFloor: 10,
		MaxTables:     20,
		Workers:       1,
	}
}

// DefaultFeatureConfig returns the stock extraction settings.
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{Cutoff: 4, MaxValueLen: 32}
}
