package file

import "strings"

// Ability is one of the four capabilities a Move type may or may not carry.
type Ability uint8

const (
	AbilityCopy Ability = 1 << iota
	AbilityDrop
	AbilityStore
	AbilityKey
)

var allAbilities = []Ability{AbilityCopy, AbilityDrop, AbilityStore, AbilityKey}

func (a Ability) String() string {
	switch a {
	case AbilityCopy:
		return "copy"
	case AbilityDrop:
		return "drop"
	case AbilityStore:
		return "store"
	case AbilityKey:
		return "key"
	default:
		return "unknown"
	}
}

// AbilitySet is a 4-bit set over {copy, drop, store, key}.
type AbilitySet uint8

// EmptyAbilitySet carries no abilities.
const EmptyAbilitySet AbilitySet = 0

// AllAbilities carries every ability; useful as a neutral element for
// set-intersection when computing the ability of an instantiated struct.
const AllAbilities AbilitySet = AbilitySet(AbilityCopy | AbilityDrop | AbilityStore | AbilityKey)

// NewAbilitySet builds a set from individual abilities.
func NewAbilitySet(abilities ...Ability) AbilitySet {
	var s AbilitySet
	for _, a := range abilities {
		s |= AbilitySet(a)
	}
	return s
}

// Has reports whether the set carries the given ability.
func (s AbilitySet) Has(a Ability) bool {
	return s&AbilitySet(a) != 0
}

// HasCopy, HasDrop, HasStore, HasKey are convenience predicates used
// throughout the interpreter's runtime checks.
func (s AbilitySet) HasCopy() bool  { return s.Has(AbilityCopy) }
func (s AbilitySet) HasDrop() bool  { return s.Has(AbilityDrop) }
func (s AbilitySet) HasStore() bool { return s.Has(AbilityStore) }
func (s AbilitySet) HasKey() bool   { return s.Has(AbilityKey) }

// Intersect returns the abilities present in both sets.
func (s AbilitySet) Intersect(other AbilitySet) AbilitySet {
	return s & other
}

// Union returns the abilities present in either set.
func (s AbilitySet) Union(other AbilitySet) AbilitySet {
	return s | other
}

// IsSubsetOf reports whether every ability in s is also in other.
func (s AbilitySet) IsSubsetOf(other AbilitySet) bool {
	return s&other == s
}

func (s AbilitySet) String() string {
	var parts []string
	for _, a := range allAbilities {
		if s.Has(a) {
			parts = append(parts, a.String())
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
