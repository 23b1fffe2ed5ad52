// Package addr defines the fixed hierarchy levels of an LPDDR6 device and
// the address-vector type used to address a node at any level.
package addr

import "fmt"

// Level is a position in the fixed hierarchy channel > rank > bank-group >
// bank > row > column.
type Level int

// The hierarchy levels, in descending order. The order is load-bearing:
// ancestor-of is "has a smaller Level value", and code that walks from a
// command's Scope up to Channel relies on this ordering.
const (
	Channel Level = iota
	Rank
	BankGroup
	Bank
	Row
	Column

	numLevels = Column + 1
)

var levelNames = [numLevels]string{
	Channel:   "channel",
	Rank:      "rank",
	BankGroup: "bankgroup",
	Bank:      "bank",
	Row:       "row",
	Column:    "column",
}

// String returns the lowercase name of the level.
func (l Level) String() string {
	if l < Channel || l > Column {
		return fmt.Sprintf("Level(%d)", int(l))
	}

	return levelNames[l]
}

// NumLevels is the number of levels in the hierarchy.
func NumLevels() int {
	return int(numLevels)
}

// Vec is an address-vector: one non-negative index per hierarchy level.
type Vec [numLevels]int

// At returns the index for the given level.
func (v Vec) At(l Level) int {
	return v[l]
}

// WithLevel returns a copy of v with the index at l replaced.
func (v Vec) WithLevel(l Level, id int) Vec {
	v[l] = id
	return v
}

// Flatten computes the canonical row-major flat address of v given the
// per-level cardinalities in counts, across channel, rank, bank-group,
// bank, row, column order.
func (v Vec) Flatten(counts Vec) uint64 {
	var flat uint64

	for l := Channel; l <= Column; l++ {
		flat = flat*uint64(counts[l]) + uint64(v[l])
	}

	return flat
}

// InBounds reports whether every index of v is within [0, counts[l]) for
// all levels down to and including maxLevel.
func (v Vec) InBounds(counts Vec, maxLevel Level) bool {
	for l := Channel; l <= maxLevel; l++ {
		if v[l] < 0 || v[l] >= counts[l] {
			return false
		}
	}

	return true
}
