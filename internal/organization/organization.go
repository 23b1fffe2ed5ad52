// Package organization holds the static device-organization metadata:
// per-level cardinalities, density, and the named organization presets a
// Builder can select from.
package organization

import (
	"fmt"

	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
)

// Organization is the static, immutable-after-init description of a
// device's physical layout.
type Organization struct {
	DensityMbit int
	DQWidth     int
	Counts      addr.Vec
}

// Preset is a named organization.
type Preset struct {
	DensityMbit int
	DQWidth     int
	Counts      addr.Vec
}

// Presets is the set of named device organizations a Builder can select
// by name. Build rejects LPDDR6_32Gb_x24: the density-indexed refresh
// timing tables in internal/timing have no 32 Gb entry.
var Presets = map[string]Preset{
	"LPDDR6_2Gb_x24": {
		DensityMbit: 2 << 10, DQWidth: 12,
		Counts: addr.Vec{addr.Channel: 1, addr.Rank: 1, addr.BankGroup: 4, addr.Bank: 4, addr.Row: 1 << 13, addr.Column: 1 << 11},
	},
	"LPDDR6_4Gb_x24": {
		DensityMbit: 4 << 10, DQWidth: 12,
		Counts: addr.Vec{addr.Channel: 1, addr.Rank: 1, addr.BankGroup: 4, addr.Bank: 4, addr.Row: 1 << 14, addr.Column: 1 << 11},
	},
	"LPDDR6_8Gb_x24": {
		DensityMbit: 8 << 10, DQWidth: 12,
		Counts: addr.Vec{addr.Channel: 1, addr.Rank: 1, addr.BankGroup: 4, addr.Bank: 4, addr.Row: 1 << 15, addr.Column: 1 << 11},
	},
	"LPDDR6_16Gb_x24": {
		DensityMbit: 16 << 10, DQWidth: 12,
		Counts: addr.Vec{addr.Channel: 1, addr.Rank: 1, addr.BankGroup: 4, addr.Bank: 4, addr.Row: 1 << 16, addr.Column: 1 << 11},
	},
	"LPDDR6_32Gb_x24": {
		DensityMbit: 32 << 10, DQWidth: 12,
		Counts: addr.Vec{addr.Channel: 1, addr.Rank: 1, addr.BankGroup: 4, addr.Bank: 4, addr.Row: 1 << 17, addr.Column: 1 << 11},
	},
}

// DensityMismatchError reports that the organization's declared density
// does not match the density implied by its per-level counts.
type DensityMismatchError struct {
	DeclaredMbit int
	ComputedMbit int
}

func (e *DensityMismatchError) Error() string {
	return fmt.Sprintf(
		"calculated chip density %d Mb does not equal the provided density %d Mb",
		e.ComputedMbit, e.DeclaredMbit)
}

// Validate checks the density invariant:
// counts[bg] * counts[bank] * counts[row] * counts[column] * 8 ==
// density_mbit << 20.
func (o Organization) Validate() error {
	computed := uint64(o.Counts[addr.BankGroup]) *
		uint64(o.Counts[addr.Bank]) *
		uint64(o.Counts[addr.Row]) *
		uint64(o.Counts[addr.Column]) * 8

	computed >>= 20

	if computed != uint64(o.DensityMbit) {
		return &DensityMismatchError{
			DeclaredMbit: o.DensityMbit,
			ComputedMbit: int(computed),
		}
	}

	return nil
}
