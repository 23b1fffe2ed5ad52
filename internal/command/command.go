// Package command defines the closed set of LPDDR6 commands, their scope,
// duration, and meta flags.
package command

import (
	"fmt"

	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
)

// Kind enumerates the closed set of LPDDR6 commands.
type Kind int

// The command set. NOP is the idle/reset command the engine starts in.
const (
	NOP Kind = iota
	ACT1
	ACT2
	PRE
	PREA
	RD24
	WR24
	RD24A
	WR24A
	REFab
	REFpb
	RFMab
	RFMpb

	numKinds = RFMpb + 1
)

var kindNames = [numKinds]string{
	NOP:   "NOP",
	ACT1:  "ACT-1",
	ACT2:  "ACT-2",
	PRE:   "PRE",
	PREA:  "PREA",
	RD24:  "RD24",
	WR24:  "WR24",
	RD24A: "RD24A",
	WR24A: "WR24A",
	REFab: "REFab",
	REFpb: "REFpb",
	RFMab: "RFMab",
	RFMpb: "RFMpb",
}

// String returns the command's name, e.g. "ACT-1".
func (k Kind) String() string {
	if k < NOP || k > RFMpb {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// NumKinds is the number of commands in the catalog (including NOP).
func NumKinds() int {
	return int(numKinds)
}

var scopes = [numKinds]addr.Level{
	NOP:   addr.Channel,
	ACT1:  addr.Row,
	ACT2:  addr.Row,
	PRE:   addr.Bank,
	PREA:  addr.Rank,
	RD24:  addr.Column,
	WR24:  addr.Column,
	RD24A: addr.Column,
	WR24A: addr.Column,
	REFab: addr.Rank,
	REFpb: addr.Rank,
	RFMab: addr.Rank,
	RFMpb: addr.Rank,
}

// Scope returns the lowest hierarchy level the command addresses.
func (k Kind) Scope() addr.Level {
	return scopes[k]
}

// duration is the number of cycles a command occupies once issued, counted
// so that a command with duration d has its action fire d-1 ticks after
// issue. Every command in the catalog currently takes 2 cycles.
var durations = [numKinds]int{
	NOP:   2,
	ACT1:  2,
	ACT2:  2,
	PRE:   2,
	PREA:  2,
	RD24:  2,
	WR24:  2,
	RD24A: 2,
	WR24A: 2,
	REFab: 2,
	REFpb: 2,
	RFMab: 2,
	RFMpb: 2,
}

// Duration returns the number of cycles k occupies once issued.
func (k Kind) Duration() int {
	return durations[k]
}

// Meta carries the four boolean flags the engine uses to classify a
// command without a type switch: does it open a row, close a row, access
// the data array, or perform a refresh.
type Meta struct {
	OpensRow     bool
	ClosesRow    bool
	AccessesData bool
	IsRefresh    bool
}

var metas = [numKinds]Meta{
	NOP:   {},
	ACT1:  {},
	ACT2:  {OpensRow: true},
	PRE:   {ClosesRow: true},
	PREA:  {ClosesRow: true},
	RD24:  {AccessesData: true},
	WR24:  {AccessesData: true},
	RD24A: {ClosesRow: true, AccessesData: true},
	WR24A: {ClosesRow: true, AccessesData: true},
	REFab: {IsRefresh: true},
	REFpb: {IsRefresh: true},
	RFMab: {IsRefresh: true},
	RFMpb: {IsRefresh: true},
}

// MetaOf returns the meta flag-set for k.
func MetaOf(k Kind) Meta {
	return metas[k]
}

// Set is a bitset over command kinds, used to express the preceding/
// following sets of a timing constraint record compactly.
type Set uint16

// NewSet builds a Set from a list of kinds.
func NewSet(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		s |= 1 << uint(k)
	}

	return s
}

// Has reports whether k is a member of s.
func (s Set) Has(k Kind) bool {
	return s&(1<<uint(k)) != 0
}

// requestTranslations maps the handful of controller-facing request names
// a Controller (out of scope here) may wish to map to a command without
// duplicating the mapping itself.
var requestTranslations = map[string]Kind{
	"read":              RD24,
	"write":             WR24,
	"all-bank-refresh":  REFab,
	"open-row":          ACT1,
	"close-row":         PRE,
}

// Translate looks up the command a named controller-level request
// translates to. It returns false if the request name is not recognized.
func Translate(request string) (Kind, bool) {
	k, ok := requestTranslations[request]
	return k, ok
}
