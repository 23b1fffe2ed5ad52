// Package constraint implements the timing constraint table and its
// readiness evaluator: a list of
// (level, preceding-set, following-set, latency, window, sibling-flag)
// records consulted on every readiness check.
package constraint

import (
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/command"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/node"
)

// Record is one timing constraint.
type Record struct {
	Level     addr.Level
	Preceding command.Set
	Following command.Set
	Latency   int

	// Window defaults to 1 (the single most recent issue). A window of 4
	// is how nFAW is encoded: the 4th-most-recent ACT-1 on the rank must
	// be at least nFAW cycles in the past.
	Window int

	// IsSibling, when true, checks every *other* node at Level sharing
	// the same parent instead of the addressed node itself -- this is how
	// cross-rank (rank switching) constraints are expressed. tCCD_L vs
	// tCCD_S is not a sibling rule: it is a BankGroup-level record next to
	// a Rank-level one.
	IsSibling bool
}

func (r Record) window() int {
	if r.Window <= 0 {
		return 1
	}

	return r.Window
}

// Table is the immutable-after-init constraint table, indexed by
// following-command for O(k) lookup.
type Table struct {
	byFollowing map[command.Kind][]Record
}

// NewTable builds a Table from a flat list of records, indexing each one
// under every command in its Following set.
func NewTable(records []Record) *Table {
	t := &Table{byFollowing: make(map[command.Kind][]Record)}

	for _, r := range records {
		for k := command.NOP; int(k) < command.NumKinds(); k++ {
			if r.Following.Has(k) {
				t.byFollowing[k] = append(t.byFollowing[k], r)
			}
		}
	}

	return t
}

// WindowSizes collects, for every command that appears in some record's
// Preceding set with Window > 1, the largest window registered for it.
// The node package uses this to size its per-command ring buffers.
func (t *Table) WindowSizes() map[command.Kind]int {
	sizes := make(map[command.Kind]int)

	for _, records := range t.byFollowing {
		for _, r := range records {
			if r.window() <= 1 {
				continue
			}

			for k := command.NOP; int(k) < command.NumKinds(); k++ {
				if !r.Preceding.Has(k) {
					continue
				}

				if r.window() > sizes[k] {
					sizes[k] = r.window()
				}
			}
		}
	}

	return sizes
}

// Path is the chain of ancestor nodes of the node addressed by a command,
// one entry per level from Channel down to Bank (Row and Column have no
// Node of their own, per the node package's doc comment).
type Path struct {
	Channel, Rank, BankGroup, Bank *node.Node
}

func (p Path) at(level addr.Level) *node.Node {
	switch level {
	case addr.Channel:
		return p.Channel
	case addr.Rank:
		return p.Rank
	case addr.BankGroup:
		return p.BankGroup
	default:
		return p.Bank
	}
}

// Ready reports whether cmd may issue at cycle now against the addressed
// node's Path: every record whose Following set contains cmd and whose
// Level lies on the path from channel to cmd's scope must be satisfied.
func (t *Table) Ready(p Path, cmd command.Kind, now int64) bool {
	for _, r := range t.byFollowing[cmd] {
		if r.Level > cmd.Scope() {
			// The record's level is below the command's scope (e.g. a
			// row-level record for a rank-scoped command); it cannot
			// apply.
			continue
		}

		if !t.recordSatisfied(p, r, now) {
			return false
		}
	}

	return true
}

func (t *Table) recordSatisfied(p Path, r Record, now int64) bool {
	target := p.at(r.Level)

	nodes := []*node.Node{target}
	if r.IsSibling {
		nodes = target.Siblings()
	}

	for k := command.NOP; int(k) < command.NumKinds(); k++ {
		if !r.Preceding.Has(k) {
			continue
		}

		if !t.precedingSatisfied(nodes, k, r, now) {
			return false
		}
	}

	return true
}

// precedingSatisfied checks one preceding command k across the relevant
// nodes: the constraint is satisfied iff, for every relevant node, the
// window-th most recent issue of k (or the single most recent, if
// window==1) is either absent or at least r.Latency cycles in the past.
func (t *Table) precedingSatisfied(nodes []*node.Node, k command.Kind, r Record, now int64) bool {
	for _, n := range nodes {
		tp := lastMatchingIssue(n, k, r.window())
		if tp == node.NegInf {
			continue
		}

		if tp+int64(r.Latency) > now {
			return false
		}
	}

	return true
}

func lastMatchingIssue(n *node.Node, k command.Kind, window int) int64 {
	if window <= 1 {
		return n.History.LastIssue(k)
	}

	return n.History.NthMostRecentIssue(k, window)
}
