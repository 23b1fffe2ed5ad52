// Package node implements the hierarchical node tree: one Node per
// channel, rank, bank-group, and bank (rows are tracked as a map on their
// owning bank, not as separate nodes, since a bank may own tens of
// thousands of rows). Each node owns its children; parent back-pointers
// are non-owning.
package node

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim/naming"

	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/command"
)

// Node is one element of the channel/rank/bank-group/bank hierarchy.
type Node struct {
	naming.NamedBase

	Level  addr.Level
	ID     int
	Parent *Node

	Children []*Node

	State   State
	History *History

	// OpenRows is populated only on Bank-level nodes: it maps a row id to
	// its state (PreOpened or Opened). A row absent from the map is
	// implicitly Closed.
	OpenRows map[int]State
}

func initialState(level addr.Level) State {
	switch level {
	case addr.Rank:
		return PowerUp
	case addr.Bank:
		return Closed
	default:
		return NotApplicable
	}
}

// BuildTree constructs the channel-rooted node tree for one channel, given
// the device's per-level counts and the set of commands that need a
// windowed issue history (registered once per node, regardless of level;
// every node on an issuing command's path pushes into its ring, and a
// windowed constraint reads the ring of the node at its own level, e.g.
// the rank's for nFAW).
func BuildTree(namePrefix string, channelID int, counts addr.Vec, windowSizes map[command.Kind]int) *Node {
	channel := newNode(nil, addr.Channel, channelID, namePrefix, windowSizes)

	for r := 0; r < counts[addr.Rank]; r++ {
		rank := newNode(channel, addr.Rank, r, channel.Name(), windowSizes)
		channel.Children = append(channel.Children, rank)

		for bg := 0; bg < counts[addr.BankGroup]; bg++ {
			group := newNode(rank, addr.BankGroup, bg, rank.Name(), windowSizes)
			rank.Children = append(rank.Children, group)

			for b := 0; b < counts[addr.Bank]; b++ {
				bank := newNode(group, addr.Bank, b, group.Name(), windowSizes)
				bank.OpenRows = make(map[int]State)
				group.Children = append(group.Children, bank)
			}
		}
	}

	return channel
}

func newNode(parent *Node, level addr.Level, id int, parentName string, windowSizes map[command.Kind]int) *Node {
	name := fmt.Sprintf("%s.%s%d", parentName, levelTitle(level), id)

	return &Node{
		NamedBase: naming.MakeNamedBase(name),
		Level:     level,
		ID:        id,
		Parent:    parent,
		State:     initialState(level),
		History:   NewHistory(windowSizes),
	}
}

func levelTitle(l addr.Level) string {
	switch l {
	case addr.Channel:
		return "Channel"
	case addr.Rank:
		return "Rank"
	case addr.BankGroup:
		return "BankGroup"
	case addr.Bank:
		return "Bank"
	case addr.Row:
		return "Row"
	default:
		return "Column"
	}
}

// ChildAt returns the nth child, which must exist (callers index using an
// already-bounds-checked address vector).
func (n *Node) ChildAt(id int) *Node {
	return n.Children[id]
}

// Siblings returns every child of n.Parent except n itself. It panics if n
// is the root (channels have no siblings in a single-channel path walk;
// callers must not invoke Siblings on a channel node).
func (n *Node) Siblings() []*Node {
	siblings := make([]*Node, 0, len(n.Parent.Children)-1)

	for _, c := range n.Parent.Children {
		if c != n {
			siblings = append(siblings, c)
		}
	}

	return siblings
}

// Descendants returns every node in n's subtree at the given level,
// including n itself if n.Level == level.
func (n *Node) Descendants(level addr.Level) []*Node {
	if n.Level == level {
		return []*Node{n}
	}

	var out []*Node

	for _, c := range n.Children {
		out = append(out, c.Descendants(level)...)
	}

	return out
}

// RowBufferHit reports whether row is currently Opened in this bank's open
// row map.
func (n *Node) RowBufferHit(row int) bool {
	return n.OpenRows[row] == Opened
}

// IsNodeOpen reports whether this bank is Opened or PreOpened.
func (n *Node) IsNodeOpen() bool {
	return n.State == Opened || n.State == PreOpened
}
