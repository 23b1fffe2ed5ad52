// Package dispatch implements the per-(level, command) action dispatcher,
// the state machine transitions, and the pre-requisite resolver.
//
// Dispatch is a plain switch over the tagged addr.Level/command.Kind
// enums rather than a table of per-(level, command) closures: the switch
// compiles to a jump table and inlines cleanly, and the enum space is
// small and fixed, so there is nothing a closure indirection buys here.
package dispatch

import (
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/command"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/node"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/timing"
)

// InvalidStateError reports that a pre-requisite query observed a bank in
// a state outside the set the query expects. This is a programming error,
// not a recoverable one: callers must keep bank state and query together.
type InvalidStateError struct {
	Command command.Kind
	Bank    string
	State   node.State
}

func (e *InvalidStateError) Error() string {
	return "invalid bank state " + e.State.String() + " for " + e.Command.String() + " on " + e.Bank
}

// Path mirrors constraint.Path: the chain of ancestor nodes of the node
// addressed by a command, Channel through Bank.
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

// maxHistoryLevel is the deepest level a Node exists at; commands whose
// scope is Row or Column still record history at Bank, since there is no
// node below it.
const maxHistoryLevel = addr.Bank

// RecordIssue records that cmd issued at cycle now on every node from
// Channel down to min(cmd.Scope(), Bank).
func RecordIssue(p Path, cmd command.Kind, now int64) {
	deepest := cmd.Scope()
	if deepest > maxHistoryLevel {
		deepest = maxHistoryLevel
	}

	for l := addr.Channel; l <= deepest; l++ {
		p.at(l).History.RecordIssue(cmd, now)
	}
}

// Launch fires cmd's action at every level on the path from channel to
// its scope (bottom-up is not observable here since each level's action
// is independent). a is the full address vector (needed for the row id
// that ACT-1/ACT-2 open). t
// supplies the cycle counts actions need (RD24/WR24's WCK-sync hint).
// finalSyncedCycle is updated in place when cmd is RD24 or WR24 at rank
// scope.
func Launch(p Path, cmd command.Kind, a addr.Vec, now int64, t timing.Params, finalSyncedCycle *int64) {
	RecordIssue(p, cmd, now)

	switch cmd {
	case command.PREA:
		prechargeAllBanks(p.Rank)
	case command.RD24:
		*finalSyncedCycle = now + int64(t.NCL+t.NBL16+t.NWCKPST)
	case command.WR24:
		*finalSyncedCycle = now + int64(t.NCWL+t.NBL16+t.NWCKPST)
	case command.ACT1:
		p.Bank.State = node.PreOpened
		p.Bank.OpenRows[a[addr.Row]] = node.PreOpened
	case command.ACT2:
		p.Bank.State = node.Opened
		p.Bank.OpenRows[a[addr.Row]] = node.Opened
	case command.PRE:
		closeBank(p.Bank)
	case command.RD24A, command.WR24A:
		// Auto-precharge closes the bank in addition to firing the access.
		closeBank(p.Bank)
	}
}

func closeBank(bank *node.Node) {
	bank.State = node.Closed

	for row := range bank.OpenRows {
		delete(bank.OpenRows, row)
	}
}

func prechargeAllBanks(rank *node.Node) {
	for _, bank := range rank.Descendants(addr.Bank) {
		if bank.State == node.PreOpened || bank.State == node.Opened {
			closeBank(bank)
		}
	}
}

// Preq resolves the pre-requisite command for cmd at the addressed node.
func Preq(p Path, cmd command.Kind, a addr.Vec, counts addr.Vec) command.Kind {
	switch cmd {
	case command.RD24, command.WR24:
		return preqReadWrite(p.Bank, cmd, a)
	case command.REFab, command.RFMab:
		return preqAllBankRefresh(p.Rank, cmd)
	case command.REFpb, command.RFMpb:
		return preqPerBankRefresh(p.Rank, cmd, a, counts)
	default:
		// ACT-1, ACT-2, PRE, PREA are self-prerequisite: legality is
		// handled entirely by the timing check, not by a precursor
		// command.
		return cmd
	}
}

func preqReadWrite(bank *node.Node, cmd command.Kind, a addr.Vec) command.Kind {
	switch bank.State {
	case node.Closed:
		return command.ACT1
	case node.PreOpened:
		return command.ACT2
	case node.Opened:
		if bank.RowBufferHit(a[addr.Row]) {
			return cmd
		}

		return command.PRE
	default:
		panic(&InvalidStateError{Command: cmd, Bank: bank.Name(), State: bank.State})
	}
}

func preqAllBankRefresh(rank *node.Node, cmd command.Kind) command.Kind {
	for _, bank := range rank.Descendants(addr.Bank) {
		if bank.State == node.PreOpened || bank.State == node.Opened {
			// PRE would also satisfy this, but PREA closes every open
			// bank in one command instead of requiring the controller
			// to enumerate them.
			return command.PREA
		}
	}

	return cmd
}

func preqPerBankRefresh(rank *node.Node, cmd command.Kind, a addr.Vec, counts addr.Vec) command.Kind {
	numBanksPerGroup := counts[addr.Bank]
	targetFlat := a[addr.Bank]

	for _, bank := range rank.Descendants(addr.Bank) {
		flat := bank.ID + bank.Parent.ID*numBanksPerGroup
		if flat != targetFlat && flat != targetFlat+8 {
			continue
		}

		// Checks the targeted bank's own state, not the rank's (a
		// rank has no open/closed state of its own once powered up).
		if bank.State == node.PreOpened || bank.State == node.Opened {
			return command.PRE
		}
	}

	return cmd
}
