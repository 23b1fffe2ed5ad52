// Package lpddr6 implements a cycle-accurate timing and state engine for
// an LPDDR6-class DRAM device: given a stream of commands addressed to a
// channel/rank/bank-group/bank/row/column hierarchy, it answers whether a
// candidate command is legal under the device's JEDEC-style timing
// constraints, computes the pre-requisite command needed to make an
// illegal one legal, and advances the per-node state machine when a
// command is actually launched.
//
// The request-fabricating front-end, address translation, scheduling
// policy, and trace sinks are deliberately not part of this package; it
// is the kernel a memory controller sits on top of.
package lpddr6

import (
	hooking "github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/naming"

	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/command"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/constraint"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/dispatch"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/node"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/organization"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/timing"
)

var (
	hookPosCycleAdvanced    = &hooking.HookPos{Name: "CycleAdvanced"}
	hookPosCommandIssued    = &hooking.HookPos{Name: "CommandIssued"}
	hookPosBankStateChanged = &hooking.HookPos{Name: "BankStateChanged"}
	hookPosWCKSyncChanged   = &hooking.HookPos{Name: "WCKSyncChanged"}
)

// CycleAdvanced is the hook item reported once per Tick.
type CycleAdvanced struct {
	Clk int64
}

// CommandIssued is the hook item reported when IssueCommand accepts a
// command.
type CommandIssued struct {
	Cmd  command.Kind
	Addr addr.Vec
}

// BankStateChanged is the hook item reported whenever a bank's state
// transitions, including the transition into and out of an open row.
type BankStateChanged struct {
	Addr addr.Vec
	From node.State
	To   node.State
}

// WCKSyncChanged is the hook item reported when the WCK-sync trace signal
// crosses an edge.
type WCKSyncChanged struct {
	Active bool
}

// Engine is the device timing and state engine. It is not safe for
// concurrent use: the engine must tick before its Controller ticks, with
// no interleaved mutation.
type Engine struct {
	hooking.HookableBase
	naming.NamedBase

	org    organization.Organization
	timing timing.Params
	table  *constraint.Table

	channel *node.Node

	clk              int64
	curCmd           command.Kind
	curAddr          addr.Vec
	curCmdCountdown  int
	finalSyncedCycle int64
	wckSyncActive    bool
}

// Organization returns the device's static organization.
func (e *Engine) Organization() organization.Organization {
	return e.org
}

// Timing returns the device's resolved timing parameter set.
func (e *Engine) Timing() timing.Params {
	return e.timing
}

// Clk returns the current cycle count.
func (e *Engine) Clk() int64 {
	return e.clk
}

// path resolves the ancestor chain for an address vector, bounds-checking
// every index down to Column. It returns an *InvalidCommandError if any
// index is out of range.
func (e *Engine) path(cmd command.Kind, a addr.Vec) (dispatch.Path, error) {
	if !a.InBounds(e.org.Counts, addr.Column) {
		return dispatch.Path{}, &InvalidCommandError{
			Command: cmd.String(),
			Addr:    addrString(a),
			Reason:  "address index out of range",
		}
	}

	rank := e.channel.ChildAt(a[addr.Rank])
	bg := rank.ChildAt(a[addr.BankGroup])
	bank := bg.ChildAt(a[addr.Bank])

	return dispatch.Path{Channel: e.channel, Rank: rank, BankGroup: bg, Bank: bank}, nil
}

func constraintPath(p dispatch.Path) constraint.Path {
	return constraint.Path{Channel: p.Channel, Rank: p.Rank, BankGroup: p.BankGroup, Bank: p.Bank}
}

func addrString(a addr.Vec) string {
	s := "("
	for l := addr.Channel; l <= addr.Column; l++ {
		if l > addr.Channel {
			s += ","
		}

		s += l.String() + "=" + itoa(a[l])
	}

	return s + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// Tick advances the engine by one cycle: the clock advances, any
// in-flight command whose countdown has reached zero is launched, and the
// countdown decrements.
func (e *Engine) Tick() {
	e.clk++

	if e.curCmdCountdown > 0 {
		e.curCmdCountdown--

		if e.curCmdCountdown == 0 {
			e.launch()
		}
	}

	wasActive := e.wckSyncActive
	e.wckSyncActive = e.clk <= e.finalSyncedCycle

	if e.wckSyncActive != wasActive {
		e.InvokeHook(hooking.HookCtx{
			Domain: e,
			Pos:    hookPosWCKSyncChanged,
			Item:   WCKSyncChanged{Active: e.wckSyncActive},
		})
	}

	e.InvokeHook(hooking.HookCtx{
		Domain: e,
		Pos:    hookPosCycleAdvanced,
		Item:   CycleAdvanced{Clk: e.clk},
	})
}

func (e *Engine) launch() {
	p, err := e.path(e.curCmd, e.curAddr)
	if err != nil {
		// e.curCmd was accepted by IssueCommand, which already
		// bounds-checked the address; this cannot happen.
		panic(err)
	}

	banks := p.Rank.Descendants(addr.Bank)
	before := make([]node.State, len(banks))

	for i, b := range banks {
		before[i] = b.State
	}

	dispatch.Launch(p, e.curCmd, e.curAddr, e.clk, e.timing, &e.finalSyncedCycle)

	for i, b := range banks {
		if b.State == before[i] {
			continue
		}

		bankAddr := e.curAddr.WithLevel(addr.BankGroup, b.Parent.ID).WithLevel(addr.Bank, b.ID)
		e.InvokeHook(hooking.HookCtx{
			Domain: e,
			Pos:    hookPosBankStateChanged,
			Item:   BankStateChanged{Addr: bankAddr, From: before[i], To: b.State},
		})
	}

	e.curCmd = command.NOP
}

// CheckReady reports whether cmd may legally issue against addr at the
// current cycle: false on any odd cycle, false while a command is in
// flight, and otherwise gated by the timing constraint table.
func (e *Engine) CheckReady(cmd command.Kind, a addr.Vec) bool {
	if e.clk%2 != 0 {
		return false
	}

	if e.curCmdCountdown > 0 {
		return false
	}

	p, err := e.path(cmd, a)
	if err != nil {
		return false
	}

	return e.table.Ready(constraintPath(p), cmd, e.clk)
}

// GetPreqCommand returns the command that must be issued first to make
// cmd eventually legal on the addressed node, or cmd itself if no
// precursor is needed.
func (e *Engine) GetPreqCommand(cmd command.Kind, a addr.Vec) command.Kind {
	p, err := e.path(cmd, a)
	if err != nil {
		return cmd
	}

	return dispatch.Preq(p, cmd, a, e.org.Counts)
}

// CheckRowBufferHit reports whether the bank addressed by a is Opened
// with the requested row already open. Callers must only invoke this for
// RD24/WR24/RD24A/WR24A.
func (e *Engine) CheckRowBufferHit(cmd command.Kind, a addr.Vec) bool {
	p, err := e.path(cmd, a)
	if err != nil {
		return false
	}

	return p.Bank.RowBufferHit(a[addr.Row])
}

// CheckNodeOpen reports whether the bank addressed by a is Opened or
// Pre-Opened. Callers must only invoke this for RD24/WR24/RD24A/WR24A.
func (e *Engine) CheckNodeOpen(cmd command.Kind, a addr.Vec) bool {
	p, err := e.path(cmd, a)
	if err != nil {
		return false
	}

	return p.Bank.IsNodeOpen()
}

// IssueCommand commits cmd against a: it validates the address, sets the
// in-flight command and countdown, and lets Tick apply its actions
// duration_of(cmd)-1 ticks later. It returns an *InvalidCommandError and
// makes no state change if a is out of range or a command is already in
// flight.
func (e *Engine) IssueCommand(cmd command.Kind, a addr.Vec) error {
	if e.curCmdCountdown > 0 {
		return &InvalidCommandError{
			Command: cmd.String(),
			Addr:    addrString(a),
			Reason:  "a command is already in flight",
		}
	}

	if _, err := e.path(cmd, a); err != nil {
		return err
	}

	e.curCmd = cmd
	e.curAddr = a
	e.curCmdCountdown = cmd.Duration() - 1

	if e.curCmdCountdown == 0 {
		e.launch()
	}

	e.InvokeHook(hooking.HookCtx{
		Domain: e,
		Pos:    hookPosCommandIssued,
		Item:   CommandIssued{Cmd: cmd, Addr: a},
	})

	return nil
}
