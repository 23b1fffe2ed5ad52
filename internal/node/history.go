package node

import (
	"math"

	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/command"
)

// negInf stands in for "no such command has ever issued on this node";
// missing history is always treated as satisfied.
const negInf int64 = math.MinInt64

// History is a node's per-command issue record: the last issue cycle for
// every command, plus a small ring buffer for the handful of commands that
// participate in windowed constraints (in practice, only nFAW's window=4
// rule on ACT-1).
type History struct {
	last    []int64
	windows map[command.Kind]*ring
}

type ring struct {
	buf  []int64
	next int
	n    int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]int64, capacity)}
}

func (r *ring) push(cycle int64) {
	r.buf[r.next] = cycle
	r.next = (r.next + 1) % len(r.buf)

	if r.n < len(r.buf) {
		r.n++
	}
}

// nthMostRecent returns the nth-most-recent pushed value (n=1 is the most
// recent) and whether that many values have been pushed.
func (r *ring) nthMostRecent(n int) (int64, bool) {
	if n < 1 || n > r.n {
		return negInf, false
	}

	idx := (r.next - n + len(r.buf)) % len(r.buf)

	return r.buf[idx], true
}

// NewHistory creates a History whose last-issue cycles all start at
// -infinity. windowSizes registers a ring buffer of the given capacity for
// any command that participates in a window>1 constraint (e.g.
// {command.ACT1: 4} for nFAW).
func NewHistory(windowSizes map[command.Kind]int) *History {
	h := &History{
		last:    make([]int64, command.NumKinds()),
		windows: make(map[command.Kind]*ring, len(windowSizes)),
	}

	for i := range h.last {
		h.last[i] = negInf
	}

	for cmd, size := range windowSizes {
		h.windows[cmd] = newRing(size)
	}

	return h
}

// RecordIssue records that cmd issued at cycle now, unconditionally, in
// this node's history for cmd.
func (h *History) RecordIssue(cmd command.Kind, now int64) {
	h.last[cmd] = now

	if r, ok := h.windows[cmd]; ok {
		r.push(now)
	}
}

// LastIssue returns the most recent cycle cmd issued on this node, or
// -infinity if it never has.
func (h *History) LastIssue(cmd command.Kind) int64 {
	return h.last[cmd]
}

// NthMostRecentIssue returns the nth-most-recent issue cycle of cmd (n=1
// is the latest), using the ring buffer registered for cmd. It returns
// -infinity if no ring buffer was registered for cmd or fewer than n
// issues have been recorded.
func (h *History) NthMostRecentIssue(cmd command.Kind, n int) int64 {
	r, ok := h.windows[cmd]
	if !ok {
		return negInf
	}

	cycle, ok := r.nthMostRecent(n)
	if !ok {
		return negInf
	}

	return cycle
}

// NegInf is the sentinel value LastIssue/NthMostRecentIssue return for "no
// such issue has happened".
const NegInf = negInf
