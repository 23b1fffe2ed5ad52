package constraint_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/command"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/constraint"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/node"
)

func buildPath(counts addr.Vec, windowSizes map[command.Kind]int) constraint.Path {
	ch := node.BuildTree("Engine0", 0, counts, windowSizes)
	rank := ch.Children[0]
	bg := rank.Children[0]
	bank := bg.Children[0]

	return constraint.Path{Channel: ch, Rank: rank, BankGroup: bg, Bank: bank}
}

var _ = Describe("Table.Ready", func() {
	counts := addr.Vec{addr.Channel: 1, addr.Rank: 1, addr.BankGroup: 1, addr.Bank: 4, addr.Row: 8, addr.Column: 16}

	It("should block a following command until latency has elapsed", func() {
		records := []constraint.Record{
			{Level: addr.Bank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.ACT1), Latency: 30},
		}
		table := constraint.NewTable(records)
		path := buildPath(counts, table.WindowSizes())

		path.Bank.History.RecordIssue(command.ACT1, 0)

		Expect(table.Ready(path, command.ACT1, 29)).To(BeFalse())
		Expect(table.Ready(path, command.ACT1, 30)).To(BeTrue())
	})

	It("should treat missing history as satisfied", func() {
		records := []constraint.Record{
			{Level: addr.Bank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.ACT1), Latency: 30},
		}
		table := constraint.NewTable(records)
		path := buildPath(counts, table.WindowSizes())

		Expect(table.Ready(path, command.ACT1, 0)).To(BeTrue())
	})

	It("should ignore a record whose level lies below the command's scope", func() {
		records := []constraint.Record{
			{Level: addr.Row, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.PREA), Latency: 1000},
		}
		table := constraint.NewTable(records)
		path := buildPath(counts, table.WindowSizes())

		Expect(table.Ready(path, command.PREA, 0)).To(BeTrue())
	})

	It("should enforce nFAW as a window-4 constraint on the rank", func() {
		records := []constraint.Record{
			{Level: addr.Rank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.ACT1), Latency: 16, Window: 4},
		}
		table := constraint.NewTable(records)
		path := buildPath(counts, table.WindowSizes())

		path.Rank.History.RecordIssue(command.ACT1, 0)
		path.Rank.History.RecordIssue(command.ACT1, 4)
		path.Rank.History.RecordIssue(command.ACT1, 8)
		path.Rank.History.RecordIssue(command.ACT1, 12)

		// 4th-most-recent ACT-1 (t=0) + 16 = 16, so blocked before t=16.
		Expect(table.Ready(path, command.ACT1, 15)).To(BeFalse())
		Expect(table.Ready(path, command.ACT1, 16)).To(BeTrue())
	})

	It("should check sibling nodes, not the target, for is_sibling records", func() {
		records := []constraint.Record{
			{Level: addr.Bank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.ACT1), Latency: 10, IsSibling: true},
		}
		table := constraint.NewTable(records)
		path := buildPath(counts, table.WindowSizes())

		// Issue on the target bank itself: the sibling record must not see it.
		path.Bank.History.RecordIssue(command.ACT1, 0)
		Expect(table.Ready(path, command.ACT1, 1)).To(BeTrue())

		// Issue on a sibling bank: the record must see it and block.
		path.BankGroup.Children[1].History.RecordIssue(command.ACT1, 0)
		Expect(table.Ready(path, command.ACT1, 1)).To(BeFalse())
		Expect(table.Ready(path, command.ACT1, 10)).To(BeTrue())
	})
})
