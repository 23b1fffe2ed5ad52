package lpddr6_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	hooking "github.com/sarchlab/akita/v4/sim"
	"go.uber.org/mock/gomock"

	lpddr6 "github.com/EZIOPQR/ramulator2-LPDDR6"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/command"
)

func buildEngine() *lpddr6.Engine {
	e, err := lpddr6.MakeBuilder().
		WithOrgPreset("LPDDR6_8Gb_x24").
		WithTimingPreset("LPDDR6_6400").
		Build("Engine0")

	Expect(err).NotTo(HaveOccurred())

	return e
}

// runUntilReady ticks e until cmd is ready at a, or fails the test after a
// generous cycle budget. It always leaves e on an even cycle.
func runUntilReady(e *lpddr6.Engine, cmd command.Kind, a addr.Vec) {
	for i := 0; i < 2000; i++ {
		if e.CheckReady(cmd, a) {
			return
		}

		e.Tick()
	}

	Fail("command never became ready")
}

var _ = Describe("Engine construction", func() {
	It("should reject an org preset name it does not recognize", func() {
		_, err := lpddr6.MakeBuilder().WithOrgPreset("not-a-preset").Build("Engine0")

		Expect(err).To(HaveOccurred())
		Expect(lpddr6.IsConfigurationError(err)).To(BeTrue())
	})

	It("should reject a timing preset name it does not recognize", func() {
		_, err := lpddr6.MakeBuilder().WithTimingPreset("not-a-preset").Build("Engine0")

		Expect(err).To(HaveOccurred())
		Expect(lpddr6.IsConfigurationError(err)).To(BeTrue())
	})

	It("should reject a density that does not match the count product", func() {
		_, err := lpddr6.MakeBuilder().
			WithOrgPreset("LPDDR6_8Gb_x24").
			WithTimingPreset("LPDDR6_6400").
			WithOrgDensity(8192).
			WithLevelCount(addr.Row, 1<<14).
			Build("Engine0")

		Expect(err).To(HaveOccurred())
		Expect(lpddr6.IsConfigurationError(err)).To(BeTrue())
	})

	It("should accept a timing cycle override", func() {
		e, err := lpddr6.MakeBuilder().
			WithOrgPreset("LPDDR6_8Gb_x24").
			WithTimingPreset("LPDDR6_6400").
			WithTimingCycles("nRCD", 99).
			Build("Engine0")

		Expect(err).NotTo(HaveOccurred())
		Expect(e.Timing().NRCD).To(Equal(99))
	})

	It("should build with the preset's organization", func() {
		e := buildEngine()

		Expect(e.Organization().Counts[addr.Bank]).To(Equal(4))
		Expect(e.Organization().Counts[addr.BankGroup]).To(Equal(4))
	})
})

var _ = Describe("Even-cycle issue rule", func() {
	It("should return false for check_ready on every odd clk", func() {
		e := buildEngine()
		a := addr.Vec{}

		for i := 0; i < 10; i++ {
			e.Tick()

			if e.Clk()%2 != 0 {
				Expect(e.CheckReady(command.ACT1, a)).To(BeFalse())
			}
		}
	})
})

var _ = Describe("In-flight exclusion", func() {
	It("should return false for check_ready while a command is in flight", func() {
		e := buildEngine()
		a := addr.Vec{}

		Expect(e.IssueCommand(command.ACT1, a)).NotTo(HaveOccurred())
		Expect(e.CheckReady(command.ACT1, a)).To(BeFalse())

		e.Tick()
		Expect(e.CheckReady(command.ACT1, a)).To(BeFalse())
	})

	It("should refuse to issue a second command while one is already in flight", func() {
		e := buildEngine()
		a := addr.Vec{}

		Expect(e.IssueCommand(command.ACT1, a)).NotTo(HaveOccurred())

		err := e.IssueCommand(command.ACT2, a)
		Expect(err).To(HaveOccurred())
		Expect(lpddr6.IsInvalidCommandError(err)).To(BeTrue())
	})
})

var _ = Describe("Address validation", func() {
	It("should reject an address whose rank index is out of range", func() {
		e := buildEngine()
		a := addr.Vec{addr.Rank: 5}

		err := e.IssueCommand(command.ACT1, a)
		Expect(err).To(HaveOccurred())
		Expect(lpddr6.IsInvalidCommandError(err)).To(BeTrue())
	})

	It("should reject an address whose row index is out of range", func() {
		e := buildEngine()
		a := addr.Vec{addr.Row: -1}

		err := e.IssueCommand(command.ACT1, a)
		Expect(err).To(HaveOccurred())
		Expect(lpddr6.IsInvalidCommandError(err)).To(BeTrue())
	})

	It("should reject an address whose row index is at or beyond the row count", func() {
		e := buildEngine()
		a := addr.Vec{addr.Row: e.Organization().Counts[addr.Row]}

		err := e.IssueCommand(command.ACT1, a)
		Expect(err).To(HaveOccurred())
		Expect(lpddr6.IsInvalidCommandError(err)).To(BeTrue())
	})

	It("should reject an address whose column index is out of range", func() {
		e := buildEngine()
		a := addr.Vec{addr.Column: e.Organization().Counts[addr.Column]}

		err := e.IssueCommand(command.RD24, a)
		Expect(err).To(HaveOccurred())
		Expect(lpddr6.IsInvalidCommandError(err)).To(BeTrue())
	})
})

var _ = Describe("State-transition closure", func() {
	It("should return the bank to Closed after ACT-1, ACT-2, RD24, PRE", func() {
		e := buildEngine()
		a := addr.Vec{addr.Row: 5}

		Expect(e.CheckNodeOpen(command.RD24, a)).To(BeFalse())

		runUntilReady(e, command.ACT1, a)
		Expect(e.IssueCommand(command.ACT1, a)).NotTo(HaveOccurred())

		runUntilReady(e, command.ACT2, a)
		Expect(e.IssueCommand(command.ACT2, a)).NotTo(HaveOccurred())

		Expect(e.CheckNodeOpen(command.RD24, a)).To(BeTrue())
		Expect(e.CheckRowBufferHit(command.RD24, a)).To(BeFalse())

		runUntilReady(e, command.RD24, a)
		Expect(e.CheckRowBufferHit(command.RD24, a)).To(BeTrue())
		Expect(e.IssueCommand(command.RD24, a)).NotTo(HaveOccurred())

		runUntilReady(e, command.PRE, a)
		Expect(e.IssueCommand(command.PRE, a)).NotTo(HaveOccurred())

		// Drain the in-flight PRE so its action has fired.
		for i := 0; i < 10; i++ {
			e.Tick()
		}

		Expect(e.CheckNodeOpen(command.RD24, a)).To(BeFalse())
		Expect(e.GetPreqCommand(command.RD24, a)).To(Equal(command.ACT1))
	})
})

var _ = Describe("Pre-requisite resolver", func() {
	It("should resolve ACT-1 as the preq for RD24 on a cold bank", func() {
		e := buildEngine()
		a := addr.Vec{}

		Expect(e.GetPreqCommand(command.RD24, a)).To(Equal(command.ACT1))
	})

	It("should resolve PREA as the preq for REFab when a bank is open", func() {
		e := buildEngine()
		a := addr.Vec{addr.Row: 3}

		runUntilReady(e, command.ACT1, a)
		Expect(e.IssueCommand(command.ACT1, a)).NotTo(HaveOccurred())

		for i := 0; i < 10; i++ {
			e.Tick()
		}

		Expect(e.GetPreqCommand(command.REFab, addr.Vec{})).To(Equal(command.PREA))
	})
})

var _ = Describe("Hooks", func() {
	It("should invoke a registered hook with a CommandIssued item on IssueCommand", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		hook := NewMockHook(ctrl)
		a := addr.Vec{}

		hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
			Expect(ctx.Item).To(Equal(lpddr6.CommandIssued{Cmd: command.ACT1, Addr: a}))
		})

		e, err := lpddr6.MakeBuilder().
			WithOrgPreset("LPDDR6_8Gb_x24").
			WithTimingPreset("LPDDR6_6400").
			WithAdditionalHooks(hook).
			Build("Engine0")
		Expect(err).NotTo(HaveOccurred())

		Expect(e.IssueCommand(command.ACT1, a)).NotTo(HaveOccurred())
	})

	It("should invoke a registered hook with a CycleAdvanced item on every Tick", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		hook := NewMockHook(ctrl)
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
			Expect(ctx.Item).To(BeAssignableToTypeOf(lpddr6.CycleAdvanced{}))
		}).Times(3)

		e, err := lpddr6.MakeBuilder().
			WithOrgPreset("LPDDR6_8Gb_x24").
			WithTimingPreset("LPDDR6_6400").
			WithAdditionalHooks(hook).
			Build("Engine0")
		Expect(err).NotTo(HaveOccurred())

		e.Tick()
		e.Tick()
		e.Tick()
	})
})

var _ = Describe("tRRD/tFAW", func() {
	It("should block the 5th ACT-1 on a rank until nFAW has elapsed since the 1st", func() {
		e := buildEngine()
		nRRD := e.Timing().NRRD
		nFAW := e.Timing().NFAW

		banks := []addr.Vec{
			{addr.BankGroup: 0, addr.Bank: 0},
			{addr.BankGroup: 1, addr.Bank: 0},
			{addr.BankGroup: 2, addr.Bank: 0},
			{addr.BankGroup: 3, addr.Bank: 0},
		}

		var issuedAt []int64

		for _, a := range banks {
			runUntilReady(e, command.ACT1, a)
			issuedAt = append(issuedAt, e.Clk())
			Expect(e.IssueCommand(command.ACT1, a)).NotTo(HaveOccurred())

			for i := 0; i < nRRD; i++ {
				e.Tick()
			}
		}

		fifth := addr.Vec{addr.BankGroup: 0, addr.Bank: 1}

		elapsed := 4 * nRRD
		if elapsed < nFAW {
			Expect(e.CheckReady(command.ACT1, fifth)).To(BeFalse())
		}

		// Each ACT-1 is recorded when it launches, one tick after it is
		// issued. The fifth waits for nFAW after the first launch and for
		// nRRD after the fourth.
		readyAt := issuedAt[0] + 1 + int64(nFAW)
		if fromLast := issuedAt[3] + 1 + int64(nRRD); fromLast > readyAt {
			readyAt = fromLast
		}

		for e.Clk() < readyAt {
			e.Tick()
		}

		if e.Clk()%2 != 0 {
			e.Tick()
		}

		Expect(e.CheckReady(command.ACT1, fifth)).To(BeTrue())
	})
})
