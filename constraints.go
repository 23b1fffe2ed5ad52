package lpddr6

import (
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/command"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/constraint"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/timing"
)

// buildConstraints assembles the full timing constraint record list for
// an LPDDR6 device, one record per JEDEC-named command-pair rule.
func buildConstraints(t timing.Params) []constraint.Record {
	rd := command.NewSet(command.RD24, command.RD24A)
	wr := command.NewSet(command.WR24, command.WR24A)
	rdwr := command.NewSet(command.RD24, command.RD24A, command.WR24, command.WR24A)

	return []constraint.Record{
		// Channel: data bus occupancy.
		{Level: addr.Channel, Preceding: rd, Following: rd, Latency: t.NBL16},
		{Level: addr.Channel, Preceding: wr, Following: wr, Latency: t.NBL16},

		// Rank (or sibling bank-group): CAS <-> CAS.
		{Level: addr.Rank, Preceding: rd, Following: rd, Latency: t.NCCDS},
		{Level: addr.Rank, Preceding: wr, Following: wr, Latency: t.NCCDS},
		// RD <-> WR, minimum read to write, assuming tWPRE = 1 tCK.
		{Level: addr.Rank, Preceding: rd, Following: wr, Latency: t.NCL + t.NCCDS + 2 - t.NCWL},
		// WR <-> RD, minimum read after write.
		{Level: addr.Rank, Preceding: wr, Following: rd, Latency: t.NCWL + t.NBL16 + t.NWTRS},
		// CAS <-> CAS between sibling ranks: nCS is needed for a new DQS.
		{Level: addr.Rank, Preceding: rd, Following: rdwr, Latency: t.NBL16 + t.NCS, IsSibling: true},
		{Level: addr.Rank, Preceding: wr, Following: rd, Latency: t.NCL + t.NBL16 + t.NCS - t.NCWL, IsSibling: true},
		// CAS <-> PREab.
		{Level: addr.Rank, Preceding: command.NewSet(command.RD24), Following: command.NewSet(command.PREA), Latency: t.NRTP + t.NCCDS},
		{Level: addr.Rank, Preceding: command.NewSet(command.WR24), Following: command.NewSet(command.PREA), Latency: t.NCWL + t.NCCDS + 1 + t.NWR},
		// RAS <-> RAS.
		{Level: addr.Rank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.ACT1, command.REFpb), Latency: t.NRRD},
		{Level: addr.Rank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.ACT1), Latency: t.NFAW, Window: 4},
		{Level: addr.Rank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.PREA), Latency: t.NRAS},
		{Level: addr.Rank, Preceding: command.NewSet(command.PREA), Following: command.NewSet(command.ACT1), Latency: t.NRPab},
		// RAS <-> REF.
		{Level: addr.Rank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.REFab), Latency: t.NRC},
		{Level: addr.Rank, Preceding: command.NewSet(command.PRE), Following: command.NewSet(command.REFab), Latency: t.NRPpb},
		{Level: addr.Rank, Preceding: command.NewSet(command.PREA), Following: command.NewSet(command.REFab), Latency: t.NRPab},
		{Level: addr.Rank, Preceding: command.NewSet(command.RD24A), Following: command.NewSet(command.REFab), Latency: t.NRPpb + t.NRTP + t.NCCDS},
		{Level: addr.Rank, Preceding: command.NewSet(command.WR24A), Following: command.NewSet(command.REFab), Latency: t.NCWL + t.NCCDS + 1 + t.NWR + t.NRPpb},
		{Level: addr.Rank, Preceding: command.NewSet(command.REFab), Following: command.NewSet(command.REFab, command.ACT1, command.REFpb), Latency: t.NRFCab},
		{Level: addr.Rank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.REFpb), Latency: t.NPBR2ACT},
		{Level: addr.Rank, Preceding: command.NewSet(command.REFpb), Following: command.NewSet(command.REFpb), Latency: t.NPBR2PBR},

		// Same bank-group: CAS <-> CAS.
		{Level: addr.BankGroup, Preceding: rd, Following: rd, Latency: t.NCCDL},
		{Level: addr.BankGroup, Preceding: wr, Following: wr, Latency: t.NCCDL},
		{Level: addr.BankGroup, Preceding: wr, Following: rd, Latency: t.NCWL + t.NBL16 + t.NWTRL},
		// RAS <-> RAS.
		{Level: addr.BankGroup, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.ACT1), Latency: t.NRRD},

		// Bank.
		{Level: addr.Bank, Preceding: command.NewSet(command.ACT1), Following: command.NewSet(command.ACT1), Latency: t.NRC},
		{Level: addr.Bank, Preceding: command.NewSet(command.ACT2), Following: rdwr, Latency: t.NRCD},
		{Level: addr.Bank, Preceding: command.NewSet(command.ACT2), Following: command.NewSet(command.PRE), Latency: t.NRAS},
		{Level: addr.Bank, Preceding: command.NewSet(command.PRE), Following: command.NewSet(command.ACT1), Latency: t.NRPpb},
		{Level: addr.Bank, Preceding: command.NewSet(command.RD24), Following: command.NewSet(command.PRE), Latency: t.NRTP + t.NCCDS},
		{Level: addr.Bank, Preceding: command.NewSet(command.WR24), Following: command.NewSet(command.PRE), Latency: t.NCWL + t.NCCDS + 1 + t.NWR},
		{Level: addr.Bank, Preceding: command.NewSet(command.RD24A), Following: command.NewSet(command.ACT1), Latency: t.NRTP + t.NRPpb + t.NCCDS},
		{Level: addr.Bank, Preceding: command.NewSet(command.WR24A), Following: command.NewSet(command.ACT1), Latency: t.NCWL + t.NCCDS + 1 + t.NWR + t.NRPpb},
	}
}
