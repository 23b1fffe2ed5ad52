// Package timing holds the LPDDR6 timing parameter set: the speed preset
// table, the density-indexed derived values, and the override resolution
// rules. It is pure data — no node or command types are referenced here,
// so the constraint table (internal/constraint) can depend on this
// package without a cycle.
package timing

import (
	"fmt"
	"math"
)

// Params is the full set of LPDDR6 timing parameters. All values are in
// clock cycles except Rate (MT/s) and TCKps (picoseconds).
type Params struct {
	Rate int

	NBL16   int
	NCL     int
	NWCKPST int
	NRCD    int
	NRPab   int
	NRPpb   int
	NRAS    int
	NRC     int
	NWR     int
	NRTP    int
	NCWL    int
	NCCDS   int
	NCCDL   int
	NRRD    int
	NWTRS   int
	NWTRL   int
	NFAW    int
	NPPD    int
	NRFCab  int
	NRFCpb  int
	NREFI   int
	NPBR2PBR int
	NPBR2ACT int
	NCS     int
	TCKps   int
}

// unset marks a timing field that has not yet been given a value.
const unset = -1

// Zero returns a Params with every field unset, ready for preset and
// override application.
func Zero() Params {
	return Params{
		Rate: unset, NBL16: unset, NCL: unset, NWCKPST: unset, NRCD: unset,
		NRPab: unset, NRPpb: unset, NRAS: unset, NRC: unset, NWR: unset,
		NRTP: unset, NCWL: unset, NCCDS: unset, NCCDL: unset, NRRD: unset,
		NWTRS: unset, NWTRL: unset, NFAW: unset, NPPD: unset, NRFCab: unset,
		NRFCpb: unset, NREFI: unset, NPBR2PBR: unset, NPBR2ACT: unset,
		NCS: unset, TCKps: unset,
	}
}

// Preset is a named speed-bin timing set. The density-derived fields
// (nRFCab, nRFCpb, nPBR2PBR, nPBR2ACT, nREFI) are intentionally absent
// here; they are resolved separately from the organization's density.
type Preset struct {
	Rate, NBL16, NCL, NWCKPST, NRCD, NRPab, NRPpb, NRAS, NRC, NWR, NRTP,
	NCWL, NCCDS, NCCDL, NRRD, NWTRS, NWTRL, NFAW, NPPD, NCS int
}

// Presets is the set of named timing speed-bin presets a Builder can
// select by name.
var Presets = map[string]Preset{
	"LPDDR6_6400": {
		Rate: 6400, NBL16: 2, NCL: 20, NWCKPST: 7, NRCD: 15, NRPab: 17,
		NRPpb: 15, NRAS: 34, NRC: 30, NWR: 28, NRTP: 4, NCWL: 11,
		NCCDS: 2, NCCDL: 4, NRRD: 4, NWTRS: 5, NWTRL: 10, NFAW: 16,
		NPPD: 2, NCS: 2,
	},
}

// ApplyPreset copies every field of p into the Params, leaving the
// density-derived fields (nRFCab, nRFCpb, nPBR2PBR, nPBR2ACT, nREFI) and
// TCKps untouched.
func (t *Params) ApplyPreset(p Preset) {
	t.Rate = p.Rate
	t.NBL16 = p.NBL16
	t.NCL = p.NCL
	t.NWCKPST = p.NWCKPST
	t.NRCD = p.NRCD
	t.NRPab = p.NRPab
	t.NRPpb = p.NRPpb
	t.NRAS = p.NRAS
	t.NRC = p.NRC
	t.NWR = p.NWR
	t.NRTP = p.NRTP
	t.NCWL = p.NCWL
	t.NCCDS = p.NCCDS
	t.NCCDL = p.NCCDL
	t.NRRD = p.NRRD
	t.NWTRS = p.NWTRS
	t.NWTRL = p.NWTRL
	t.NFAW = p.NFAW
	t.NPPD = p.NPPD
	t.NCS = p.NCS
}

// densityTableIndex maps a density in Mbit to the row index used by the
// nanosecond tables below.
func densityTableIndex(densityMbit int) (int, bool) {
	switch densityMbit {
	case 2048:
		return 0, true
	case 4096:
		return 1, true
	case 8192:
		return 2, true
	case 16384:
		return 3, true
	default:
		return 0, false
	}
}

// Nanosecond tables for the density-derived refresh timings. Index is
// densityTableIndex's result.
var (
	tRFCabNsTable   = [4]int{130, 180, 210, 280}
	tRFCpbNsTable   = [4]int{60, 90, 120, 140}
	tPBR2PBRNsTable = [4]int{60, 90, 90, 90}
	tPBR2ACTNsTable = [4]int{8, 8, 8, 8}
)

// tREFIBaseNs is the base refresh interval in nanoseconds, independent of
// density.
const tREFIBaseNs = 3906

// JEDECRounding converts a latency given in nanoseconds to a whole number
// of clock cycles at the given clock period, rounding up as JEDEC
// specifications require: ceil(ns * 1000 / tCK_ps).
func JEDECRounding(ns float64, tCKps int) int {
	return int(math.Ceil(ns * 1000 / float64(tCKps)))
}

// ApplyDensityDerived fills in nRFCab, nRFCpb, nPBR2PBR, nPBR2ACT, and
// nREFI from the density-indexed nanosecond tables, given the device's
// density in Mbit and the already-resolved clock period.
func (t *Params) ApplyDensityDerived(densityMbit, tCKps int) error {
	idx, ok := densityTableIndex(densityMbit)
	if !ok {
		return fmt.Errorf("no refresh timing table entry for density %d Mb", densityMbit)
	}

	t.NRFCab = JEDECRounding(float64(tRFCabNsTable[idx]), tCKps)
	t.NRFCpb = JEDECRounding(float64(tRFCpbNsTable[idx]), tCKps)
	t.NPBR2PBR = JEDECRounding(float64(tPBR2PBRNsTable[idx]), tCKps)
	t.NPBR2ACT = JEDECRounding(float64(tPBR2ACTNsTable[idx]), tCKps)
	t.NREFI = JEDECRounding(float64(tREFIBaseNs), tCKps)

	return nil
}

// TCKpsFromRate computes tCK_ps from a transfer rate in MT/s: a rate in
// mega-transfers per second implies two transfers per clock, so
// tCK_ps = 1e6 / (rate/2).
func TCKpsFromRate(rateMTs int) int {
	return int(1e6 / (float64(rateMTs) / 2))
}

// fieldPointers returns a name->pointer map over every overridable cycle
// field. Rate and TCKps are derived from a preset, not individually
// overridable.
func (t *Params) fieldPointers() map[string]*int {
	return map[string]*int{
		"nBL16": &t.NBL16, "nCL": &t.NCL, "nWCKPST": &t.NWCKPST,
		"nRCD": &t.NRCD, "nRPab": &t.NRPab, "nRPpb": &t.NRPpb,
		"nRAS": &t.NRAS, "nRC": &t.NRC, "nWR": &t.NWR, "nRTP": &t.NRTP,
		"nCWL": &t.NCWL, "nCCD_S": &t.NCCDS, "nCCD_L": &t.NCCDL,
		"nRRD": &t.NRRD, "nWTRS": &t.NWTRS, "nWTRL": &t.NWTRL,
		"nFAW": &t.NFAW, "nPPD": &t.NPPD, "nRFCab": &t.NRFCab,
		"nRFCpb": &t.NRFCpb, "nREFI": &t.NREFI, "nPBR2PBR": &t.NPBR2PBR,
		"nPBR2ACT": &t.NPBR2ACT, "nCS": &t.NCS,
	}
}

// ApplyCycleOverride sets the named cycle parameter directly, e.g.
// "nRCD" -> 15. It reports false if name is not a known overridable
// parameter.
func (t *Params) ApplyCycleOverride(name string, cycles int) bool {
	ptr, ok := t.fieldPointers()[name]
	if !ok {
		return false
	}

	*ptr = cycles

	return true
}

// ApplyNanosecondOverride sets the named cycle parameter from a value
// given in nanoseconds, e.g. "tRCD" -> 12.0ns converted via
// JEDECRounding. It reports false if name
// (with its leading 't' stripped) is not a known overridable parameter.
func (t *Params) ApplyNanosecondOverride(name string, ns float64) bool {
	if len(name) == 0 || name[0] != 't' {
		return false
	}

	cycleName := "n" + name[1:]

	ptr, ok := t.fieldPointers()[cycleName]
	if !ok {
		return false
	}

	*ptr = JEDECRounding(ns, t.TCKps)

	return true
}

// MissingField returns the name of an unset timing parameter, or "" if all
// are set. When several are unset, which one is named is not fixed.
func (t Params) MissingField() string {
	for name, ptr := range t.fieldPointers() {
		if *ptr == unset {
			return name
		}
	}

	if t.Rate == unset {
		return "rate"
	}

	if t.TCKps == unset {
		return "tCK_ps"
	}

	return ""
}

// ReadLatency is nCL + nBL16, the latency an observer must wait after a
// read command's CAS edge before data is valid.
func (t Params) ReadLatency() int {
	return t.NCL + t.NBL16
}
