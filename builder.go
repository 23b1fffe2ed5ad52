package lpddr6

import (
	"fmt"

	hooking "github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/naming"

	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/addr"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/command"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/constraint"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/node"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/organization"
	"github.com/EZIOPQR/ramulator2-LPDDR6/internal/timing"
)

// Builder constructs Engines through a fluent, value-receiver WithX()
// chain culminating in Build.
type Builder struct {
	orgPreset    string
	orgDQ        int
	orgDensity   int
	countOverride addr.Vec
	hasCount     [addr.Column + 1]bool

	timingPreset string
	cycleOverride map[string]int
	nsOverride    map[string]float64

	hooks []hooking.Hook
}

// MakeBuilder returns a Builder defaulted to an 8 Gb x24 device at the
// LPDDR6_6400 speed bin.
func MakeBuilder() Builder {
	return Builder{
		orgPreset:    "LPDDR6_8Gb_x24",
		timingPreset: "LPDDR6_6400",
	}
}

// WithOrgPreset selects a named organization preset.
func (b Builder) WithOrgPreset(name string) Builder {
	b.orgPreset = name
	return b
}

// WithOrgDQ overrides the organization's DQ width.
func (b Builder) WithOrgDQ(n int) Builder {
	b.orgDQ = n
	return b
}

// WithOrgDensity overrides the organization's declared density in Mbit.
func (b Builder) WithOrgDensity(mbit int) Builder {
	b.orgDensity = mbit
	return b
}

// WithLevelCount overrides the cardinality of one hierarchy level, e.g.
// WithLevelCount(addr.Rank, 2).
func (b Builder) WithLevelCount(level addr.Level, n int) Builder {
	b.countOverride[level] = n
	b.hasCount[level] = true

	return b
}

// WithTimingPreset selects a named timing preset.
func (b Builder) WithTimingPreset(name string) Builder {
	b.timingPreset = name
	return b
}

// WithTimingCycles overrides a single named timing parameter with an
// integer cycle count.
func (b Builder) WithTimingCycles(name string, cycles int) Builder {
	if b.cycleOverride == nil {
		b.cycleOverride = make(map[string]int)
	}

	b.cycleOverride[name] = cycles

	return b
}

// WithTimingNanoseconds overrides a single named timing parameter with a
// nanosecond value, converted via JEDEC rounding once tCK_ps is resolved.
func (b Builder) WithTimingNanoseconds(name string, ns float64) Builder {
	if b.nsOverride == nil {
		b.nsOverride = make(map[string]float64)
	}

	b.nsOverride[name] = ns

	return b
}

// WithAdditionalHooks registers a trace hook on the built Engine.
func (b Builder) WithAdditionalHooks(h hooking.Hook) Builder {
	b.hooks = append(b.hooks, h)
	return b
}

// Build resolves the organization and timing parameter sets, validates
// the density invariant and every address bound, and constructs an Engine
// named name. It returns a *ConfigurationError wrapped as err on any
// failure; the caller must not use the returned Engine if err != nil.
func (b Builder) Build(name string) (*Engine, error) {
	org, err := b.resolveOrganization()
	if err != nil {
		return nil, err
	}

	t, err := b.resolveTiming(org)
	if err != nil {
		return nil, err
	}

	table := constraint.NewTable(buildConstraints(t))
	root := node.BuildTree(name, 0, org.Counts, table.WindowSizes())

	e := &Engine{
		NamedBase:        naming.MakeNamedBase(name),
		org:              org,
		timing:           t,
		table:            table,
		channel:          root,
		finalSyncedCycle: node.NegInf,
		curCmd:           command.NOP,
	}

	for _, h := range b.hooks {
		e.AcceptHook(h)
	}

	return e, nil
}

func (b Builder) resolveOrganization() (organization.Organization, error) {
	var org organization.Organization

	if b.orgPreset != "" {
		preset, ok := organization.Presets[b.orgPreset]
		if !ok {
			return org, &ConfigurationError{Reason: fmt.Sprintf("unknown org preset %q", b.orgPreset)}
		}

		org = organization.Organization{DensityMbit: preset.DensityMbit, DQWidth: preset.DQWidth, Counts: preset.Counts}
	}

	if b.orgDQ != 0 {
		org.DQWidth = b.orgDQ
	}

	if b.orgDensity != 0 {
		org.DensityMbit = b.orgDensity
	}

	for l := addr.Channel; l <= addr.Column; l++ {
		if b.hasCount[l] {
			org.Counts[l] = b.countOverride[l]
		}

		if org.Counts[l] < 1 {
			return org, &ConfigurationError{Reason: fmt.Sprintf("%s count %d is not positive", l, org.Counts[l])}
		}
	}

	if err := org.Validate(); err != nil {
		return org, &ConfigurationError{Reason: "organization invariant violated", Cause: err}
	}

	return org, nil
}

func (b Builder) resolveTiming(org organization.Organization) (timing.Params, error) {
	t := timing.Zero()

	if b.timingPreset != "" {
		preset, ok := timing.Presets[b.timingPreset]
		if !ok {
			return t, &ConfigurationError{Reason: fmt.Sprintf("unknown timing preset %q", b.timingPreset)}
		}

		t.ApplyPreset(preset)
	}

	if t.Rate == -1 {
		return t, &ConfigurationError{Reason: "timing rate is not specified"}
	}

	t.TCKps = timing.TCKpsFromRate(t.Rate)

	if err := t.ApplyDensityDerived(org.DensityMbit, t.TCKps); err != nil {
		return t, &ConfigurationError{Reason: "could not derive density-indexed timings", Cause: err}
	}

	for name, cycles := range b.cycleOverride {
		if !t.ApplyCycleOverride(name, cycles) {
			return t, &ConfigurationError{Reason: fmt.Sprintf("unknown timing parameter %q", name)}
		}
	}

	for name, ns := range b.nsOverride {
		if !t.ApplyNanosecondOverride(name, ns) {
			return t, &ConfigurationError{Reason: fmt.Sprintf("unknown timing parameter %q", name)}
		}
	}

	if missing := t.MissingField(); missing != "" {
		return t, &ConfigurationError{Reason: fmt.Sprintf("timing %q is not specified", missing)}
	}

	return t, nil
}
