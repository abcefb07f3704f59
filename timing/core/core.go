// Package core provides the high-level simulator facade: it wires a
// Pipeline to an optional data cache from a SimulatorConfig and exposes the
// run/stats surface cmd/rvsim drives.
package core

import (
	"github.com/sarchlab/rv32pipe/config"
	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/timing/cache"
	"github.com/sarchlab/rv32pipe/timing/pipeline"
)

// Stats mirrors pipeline.Stats; kept as its own type so callers depend on
// core, not on the pipeline package's internals.
type Stats struct {
	Cycles        uint64
	Instructions  uint64
	Stalls        uint64
	BranchFlushes uint64
	ExExForwards  uint64
	MemExForwards uint64
	MemAccesses   uint64
	CacheHits     uint64
	CacheMisses   uint64
	CPI           float64
}

// Core wraps a Pipeline, optionally backed by a data cache, configured from
// a config.SimulatorConfig (§6.2/§6.3 of SPEC_FULL.md).
type Core struct {
	pipeline *pipeline.Pipeline
	cache    *cache.Cache
	cfg      *config.SimulatorConfig

	regFile *emu.RegFile
	memory  *emu.Memory
}

// NewCore builds a Core: a MemLatency-only pipeline when cfg.CacheEnabled
// is false, or one with a freshly constructed cache.Cache at the Mem stage
// otherwise.
func NewCore(regFile *emu.RegFile, memory *emu.Memory, cfg *config.SimulatorConfig) *Core {
	if cfg == nil {
		cfg = config.DefaultSimulatorConfig()
	}

	c := &Core{cfg: cfg, regFile: regFile, memory: memory}
	opts := []pipeline.PipelineOption{pipeline.WithMemLatency(int(cfg.MemLatency))}
	if cfg.CacheEnabled {
		c.cache = cache.New(cfg.CacheConfig())
		opts = append(opts, pipeline.WithDataCache(c.cache))
	}
	c.pipeline = pipeline.NewPipeline(regFile, memory, opts...)
	return c
}

// SetPC bootstraps the pipeline at pc, the same reset semantics §6's
// bootstrap(initial_pc) describes.
func (c *Core) SetPC(pc uint32) { c.pipeline.Bootstrap(pc) }

// Tick advances the pipeline by one cycle.
func (c *Core) Tick() { c.pipeline.Step() }

// Halted reports whether the simulation has reached its ecall-exit (or a
// fatal trap).
func (c *Core) Halted() bool { return c.pipeline.Halted() }

// ExitCode returns the process exit code once Halted is true.
func (c *Core) ExitCode() int32 { return c.pipeline.ExitCode() }

// Cache returns the attached data cache, or nil when the core was built
// without one.
func (c *Core) Cache() *cache.Cache { return c.cache }

// Stats snapshots the pipeline and cache counters.
func (c *Core) Stats() Stats {
	s := c.pipeline.Stats()
	stats := Stats{
		Cycles:        s.Cycles,
		Instructions:  s.Instructions,
		Stalls:        s.Stalls,
		BranchFlushes: s.BranchFlushes,
		ExExForwards:  s.ExExForwards,
		MemExForwards: s.MemExForwards,
		MemAccesses:   s.MemAccesses,
		CacheHits:     s.CacheHits,
		CacheMisses:   s.CacheMisses,
		CPI:           s.CPI,
	}
	return stats
}

// Run steps the core until it halts, honoring cfg.MaxCycles as a runaway
// guard (0 = unbounded, §6.2). Returns the exit code, or -1 if MaxCycles
// was reached without halting.
func (c *Core) Run() int32 {
	if c.cfg.MaxCycles == 0 {
		return c.pipeline.Run()
	}
	if c.pipeline.RunCycles(c.cfg.MaxCycles) {
		return -1
	}
	return c.pipeline.ExitCode()
}

// RunCycles steps the core at most n cycles, returning true if still
// running.
func (c *Core) RunCycles(n uint64) bool { return c.pipeline.RunCycles(n) }
