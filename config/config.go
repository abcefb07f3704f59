// Package config holds the simulator's runtime configuration: cache
// geometry/policy, the fixed memory latency used when no cache is
// attached, and a cycle budget, loadable from JSON (§6.2 of SPEC_FULL.md).
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/rv32pipe/timing/cache"
)

// SimulatorConfig is the JSON-loadable knob set for cmd/rvsim and any test
// harness that wants a non-default pipeline.
type SimulatorConfig struct {
	CacheEnabled     bool         `json:"cache_enabled"`
	CacheBlockBits   uint         `json:"cache_block_bits"`
	CacheSetBits     uint         `json:"cache_set_bits"`
	CacheLinesPerSet int          `json:"cache_lines_per_set"`
	CachePolicy      cache.Policy `json:"cache_policy"`
	CacheHitLatency  uint64       `json:"cache_hit_latency"`
	CacheMissLatency uint64       `json:"cache_miss_latency"`
	CacheOtherLatency uint64      `json:"cache_other_latency"`
	MemLatency       uint64       `json:"mem_latency"`

	// MaxCycles bounds a simulation run; 0 means unbounded (§6.2).
	MaxCycles uint64 `json:"max_cycles"`
}

// DefaultSimulatorConfig returns a config with the cache disabled and the
// spec's default fixed memory latency (§4.6 Mem).
func DefaultSimulatorConfig() *SimulatorConfig {
	return &SimulatorConfig{
		CacheEnabled:      false,
		CacheBlockBits:    6,
		CacheSetBits:      4,
		CacheLinesPerSet:  2,
		CachePolicy:       cache.LRU,
		CacheHitLatency:   1,
		CacheMissLatency:  10,
		CacheOtherLatency: 12,
		MemLatency:        4,
		MaxCycles:         0,
	}
}

// LoadSimulatorConfig reads a JSON file over the defaults: fields omitted
// from the file keep their default value.
func LoadSimulatorConfig(path string) (*SimulatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read simulator config: %w", err)
	}

	cfg := DefaultSimulatorConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse simulator config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON.
func (c *SimulatorConfig) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize simulator config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write simulator config: %w", err)
	}
	return nil
}

// CacheConfig projects the cache-related fields into a cache.Config.
func (c *SimulatorConfig) CacheConfig() cache.Config {
	return cache.Config{
		BlockBits:    c.CacheBlockBits,
		SetBits:      c.CacheSetBits,
		LinesPerSet:  c.CacheLinesPerSet,
		Policy:       c.CachePolicy,
		HitLatency:   int(c.CacheHitLatency),
		MissLatency:  int(c.CacheMissLatency),
		OtherLatency: int(c.CacheOtherLatency),
	}
}
