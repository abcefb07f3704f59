// Package main provides rvsim, the command-line entry point for the
// cycle-accurate RV32IM five-stage pipeline simulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/rv32pipe/config"
	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/loader"
	"github.com/sarchlab/rv32pipe/timing/cache"
	"github.com/sarchlab/rv32pipe/timing/core"
)

var (
	cacheEnabled = flag.Bool("cache", false, "Enable the data cache at the Mem stage")
	policyName   = flag.String("policy", "lru", "Cache replacement policy: lru or lfu")
	configPath   = flag.String("config", "", "Path to a simulator configuration JSON file")
	verbose      = flag.Bool("v", false, "Verbose output")
	maxCycles    = flag.Uint64("maxcycles", 0, "Abort after this many cycles (0 = unbounded)")
	flatBase     = flag.Uint64("flat-base", 0, "Load address used when the program isn't a valid ELF")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rvsim [options] <program>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	programPath := flag.Arg(0)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	prog, err := loadProgram(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	memory := emu.NewMemory(emu.MemorySpace)
	for _, seg := range prog.Segments {
		for i, b := range seg.Data {
			memory.Write8(seg.VirtAddr+uint32(i), b)
		}
		for i := uint32(len(seg.Data)); i < seg.MemSize; i++ {
			memory.Write8(seg.VirtAddr+i, 0)
		}
	}
	regFile := &emu.RegFile{}
	regFile.WriteReg(2, prog.InitialSP) // x2: conventional stack pointer

	c := core.NewCore(regFile, memory, cfg)
	c.SetPC(prog.EntryPoint)
	exitCode := c.Run()

	printReport(programPath, exitCode, c.Stats())
	os.Exit(int(exitCode))
}

func loadConfig() (*config.SimulatorConfig, error) {
	if *configPath == "" {
		return config.DefaultSimulatorConfig(), nil
	}
	return config.LoadSimulatorConfig(*configPath)
}

func applyFlags(cfg *config.SimulatorConfig) {
	if *cacheEnabled {
		cfg.CacheEnabled = true
	}
	switch *policyName {
	case "lfu":
		cfg.CachePolicy = cache.LFU
	default:
		cfg.CachePolicy = cache.LRU
	}
	if *maxCycles > 0 {
		cfg.MaxCycles = *maxCycles
	}
}

func loadProgram(path string) (*loader.Program, error) {
	prog, err := loader.Load(path)
	if err == nil {
		return prog, nil
	}
	return loader.LoadFlat(path, uint32(*flatBase))
}

func printReport(programPath string, exitCode int32, stats core.Stats) {
	fmt.Printf("\nProgram: %s\n", programPath)
	fmt.Printf("Exit code: %d\n", exitCode)
	fmt.Printf("Instructions: %d\n", stats.Instructions)
	fmt.Printf("Cycles: %d\n", stats.Cycles)
	fmt.Printf("CPI: %.2f\n", stats.CPI)
	fmt.Printf("\nPipeline events:\n")
	fmt.Printf("  Stalls:          %d\n", stats.Stalls)
	fmt.Printf("  Branch flushes:  %d\n", stats.BranchFlushes)
	fmt.Printf("  EX-EX forwards:  %d\n", stats.ExExForwards)
	fmt.Printf("  MEM-EX forwards: %d\n", stats.MemExForwards)
	if stats.MemAccesses > 0 {
		fmt.Printf("\nCache:\n")
		fmt.Printf("  Accesses: %d\n", stats.MemAccesses)
		fmt.Printf("  Hits:     %d\n", stats.CacheHits)
		fmt.Printf("  Misses:   %d\n", stats.CacheMisses)
	}
}
