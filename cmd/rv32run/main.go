package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oisee/rv32core/pkg/bench"
	"github.com/oisee/rv32core/pkg/cpu"
	"github.com/oisee/rv32core/pkg/decode"
	"github.com/oisee/rv32core/pkg/host"
	"github.com/oisee/rv32core/pkg/inst"
	"github.com/oisee/rv32core/pkg/interp"
	"github.com/oisee/rv32core/pkg/loader"
	"github.com/oisee/rv32core/pkg/mem"
	"github.com/oisee/rv32core/pkg/statsio"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rv32run",
		Short: "RV32-IMC execution core — run, decode, and benchmark flat guest images",
	}

	rootCmd.AddCommand(runCmd(), decodeCmd(), benchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var memSize uint32
	var base uint32
	var maxCycles uint64
	var statsPath string

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Run a flat RV32-IMC binary image to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := mem.NewFlat(memSize)
			if err := loader.LoadFile(m, base, args[0]); err != nil {
				return err
			}

			console := &host.Console{Out: os.Stdout}
			machine := &cpu.Machine{Mem: m, Sys: console}
			machine.Reset(base)

			it := interp.New(machine, m.Fetch16)
			err := it.Run(maxCycles)

			var halt *host.HaltError
			if err != nil {
				if he, ok := err.(*host.HaltError); ok {
					halt = he
				} else {
					return fmt.Errorf("run: %w", err)
				}
			}

			if statsPath != "" {
				s := statsio.Stats{
					Instructions: machine.Cycle,
					Cycles:       machine.Cycle,
				}
				if halt != nil {
					s.ExitCode = halt.Code
				}
				table := statsio.NewTable()
				table.Add(s)
				if err := table.Save(statsPath); err != nil {
					return fmt.Errorf("run: writing stats: %w", err)
				}
			}

			if halt != nil && halt.Code != 0 {
				os.Exit(int(halt.Code))
			}
			return nil
		},
	}

	cmd.Flags().Uint32Var(&memSize, "mem-size", 16<<20, "guest address space size in bytes")
	cmd.Flags().Uint32Var(&base, "base", 0, "address to load the image at and start execution from")
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "stop after this many retired instructions (0 = unbounded)")
	cmd.Flags().StringVar(&statsPath, "stats", "", "write run statistics as JSON to this path")
	return cmd
}

func decodeCmd() *cobra.Command {
	var memSize uint32
	var base uint32
	var count int

	cmd := &cobra.Command{
		Use:   "decode <image>",
		Short: "Disassemble count instructions starting at base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := mem.NewFlat(memSize)
			if err := loader.LoadFile(m, base, args[0]); err != nil {
				return err
			}

			pc := base
			for i := 0; i < count; i++ {
				rec, err := decode.Decode(pc, m.Fetch16)
				if err != nil {
					return fmt.Errorf("decode: %w", err)
				}
				fmt.Printf("%08x: %s\n", pc, disassemble(rec))
				pc += uint32(rec.Size)
			}
			return nil
		},
	}

	cmd.Flags().Uint32Var(&memSize, "mem-size", 16<<20, "guest address space size in bytes")
	cmd.Flags().Uint32Var(&base, "base", 0, "address to load the image at and start decoding from")
	cmd.Flags().IntVar(&count, "count", 16, "number of instructions to decode")
	return cmd
}

func benchCmd() *cobra.Command {
	var memSize uint32
	var base uint32
	var maxCycles uint64
	var numWorkers int
	var repeats int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bench <image>",
		Short: "Run repeats independent copies of an image concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			pool := bench.NewWorkerPool(numWorkers)
			tasks := make([]bench.Task, repeats)
			for i := range tasks {
				tasks[i] = bench.Task{
					Name: fmt.Sprintf("run-%d", i),
					Setup: func() func() (statsio.Stats, error) {
						m := mem.NewFlat(memSize)
						m.Load(base, data)
						console := &host.Console{Out: io.Discard}
						machine := &cpu.Machine{Mem: m, Sys: console}
						machine.Reset(base)
						it := interp.New(machine, m.Fetch16)
						return func() (statsio.Stats, error) {
							err := it.Run(maxCycles)
							s := statsio.Stats{Instructions: machine.Cycle, Cycles: machine.Cycle}
							if he, ok := err.(*host.HaltError); ok {
								s.ExitCode = he.Code
								return s, nil
							}
							return s, err
						}
					},
				}
			}

			fmt.Printf("rv32run bench: %d runs across %d workers\n", repeats, pool.NumWorkers)
			errs := pool.RunTasks(tasks, verbose)
			for _, e := range errs {
				if e != nil {
					fmt.Fprintln(os.Stderr, e)
				}
			}
			completed, failed := pool.Stats()
			fmt.Printf("done: %d/%d ok\n", completed-failed, completed)
			return nil
		},
	}

	cmd.Flags().Uint32Var(&memSize, "mem-size", 16<<20, "guest address space size in bytes")
	cmd.Flags().Uint32Var(&base, "base", 0, "address to load the image at and start execution from")
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 10_000_000, "per-run instruction budget")
	cmd.Flags().IntVar(&numWorkers, "workers", 0, "worker goroutines (0 = runtime.NumCPU)")
	cmd.Flags().IntVar(&repeats, "repeats", 8, "number of independent runs")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print periodic progress")
	return cmd
}

func disassemble(rec *inst.Instruction) string {
	mnemonic := inst.Mnemonic(rec.Op)
	switch {
	case inst.IsControlTransfer(rec.Op) && !inst.IsIndirect(rec.Op) && rec.Op != inst.ECALL && rec.Op != inst.EBREAK && rec.Op != inst.MRET && rec.Op != inst.CEBREAK:
		return fmt.Sprintf("%-8s x%d, x%d, %d", mnemonic, rec.Rs1, rec.Rs2, rec.Imm)
	case rec.Op == inst.LUI || rec.Op == inst.AUIPC:
		return fmt.Sprintf("%-8s x%d, %#x", mnemonic, rec.Rd, uint32(rec.Imm)>>12)
	case rec.Rs2 != 0 && rec.Rd != 0:
		return fmt.Sprintf("%-8s x%d, x%d, x%d", mnemonic, rec.Rd, rec.Rs1, rec.Rs2)
	default:
		return fmt.Sprintf("%-8s x%d, x%d, %d", mnemonic, rec.Rd, rec.Rs1, rec.Imm)
	}
}
