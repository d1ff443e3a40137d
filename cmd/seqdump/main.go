// Command seqdump parses a cycle mini-notation string and dumps its
// generated channels one iteration at a time, adapted from
// cmd/moddump's "parse a song file and print its structure" idiom.
package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/halfnote/seq/cycle"
)

var (
	flagSeed       uint64
	flagIterations int
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("seqdump: ")

	root := &cobra.Command{
		Use:   "seqdump <mini-notation>",
		Short: "Parse and dump a cycle mini-notation string",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	root.Flags().Uint64Var(&flagSeed, "seed", 1, "RNG seed for Choices (|) and Degrade (?) draws")
	root.Flags().IntVar(&flagIterations, "iterations", 1, "number of Generate() calls to dump")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	src := args[0]

	cyc, err := cycle.NewCycle(src, flagSeed)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	for i := 0; i < flagIterations; i++ {
		channels, err := cyc.Generate()
		if err != nil {
			return fmt.Errorf("generate iteration %d: %w", i, err)
		}

		fmt.Printf("iteration %d\n", cyc.Iteration()-1)
		for ci, ch := range channels {
			fmt.Printf("  channel %d\n", ci)
			for _, ev := range ch {
				start, end := ev.Span.Float64()
				if ev.Ev == nil {
					fmt.Printf("    [%.4f, %.4f) rest\n", start, end)
					continue
				}
				if ev.Target != "" {
					fmt.Printf("    [%.4f, %.4f) -> %s %s\n", start, end, ev.Target, ev.Ev)
					continue
				}
				fmt.Printf("    [%.4f, %.4f) %s\n", start, end, ev.Ev)
			}
		}
	}

	return nil
}
