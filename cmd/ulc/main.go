// Command ulc normalizes ultimate-calculus terms: from a file, from -e, or
// interactively. GAS_LIMIT bounds the number of rewrites (0 = unlimited) and
// ULC_DEBUG enables per-step tracing.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/peterh/liner"
	"github.com/xyproto/env/v2"

	ulc "github.com/moonad/ultimate-calculus"
)

const historyFile = ".ulc_history"

func main() {
	gas := flag.Uint64("gas", uint64(env.Int("GAS_LIMIT", 0)), "rewrite limit (0 = unlimited)")
	expr := flag.String("e", "", "evaluate the given term and exit")
	stats := flag.Bool("stats", true, "print rewrite statistics")
	flag.Parse()
	debug := env.Bool("ULC_DEBUG")

	switch {
	case *expr != "":
		os.Exit(run(*expr, *gas, debug, *stats))
	case flag.NArg() > 0:
		code, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(run(string(code), *gas, debug, *stats))
	default:
		os.Exit(repl(*gas, debug, *stats))
	}
}

func run(code string, gas uint64, debug, stats bool) int {
	mem := ulc.NewHeap()
	if gas > 0 {
		ulc.SetLimit(mem, gas)
	}
	ulc.SetTrace(mem, debug)
	host, err := ulc.ReadTerm(mem, code)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	start := time.Now()
	term := ulc.Normal(mem, host)
	elapsed := time.Since(start)
	if err := ulc.SanityCheck(mem, host); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(ulc.Show(mem, term))
	if ulc.OutOfGas(mem) {
		fmt.Fprintln(os.Stderr, "gas limit reached; result is partial")
	}
	if stats {
		cost := ulc.Gas(mem)
		rate := 0.0
		if elapsed.Seconds() > 0 {
			rate = float64(cost) / 1e6 / elapsed.Seconds()
		}
		fmt.Printf("Rewrites: %d (%.2f MR/s).\n", cost, rate)
		fmt.Printf("Mem.Size: %d words.\n", ulc.HeapSize(mem))
	}
	return 0
}

func repl(gas uint64, debug, stats bool) int {
	fmt.Println("ultimate-calculus. Type a term, or :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		switch code {
		case "":
			continue
		case ":quit", ":q":
			return 0
		}
		ln.AppendHistory(code)
		run(code, gas, debug, stats)
	}
}
