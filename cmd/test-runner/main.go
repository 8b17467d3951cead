// Package main - test-runner
// Runs the soak harness and exits non-zero when any scenario fails.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
	"github.com/MRamiBalles/LifeSimulator/test"
)

func main() {
	seed := flag.Uint64("seed", 1, "Seed for the random walk")
	steps := flag.Int("steps", 100000, "Number of random actions")
	level := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	fmt.Println("LIFE SIMULATOR - SOAK TEST SUITE")
	fmt.Println("================================")

	soak := test.NewSoakTest(*seed, *steps, logger.New(os.Stderr, *level))
	soak.RunAll()

	passed, failed := 0, 0
	for _, r := range soak.GetResults() {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("   Passed: %d\n", passed)
	fmt.Printf("   Failed: %d\n", failed)

	if failed > 0 {
		os.Exit(1)
	}
}
