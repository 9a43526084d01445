// Package main provides a performance benchmarking tool for the Roomspot CLI.
// It measures search times per campus location against the live room-info service,
// running each search multiple times, treating the first successful cached run as
// cold and averaging the rest as warm, and writes a CSV summary.
//
// Prerequisites:
// - roomspot binary installed and available in PATH
// - network access to the room-info service
//
// Usage: go run benchmark/main.go [hours]
//
//	hours: Window length passed to every search (default 1)
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Location    string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	Workers     int
	Hours       float64
	NoCacheRuns int
	CacheRuns   int
	Locations   []string
}

// benchmarkCommand is one roomspot invocation measured per location.
type benchmarkCommand struct {
	name          string
	args          []string
	successMarker string
}

var benchmarkCommands = []benchmarkCommand{
	{name: "search", args: []string{"search", "--detail"}, successMarker: "Search completed in"},
	{name: "rooms", args: []string{"rooms", "list"}, successMarker: "Showing"},
}

func main() {
	hours := 1.0
	if len(os.Args) == 2 {
		h, err := strconv.ParseFloat(os.Args[1], 64)
		if err != nil || h <= 0 {
			fmt.Printf("Usage: %s [hours]\n", os.Args[0])
			os.Exit(1)
		}
		hours = h
	}

	config := BenchmarkConfig{
		Timeout:     2 * time.Minute,
		Workers:     8,
		Hours:       hours,
		NoCacheRuns: 2,
		CacheRuns:   4,
		Locations:   []string{"Zürich Zentrum", "Zürich Hönggerberg", "Zürich Oerlikon"},
	}

	if _, err := exec.LookPath("roomspot"); err != nil {
		fmt.Printf("Prerequisites check failed: roomspot binary not found in PATH\n")
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("roomspot", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes every benchmark command for every configured location
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d locations, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Locations), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, location := range config.Locations {
		fmt.Printf("Benchmarking %s\n", location)
		for _, command := range benchmarkCommands {
			results = append(results, runBenchmarkSuite(config, location, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for a command
func runBenchmarkSuite(config BenchmarkConfig, location string, command benchmarkCommand) BenchmarkResult {
	fmt.Printf("Running %s at %s\n", command.name, location)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, location, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: every run downloads the directory and allocations
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: the first run fills the sqlite cache
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Location:    location,
		Command:     command.name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a roomspot command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, location string, command benchmarkCommand, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command.args...)
	args = append(args,
		"--location", location,
		"--hours", strconv.FormatFloat(config.Hours, 'f', -1, 64),
		"--workers", strconv.Itoa(config.Workers),
		"--cache-backend", cacheBackend,
	)

	var times []float64
	for range numRuns {
		elapsed, err := timeCommand(config.Timeout, args, command.successMarker)
		if err != nil {
			fmt.Printf("    run failed: %v\n", err)
			continue
		}
		times = append(times, elapsed.Seconds())
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// timeCommand runs roomspot once and reports how long it took.
func timeCommand(timeout time.Duration, args []string, successMarker string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	output, err := exec.CommandContext(ctx, "roomspot", args...).CombinedOutput()
	elapsed := time.Since(start)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 0, fmt.Errorf("timed out after %v", timeout)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	if !strings.Contains(string(output), successMarker) {
		return 0, fmt.Errorf("output lacks %q", successMarker)
	}
	return elapsed, nil
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s/roomspot_benchmark_%s.csv", os.TempDir(), timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"location", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Location, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range benchmarkCommands {
		fmt.Printf("%s:\n", command.name)
		for _, result := range results {
			if result.Command == command.name {
				fmt.Printf("  %-20s: No-cache: %s, Cold: %s, Warm: %s\n", result.Location, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
