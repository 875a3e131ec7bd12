// Package main provides a performance benchmarking tool for the dhtcli console.
// It pipes scripted sessions of increasing size into the binary, once against
// the in-memory backend and several times against SQLite, treating the first
// SQLite run as cold and averaging the rest as warm. Results are written as CSV.
//
// Prerequisites:
// - dhtcli binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory used for the SQLite database files
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (in-memory average, cold run and average of warm runs).
type BenchmarkResult struct {
	Workload   string
	Commands   int
	MemoryTime string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	MemoryRuns int
	StoreRuns  int
	Sizes      []int
}

// workload renders a console session of n commands.
type workload struct {
	name   string
	script func(n int) string
}

var workloads = []workload{
	{name: "put", script: putScript},
	{name: "put-del", script: putDelScript},
	{name: "pub", script: pubScript},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    os.Args[1],
		Timeout:    5 * time.Minute,
		MemoryRuns: 3,
		StoreRuns:  4,
		Sizes:      []int{100, 1000, 10000},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the dhtcli binary and the work dir exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("dhtcli"); err != nil {
		return fmt.Errorf("dhtcli binary not found in PATH")
	}
	if info, err := os.Stat(config.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("work dir %s not found", config.WorkDir)
	}
	return nil
}

// runBenchmarks executes every workload at every size
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d workloads, %v timeout, in-memory: %d runs, sqlite: %d runs\n",
		len(workloads), config.Timeout, config.MemoryRuns, config.StoreRuns)

	for _, w := range workloads {
		for _, n := range config.Sizes {
			results = append(results, runBenchmarkSuite(config, w, n))
		}
	}
	return results
}

// runBenchmarkSuite runs both in-memory and SQLite benchmarks for a workload
func runBenchmarkSuite(config BenchmarkConfig, w workload, n int) BenchmarkResult {
	fmt.Printf("Running %s with %d commands\n", w.name, n)
	session := w.script(n)

	dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("bench_%s_%d.db", w.name, n))
	_ = os.Remove(dbPath)
	defer func() { _ = os.Remove(dbPath) }()

	_, memTimes := runBenchmark(config, session, []string{"--store-backend", "none"}, config.MemoryRuns)
	coldTime, warmTimes := runBenchmark(config, session, []string{"--store-backend", "sqlite", "--store-db-connect", dbPath}, config.StoreRuns)

	memAvg := average(memTimes)
	coldStr := "TIMEOUT"
	if coldTime > 0 {
		coldStr = fmt.Sprintf("%.3fs", coldTime)
	}
	warmAvg := average(warmTimes)

	fmt.Printf("  In-memory average: %s, Cold time: %s, Warm average: %s\n", memAvg, coldStr, warmAvg)

	return BenchmarkResult{
		Workload:   w.name,
		Commands:   n,
		MemoryTime: memAvg,
		ColdTime:   coldStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark pipes the session into dhtcli numRuns times and returns the first time and the rest
func runBenchmark(config BenchmarkConfig, session string, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	args = append(args, "--color", "no")

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("dhtcli", args...)
		cmd.Stdin = strings.NewReader(session)

		done := make(chan bool)
		var stdout bytes.Buffer
		var cmdErr error
		cmd.Stdout = &stdout

		go func() {
			cmdErr = cmd.Run()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(stdout.Bytes()) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

func putScript(n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "put bench %d {\"n\":%d}\n", i, i)
	}
	b.WriteString("hash\nquit\n")
	return b.String()
}

func putDelScript(n int) string {
	var b strings.Builder
	for i := range n / 2 {
		fmt.Fprintf(&b, "put bench %d {\"n\":%d}\ndel bench %d\n", i, i, i)
	}
	b.WriteString("hash\nquit\n")
	return b.String()
}

func pubScript(n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "pub {\"n\":%d}\n", i)
	}
	b.WriteString("hash\nquit\n")
	return b.String()
}

// isSuccess checks that the session reached its final hash command
func isSuccess(output []byte) bool {
	return bytes.Contains(output, []byte("Current hash:"))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/dhtcli_benchmark_%s.csv", timestamp)

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
	defer writer.Flush()

	if err := writer.Write([]string{"workload", "commands", "memory_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		row := []string{result.Workload, strconv.Itoa(result.Commands), result.MemoryTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, w := range workloads {
		fmt.Printf("%s:\n", w.name)
		for _, result := range results {
			if result.Workload == w.name {
				fmt.Printf("  %-6d: In-memory: %s, Cold: %s, Warm: %s\n", result.Commands, result.MemoryTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
