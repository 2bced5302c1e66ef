// Package main provides a performance benchmarking tool for the devinsight CLI.
// It generates synthetic report directories of different sizes, measures report
// generation times across worker counts, running each configuration multiple
// times and averaging, generating CSV output for performance analysis.
//
// Prerequisites:
// - devinsight binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated fixtures and report output
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the timings of one dataset and worker configuration.
type BenchmarkResult struct {
	Dataset   string
	Files     int
	Workers   int
	FirstTime string
	AvgTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	Runs         int
	WorkerCounts []int
	DatasetSizes map[string]int // dataset name -> number of report files
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:      os.Args[1],
		Timeout:      2 * time.Minute,
		Runs:         4,
		WorkerCounts: []int{1, 4, 8},
		DatasetSizes: map[string]int{
			"small":  10,
			"medium": 100,
			"large":  500,
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the devinsight binary exists.
func checkPrerequisites() error {
	if _, err := exec.LookPath("devinsight"); err != nil {
		return fmt.Errorf("devinsight binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes all benchmark configurations.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs each\n",
		len(config.DatasetSizes), config.Timeout, config.Runs)

	for _, name := range []string{"small", "medium", "large"} {
		files := config.DatasetSizes[name]
		fmt.Printf("Generating %s dataset (%d files)\n", name, files)

		dataDir := filepath.Join(config.WorkDir, "data_"+name)
		if err := generateDataset(dataDir, files); err != nil {
			return nil, fmt.Errorf("generate %s dataset: %w", name, err)
		}

		for _, workers := range config.WorkerCounts {
			fmt.Printf("Benchmarking %s with %d workers\n", name, workers)
			result := runBenchmarkSuite(config, name, dataDir, files, workers)
			results = append(results, result)
		}
	}

	return results, nil
}

// generateDataset writes count synthetic flat report files under dir.
func generateDataset(dir string, count int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(42))
	for i := range count {
		path := filepath.Join(dir, fmt.Sprintf("report_%04d.json", i))
		if err := os.WriteFile(path, []byte(syntheticReport(rng, i)), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// syntheticReport builds one flat report with a handful of commits.
func syntheticReport(rng *rand.Rand, seq int) string {
	userID := fmt.Sprintf("user%02d", seq%20)
	repo := fmt.Sprintf("acme/service-%d", seq%7)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	commits := ""
	for c := range 25 {
		if c > 0 {
			commits += ","
		}
		when := base.Add(time.Duration(rng.Intn(365*24)) * time.Hour)
		kind := "direct"
		pr := ""
		if c%3 == 0 {
			kind = "pull_request"
			pr = fmt.Sprintf(`"pullRequest": "%d",`, 100+c)
		}
		adds, dels := rng.Intn(200), rng.Intn(80)
		commits += fmt.Sprintf(`{
      "sha": "%08x%04x",
      "userId": %q,
      "repository": %q,
      "type": %q,
      %s
      "date": %q,
      "stats": {"additions": %d, "deletions": %d, "total": %d}
    }`, rng.Uint32(), c, userID, repo, kind, pr, when.Format(time.RFC3339), adds, dels, adds+dels)
	}

	return fmt.Sprintf(`{"commits": [%s], "metaTags": {"team": "bench"}}`, commits)
}

// runBenchmarkSuite runs one dataset and worker configuration multiple times.
func runBenchmarkSuite(config BenchmarkConfig, dataset, dataDir string, files, workers int) BenchmarkResult {
	times := runBenchmark(config, dataDir, workers)

	firstStr, avgStr := "TIMEOUT", "TIMEOUT"
	if len(times) > 0 {
		firstStr = fmt.Sprintf("%.3fs", times[0])
		var sum float64
		for _, t := range times {
			sum += t
		}
		avgStr = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	fmt.Printf("  First run: %s, Average: %s\n", firstStr, avgStr)

	return BenchmarkResult{
		Dataset:   dataset,
		Files:     files,
		Workers:   workers,
		FirstTime: firstStr,
		AvgTime:   avgStr,
	}
}

// runBenchmark executes devinsight report multiple times and returns elapsed seconds per run.
func runBenchmark(config BenchmarkConfig, dataDir string, workers int) []float64 {
	outputDir := filepath.Join(config.WorkDir, "out")
	args := []string{
		"report", dataDir,
		"--output-dir", outputDir,
		"--workers", fmt.Sprintf("%d", workers),
		"--emoji", "no",
		"--color", "no",
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("devinsight", args...)

		done := make(chan bool)
		var cmdErr error

		go func() {
			_, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}
	return times
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/devinsight_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"dataset", "files", "workers", "first_run", "avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Dataset,
			fmt.Sprintf("%d", result.Files),
			fmt.Sprintf("%d", result.Workers),
			result.FirstTime,
			result.AvgTime,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s (%4d files, %2d workers): First: %s, Avg: %s\n",
			result.Dataset, result.Files, result.Workers, result.FirstTime, result.AvgTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
