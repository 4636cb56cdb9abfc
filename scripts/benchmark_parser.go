// benchmark_parser turns `go test -bench BenchmarkAssign ./pkg/catalog`
// output into a markdown report comparing each algorithm across integer
// widths.
//
// Usage:
//
//	go test -run '^$' -bench BenchmarkAssign -json ./pkg/catalog | go run scripts/benchmark_parser.go
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Algorithm   string
	Width       string // "u8", "u16", "u32" or "u64"
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// AlgorithmRow holds one algorithm's results keyed by width.
type AlgorithmRow struct {
	Algorithm string
	ByWidth   map[string]BenchmarkResult
}

// testEvent is the subset of `go test -json` output the parser reads.
type testEvent struct {
	Action string `json:"Action"`
	Output string `json:"Output"`
}

var widths = []string{"u8", "u16", "u32", "u64"}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	// Read benchmark output
	var scanner *bufio.Scanner
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		scanner = bufio.NewScanner(f)
	} else {
		scanner = bufio.NewScanner(os.Stdin)
	}

	results := parseBenchmarks(scanner)
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	rows := groupByAlgorithm(results)
	report := generateMarkdownReport(rows)

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(report), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
		return
	}
	fmt.Fprint(os.Stdout, report)
}

// BenchmarkAssign/steady_algo/u16-8    1000000    3.1 ns/op    0 B/op    0 allocs/op
var benchmarkRegex = regexp.MustCompile(
	`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
)

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	for scanner.Scan() {
		line := scanner.Text()

		// Accept both plain and -json output
		var ev testEvent
		if err := sonnet.Unmarshal([]byte(line), &ev); err == nil && ev.Output != "" {
			line = ev.Output
		}

		if r, ok := parseLine(strings.TrimSpace(line)); ok {
			results = append(results, r)
		}
	}
	return results
}

func parseLine(line string) (BenchmarkResult, bool) {
	matches := benchmarkRegex.FindStringSubmatch(line)
	if matches == nil {
		return BenchmarkResult{}, false
	}

	// Format: BenchmarkAssign/<algo>/<width>-<procs>
	parts := strings.Split(matches[1], "/")
	if len(parts) != 3 {
		return BenchmarkResult{}, false
	}
	width := parts[2]
	if dashIdx := strings.LastIndex(width, "-"); dashIdx > 0 {
		width = width[:dashIdx]
	}

	r := BenchmarkResult{
		Name:      matches[1],
		Algorithm: parts[1],
		Width:     width,
	}
	r.Iterations, _ = strconv.Atoi(matches[2])
	r.NsPerOp, _ = strconv.ParseFloat(matches[3], 64)
	if matches[4] != "" {
		r.BytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
	}
	if matches[5] != "" {
		r.AllocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
	}
	return r, true
}

func groupByAlgorithm(results []BenchmarkResult) []AlgorithmRow {
	grouped := make(map[string]map[string]BenchmarkResult)
	for _, r := range results {
		if grouped[r.Algorithm] == nil {
			grouped[r.Algorithm] = make(map[string]BenchmarkResult)
		}
		grouped[r.Algorithm][r.Width] = r
	}

	rows := make([]AlgorithmRow, 0, len(grouped))
	for algo, byWidth := range grouped {
		rows = append(rows, AlgorithmRow{Algorithm: algo, ByWidth: byWidth})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Algorithm < rows[j].Algorithm })
	return rows
}

func generateMarkdownReport(rows []AlgorithmRow) string {
	var sb strings.Builder

	sb.WriteString("# Site Assignment Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	sb.WriteString("## ns/op by width\n\n")
	sb.WriteString("| Algorithm | u8 | u16 | u32 | u64 | u8 vs u64 | Allocs |\n")
	sb.WriteString("|-----------|----|-----|-----|-----|-----------|--------|\n")

	for _, row := range rows {
		cells := make([]string, 0, len(widths))
		var allocs int64
		for _, w := range widths {
			r, ok := row.ByWidth[w]
			if !ok {
				cells = append(cells, "*N/A*")
				continue
			}
			cells = append(cells, formatNumber(r.NsPerOp))
			allocs = max(allocs, r.AllocsPerOp)
		}

		ratio := "*N/A*"
		narrow, hasNarrow := row.ByWidth["u8"]
		wide, hasWide := row.ByWidth["u64"]
		if hasNarrow && hasWide && narrow.NsPerOp > 0 {
			ratio = fmt.Sprintf("%.2fx", wide.NsPerOp/narrow.NsPerOp)
		}

		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n",
			row.Algorithm, strings.Join(cells, " | "), ratio, allocs))
	}
	sb.WriteString("\n")
	return sb.String()
}

func formatNumber(n float64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.2fK", n/1_000)
	default:
		return fmt.Sprintf("%.2f", n)
	}
}
