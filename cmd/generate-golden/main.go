package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agbru/eigscan/internal/cli"
	"github.com/agbru/eigscan/internal/eigen"
)

// GoldenPair is one eigenpair of the golden file, entries as decimal strings.
type GoldenPair struct {
	Value int64      `json:"value"`
	Basis [][]string `json:"basis"`
}

// GoldenData is one golden case.
type GoldenData struct {
	Name       string       `json:"name"`
	Matrix     [][]string   `json:"matrix"`
	Lo         int64        `json:"lo"`
	Hi         int64        `json:"hi"`
	Eigenpairs []GoldenPair `json:"eigenpairs"`
}

type target struct {
	name    string
	literal string
	lo, hi  int64
}

// Cases cover diagonal, defective, irrational, fractional-reduction and
// full-null-space matrices plus an entry beyond 64 bits.
var targets = []target{
	{"diagonal", "2,0;0,3", -5, 5},
	{"jordan block", "1,1;0,1", -3, 3},
	{"rotation", "0,-1;1,0", -5, 5},
	{"symmetric", "2,1;1,2", -4, 4},
	{"fractional reduction", "4,1;2,3", -10, 10},
	{"swap", "0,1;1,0", -2, 2},
	{"repeated diagonal", "2,0,0;0,2,0;0,0,5", 0, 6},
	{"upper triangular", "1,2,3;0,2,4;0,0,3", -2, 4},
	{"zero 4x4", "0,0,0,0;0,0,0,0;0,0,0,0;0,0,0,0", -1, 1},
	{"huge off-diagonal", "3,100000000000000000000;0,3", 2, 4},
}

func main() {
	outputDir := flag.String("out", "internal/eigen/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	// The Laplace expansion shares no code with Bareiss elimination, which
	// the golden test checks against this file.
	scanner := eigen.NewScanner(eigen.CofactorEngine{})

	data := make([]GoldenData, 0, len(targets))
	fmt.Println("Generating golden data...")
	for _, tc := range targets {
		m, err := cli.ParseMatrixLiteral(tc.literal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", tc.name, err)
			os.Exit(1)
		}
		report, err := scanner.Scan(context.Background(), nil, 0, eigen.Problem{Name: tc.name, Matrix: m, Lo: tc.lo, Hi: tc.hi}, eigen.Options{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", tc.name, err)
			os.Exit(1)
		}

		entry := GoldenData{Name: tc.name, Lo: tc.lo, Hi: tc.hi, Eigenpairs: []GoldenPair{}}
		for _, row := range m.Entries() {
			entry.Matrix = append(entry.Matrix, decimals(row))
		}
		for _, p := range report.Eigenpairs {
			pair := GoldenPair{Value: p.Value}
			for _, v := range p.Basis {
				pair.Basis = append(pair.Basis, decimals(v))
			}
			entry.Eigenpairs = append(entry.Eigenpairs, pair)
		}
		data = append(data, entry)
		fmt.Printf("Generated %s: %v\n", tc.name, report.Values())
	}

	filename := filepath.Join(*outputDir, "eigen_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

func decimals[T fmt.Stringer](row []T) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = v.String()
	}
	return out
}
