package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/agbru/eigscan/internal/eigen"
	"github.com/agbru/eigscan/internal/linalg"
	"github.com/agbru/eigscan/internal/testutil"
	"github.com/agbru/eigscan/internal/ui"
)

// Exact expected output of the report renderers, colors stripped.

func scanReport(t *testing.T, rows [][]int64, lo, hi int64, opts eigen.Options) *eigen.Report {
	t.Helper()
	p := eigen.Problem{Matrix: linalg.MustFromInt64(rows), Lo: lo, Hi: hi}
	r, err := eigen.NewScanner(eigen.BareissEngine{}).Scan(t.Context(), nil, 0, p, opts)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return r
}

func TestDisplayReport_Golden(t *testing.T) {
	testutil.UseTheme(t, ui.DarkTheme)

	tests := []struct {
		name string
		rows [][]int64
		lo   int64
		hi   int64
		cfg  OutputConfig
		want string
	}{
		{
			name: "diagonal",
			rows: [][]int64{{2, 0}, {0, 3}},
			lo:   -5, hi: 5,
			want: "\nInteger eigenvalues and eigenvectors (basis):\n\nlambda = 2\n  v1 = [1, 0]\n\nlambda = 3\n  v1 = [0, 1]\n",
		},
		{
			name: "repeated eigenvalue",
			rows: [][]int64{{5, 0}, {0, 5}},
			lo:   0, hi: 9,
			want: "\nInteger eigenvalues and eigenvectors (basis):\n\nlambda = 5\n  v1 = [1, 0]\n  v2 = [0, 1]\n",
		},
		{
			name: "none found",
			rows: [][]int64{{0, -1}, {1, 0}},
			lo:   -10, hi: 10,
			want: "\nInteger eigenvalues and eigenvectors (basis):\nNo integer eigenvalues in range\n",
		},
		{
			name: "values only",
			rows: [][]int64{{2, 1}, {1, 2}},
			lo:   -5, hi: 5,
			cfg:  OutputConfig{ValuesOnly: true},
			want: "\nEigenvalues (integers found):\n1\n3\n",
		},
		{
			name: "values only none found",
			rows: [][]int64{{2, 1}, {1, 2}},
			lo:   4, hi: 2,
			cfg:  OutputConfig{ValuesOnly: true},
			want: "\nEigenvalues (integers found):\nNo integer eigenvalues in range\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := scanReport(t, tt.rows, tt.lo, tt.hi, eigen.Options{ValuesOnly: tt.cfg.ValuesOnly})
			var buf bytes.Buffer
			DisplayReport(&buf, r, tt.cfg)
			if got := testutil.StripAnsiCodes(buf.String()); got != tt.want {
				t.Errorf("mismatch.\nWant:\n%q\nGot:\n%q", tt.want, got)
			}
		})
	}
}

func TestDisplayReport_Verbose(t *testing.T) {
	testutil.UseTheme(t, ui.NoColorTheme)
	r := scanReport(t, [][]int64{{2, 0}, {0, 3}}, 2, 3, eigen.Options{})
	r.Problem.Name = "diag"
	r.Duration = 3 * time.Millisecond

	var buf bytes.Buffer
	DisplayReport(&buf, r, OutputConfig{Verbose: true})
	want := "Problem: diag\nMatrix: [[2, 0], [0, 3]]\nRange: [2, 3], 2 candidates scanned with Bareiss in 3ms\n" +
		"\nInteger eigenvalues and eigenvectors (basis):\n\nlambda = 2\n  v1 = [1, 0]\n\nlambda = 3\n  v1 = [0, 1]\n"
	if buf.String() != want {
		t.Errorf("mismatch.\nWant:\n%q\nGot:\n%q", want, buf.String())
	}
}

func TestQuietReport_Golden(t *testing.T) {
	r := scanReport(t, [][]int64{{1, 2, 3}, {0, 2, 4}, {0, 0, 3}}, -10, 10, eigen.Options{})
	var buf bytes.Buffer
	if err := DisplayReportWithConfig(&buf, r, OutputConfig{Quiet: true}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "1 2 3\n" {
		t.Errorf("quiet output = %q, want %q", buf.String(), "1 2 3\n")
	}

	empty := scanReport(t, [][]int64{{0, -1}, {1, 0}}, -3, 3, eigen.Options{})
	if got := FormatQuietReport(empty); got != "" {
		t.Errorf("quiet output for no eigenvalues = %q, want empty", got)
	}
}
