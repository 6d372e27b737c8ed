package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/big"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agbru/eigscan/internal/config"
	"github.com/agbru/eigscan/internal/eigen"
	apperrors "github.com/agbru/eigscan/internal/errors"
	"github.com/agbru/eigscan/internal/linalg"
	"github.com/agbru/eigscan/internal/testutil"
)

// MockScanner is a mock implementation of eigen.Scanner used to test the
// orchestration logic without running a real engine.
type MockScanner struct {
	NameValue string
	ScanFunc  func(ctx context.Context, p eigen.Problem, opts eigen.Options) (*eigen.Report, error)
}

func (m *MockScanner) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "Mock"
}

// Scan reports halfway and full progress before delegating to ScanFunc.
func (m *MockScanner) Scan(ctx context.Context, progressChan chan<- eigen.ProgressUpdate, index int, p eigen.Problem, opts eigen.Options) (*eigen.Report, error) {
	if progressChan != nil {
		progressChan <- eigen.ProgressUpdate{ScanIndex: index, Value: 0.5}
		progressChan <- eigen.ProgressUpdate{ScanIndex: index, Value: 1}
	}
	if m.ScanFunc != nil {
		return m.ScanFunc(ctx, p, opts)
	}
	return &eigen.Report{Engine: m.Name(), Problem: p}, nil
}

func (m *MockScanner) Determinant(context.Context, *linalg.IntMatrix) (*big.Int, error) {
	return big.NewInt(0), nil
}

func reportWith(values ...int64) func(context.Context, eigen.Problem, eigen.Options) (*eigen.Report, error) {
	return func(_ context.Context, p eigen.Problem, _ eigen.Options) (*eigen.Report, error) {
		r := &eigen.Report{Problem: p, Scanned: p.Candidates()}
		for _, v := range values {
			r.Eigenpairs = append(r.Eigenpairs, eigen.Eigenpair{Value: v})
		}
		return r, nil
	}
}

func diagProblem() eigen.Problem {
	return eigen.Problem{Matrix: linalg.MustFromInt64([][]int64{{2, 0}, {0, 3}}), Lo: 0, Hi: 5}
}

func TestExecuteScans(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		scanners    []eigen.Scanner
		expectError []bool
	}{
		{
			name:        "Single success",
			scanners:    []eigen.Scanner{&MockScanner{ScanFunc: reportWith(2, 3)}},
			expectError: []bool{false},
		},
		{
			name: "Single failure",
			scanners: []eigen.Scanner{&MockScanner{ScanFunc: func(context.Context, eigen.Problem, eigen.Options) (*eigen.Report, error) {
				return nil, errors.New("mock error")
			}}},
			expectError: []bool{true},
		},
		{
			name: "Failure does not cancel siblings",
			scanners: []eigen.Scanner{
				&MockScanner{NameValue: "A", ScanFunc: func(context.Context, eigen.Problem, eigen.Options) (*eigen.Report, error) {
					return nil, errors.New("boom")
				}},
				&MockScanner{NameValue: "B", ScanFunc: func(ctx context.Context, p eigen.Problem, o eigen.Options) (*eigen.Report, error) {
					time.Sleep(10 * time.Millisecond)
					if err := ctx.Err(); err != nil {
						return nil, err
					}
					return reportWith(2)(ctx, p, o)
				}},
			},
			expectError: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			results := ExecuteScans(context.Background(), tt.scanners, diagProblem(), eigen.Options{}, io.Discard)
			if len(results) != len(tt.scanners) {
				t.Fatalf("expected %d results, got %d", len(tt.scanners), len(results))
			}
			for i, res := range results {
				if res.Name != tt.scanners[i].Name() {
					t.Errorf("result %d: name %q, want %q", i, res.Name, tt.scanners[i].Name())
				}
				if (res.Err != nil) != tt.expectError[i] {
					t.Errorf("result %d: err = %v, expectError %v", i, res.Err, tt.expectError[i])
				}
			}
		})
	}
}

// SpyScanner records the options and problem it was called with.
type SpyScanner struct {
	mu      sync.Mutex
	opts    []eigen.Options
	names   []string
	current int
	maxSeen int
}

func (s *SpyScanner) Name() string { return "Spy" }

func (s *SpyScanner) Scan(_ context.Context, _ chan<- eigen.ProgressUpdate, _ int, p eigen.Problem, opts eigen.Options) (*eigen.Report, error) {
	s.mu.Lock()
	s.opts = append(s.opts, opts)
	s.names = append(s.names, p.Name)
	s.current++
	s.maxSeen = max(s.maxSeen, s.current)
	s.mu.Unlock()

	time.Sleep(time.Millisecond)

	s.mu.Lock()
	s.current--
	s.mu.Unlock()
	return &eigen.Report{Problem: p}, nil
}

func (s *SpyScanner) Determinant(context.Context, *linalg.IntMatrix) (*big.Int, error) {
	return new(big.Int), nil
}

func TestExecuteScansPassesOptions(t *testing.T) {
	t.Parallel()
	spy := &SpyScanner{}
	cfg := config.AppConfig{Canonical: true, ValuesOnly: true}

	ExecuteScans(context.Background(), []eigen.Scanner{spy}, diagProblem(), cfg.ToScanOptions(), io.Discard)

	if len(spy.opts) != 1 || !spy.opts[0].Canonical || !spy.opts[0].ValuesOnly {
		t.Errorf("options not forwarded: %+v", spy.opts)
	}
}

func TestExecuteBatch(t *testing.T) {
	t.Parallel()
	spy := &SpyScanner{}
	var problems []eigen.Problem
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		p := diagProblem()
		p.Name = name
		problems = append(problems, p)
	}

	results := ExecuteBatch(context.Background(), spy, problems, eigen.Options{}, io.Discard)

	if len(results) != len(problems) {
		t.Fatalf("expected %d results, got %d", len(problems), len(results))
	}
	for i, res := range results {
		if res.Problem.Name != problems[i].Name {
			t.Errorf("result %d is for %q, want %q", i, res.Problem.Name, problems[i].Name)
		}
		if res.Err != nil || res.Report == nil {
			t.Errorf("result %d: report %v, err %v", i, res.Report, res.Err)
		}
	}
	if len(spy.names) != len(problems) {
		t.Errorf("scanner called %d times, want %d", len(spy.names), len(problems))
	}
	if spy.maxSeen > runtime.GOMAXPROCS(0) {
		t.Errorf("%d concurrent scans exceed the limit of %d", spy.maxSeen, runtime.GOMAXPROCS(0))
	}
}

func TestExecuteScansWithRealEngines(t *testing.T) {
	t.Parallel()
	p := eigen.Problem{Matrix: linalg.MustFromInt64([][]int64{{2, 1}, {1, 2}}), Lo: -5, Hi: 5}
	scanners := []eigen.Scanner{
		eigen.NewScanner(eigen.BareissEngine{}),
		eigen.NewScanner(eigen.CofactorEngine{}),
	}

	results := ExecuteScans(t.Context(), scanners, p, eigen.Options{Canonical: true}, io.Discard)

	var out bytes.Buffer
	if code := AnalyzeComparisonResults(results, config.AppConfig{}, &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d, output:\n%s", code, out.String())
	}
	plain := testutil.StripAnsiCodes(out.String())
	for _, want := range []string{"All valid results are consistent", "lambda = 1", "v1 = [1, -1]", "lambda = 3", "v1 = [1, 1]"} {
		if !strings.Contains(plain, want) {
			t.Errorf("output missing %q:\n%s", want, plain)
		}
	}
}

func success(name string, d time.Duration, pairs ...eigen.Eigenpair) ScanResult {
	return ScanResult{
		Name:     name,
		Problem:  diagProblem(),
		Report:   &eigen.Report{Engine: name, Problem: diagProblem(), Eigenpairs: pairs, Scanned: 6, Duration: d},
		Duration: d,
	}
}

func pair(value int64, vectors ...[]int64) eigen.Eigenpair {
	ep := eigen.Eigenpair{Value: value}
	for _, v := range vectors {
		row := make([]*big.Int, len(v))
		for i, x := range v {
			row[i] = big.NewInt(x)
		}
		ep.Basis = append(ep.Basis, row)
	}
	return ep
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		results        []ScanResult
		expectedStatus int
	}{
		{
			name: "All success",
			results: []ScanResult{
				success("A", time.Millisecond, pair(2, []int64{1, 0}), pair(3, []int64{0, 1})),
				success("B", 2*time.Millisecond, pair(2, []int64{1, 0}), pair(3, []int64{0, 1})),
			},
			expectedStatus: apperrors.ExitSuccess,
		},
		{
			name: "Value mismatch",
			results: []ScanResult{
				success("A", time.Millisecond, pair(2)),
				success("B", time.Millisecond, pair(3)),
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "Basis mismatch",
			results: []ScanResult{
				success("A", time.Millisecond, pair(2, []int64{1, 0})),
				success("B", time.Millisecond, pair(2, []int64{0, 1})),
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []ScanResult{
				{Name: "A", Duration: time.Millisecond, Err: errors.New("fail")},
				{Name: "B", Duration: time.Millisecond, Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorGeneric,
		},
		{
			name: "All timed out",
			results: []ScanResult{
				{Name: "A", Err: context.DeadlineExceeded},
			},
			expectedStatus: apperrors.ExitErrorTimeout,
		},
		{
			name: "Mixed success/failure",
			results: []ScanResult{
				{Name: "B", Duration: time.Millisecond, Err: errors.New("fail")},
				success("A", time.Millisecond, pair(2)),
			},
			expectedStatus: apperrors.ExitSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status := AnalyzeComparisonResults(tt.results, config.AppConfig{}, io.Discard)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
		})
	}
}

func TestAnalyzeComparisonResultsSortsSuccessesFirst(t *testing.T) {
	t.Parallel()
	results := []ScanResult{
		{Name: "broken", Err: errors.New("fail")},
		success("slow", 5*time.Millisecond, pair(2)),
		success("fast", time.Millisecond, pair(2)),
	}
	AnalyzeComparisonResults(results, config.AppConfig{Quiet: true}, io.Discard)

	got := []string{results[0].Name, results[1].Name, results[2].Name}
	want := []string{"fast", "slow", "broken"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestAnalyzeBatchResults(t *testing.T) {
	t.Parallel()
	ok := success("Bareiss", time.Millisecond, pair(2, []int64{1, 0}))
	ok.Problem.Name = "first"
	failed := ScanResult{Name: "Bareiss", Problem: eigen.Problem{Name: "second"}, Err: eigen.ErrInconsistentSingularity}
	unnamed := success("Bareiss", time.Millisecond)
	unnamed.Problem.Name = ""

	var out bytes.Buffer
	code := AnalyzeBatchResults([]ScanResult{ok, failed, unnamed}, config.AppConfig{OutputFile: "ignored.txt"}, &out)

	if code != apperrors.ExitErrorInconsistent {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorInconsistent)
	}
	s := out.String()
	first := strings.Index(s, "=== first ===")
	second := strings.Index(s, "=== second ===")
	third := strings.Index(s, "=== problem 3 ===")
	if first < 0 || second < first || third < second {
		t.Errorf("headers missing or out of order:\n%s", s)
	}
	if !strings.Contains(s, "Inconsistent result") {
		t.Errorf("failure not reported:\n%s", s)
	}
	if strings.Contains(s, "Report saved") {
		t.Errorf("batch output must not be saved to a file:\n%s", s)
	}
}
