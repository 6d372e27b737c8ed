package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/agbru/eigscan/internal/errors"
	"github.com/agbru/eigscan/internal/linalg"
)

func TestParseMatrixLiteral(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"commas", "2,0;0,3", "[[2, 0], [0, 3]]", false},
		{"spaces", " 1 2 ; 3 4 ", "[[1, 2], [3, 4]]", false},
		{"mixed", "1, -2;+3 4", "[[1, -2], [3, 4]]", false},
		{"scalar", "7", "[[7]]", false},
		{"huge", "100000000000000000000", "[[100000000000000000000]]", false},
		{"empty", "", "", true},
		{"ragged", "1,2;3", "", true},
		{"not square", "1,2,3;4,5,6", "", true},
		{"empty row", "1;", "", true},
		{"fraction", "1/2", "", true},
		{"float", "1.5,0;0,1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := ParseMatrixLiteral(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMatrixLiteral(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && m.String() != tt.want {
				t.Errorf("ParseMatrixLiteral(%q) = %s, want %s", tt.in, m, tt.want)
			}
		})
	}
}

func TestParseMatrixLiteral_MalformedSentinel(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "1,2;3", "1,2"} {
		if _, err := ParseMatrixLiteral(in); !errors.Is(err, linalg.ErrMalformedMatrix) {
			t.Errorf("ParseMatrixLiteral(%q) error = %v, want ErrMalformedMatrix", in, err)
		}
	}
}

func TestParseProblems(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		doc       string
		wantCount int
		wantFirst string
		wantLo    int64
		wantHi    int64
		wantErr   string
	}{
		{
			name:      "single yaml",
			doc:       "matrix: [[2, 1], [1, 2]]\nlo: 0\nhi: 4\n",
			wantCount: 1, wantFirst: "[[2, 1], [1, 2]]", wantLo: 0, wantHi: 4,
		},
		{
			name:      "single json with string entries",
			doc:       `{"matrix": [["2", "0"], ["0", "3"]], "hi": 9}`,
			wantCount: 1, wantFirst: "[[2, 0], [0, 3]]", wantLo: -10, wantHi: 9,
		},
		{
			name:      "literal",
			doc:       "name: diag\nmatrix: \"5,0;0,5\"\n",
			wantCount: 1, wantFirst: "[[5, 0], [0, 5]]", wantLo: -10, wantHi: 10,
		},
		{
			name: "batch",
			doc: `problems:
  - name: a
    matrix: [[1]]
  - name: b
    matrix:
      - [123456789012345678901234567890, 0]
      - [0, 1]
    lo: -1
    hi: 1
`,
			wantCount: 2, wantFirst: "[[1]]", wantLo: -10, wantHi: 10,
		},
		{name: "empty", doc: "", wantErr: "empty problem file"},
		{name: "nothing", doc: "lo: 1\n", wantErr: "no problems found"},
		{name: "both", doc: "matrix: [[1]]\nproblems:\n  - matrix: [[2]]\n", wantErr: "not both"},
		{name: "ragged", doc: "matrix: [[1, 2], [3]]\n", wantErr: "malformed"},
		{name: "bad entry", doc: "matrix: [[1.5]]\n", wantErr: "invalid integer"},
		{name: "row not list", doc: "matrix: [1, 2]\n", wantErr: "not a list"},
		{name: "mapping", doc: "matrix: {a: 1}\n", wantErr: "list of rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			problems, err := ParseProblems(strings.NewReader(tt.doc), -10, 10)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProblems: %v", err)
			}
			if len(problems) != tt.wantCount {
				t.Fatalf("got %d problems, want %d", len(problems), tt.wantCount)
			}
			p := problems[0]
			if p.Matrix.String() != tt.wantFirst || p.Lo != tt.wantLo || p.Hi != tt.wantHi {
				t.Errorf("first problem = %s [%d, %d], want %s [%d, %d]",
					p.Matrix, p.Lo, p.Hi, tt.wantFirst, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestParseProblems_BatchKeepsPrecisionAndNames(t *testing.T) {
	t.Parallel()
	doc := "problems:\n  - name: big\n    matrix: [[123456789012345678901234567890]]\n    lo: -3\n    hi: 3\n"
	problems, err := ParseProblems(strings.NewReader(doc), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := problems[0].Matrix.At(0, 0)
	if v.String() != "123456789012345678901234567890" {
		t.Errorf("entry = %s, precision lost", v)
	}
	if problems[0].Name != "big" || problems[0].Lo != -3 || problems[0].Hi != 3 {
		t.Errorf("unexpected problem %+v", problems[0])
	}
}

func TestLoadProblems(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "p.yaml")
	if err := os.WriteFile(path, []byte("matrix: [[2, 0], [0, 3]]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	problems, err := LoadProblems(path, 0, 5)
	if err != nil {
		t.Fatalf("LoadProblems: %v", err)
	}
	if len(problems) != 1 || problems[0].Hi != 5 {
		t.Errorf("unexpected problems %+v", problems)
	}

	_, err = LoadProblems(filepath.Join(dir, "missing.yaml"), 0, 5)
	var inputErr apperrors.InputError
	if !errors.As(err, &inputErr) || !strings.HasSuffix(inputErr.Source, "missing.yaml") {
		t.Errorf("missing file error = %v, want InputError", err)
	}
}

func FuzzParseMatrixLiteral(f *testing.F) {
	for _, seed := range []string{"2,0;0,3", "1 2;3 4", "", ";", "1,2;3", "-0", "99999999999999999999999"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		m, err := ParseMatrixLiteral(s)
		if err != nil {
			return
		}
		if m.Rows() != m.Cols() || m.Rows() == 0 {
			t.Fatalf("accepted %q as a %dx%d matrix", s, m.Rows(), m.Cols())
		}
		again, err := ParseMatrixLiteral(strings.NewReplacer("[", "", "]", "").Replace(
			strings.ReplaceAll(m.String(), "], [", ";")))
		if err != nil || again.String() != m.String() {
			t.Fatalf("round trip of %q failed: %v", s, err)
		}
	})
}
