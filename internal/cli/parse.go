package cli

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agbru/eigscan/internal/eigen"
	apperrors "github.com/agbru/eigscan/internal/errors"
	"github.com/agbru/eigscan/internal/linalg"
)

// ParseMatrixLiteral parses a square matrix written as rows separated by ';'
// and entries separated by ',' or whitespace, e.g. "2,0;0,3" or "1 2; 3 4".
// Entries are decimal integers of any size.
//
// Parameters:
//   - s: The matrix literal.
//
// Returns:
//   - *linalg.IntMatrix: The parsed matrix.
//   - error: An error wrapping linalg.ErrMalformedMatrix for empty, ragged or
//     non-square input, or an error naming the first invalid entry.
func ParseMatrixLiteral(s string) (*linalg.IntMatrix, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty matrix literal: %w", linalg.ErrMalformedMatrix)
	}
	var rows [][]*big.Int
	for r, rowText := range strings.Split(s, ";") {
		fields := strings.Fields(strings.ReplaceAll(rowText, ",", " "))
		row := make([]*big.Int, len(fields))
		for c, f := range fields {
			v, err := parseEntry(f)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", r+1, c+1, err)
			}
			row[c] = v
		}
		rows = append(rows, row)
	}
	return newSquareMatrix(rows)
}

func parseEntry(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func newSquareMatrix(rows [][]*big.Int) (*linalg.IntMatrix, error) {
	m, err := linalg.NewIntMatrix(rows)
	if err != nil {
		return nil, err
	}
	if err := linalg.ValidateSquare(m); err != nil {
		return nil, err
	}
	return m, nil
}

// problemDoc is one problem as written in a problem file. The matrix is kept
// as a raw node so that entries are parsed from their scalar text and never
// pass through a float64.
type problemDoc struct {
	Name   string    `yaml:"name"`
	Matrix yaml.Node `yaml:"matrix"`
	Lo     *int64    `yaml:"lo"`
	Hi     *int64    `yaml:"hi"`
}

type problemFile struct {
	Name     string       `yaml:"name"`
	Matrix   yaml.Node    `yaml:"matrix"`
	Lo       *int64       `yaml:"lo"`
	Hi       *int64       `yaml:"hi"`
	Problems []problemDoc `yaml:"problems"`
}

// LoadProblems reads a YAML or JSON problem file. A file holds either a
// single problem:
//
//	matrix: [[2, 1], [1, 2]]
//	lo: -5
//	hi: 5
//
// or a batch under "problems:". The matrix may also be a literal string
// ("2,1;1,2"). A missing lo or hi takes the given default.
//
// Returns an apperrors.InputError naming the file on any failure.
func LoadProblems(path string, defaultLo, defaultHi int64) ([]eigen.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.InputError{Source: path, Cause: err}
	}
	problems, err := ParseProblems(bytes.NewReader(data), defaultLo, defaultHi)
	if err != nil {
		return nil, apperrors.InputError{Source: path, Cause: err}
	}
	return problems, nil
}

// ParseProblems decodes problems from r. See LoadProblems for the format.
func ParseProblems(r io.Reader, defaultLo, defaultHi int64) ([]eigen.Problem, error) {
	var doc problemFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty problem file")
		}
		return nil, err
	}

	docs := doc.Problems
	if doc.Matrix.Kind != 0 {
		if len(docs) > 0 {
			return nil, fmt.Errorf("a file holds either a matrix or a problems list, not both")
		}
		docs = []problemDoc{{Name: doc.Name, Matrix: doc.Matrix, Lo: doc.Lo, Hi: doc.Hi}}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no problems found")
	}

	problems := make([]eigen.Problem, 0, len(docs))
	for i, d := range docs {
		m, err := decodeMatrixNode(&d.Matrix)
		if err != nil {
			return nil, fmt.Errorf("problem %d: %w", i+1, err)
		}
		p := eigen.Problem{Name: d.Name, Matrix: m, Lo: defaultLo, Hi: defaultHi}
		if d.Lo != nil {
			p.Lo = *d.Lo
		}
		if d.Hi != nil {
			p.Hi = *d.Hi
		}
		problems = append(problems, p)
	}
	return problems, nil
}

// decodeMatrixNode accepts a literal string or a sequence of sequences of
// integer scalars.
func decodeMatrixNode(n *yaml.Node) (*linalg.IntMatrix, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return ParseMatrixLiteral(n.Value)
	case yaml.SequenceNode:
		rows := make([][]*big.Int, len(n.Content))
		for r, rowNode := range n.Content {
			if rowNode.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("line %d: row %d is not a list: %w", rowNode.Line, r+1, linalg.ErrMalformedMatrix)
			}
			rows[r] = make([]*big.Int, len(rowNode.Content))
			for c, cell := range rowNode.Content {
				if cell.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("line %d: entry (%d,%d) is not a scalar", cell.Line, r+1, c+1)
				}
				v, err := parseEntry(cell.Value)
				if err != nil {
					return nil, fmt.Errorf("line %d: entry (%d,%d): %w", cell.Line, r+1, c+1, err)
				}
				rows[r][c] = v
			}
		}
		return newSquareMatrix(rows)
	case 0:
		return nil, fmt.Errorf("missing matrix: %w", linalg.ErrMalformedMatrix)
	default:
		return nil, fmt.Errorf("line %d: matrix must be a list of rows or a literal string: %w", n.Line, linalg.ErrMalformedMatrix)
	}
}
