// Package models defines the JSON documents exchanged by eigscan: the HTTP
// API requests and responses and the -json report of the CLI.
//
// Matrix entries and basis vector components are arbitrary-precision
// integers. They are encoded as JSON strings so that no client truncates them
// to float64, and decoded from either strings or integral JSON numbers.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// Int is an arbitrary-precision integer with a lossless JSON encoding.
type Int struct {
	big.Int
}

// NewInt copies v.
func NewInt(v *big.Int) Int {
	var i Int
	i.Set(v)
	return i
}

// MarshalJSON encodes the value as a decimal string.
func (i Int) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(i.String())), nil
}

// UnmarshalJSON accepts "123", "-45" or a bare integral number.
func (i *Int) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	if _, ok := i.SetString(s, 10); !ok {
		return fmt.Errorf("invalid integer %q", s)
	}
	return nil
}

// BigInt returns a copy as *big.Int.
func (i Int) BigInt() *big.Int { return new(big.Int).Set(&i.Int) }

// Matrix is a row-major integer matrix.
type Matrix [][]Int

// MatrixFromBig converts rows of *big.Int.
func MatrixFromBig(rows [][]*big.Int) Matrix {
	m := make(Matrix, len(rows))
	for r, row := range rows {
		m[r] = VectorFromBig(row)
	}
	return m
}

// BigInts converts back to rows of *big.Int.
func (m Matrix) BigInts() [][]*big.Int {
	rows := make([][]*big.Int, len(m))
	for r, row := range m {
		rows[r] = make([]*big.Int, len(row))
		for c := range row {
			rows[r][c] = row[c].BigInt()
		}
	}
	return rows
}

// VectorFromBig converts a vector of *big.Int.
func VectorFromBig(v []*big.Int) []Int {
	out := make([]Int, len(v))
	for i, x := range v {
		out[i] = NewInt(x)
	}
	return out
}

// NewEigenpair converts an eigenvalue and its basis. An empty basis is
// omitted from the JSON form.
func NewEigenpair(value int64, basis [][]*big.Int) Eigenpair {
	ep := Eigenpair{Value: value}
	if len(basis) > 0 {
		ep.Basis = make([][]Int, len(basis))
		for i, v := range basis {
			ep.Basis[i] = VectorFromBig(v)
		}
	}
	return ep
}

// DeterminantRequest is the body of POST /determinant.
type DeterminantRequest struct {
	Matrix Matrix `json:"matrix"`
	// Engine defaults to the server's configured engine.
	Engine string `json:"engine,omitempty"`
}

// DeterminantResponse is the answer to POST /determinant.
type DeterminantResponse struct {
	Determinant Int    `json:"determinant"`
	Engine      string `json:"engine"`
	Duration    string `json:"duration"`
}

// EigenRequest is the body of POST /eigen.
type EigenRequest struct {
	Matrix     Matrix `json:"matrix"`
	Lo         int64  `json:"lo"`
	Hi         int64  `json:"hi"`
	Engine     string `json:"engine,omitempty"`
	Canonical  bool   `json:"canonical,omitempty"`
	ValuesOnly bool   `json:"values_only,omitempty"`
}

// Eigenpair is one integer eigenvalue with its eigenspace basis. Basis is
// omitted for values-only scans.
type Eigenpair struct {
	Value int64   `json:"value"`
	Basis [][]Int `json:"basis,omitempty"`
}

// EigenResponse is the answer to POST /eigen.
type EigenResponse struct {
	Engine      string      `json:"engine"`
	Lo          int64       `json:"lo"`
	Hi          int64       `json:"hi"`
	Scanned     uint64      `json:"scanned"`
	Eigenvalues []Eigenpair `json:"eigenvalues"`
	Duration    string      `json:"duration"`
}

// ScanResult is one entry of the CLI -json report.
type ScanResult struct {
	Name        string      `json:"name,omitempty"`
	Engine      string      `json:"engine"`
	Lo          int64       `json:"lo"`
	Hi          int64       `json:"hi"`
	Scanned     uint64      `json:"scanned"`
	Eigenvalues []Eigenpair `json:"eigenvalues"`
	Determinant *Int        `json:"determinant,omitempty"`
	Duration    string      `json:"duration"`
	Error       string      `json:"error,omitempty"`
}

// EnginesResponse is the answer to GET /engines.
type EnginesResponse struct {
	Engines []EngineInfo `json:"engines"`
	Default string       `json:"default"`
}

// EngineInfo describes one registered determinant engine.
type EngineInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// MaxOrder is 0 when the engine has no order limit.
	MaxOrder int `json:"max_order,omitempty"`
}

// HealthResponse is the answer to GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
