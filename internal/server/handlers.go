package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/agbru/eigscan/internal/eigen"
	"github.com/agbru/eigscan/internal/linalg"
	"github.com/agbru/eigscan/internal/service"
	"github.com/agbru/eigscan/pkg/models"
)

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Version:   s.version,
		Timestamp: time.Now().Unix(),
	})
}

// handleEngines lists the registered determinant engines and the default
// used when a request names none.
func (s *Server) handleEngines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp := models.EnginesResponse{Default: s.defaultEngine}
	for _, id := range s.factory.List() {
		info := models.EngineInfo{ID: id, Name: id}
		if sc, err := s.factory.Get(id); err == nil {
			info.Name = sc.Name()
		}
		if id == "cofactor" {
			info.MaxOrder = eigen.MaxCofactorOrder
		}
		resp.Engines = append(resp.Engines, info)
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// handleDeterminant computes det(A) for a POSTed matrix.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: A POST request with a models.DeterminantRequest body.
func (s *Server) handleDeterminant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.DeterminantRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeRequestError(w, err)
		return
	}
	m, err := parseMatrix(req.Matrix)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	engine := s.engineOrDefault(req.Engine)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	det, err := s.service.Determinant(ctx, engine, m)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.DeterminantResponse{
		Determinant: models.NewInt(det),
		Engine:      engine,
		Duration:    time.Since(start).String(),
	})
}

// handleEigen scans a POSTed matrix for integer eigenvalues in [lo, hi].
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: A POST request with a models.EigenRequest body.
func (s *Server) handleEigen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.EigenRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeRequestError(w, err)
		return
	}
	m, err := parseMatrix(req.Matrix)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	engine := s.engineOrDefault(req.Engine)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	p := eigen.Problem{Matrix: m, Lo: req.Lo, Hi: req.Hi}
	opts := eigen.Options{Canonical: req.Canonical, ValuesOnly: req.ValuesOnly}
	report, err := s.service.Scan(ctx, engine, p, opts)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := models.EigenResponse{
		Engine:      engine,
		Lo:          req.Lo,
		Hi:          req.Hi,
		Scanned:     report.Scanned,
		Eigenvalues: make([]models.Eigenpair, len(report.Eigenpairs)),
		Duration:    report.Duration.String(),
	}
	for i, ep := range report.Eigenpairs {
		resp.Eigenvalues[i] = models.NewEigenpair(ep.Value, ep.Basis)
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

func (s *Server) engineOrDefault(engine string) string {
	if engine == "" {
		return s.defaultEngine
	}
	return engine
}

// decodeJSON decodes a single JSON object, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return RequestError{Message: "Request body too large", StatusCode: http.StatusRequestEntityTooLarge}
		}
		return RequestError{Message: "Invalid JSON body: " + err.Error(), StatusCode: http.StatusBadRequest}
	}
	return nil
}

func parseMatrix(m models.Matrix) (*linalg.IntMatrix, error) {
	im, err := linalg.NewIntMatrix(m.BigInts())
	if err == nil {
		err = linalg.ValidateSquare(im)
	}
	if err != nil {
		return nil, RequestError{Message: "Invalid 'matrix': " + err.Error(), StatusCode: http.StatusBadRequest}
	}
	return im, nil
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrMatrixTooLarge),
		errors.Is(err, service.ErrRangeTooWide),
		errors.Is(err, linalg.ErrMalformedMatrix),
		errors.Is(err, eigen.ErrUnknownEngine):
		return http.StatusBadRequest
	case errors.Is(err, eigen.ErrOrderUnsupported):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeRequestError(w http.ResponseWriter, err error) {
	var reqErr RequestError
	if errors.As(err, &reqErr) {
		s.writeErrorResponse(w, reqErr.StatusCode, reqErr.Message)
		return
	}
	s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", err)
	}
	s.writeErrorResponse(w, status, err.Error())
}

// writeJSONResponse writes data as JSON with the given status.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse writes a models.ErrorResponse.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
