package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agbru/eigscan/pkg/models"
)

// TestServerConcurrentRequests runs many scans through the full middleware
// chain at once.
func TestServerConcurrentRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping load test in short mode")
	}

	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 10000, Burst: 10000})
	defer rl.Stop()

	srv := createTestServer(t, WithRateLimiter(rl))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	const (
		numRequests   = 100
		numGoroutines = 10
	)

	var (
		successCount int64
		errorCount   int64
		wg           sync.WaitGroup
	)

	requestsPerGoroutine := numRequests / numGoroutines
	wg.Add(numGoroutines)
	start := time.Now()

	for i := 0; i < numGoroutines; i++ {
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{Timeout: 30 * time.Second}

			for j := 0; j < requestsPerGoroutine; j++ {
				k := workerID*requestsPerGoroutine + j
				body := fmt.Sprintf(`{"matrix": [[%d, 0], [0, %d]], "lo": -200, "hi": 200}`, k, -k)

				resp, err := client.Post(ts.URL+"/eigen", "application/json", strings.NewReader(body))
				if err != nil {
					atomic.AddInt64(&errorCount, 1)
					continue
				}

				var result models.EigenResponse
				err = json.NewDecoder(resp.Body).Decode(&result)
				resp.Body.Close()
				if err != nil || resp.StatusCode != http.StatusOK {
					atomic.AddInt64(&errorCount, 1)
					continue
				}

				// diag(k, -k) has eigenvalues -k and k, merged when k = 0.
				want := 2
				if k == 0 {
					want = 1
				}
				if len(result.Eigenvalues) == want {
					atomic.AddInt64(&successCount, 1)
				} else {
					atomic.AddInt64(&errorCount, 1)
				}
			}
		}(i)
	}

	wg.Wait()
	duration := time.Since(start)

	t.Logf("Load test completed in %v", duration)
	t.Logf("Successful: %d, Errors: %d", successCount, errorCount)
	t.Logf("Requests per second: %.2f", float64(numRequests)/duration.Seconds())

	if errorCount != 0 {
		t.Errorf("%d of %d requests failed", errorCount, numRequests)
	}
}

// TestServerRateLimiting tests that rate limiting works correctly.
func TestServerRateLimiting(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.5, Burst: 5})
	defer rl.Stop()

	srv := createTestServer(t, WithRateLimiter(rl))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	var rateLimitedCount int
	var retryAfter string
	for i := 0; i < 10; i++ {
		resp, err := client.Get(ts.URL + "/health")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			rateLimitedCount++
			retryAfter = resp.Header.Get("Retry-After")
		}
	}

	if rateLimitedCount < 5 {
		t.Errorf("Expected at least 5 rate limited requests, got %d", rateLimitedCount)
	}
	if retryAfter != "2" {
		t.Errorf("Retry-After = %q, want \"2\"", retryAfter)
	}
}

// TestServerSecurityHeaders tests that security headers are set correctly.
func TestServerSecurityHeaders(t *testing.T) {
	srv := createTestServer(t)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	expectedHeaders := map[string]string{
		"X-Content-Type-Options":      "nosniff",
		"X-Frame-Options":             "DENY",
		"X-Xss-Protection":            "1; mode=block",
		"Referrer-Policy":             "strict-origin-when-cross-origin",
		"Access-Control-Allow-Origin": "*",
	}

	for header, expected := range expectedHeaders {
		if actual := resp.Header.Get(header); actual != expected {
			t.Errorf("Header %s: expected %q, got %q", header, expected, actual)
		}
	}
}

func TestServerCORSPreflight(t *testing.T) {
	srv := createTestServer(t)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/eigen", http.NoBody)
	req.Header.Set("Origin", "https://example.org")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
}

func TestServerCORSRestrictedOrigins(t *testing.T) {
	sec := DefaultSecurityConfig()
	sec.AllowedOrigins = []string{"https://allowed.example"}
	srv := createTestServer(t, WithSecurityConfig(sec))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	for origin, want := range map[string]string{
		"https://allowed.example": "https://allowed.example",
		"https://evil.example":    "",
	} {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", http.NoBody)
		req.Header.Set("Origin", origin)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", origin, got, want)
		}
	}
}

// TestServerBodyLimit tests that oversized bodies are rejected.
func TestServerBodyLimit(t *testing.T) {
	sec := DefaultSecurityConfig()
	sec.MaxBodyBytes = 32
	srv := createTestServer(t, WithSecurityConfig(sec))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	body := `{"matrix": [[1, 2, 3], [4, 5, 6], [7, 8, 9]], "lo": -10, "hi": 10}`
	resp, err := http.Post(ts.URL+"/eigen", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", resp.StatusCode)
	}
}

// TestServerMaxRangeValidation tests that the range width limit is enforced
// end to end.
func TestServerMaxRangeValidation(t *testing.T) {
	srv := createTestServer(t)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/eigen", "application/json",
		strings.NewReader(`{"matrix": [[1]], "lo": -9223372036854775808, "hi": 9223372036854775807}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Message == "" {
		t.Error("Expected error message about the range width")
	}
}

// TestServerMetricsEndpoint tests that the /metrics endpoint works correctly.
func TestServerMetricsEndpoint(t *testing.T) {
	srv := createTestServer(t)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/eigen", "application/json", strings.NewReader(`{"matrix": [[2]], "lo": 0, "hi": 3}`))
	if err != nil {
		t.Fatalf("Scan request failed: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("Metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"eigscan_requests_total", "eigen_scans_total", "eigen_candidates_scanned_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}

func TestServerUnknownPath(t *testing.T) {
	srv := createTestServer(t)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/calculate")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

// BenchmarkServerEigen benchmarks the scan endpoint.
func BenchmarkServerEigen(b *testing.B) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1e9, Burst: 1 << 30})
	defer rl.Stop()
	srv := createTestServer(b, WithRateLimiter(rl))
	handler := srv.httpServer.Handler
	body := `{"matrix": [[2, 1, 0], [1, 2, 1], [0, 1, 2]], "lo": -20, "hi": 20}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/eigen", strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}
}

// BenchmarkServerHealth benchmarks the health endpoint.
func BenchmarkServerHealth(b *testing.B) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1e9, Burst: 1 << 30})
	defer rl.Stop()
	srv := createTestServer(b, WithRateLimiter(rl))
	handler := srv.httpServer.Handler

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}
}
