package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/debemdeboas/draftboard/internal/config"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.Write([]byte(body))
	})
}

func TestSecureHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	NewServerHandler(okHandler("hi"), config.Default().Server).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for header, want := range map[string]string{
		"X-Frame-Options":        "deny",
		"X-Content-Type-Options": "nosniff",
		"X-XSS-Protection":       "1; mode=block",
	} {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rr.Header().Get(config.HRequestID) == "" {
		t.Error("Expected a request id")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(config.HRequestID, "abc-123")
	rr := httptest.NewRecorder()

	NewServerHandler(okHandler("hi"), config.Default().Server).ServeHTTP(rr, req)

	if got := rr.Header().Get(config.HRequestID); got != "abc-123" {
		t.Errorf("Request id = %q", got)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"wildcard", []string{"*"}, "http://localhost:5173", "*"},
		{"listed", []string{"https://blog.example.com"}, "https://blog.example.com", "https://blog.example.com"},
		{"not listed", []string{"https://blog.example.com"}, "https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Server
			cfg.AllowedOrigins = tt.origins

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			NewServerHandler(okHandler("hi"), cfg).ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/blogs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	NewServerHandler(okHandler("hi"), config.Default().Server).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPut) {
		t.Errorf("Allow-Methods = %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestCompression(t *testing.T) {
	body := strings.Repeat("draftboard ", 1000)

	t.Run("enabled", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rr := httptest.NewRecorder()
		NewServerHandler(okHandler(body), config.Default().Server).ServeHTTP(rr, req)

		if rr.Header().Get("Content-Encoding") != "gzip" {
			t.Errorf("Expected gzip encoding, headers: %v", rr.Header())
		}
		if rr.Body.Len() >= len(body) {
			t.Errorf("Body was not compressed: %d bytes", rr.Body.Len())
		}
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := config.Default().Server
		cfg.Compress = false

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rr := httptest.NewRecorder()
		NewServerHandler(okHandler(body), cfg).ServeHTTP(rr, req)

		if rr.Header().Get("Content-Encoding") != "" {
			t.Error("Expected no compression")
		}
	})
}

func TestRecoverer(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	NewServerHandler(panicky, config.Default().Server).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
}
