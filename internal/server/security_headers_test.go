package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	middleware := SecurityHeadersMiddleware()

	req := httptest.NewRequest("GET", "/api/v1/books", nil)
	rec := httptest.NewRecorder()

	h := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	h.ServeHTTP(rec, req)

	expected := map[string]string{
		HeaderContentType:    HeaderValueNoSniff,
		HeaderFrameOptions:   HeaderValueSameOrigin,
		HeaderXSSProtection:  HeaderValueXSSBlock,
		HeaderReferrerPolicy: HeaderValueReferrerStrictOrigin,
	}

	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("expected %s header %q, got %q", header, want, got)
		}
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	middleware := RequestSizeLimitMiddleware(16)

	tests := []struct {
		name      string
		body      string
		expectErr bool
	}{
		{name: "Small Body Passes", body: "tiny", expectErr: false},
		{name: "Oversized Body Rejected", body: strings.Repeat("x", 64), expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var readErr error
			h := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, readErr = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusOK)
			}))

			h.ServeHTTP(rec, req)

			if tt.expectErr && readErr == nil {
				t.Error("expected read error for oversized body")
			}
			if !tt.expectErr && readErr != nil {
				t.Errorf("unexpected read error: %v", readErr)
			}
		})
	}
}
