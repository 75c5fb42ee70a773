package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func serveRequestID(t *testing.T, inbound string) (ctxID, headerID string) {
	t.Helper()
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = chimiddleware.GetReqID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(chimiddleware.RequestIDHeader, inbound)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return ctxID, resp.Header().Get(chimiddleware.RequestIDHeader)
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	ctxID, headerID := serveRequestID(t, "client-req-42")
	if ctxID != "client-req-42" || headerID != "client-req-42" {
		t.Fatalf("expected inbound id to be reused, got ctx=%q header=%q", ctxID, headerID)
	}
}

func TestRequestIDGeneratesUUIDWhenMissing(t *testing.T) {
	ctxID, headerID := serveRequestID(t, "")
	if _, err := uuid.Parse(ctxID); err != nil {
		t.Fatalf("expected generated UUID, got %q", ctxID)
	}
	if headerID != ctxID {
		t.Fatalf("expected header to echo context id, got %q vs %q", headerID, ctxID)
	}
}

func TestRequestIDRejectsUnsafeValues(t *testing.T) {
	for _, bad := range []string{strings.Repeat("a", maxRequestIDLength+1), "line\x01break", "caf\xc3\xa9"} {
		ctxID, _ := serveRequestID(t, bad)
		if ctxID == bad {
			t.Fatalf("expected %q to be replaced", bad)
		}
		if _, err := uuid.Parse(ctxID); err != nil {
			t.Fatalf("expected generated UUID for %q, got %q", bad, ctxID)
		}
	}
}
