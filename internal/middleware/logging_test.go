package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogger_PreservesStatusAndBody(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want 418", w.Code)
	}
	if w.Body.String() != "short and stout" {
		t.Errorf("body: got %q", w.Body.String())
	}
}

func TestResponseWriter_DefaultStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}

	rw.Write([]byte("implicit 200"))
	if rw.statusCode != http.StatusOK {
		t.Errorf("implicit status: got %d, want 200", rw.statusCode)
	}

	// A later WriteHeader must not overwrite the recorded status.
	rw.WriteHeader(http.StatusNotFound)
	if rw.statusCode != http.StatusOK {
		t.Errorf("status after late WriteHeader: got %d, want 200", rw.statusCode)
	}
}
