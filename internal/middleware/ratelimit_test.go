package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimit_BurstExceeded(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := RateLimit(1, 2)(next)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "192.0.2.1:1234"

		h.ServeHTTP(w, r)
		statuses = append(statuses, w.Result().StatusCode)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("first two requests = %v, want both %d", statuses[:2], http.StatusOK)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want %d", statuses[2], http.StatusTooManyRequests)
	}
}

func TestRateLimit_PerAddress(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := RateLimit(1, 1)(next)

	first := httptest.NewRequest(http.MethodPost, "/login", nil)
	first.RemoteAddr = "192.0.2.1:1234"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, first)

	exhausted := httptest.NewRequest(http.MethodPost, "/login", nil)
	exhausted.RemoteAddr = "192.0.2.1:5678"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, exhausted)

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "192.0.2.2:1234"
	w3 := httptest.NewRecorder()
	h.ServeHTTP(w3, other)

	if w1.Result().StatusCode != http.StatusOK {
		t.Fatalf("first request = %d, want %d", w1.Result().StatusCode, http.StatusOK)
	}
	if w2.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("same host past burst = %d, want %d", w2.Result().StatusCode, http.StatusTooManyRequests)
	}
	if w3.Result().StatusCode != http.StatusOK {
		t.Fatalf("other host = %d, want %d", w3.Result().StatusCode, http.StatusOK)
	}
}
