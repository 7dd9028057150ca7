package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// closeNotifyRecorder adds the CloseNotifier that gin's Stream requires.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestStreamRejectsUnknownFeed(t *testing.T) {
	s := mockServer()

	w, env := s.do(t, http.MethodGet, "/v1/stream?feeds=home,weather", "")
	if w.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "INVALID_CRITERIA" {
		t.Fatalf("expected 400 INVALID_CRITERIA, got %d %s", w.Code, w.Body.String())
	}
	if s.hub.ClientCount() != 0 {
		t.Fatalf("rejected stream must not register a client")
	}
}

func TestStreamSendsOnlySubscribedSnapshots(t *testing.T) {
	s := mockServer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/stream?feeds=prices", nil).WithContext(ctx)
	w := &closeNotifyRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	s.router.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "event:connected") {
		t.Fatalf("missing connected event: %s", body)
	}
	if !strings.Contains(body, `"feed":"prices"`) {
		t.Fatalf("missing prices snapshot: %s", body)
	}
	if strings.Contains(body, `"feed":"home"`) {
		t.Fatalf("home snapshot sent to a prices-only client: %s", body)
	}
	if s.hub.ClientCount() != 0 {
		t.Fatalf("client not unregistered after disconnect")
	}
}
