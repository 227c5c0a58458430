package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSlack_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if s == nil {
		t.Fatal("expected slack client")
	}
	if err := s.Send(context.Background(), "Title", "Hello"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if !strings.HasPrefix(got, "*Title*") {
		t.Fatalf("payload not as expected: %q", got)
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if err := s.Send(context.Background(), "X", "Y"); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestSlack_EmptyWebhookDisabled(t *testing.T) {
	if s := NewSlack(""); s != nil {
		t.Fatalf("expected nil client for empty webhook")
	}
}

type stubNotifier struct {
	n   int
	err error
}

func (s *stubNotifier) Send(ctx context.Context, title, text string) error {
	s.n++
	return s.err
}

func TestMulti_SendsToAllAndCombinesErrors(t *testing.T) {
	a := &stubNotifier{err: errors.New("a failed")}
	b := &stubNotifier{}
	c := &stubNotifier{err: errors.New("c failed")}

	m := Multi{a, nil, b, c}
	err := m.Send(context.Background(), "t", "x")
	if a.n != 1 || b.n != 1 || c.n != 1 {
		t.Fatalf("expected every notifier attempted: a=%d b=%d c=%d", a.n, b.n, c.n)
	}
	if err == nil {
		t.Fatalf("expected combined error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "a failed") || !strings.Contains(msg, "c failed") {
		t.Fatalf("combined error missing parts: %q", msg)
	}
}
