package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTarget_JSONRoundTrip(t *testing.T) {
	want := Target{
		ID:        TargetID("T1"),
		URL:       "https://example.com",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Target
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != want.ID || got.URL != want.URL || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", want, got)
	}
}

func TestCheckResult_OmitsZeroStatus(t *testing.T) {
	cr := CheckResult{
		TargetID:  TargetID("T1"),
		Up:        false,
		Reason:    "dial tcp: connection refused",
		CheckedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(cr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := m["http_status"]; present {
		t.Fatalf("http_status should be omitted when 0: %s", b)
	}
}
