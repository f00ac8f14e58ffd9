package logger

import "testing"

func TestSanitizeKVsRedactsCredentialKeys(t *testing.T) {
	got := sanitizeKVs([]interface{}{"sync_secret", "hunter2", "job_type", "pricing", "Authorization", "Bearer x", "dangling"})
	want := []interface{}{"sync_secret", "[REDACTED]", "job_type", "pricing", "Authorization", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got=%v want=%v", i, got[i], want[i])
		}
	}
}
