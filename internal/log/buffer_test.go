package log

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestLogBufferWraps(t *testing.T) {
	b := NewLogBuffer(3)
	for i := 0; i < 5; i++ {
		b.AddEntry(LogEntry{Message: fmt.Sprint(i)})
	}

	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}

	got := b.GetEntries(0)
	want := []string{"2", "3", "4"}
	for i, e := range got {
		if e.Message != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Message, want[i])
		}
	}
}

func TestLogBufferLimit(t *testing.T) {
	tests := []struct {
		name  string
		added int
		limit int
		want  []string
	}{
		{"partial fill, no limit", 2, 0, []string{"0", "1"}},
		{"partial fill, limit", 3, 2, []string{"1", "2"}},
		{"wrapped, limit", 7, 2, []string{"5", "6"}},
		{"limit larger than contents", 1, 10, []string{"0"}},
		{"empty", 0, 5, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewLogBuffer(4)
			for i := 0; i < tt.added; i++ {
				b.AddEntry(LogEntry{Message: fmt.Sprint(i)})
			}
			got := b.GetEntries(tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Message != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i].Message, tt.want[i])
				}
			}
		})
	}
}

func TestLogHTTPRequestLevels(t *testing.T) {
	before := GetHTTPLogBuffer().Len()

	LogHTTPRequest(http.MethodGet, "/api/weather", http.StatusBadGateway, 15*time.Millisecond, 64, "127.0.0.1:5555", "test")

	entries := GetHTTPLogBuffer().GetEntries(1)
	if GetHTTPLogBuffer().Len() != before+1 {
		t.Fatalf("expected one new entry")
	}
	if entries[0].Level != "error" {
		t.Errorf("level = %q, want error", entries[0].Level)
	}
	if entries[0].Fields["status"] != http.StatusBadGateway {
		t.Errorf("status field = %v, want %d", entries[0].Fields["status"], http.StatusBadGateway)
	}
}
