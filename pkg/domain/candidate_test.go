package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCandidateKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"seconds", "2024-01-01T10:00:00", "2024-01-01T10:00"},
		{"minutes", "2024-01-01T10:00", "2024-01-01T10:00"},
		{"fraction", "2024-01-01T10:30:00.000", "2024-01-01T10:30"},
		{"no separator", "2024-01-01", "2024-01-01"},
		{"too short", "2024-01-01T10", "2024-01-01T10"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CandidateKey(tt.in); got != tt.want {
				t.Errorf("CandidateKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCandidate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-01-01T10:00", "2024-01-01T10:00:00", false},
		{"2024-01-01T10:00:59", "2024-01-01T10:00:00", false},
		{"2024-01-01 09:15", "2024-01-01T09:15:00", false},
		{" 2024-03-02T08:05 ", "2024-03-02T08:05:00", false},
		{"tomorrow", "", true},
		{"2024-13-01T10:00", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeCandidate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("NormalizeCandidate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("NormalizeCandidate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeScheduleDedupesAndSorts(t *testing.T) {
	got, err := NormalizeSchedule([]string{
		"2024-01-02T09:00",
		"2024-01-01T10:00:00",
		"2024-01-01T10:00",
		"2024-01-01T08:30:12",
	})
	if err != nil {
		t.Fatalf("NormalizeSchedule: %v", err)
	}
	want := []string{"2024-01-01T08:30:00", "2024-01-01T10:00:00", "2024-01-02T09:00:00"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeScheduleRejectsGarbage(t *testing.T) {
	if _, err := NormalizeSchedule([]string{"2024-01-01T10:00", "soon"}); err == nil {
		t.Error("expected error for unparseable candidate")
	}
}

func TestSortCandidatesLeavesInputAlone(t *testing.T) {
	in := []string{"2024-01-02T10:00:00", "bogus", "2024-01-01T10:00:00"}
	got := SortCandidates(in)
	if got[0] != "2024-01-01T10:00:00" || got[1] != "2024-01-02T10:00:00" || got[2] != "bogus" {
		t.Errorf("SortCandidates = %v", got)
	}
	if in[0] != "2024-01-02T10:00:00" {
		t.Errorf("input was reordered: %v", in)
	}
}

func TestSameCandidates(t *testing.T) {
	a := []string{"2024-01-01T10:00:00", "2024-01-02T10:00:00"}
	b := []string{"2024-01-02T10:00", "2024-01-01T10:00"}
	if !SameCandidates(a, b) {
		t.Error("expected same candidates regardless of order and seconds")
	}
	if SameCandidates(a, b[:1]) {
		t.Error("expected different candidates")
	}
	if !SameCandidates(nil, []string{}) {
		t.Error("expected nil and empty to match")
	}
}

func TestVoteForUsesMinuteKey(t *testing.T) {
	v := Vote{Name: "Alice", Availability: map[string]Availability{"2024-01-01T10:00": AvailabilityYes}}
	got, ok := v.For("2024-01-01T10:00:00")
	if !ok || got != AvailabilityYes {
		t.Errorf("For = %q, %v; want Yes, true", got, ok)
	}
	if _, ok := v.For("2024-01-01T11:00:00"); ok {
		t.Error("expected no stance on unknown candidate")
	}
}

func TestAvailabilityNextCycles(t *testing.T) {
	a := AvailabilityNo
	for _, want := range []Availability{AvailabilityIfNeedBe, AvailabilityYes, AvailabilityNo} {
		a = a.Next()
		if a != want {
			t.Fatalf("Next = %q, want %q", a, want)
		}
	}
}

func TestTimestampRoundTripsServerText(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"offset", `"2024-01-01T10:00:00.123Z"`, "2024-01-01T10:00:00.123Z"},
		{"local", `"2024-01-01T10:00:00"`, "2024-01-01T10:00:00"},
		{"millis", `1704103200000`, "1704103200000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.json), &ts); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if ts.IsZero() {
				t.Fatal("timestamp is zero")
			}
			if got := ts.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTimestampNull(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !ts.IsZero() {
		t.Error("expected zero timestamp")
	}
	out, _ := json.Marshal(ts)
	if string(out) != "null" {
		t.Errorf("Marshal = %s, want null", out)
	}
}

func TestNewTimestampFormatsRFC3339(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	if got := ts.String(); got != "2024-01-01T10:00:00Z" {
		t.Errorf("String() = %q", got)
	}
}
