package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// CandidateLayout is the minute-granular local date-time a candidate is keyed by.
const CandidateLayout = "2006-01-02T15:04"

var candidateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	CandidateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// CandidateKey cuts an ISO local date-time down to the minute, so
// "2024-01-01T10:00:00" and "2024-01-01T10:00" share the key "2024-01-01T10:00".
// Strings without a 'T' separator are returned unchanged.
func CandidateKey(candidate string) string {
	i := strings.IndexByte(candidate, 'T')
	if i < 0 {
		return candidate
	}
	end := i + len("T15:04")
	if end > len(candidate) {
		return candidate
	}
	return candidate[:end]
}

// ParseCandidate reads a candidate as a wall-clock time without a zone.
func ParseCandidate(candidate string) (time.Time, error) {
	s := strings.TrimSpace(candidate)
	for _, layout := range candidateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse candidate %q: want YYYY-MM-DDTHH:MM", candidate)
}

// NormalizeCandidate truncates candidate to the minute and appends ":00",
// the form the schedule endpoint stores.
func NormalizeCandidate(candidate string) (string, error) {
	t, err := ParseCandidate(candidate)
	if err != nil {
		return "", err
	}
	return t.Format(CandidateLayout) + ":00", nil
}

// NormalizeSchedule normalizes every candidate, drops duplicates by minute key
// and sorts the result chronologically.
func NormalizeSchedule(candidates []string) ([]string, error) {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		n, err := NormalizeCandidate(c)
		if err != nil {
			return nil, err
		}
		key := CandidateKey(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	slices.SortFunc(out, compareCandidates)
	return out, nil
}

// SortCandidates returns a chronologically sorted copy of candidates.
// Unparseable entries sort after parseable ones, by string.
func SortCandidates(candidates []string) []string {
	out := slices.Clone(candidates)
	slices.SortStableFunc(out, compareCandidates)
	return out
}

// SameCandidates reports whether a and b hold the same minute keys, ignoring order.
func SameCandidates(a, b []string) bool {
	keys := func(cs []string) []string {
		ks := make([]string, 0, len(cs))
		for _, c := range cs {
			ks = append(ks, CandidateKey(c))
		}
		slices.Sort(ks)
		return slices.Compact(ks)
	}
	return slices.Equal(keys(a), keys(b))
}

func compareCandidates(a, b string) int {
	ta, errA := ParseCandidate(a)
	tb, errB := ParseCandidate(b)
	switch {
	case errA == nil && errB == nil:
		return ta.Compare(tb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
