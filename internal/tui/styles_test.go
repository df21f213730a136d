package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestHelpEntryFormat(t *testing.T) {
	result := helpEntry("q", "quit")
	if !strings.Contains(result, "q") {
		t.Errorf("helpEntry('q','quit') does not contain key 'q': %q", result)
	}
	if !strings.Contains(result, "quit") {
		t.Errorf("helpEntry('q','quit') does not contain label 'quit': %q", result)
	}
}

func TestHelpEntryMultipleKeys(t *testing.T) {
	tests := []struct {
		key   string
		label string
	}{
		{"j/k", "nav"},
		{"enter", "edit"},
		{"esc", "cancel"},
		{"ctrl+s", "save"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			result := helpEntry(tc.key, tc.label)
			if !strings.Contains(result, tc.key) {
				t.Errorf("helpEntry(%q, %q) missing key", tc.key, tc.label)
			}
			if !strings.Contains(result, tc.label) {
				t.Errorf("helpEntry(%q, %q) missing label", tc.key, tc.label)
			}
		})
	}
}

func TestHelpBarIgnoresDanglingKey(t *testing.T) {
	bar := helpBar("c", "copy", "o")
	if !strings.Contains(bar, "copy") {
		t.Errorf("helpBar dropped a complete pair: %q", bar)
	}
	if bar != helpBar("c", "copy") {
		t.Errorf("helpBar rendered a key without a label: %q", bar)
	}
}

func TestTabBarNumbersTabs(t *testing.T) {
	bar := tabBar(80, []string{"Texts", "Links", "Votes"}, 1)
	for _, want := range []string{"1", "Texts", "2", "Links", "3", "Votes"} {
		if !strings.Contains(bar, want) {
			t.Errorf("tabBar missing %q: %q", want, bar)
		}
	}
	if w := lipgloss.Width(bar); w > 80 {
		t.Errorf("tabBar width = %d, want <= 80", w)
	}
}

func TestTabBarEmpty(t *testing.T) {
	if got := tabBar(80, nil, 0); got != "" {
		t.Errorf("tabBar(nil) = %q, want empty", got)
	}
}

func TestAvailabilityStyleRendersContent(t *testing.T) {
	for _, a := range []string{"Yes", "IfNeedBe", "No", ""} {
		if got := availabilityStyle(a).Render("X"); !strings.Contains(got, "X") {
			t.Errorf("availabilityStyle(%q) did not render content", a)
		}
	}
}
