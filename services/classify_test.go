package services

import (
	"testing"

	"cricket-hub/pkg/models"
)

func TestCategorize(t *testing.T) {
	tests := map[string]models.Category{
		"inprogress": models.CategoryLive,
		"tea":        models.CategoryLive,
		"lunch":      models.CategoryLive,
		"mom":        models.CategoryRecent,
		"complete":   models.CategoryRecent,
		"preview":    models.CategoryUpcoming,
		"next":       models.CategoryUpcoming,
		"stumps":     models.CategoryUnclassified,
		"":           models.CategoryUnclassified,
	}
	for code, want := range tests {
		if got := Categorize(code); got != want {
			t.Errorf("Categorize(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestStateCode(t *testing.T) {
	tests := map[string]string{
		"Inprogress":  "inprogress",
		"In Progress": "inprogress",
		" Complete ":  "complete",
		"MOM":         "mom",
	}
	for raw, want := range tests {
		if got := StateCode(raw); got != want {
			t.Errorf("StateCode(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestStatusIcon(t *testing.T) {
	tests := map[string]string{
		"India won by 5 wickets": "🏆",
		"Match starts at 14:00":  "⏰",
		"India need 30 off 20":   "🔴",
		"":                       "🔴",
	}
	for status, want := range tests {
		if got := StatusIcon(status); got != want {
			t.Errorf("StatusIcon(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestMatchesStatusUnknownFilter(t *testing.T) {
	v := models.MatchView{StateCode: "inprogress"}
	if MatchesStatus(v, models.StatusFilter("Archived")) {
		t.Error("Expected unknown filter to match nothing")
	}
}
