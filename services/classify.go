package services

import (
	"regexp"
	"strings"

	"cricket-hub/pkg/models"
)

// stateCategories is the fixed state-code table. Codes missing here are
// unclassified and only surface under the All filter.
var stateCategories = map[string]models.Category{
	"inprogress": models.CategoryLive,
	"tea":        models.CategoryLive,
	"lunch":      models.CategoryLive,
	"mom":        models.CategoryRecent,
	"complete":   models.CategoryRecent,
	"preview":    models.CategoryUpcoming,
	"next":       models.CategoryUpcoming,
}

var (
	wonPattern  = regexp.MustCompile(`(?i)\bwon\b`)
	tossPattern = regexp.MustCompile(`(?i)\bwon\s+the\s+toss\b`)
)

// StateCode lowercases a raw state token. Internal spaces are dropped so the
// REST API's "In Progress" reads the same as the library's "inprogress".
func StateCode(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), ""))
}

// Categorize maps a state code to its category.
func Categorize(code string) models.Category {
	return stateCategories[code]
}

// IsLive reports whether the view belongs to the Live category.
func IsLive(v models.MatchView) bool {
	return Categorize(v.StateCode) == models.CategoryLive
}

// looksFinished catches matches the source still tags as live after a result.
func looksFinished(v models.MatchView) bool {
	status := tossPattern.ReplaceAllString(v.StatusText, "")
	return wonPattern.MatchString(status) || v.RawState == "Complete"
}

// MatchesStatus reports whether a view survives the status filter.
func MatchesStatus(v models.MatchView, filter models.StatusFilter) bool {
	switch filter {
	case models.FilterAll:
		return true
	case models.FilterLive:
		return IsLive(v) && !looksFinished(v)
	case models.FilterRecent:
		return Categorize(v.StateCode) == models.CategoryRecent
	case models.FilterUpcoming:
		return Categorize(v.StateCode) == models.CategoryUpcoming
	}
	return false
}

// StatusIcon picks the card icon from the status text.
func StatusIcon(status string) string {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "won"):
		return "🏆"
	case strings.Contains(s, "starts"):
		return "⏰"
	default:
		return "🔴"
	}
}
