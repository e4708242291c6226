package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"cricket-hub/pkg/models"
)

// Date bucket labels
const (
	LabelToday       = "Today"
	LabelTomorrow    = "Tomorrow"
	LabelYesterday   = "Yesterday"
	LabelDateUnknown = "Date Unknown"

	absoluteDateLayout = "02 Jan 2006"
)

// msThreshold separates epoch seconds from epoch milliseconds.
const (
	msThreshold    = 1e11
	maxEpochMillis = 1e15
)

// Grouper filters views and buckets them by calendar date in one location.
type Grouper struct {
	loc *time.Location
	now func() time.Time
}

// NewGrouper creates a grouper. A nil location means UTC and a nil clock means time.Now.
func NewGrouper(loc *time.Location, now func() time.Time) *Grouper {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Grouper{loc: loc, now: now}
}

// Location returns the display location.
func (g *Grouper) Location() *time.Location { return g.loc }

// Now returns the grouper clock reading in the display location.
func (g *Grouper) Now() time.Time { return g.now().In(g.loc) }

// FilterAndGroup applies the status filter, the series filter (only when the
// filtered set spans more than one series) and buckets the result by date
// label. Order within and across buckets follows the input.
func (g *Grouper) FilterAndGroup(views []models.MatchView, status models.StatusFilter, series string) models.Board {
	now := g.Now()
	board := models.Board{
		Status:              status,
		SuppressDateHeaders: status == models.FilterLive,
		Groups:              []models.DateGroup{},
		UpdatedAt:           now,
	}

	filtered := make([]models.MatchView, 0, len(views))
	for _, v := range views {
		if MatchesStatus(v, status) {
			filtered = append(filtered, v)
		}
	}

	board.Series = distinctSeries(filtered)
	series = strings.TrimSpace(series)
	if series != "" && len(board.Series) > 1 {
		board.SeriesFilter = series
		kept := filtered[:0:0]
		for _, v := range filtered {
			if v.SeriesName == series {
				kept = append(kept, v)
			}
		}
		filtered = kept
	}

	index := make(map[string]int)
	for _, v := range filtered {
		label := DateLabel(v.StartTimestamp, now, g.loc)
		i, ok := index[label]
		if !ok {
			i = len(board.Groups)
			index[label] = i
			board.Groups = append(board.Groups, models.DateGroup{Label: label})
		}
		board.Groups[i].Matches = append(board.Groups[i].Matches, v)
	}

	return board
}

func distinctSeries(views []models.MatchView) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range views {
		if !seen[v.SeriesName] {
			seen[v.SeriesName] = true
			out = append(out, v.SeriesName)
		}
	}
	return out
}

// DateLabel buckets a source timestamp relative to now, in loc.
func DateLabel(ts string, now time.Time, loc *time.Location) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return LabelDateUnknown
	}
	t = t.In(loc)
	now = now.In(loc)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	switch {
	case sameDay(t, today):
		return LabelToday
	case sameDay(t, today.AddDate(0, 0, 1)):
		return LabelTomorrow
	case sameDay(t, today.AddDate(0, 0, -1)):
		return LabelYesterday
	}
	return t.Format(absoluteDateLayout)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseTimestamp reads epoch seconds or milliseconds (integer or decimal) and
// RFC 3339 strings.
func ParseTimestamp(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	if n, err := strconv.ParseInt(ts, 10, 64); err == nil {
		return fromEpoch(float64(n))
	}
	if f, err := strconv.ParseFloat(ts, 64); err == nil {
		return fromEpoch(f)
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func fromEpoch(v float64) (time.Time, bool) {
	if math.IsNaN(v) || v <= 0 || v > maxEpochMillis {
		return time.Time{}, false
	}
	if v >= msThreshold {
		return time.UnixMilli(int64(v)), true
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9)), true
}
