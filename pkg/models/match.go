package models

import (
	"strings"
	"time"
)

// UnknownSeries is shown when a source does not name the series.
const UnknownSeries = "Unknown Series"

// NoScore is the placeholder for a team without innings data.
const NoScore = "-"

// MatchView is the display record every raw shape is normalized into.
type MatchView struct {
	MatchID        string      `json:"match_id"`
	SeriesName     string      `json:"series_name"`
	Format         string      `json:"format,omitempty"`
	Team1Name      string      `json:"team1_name"`
	Team2Name      string      `json:"team2_name"`
	Team1Score     string      `json:"team1_score"`
	Team2Score     string      `json:"team2_score"`
	StatusText     string      `json:"status_text"`
	StateCode      string      `json:"state_code"`
	RawState       string      `json:"raw_state,omitempty"`
	StartTimestamp string      `json:"start_timestamp,omitempty"`
	Link           string      `json:"link,omitempty"`
	Published      string      `json:"published,omitempty"`
	LiveDetail     *LiveDetail `json:"live_detail,omitempty"`
}

// LiveDetail holds the in-play snapshot for a live match.
type LiveDetail struct {
	Striker    *Batter `json:"striker,omitempty"`
	NonStriker *Batter `json:"non_striker,omitempty"`
	Bowler     *Bowler `json:"bowler,omitempty"`
	RunRate    string  `json:"run_rate,omitempty"`
}

// Empty reports whether no field of the snapshot is set.
func (d *LiveDetail) Empty() bool {
	return d == nil || (d.Striker == nil && d.NonStriker == nil && d.Bowler == nil && d.RunRate == "")
}

type Batter struct {
	Name  string `json:"name"`
	Runs  string `json:"runs"`
	Balls string `json:"balls"`
}

type Bowler struct {
	Name    string `json:"name"`
	Wickets string `json:"wickets"`
	Runs    string `json:"runs"`
}

// Category is the coarse match stage a state code maps to.
type Category string

const (
	CategoryLive         Category = "Live"
	CategoryRecent       Category = "Recent"
	CategoryUpcoming     Category = "Upcoming"
	CategoryUnclassified Category = ""
)

// StatusFilter selects which categories a board shows.
type StatusFilter string

const (
	FilterLive     StatusFilter = "Live"
	FilterRecent   StatusFilter = "Recent"
	FilterUpcoming StatusFilter = "Upcoming"
	FilterAll      StatusFilter = "All"
)

// StatusFilters lists the filters in selector order.
var StatusFilters = []StatusFilter{FilterLive, FilterRecent, FilterUpcoming, FilterAll}

// ParseStatusFilter accepts a filter name in any case. Unknown names return false.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	for _, f := range StatusFilters {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, true
		}
	}
	return "", false
}

// DateGroup is one date bucket of a board, in input order.
type DateGroup struct {
	Label   string      `json:"label"`
	Matches []MatchView `json:"matches"`
}

// Board is the grouped output handed to the presenter.
type Board struct {
	Status              StatusFilter `json:"status"`
	Series              []string     `json:"series,omitempty"`
	SeriesFilter        string       `json:"series_filter,omitempty"`
	SuppressDateHeaders bool         `json:"suppress_date_headers"`
	Groups              []DateGroup  `json:"groups"`
	Result              ResultKind   `json:"result"`
	UpdatedAt           time.Time    `json:"updated_at"`
	Diagnostics         *Diagnostics `json:"diagnostics,omitempty"`
}

// Len returns the number of matches across all groups.
func (b Board) Len() int {
	n := 0
	for _, g := range b.Groups {
		n += len(g.Matches)
	}
	return n
}

// Diagnostics describes one refresh cycle.
type Diagnostics struct {
	RefreshID string        `json:"refresh_id"`
	Source    string        `json:"source"`
	Result    ResultKind    `json:"result"`
	Error     string        `json:"error,omitempty"`
	Raw       int           `json:"raw"`
	Accepted  int           `json:"accepted"`
	Dropped   int           `json:"dropped"`
	Shown     int           `json:"shown"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}
