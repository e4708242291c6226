package services

import (
	"fmt"
	"strings"

	"cricket-hub/cricbuzz"
	"cricket-hub/pkg/models"
)

// BattingPlaceholder is shown by the single-innings REST style for a team
// whose innings has started but carries no runs yet.
const BattingPlaceholder = "Batting..."

// ScoreStyle selects how a missing score is rendered.
type ScoreStyle int

const (
	// ScoreStyleDash renders "-" and looks at the latest innings.
	ScoreStyleDash ScoreStyle = iota
	// ScoreStyleBatting renders "Batting..." and only looks at the first innings.
	ScoreStyleBatting
)

// ParseScoreStyle reads "dash" or "batting"; anything else is dash.
func ParseScoreStyle(s string) ScoreStyle {
	if strings.EqualFold(strings.TrimSpace(s), "batting") {
		return ScoreStyleBatting
	}
	return ScoreStyleDash
}

func (s ScoreStyle) String() string {
	if s == ScoreStyleBatting {
		return "batting"
	}
	return "dash"
}

// FormatInnings renders one innings as "<runs>/<wickets> (<overs> ov)".
// A missing wickets count reads as 0 and the overs suffix is omitted when
// the source has no overs.
func FormatInnings(inn *cricbuzz.Innings, style ScoreStyle) string {
	if inn == nil {
		return models.NoScore
	}
	if inn.Runs.IsZero() {
		if style == ScoreStyleBatting {
			return BattingPlaceholder
		}
		return models.NoScore
	}

	wickets := inn.Wickets.String()
	if wickets == "" {
		wickets = "0"
	}
	score := inn.Runs.String() + "/" + wickets
	if inn.Overs != "" {
		score += fmt.Sprintf(" (%s ov)", inn.Overs)
	}
	return score
}

// formatTeamScore picks the innings a style looks at.
func formatTeamScore(ts *cricbuzz.TeamScore, style ScoreStyle) string {
	if ts == nil {
		return models.NoScore
	}
	if style == ScoreStyleBatting {
		return FormatInnings(ts.Inngs1, style)
	}
	if ts.Inngs2 != nil {
		return FormatInnings(ts.Inngs2, style)
	}
	return FormatInnings(ts.Inngs1, style)
}

// firstInnings returns the first score of a livescore side, if any.
func firstInnings(side *cricbuzz.LiveSide) *cricbuzz.Innings {
	if side == nil || len(side.Score) == 0 {
		return nil
	}
	return &side.Score[0]
}

// RunRate computes runs per over from an overs string such as "15.3".
func RunRate(runs, overs cricbuzz.Num) (string, bool) {
	r, ok := runs.Float()
	if !ok {
		return "", false
	}
	o, ok := overs.Float()
	if !ok {
		return "", false
	}
	whole := int(o)
	balls := whole*6 + int((o-float64(whole))*10+0.5)
	if balls <= 0 {
		return "", false
	}
	return fmt.Sprintf("%.2f", r*6/float64(balls)), true
}
