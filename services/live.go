package services

import (
	"strings"

	"cricket-hub/cricbuzz"
	"cricket-hub/pkg/models"
)

// LiveSnapshot is the detail payload a source returns for a live match:
// *cricbuzz.LiveScore for the library bridge, *cricbuzz.Miniscore for REST.
type LiveSnapshot interface{}

// ApplyLiveSnapshot attaches live detail to a view. Views outside the Live
// category are returned unchanged.
func ApplyLiveSnapshot(v models.MatchView, snap LiveSnapshot) models.MatchView {
	if !IsLive(v) {
		return v
	}
	switch s := snap.(type) {
	case *cricbuzz.LiveScore:
		return applyLiveScore(v, s)
	case *cricbuzz.Miniscore:
		return applyMiniscore(v, s)
	}
	return v
}

func applyLiveScore(v models.MatchView, ls *cricbuzz.LiveScore) models.MatchView {
	if ls == nil {
		return v
	}

	battingInn := firstInnings(ls.Batting)
	bowlingInn := firstInnings(ls.Bowling)
	batting := FormatInnings(battingInn, ScoreStyleDash)
	bowling := FormatInnings(bowlingInn, ScoreStyleDash)

	// batting side is team1 unless the payload names team2 as batting
	if battingIsTeam2(v, ls) {
		v.Team1Score, v.Team2Score = bowling, batting
	} else {
		v.Team1Score, v.Team2Score = batting, bowling
	}

	detail := &models.LiveDetail{}
	if ls.Batting != nil {
		if len(ls.Batting.Batsman) > 0 {
			detail.Striker = liveBatter(ls.Batting.Batsman[0])
		}
		if len(ls.Batting.Batsman) > 1 {
			detail.NonStriker = liveBatter(ls.Batting.Batsman[1])
		}
	}
	if ls.Bowling != nil && len(ls.Bowling.Bowler) > 0 {
		b := ls.Bowling.Bowler[0]
		detail.Bowler = &models.Bowler{
			Name:    b.Name.String(),
			Wickets: numOrZero(b.Wickets),
			Runs:    numOrZero(b.Runs),
		}
	}
	if battingInn != nil {
		if rr, ok := RunRate(battingInn.Runs, battingInn.Overs); ok {
			detail.RunRate = rr
		}
	}

	if !detail.Empty() {
		v.LiveDetail = detail
	}
	return v
}

func applyMiniscore(v models.MatchView, ms *cricbuzz.Miniscore) models.MatchView {
	if ms == nil {
		return v
	}
	detail := &models.LiveDetail{RunRate: ms.CurrentRunRate.String()}
	if b := ms.BatsmanStriker; b != nil && b.BatName != "" {
		detail.Striker = &models.Batter{Name: b.BatName.String(), Runs: numOrZero(b.BatRuns), Balls: numOrZero(b.BatBalls)}
	}
	if b := ms.BatsmanNonStriker; b != nil && b.BatName != "" {
		detail.NonStriker = &models.Batter{Name: b.BatName.String(), Runs: numOrZero(b.BatRuns), Balls: numOrZero(b.BatBalls)}
	}
	if b := ms.BowlerStriker; b != nil && b.BowlName != "" {
		detail.Bowler = &models.Bowler{Name: b.BowlName.String(), Wickets: numOrZero(b.BowlWkts), Runs: numOrZero(b.BowlRuns)}
	}
	if !detail.Empty() {
		v.LiveDetail = detail
	}
	return v
}

func battingIsTeam2(v models.MatchView, ls *cricbuzz.LiveScore) bool {
	if ls.Batting != nil && sameTeam(ls.Batting.Team.String(), v.Team2Name) {
		return true
	}
	return ls.Bowling != nil && sameTeam(ls.Bowling.Team.String(), v.Team1Name)
}

func sameTeam(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

func liveBatter(b cricbuzz.LiveBatsman) *models.Batter {
	return &models.Batter{Name: b.Name.String(), Runs: numOrZero(b.Runs), Balls: numOrZero(b.Balls)}
}

func numOrZero(n cricbuzz.Num) string {
	if n == "" {
		return "0"
	}
	return n.String()
}
