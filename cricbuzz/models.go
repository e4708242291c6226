package cricbuzz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Num is a number that may arrive as a JSON number, a quoted string or null.
// It keeps the source text so "15.3" stays "15.3".
type Num string

// UnmarshalJSON implements json.Unmarshaler
func (n *Num) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*n = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Num(strings.TrimSpace(s))
	default:
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return fmt.Errorf("cricbuzz: invalid number %s", b)
		}
		*n = Num(num.String())
	}
	return nil
}

func (n Num) String() string { return string(n) }

// IsZero reports whether the value is absent or numerically zero.
func (n Num) IsZero() bool {
	if n == "" {
		return true
	}
	f, err := strconv.ParseFloat(string(n), 64)
	return err == nil && f == 0
}

// Float parses the value; absent or malformed values report false.
func (n Num) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(n), 64)
	return f, err == nil
}

// Text is a string that tolerates numbers in its place.
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(b []byte) error {
	var n Num
	if err := n.UnmarshalJSON(b); err != nil {
		return err
	}
	*t = Text(n)
	return nil
}

func (t Text) String() string { return string(t) }

// Library shape

// LibraryTeam is a team entry of a library match
type LibraryTeam struct {
	Name  Text `json:"name"`
	SName Text `json:"sName"`
}

// LibraryMatch is one entry of the library bridge match list
type LibraryMatch struct {
	ID        Text         `json:"id"`
	Series    Text         `json:"srs"`
	MatchNum  Text         `json:"mnum"`
	Type      Text         `json:"type"`
	State     Text         `json:"mchstate"`
	Status    Text         `json:"status"`
	Venue     Text         `json:"venue_name"`
	StartTime Num          `json:"start_time"`
	Team1     *LibraryTeam `json:"team1"`
	Team2     *LibraryTeam `json:"team2"`
}

// Innings is a score snapshot for one batting turn
type Innings struct {
	InningNum Num `json:"inning_num"`
	Runs      Num `json:"runs"`
	Wickets   Num `json:"wickets"`
	Overs     Num `json:"overs"`
}

// LiveBatsman is a batter at the crease
type LiveBatsman struct {
	Name  Text `json:"name"`
	Runs  Num  `json:"runs"`
	Balls Num  `json:"balls"`
	Fours Num  `json:"fours"`
	Sixes Num  `json:"six"`
}

// LiveBowler is a bowler of the current spell
type LiveBowler struct {
	Name    Text `json:"name"`
	Overs   Num  `json:"overs"`
	Maidens Num  `json:"maidens"`
	Runs    Num  `json:"runs"`
	Wickets Num  `json:"wickets"`
}

// LiveSide is the batting or bowling side of a livescore
type LiveSide struct {
	Team    Text          `json:"team"`
	Score   []Innings     `json:"score"`
	Batsman []LiveBatsman `json:"batsman,omitempty"`
	Bowler  []LiveBowler  `json:"bowler,omitempty"`
}

// LiveScore is the library bridge livescore payload
type LiveScore struct {
	Batting *LiveSide `json:"batting"`
	Bowling *LiveSide `json:"bowling"`
}

// REST shape

// RESTResponse is the envelope of /matches/v1/{live,recent,upcoming}
type RESTResponse struct {
	TypeMatches []TypeMatches `json:"typeMatches"`
}

// TypeMatches groups series by match type (International, League, ...)
type TypeMatches struct {
	MatchType     string          `json:"matchType"`
	SeriesMatches []SeriesMatches `json:"seriesMatches"`
}

// SeriesMatches is either a series wrapper or an ad slot
type SeriesMatches struct {
	SeriesAdWrapper *SeriesAdWrapper `json:"seriesAdWrapper,omitempty"`
}

type SeriesAdWrapper struct {
	SeriesID   Num               `json:"seriesId"`
	SeriesName Text              `json:"seriesName"`
	Matches    []json.RawMessage `json:"matches"`
}

// RESTMatch is one match of the REST listing
type RESTMatch struct {
	MatchInfo  *MatchInfo  `json:"matchInfo"`
	MatchScore *MatchScore `json:"matchScore"`
}

type MatchInfo struct {
	MatchID     Num       `json:"matchId"`
	SeriesID    Num       `json:"seriesId"`
	SeriesName  Text      `json:"seriesName"`
	MatchDesc   Text      `json:"matchDesc"`
	MatchFormat Text      `json:"matchFormat"`
	StartDate   Num       `json:"startDate"`
	EndDate     Num       `json:"endDate"`
	State       Text      `json:"state"`
	Status      Text      `json:"status"`
	StateTitle  Text      `json:"stateTitle"`
	Team1       *RESTTeam `json:"team1"`
	Team2       *RESTTeam `json:"team2"`
}

type RESTTeam struct {
	TeamID    Num  `json:"teamId"`
	TeamName  Text `json:"teamName"`
	TeamSName Text `json:"teamSName"`
}

type MatchScore struct {
	Team1Score *TeamScore `json:"team1Score"`
	Team2Score *TeamScore `json:"team2Score"`
}

// TeamScore holds up to two innings of one team
type TeamScore struct {
	Inngs1 *Innings `json:"inngs1"`
	Inngs2 *Innings `json:"inngs2"`
}

// Commentary is the envelope of /mcenter/v1/{id}/comm
type Commentary struct {
	Miniscore *Miniscore `json:"miniscore"`
}

// Miniscore is the in-play summary of a REST match
type Miniscore struct {
	BatsmanStriker    *MiniBatsman `json:"batsmanStriker"`
	BatsmanNonStriker *MiniBatsman `json:"batsmanNonStriker"`
	BowlerStriker     *MiniBowler  `json:"bowlerStriker"`
	CurrentRunRate    Num          `json:"currentRunRate"`
}

type MiniBatsman struct {
	BatName  Text `json:"batName"`
	BatRuns  Num  `json:"batRuns"`
	BatBalls Num  `json:"batBalls"`
}

type MiniBowler struct {
	BowlName  Text `json:"bowlName"`
	BowlWkts  Num  `json:"bowlWkts"`
	BowlRuns  Num  `json:"bowlRuns"`
	BowlOvers Num  `json:"bowlOvs"`
}
