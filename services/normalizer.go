package services

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"cricket-hub/cricbuzz"
	"cricket-hub/feed"
	"cricket-hub/pkg/models"
)

// Shape tags which raw format a record came in.
type Shape string

const (
	ShapeLibrary Shape = "library"
	ShapeREST    Shape = "rest"
	ShapeFeed    Shape = "feed"
)

// FeedPlaceholder is the score of a feed entry whose title has no colon.
const FeedPlaceholder = "Click for details"

// feedZone is the display offset applied to feed publish times (+5:30).
var feedZone = time.FixedZone("IST", 5*3600+30*60)

// RawRecord is one record as delivered by a source adapter.
type RawRecord interface {
	Shape() Shape
}

// LibraryRecord is an undecoded entry of the library match list.
type LibraryRecord struct {
	Raw json.RawMessage
}

// RESTRecord is an undecoded match of a REST listing.
type RESTRecord struct {
	Raw   json.RawMessage
	Style ScoreStyle
}

// FeedRecord is one RSS entry.
type FeedRecord struct {
	Entry feed.Entry
}

func (LibraryRecord) Shape() Shape { return ShapeLibrary }
func (RESTRecord) Shape() Shape    { return ShapeREST }
func (FeedRecord) Shape() Shape    { return ShapeFeed }

// Normalize converts one raw record. It reports false when the record has no
// identifier or cannot be decoded; it never fails the caller.
func Normalize(r RawRecord) (models.MatchView, bool) {
	switch rec := r.(type) {
	case LibraryRecord:
		return NormalizeLibrary(rec.Raw)
	case *LibraryRecord:
		return NormalizeLibrary(rec.Raw)
	case RESTRecord:
		return NormalizeREST(rec.Raw, rec.Style)
	case *RESTRecord:
		return NormalizeREST(rec.Raw, rec.Style)
	case FeedRecord:
		return NormalizeFeed(rec.Entry)
	case *FeedRecord:
		return NormalizeFeed(rec.Entry)
	}
	return models.MatchView{}, false
}

// NormalizeBatch normalizes records in order, dropping unusable ones and
// later duplicates of an already seen match id.
func NormalizeBatch(records []RawRecord) ([]models.MatchView, int) {
	views := make([]models.MatchView, 0, len(records))
	seen := make(map[string]bool, len(records))
	dropped := 0

	for _, r := range records {
		v, ok := Normalize(r)
		if !ok || seen[v.MatchID] {
			dropped++
			continue
		}
		seen[v.MatchID] = true
		views = append(views, v)
	}
	return views, dropped
}

// NormalizeLibrary maps a library bridge match.
func NormalizeLibrary(raw json.RawMessage) (models.MatchView, bool) {
	m, err := cricbuzz.DecodeLibraryMatch(raw)
	if err != nil {
		return models.MatchView{}, false
	}
	id := strings.TrimSpace(m.ID.String())
	if id == "" {
		return models.MatchView{}, false
	}

	v := models.MatchView{
		MatchID:        id,
		SeriesName:     orDefault(m.Series.String(), models.UnknownSeries),
		Format:         strings.TrimSpace(m.Type.String()),
		Team1Score:     models.NoScore,
		Team2Score:     models.NoScore,
		StatusText:     strings.TrimSpace(m.Status.String()),
		RawState:       m.State.String(),
		StateCode:      StateCode(m.State.String()),
		StartTimestamp: m.StartTime.String(),
	}
	if m.Team1 != nil {
		v.Team1Name = strings.TrimSpace(m.Team1.Name.String())
	}
	if m.Team2 != nil {
		v.Team2Name = strings.TrimSpace(m.Team2.Name.String())
	}
	return v, true
}

// NormalizeREST maps a match of the nested REST listing.
func NormalizeREST(raw json.RawMessage, style ScoreStyle) (models.MatchView, bool) {
	m, err := cricbuzz.DecodeRESTMatch(raw)
	if err != nil || m.MatchInfo == nil {
		return models.MatchView{}, false
	}
	info := m.MatchInfo
	id := strings.TrimSpace(info.MatchID.String())
	if id == "" {
		return models.MatchView{}, false
	}

	format := strings.TrimSpace(info.MatchFormat.String())
	if desc := strings.TrimSpace(info.MatchDesc.String()); desc != "" {
		if format == "" {
			format = desc
		} else {
			format = desc + " · " + format
		}
	}

	v := models.MatchView{
		MatchID:        id,
		SeriesName:     orDefault(info.SeriesName.String(), models.UnknownSeries),
		Format:         format,
		StatusText:     strings.TrimSpace(info.Status.String()),
		RawState:       info.State.String(),
		StateCode:      StateCode(info.State.String()),
		StartTimestamp: info.StartDate.String(),
		Team1Score:     models.NoScore,
		Team2Score:     models.NoScore,
	}
	if info.Team1 != nil {
		v.Team1Name = teamName(info.Team1)
	}
	if info.Team2 != nil {
		v.Team2Name = teamName(info.Team2)
	}
	if m.MatchScore != nil {
		v.Team1Score = formatTeamScore(m.MatchScore.Team1Score, style)
		v.Team2Score = formatTeamScore(m.MatchScore.Team2Score, style)
	}
	return v, true
}

// NormalizeFeed maps an RSS entry. The title is split on its first colon into
// a teams label and a headline score.
func NormalizeFeed(e feed.Entry) (models.MatchView, bool) {
	id := strings.TrimSpace(e.Link)
	if id == "" {
		id = strings.TrimSpace(e.GUID)
	}
	if id == "" {
		return models.MatchView{}, false
	}

	label, score := SplitFeedTitle(e.Title)
	v := models.MatchView{
		MatchID:    id,
		SeriesName: models.UnknownSeries,
		Team1Name:  label,
		Team1Score: score,
		StatusText: e.Description,
		Link:       strings.TrimSpace(e.Link),
	}
	if e.Published != nil {
		local := e.Published.In(feedZone)
		v.Published = local.Format("02 Jan 2006, 03:04 PM")
		v.StartTimestamp = strconv.FormatInt(local.Unix(), 10)
	}
	return v, true
}

// SplitFeedTitle splits "Teams: headline" on the first colon. Without a colon
// the whole title is the label and the score is FeedPlaceholder.
func SplitFeedTitle(title string) (label, score string) {
	title = strings.TrimSpace(title)
	before, after, found := strings.Cut(title, ":")
	if !found {
		return title, FeedPlaceholder
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

func teamName(t *cricbuzz.RESTTeam) string {
	if name := strings.TrimSpace(t.TeamName.String()); name != "" {
		return name
	}
	return strings.TrimSpace(t.TeamSName.String())
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
