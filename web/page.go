package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"cricket-hub/pkg/models"
	"cricket-hub/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// Messages shown instead of cards.
const (
	UnavailableMessage = "⚠️ The match source is not responding. Try again in 1 minute."
	emptyMessageFormat = "No %s matches found."
)

type pageData struct {
	Status       models.StatusFilter
	Statuses     []models.StatusFilter
	Series       []string
	SeriesFilter string
	ShowHeaders  bool
	Groups       []groupView
	Message      string
	Unavailable  bool
	Updated      string
	AutoRefresh  int
	Diagnostics  *models.Diagnostics
}

type groupView struct {
	Label string
	Cards []cardView
}

type cardView struct {
	models.MatchView
	Icon    string
	Caption string
}

// newPageData turns a board into what the dashboard template renders.
func newPageData(board *models.Board, autoRefresh int) pageData {
	data := pageData{
		Status:       board.Status,
		Statuses:     models.StatusFilters,
		Series:       board.Series,
		SeriesFilter: board.SeriesFilter,
		ShowHeaders:  !board.SuppressDateHeaders,
		Updated:      board.UpdatedAt.Format("15:04"),
		AutoRefresh:  autoRefresh,
		Diagnostics:  board.Diagnostics,
	}

	switch board.Result {
	case models.ResultSourceUnavailable:
		data.Unavailable = true
		data.Message = UnavailableMessage
		return data
	case models.ResultEmpty:
		data.Message = fmt.Sprintf(emptyMessageFormat, board.Status)
		return data
	}

	for _, g := range board.Groups {
		gv := groupView{Label: g.Label}
		for _, m := range g.Matches {
			gv.Cards = append(gv.Cards, cardView{
				MatchView: m,
				Icon:      services.StatusIcon(m.StatusText),
				Caption:   caption(m),
			})
		}
		data.Groups = append(data.Groups, gv)
	}
	return data
}

func caption(m models.MatchView) string {
	if m.Format == "" {
		return m.SeriesName
	}
	return m.SeriesName + " • " + m.Format
}

func renderDashboard(w io.Writer, board *models.Board, autoRefresh int) error {
	return dashboardTemplate.Execute(w, newPageData(board, autoRefresh))
}
