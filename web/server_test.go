package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cricket-hub/config"
	"cricket-hub/database"
	"cricket-hub/pkg/common"
	"cricket-hub/pkg/models"
)

type fakeRefresher struct {
	board  *models.Board
	status models.StatusFilter
	series string
}

func (f *fakeRefresher) Refresh(_ context.Context, status models.StatusFilter, series string) (*models.Board, error) {
	f.status, f.series = status, series
	b := *f.board
	b.Status = status
	return &b, nil
}

func (f *fakeRefresher) SourceName() string { return "rest" }

type fakeReader struct {
	board *models.Board
	err   error
}

func (f fakeReader) Latest(context.Context, models.StatusFilter) (*models.Board, error) {
	return f.board, f.err
}

type fakeHistory struct {
	limit int
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]database.RefreshLog, error) {
	f.limit = limit
	return []database.RefreshLog{{RefreshID: "a", Source: "rest", Result: "ok"}}, nil
}

var updatedAt = time.Date(2026, 10, 17, 21, 15, 0, 0, time.UTC)

func sampleBoard() *models.Board {
	return &models.Board{
		Status: models.FilterRecent,
		Series: []string{"Asia Cup", "Ranji Trophy"},
		Groups: []models.DateGroup{{
			Label: "Today",
			Matches: []models.MatchView{{
				MatchID:    "1",
				SeriesName: "Asia Cup",
				Format:     "Final · T20",
				Team1Name:  "India",
				Team2Name:  "Pakistan",
				Team1Score: "180/5 (20 ov)",
				Team2Score: "150/9 (20 ov)",
				StatusText: "India won by 30 runs",
				StateCode:  "complete",
			}},
		}},
		Result:    models.ResultOK,
		UpdatedAt: updatedAt,
	}
}

func newTestServer(ref *fakeRefresher, opts ...ServerOption) http.Handler {
	return NewServer(config.Defaults(), ref, NewHub(), opts...).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleGetMatches(t *testing.T) {
	ref := &fakeRefresher{board: sampleBoard()}
	rec := get(t, newTestServer(ref), "/api/matches?status=recent&series=Asia%20Cup")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ref.status != models.FilterRecent || ref.series != "Asia Cup" {
		t.Errorf("refresh called with %s/%q", ref.status, ref.series)
	}

	var board models.Board
	if err := json.NewDecoder(rec.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if board.Len() != 1 || board.Groups[0].Matches[0].MatchID != "1" {
		t.Errorf("unexpected board %+v", board)
	}
}

func TestHandleGetMatchesDefaultsToLive(t *testing.T) {
	ref := &fakeRefresher{board: sampleBoard()}
	get(t, newTestServer(ref), "/api/matches")
	if ref.status != models.FilterLive {
		t.Errorf("default status = %s", ref.status)
	}
}

func TestHandleGetMatchesFeedDefaultsToAll(t *testing.T) {
	cfg := config.Defaults()
	cfg.Source = config.SourceFeed
	ref := &fakeRefresher{board: sampleBoard()}

	h := NewServer(cfg, ref, NewHub()).Handler()
	get(t, h, "/api/matches")
	if ref.status != models.FilterAll {
		t.Errorf("feed default status = %s, want All", ref.status)
	}
	get(t, h, "/?status=Live")
	if ref.status != models.FilterLive {
		t.Errorf("explicit status ignored: %s", ref.status)
	}
}

func TestHandleGetMatchesRejectsUnknownStatus(t *testing.T) {
	rec := get(t, newTestServer(&fakeRefresher{board: sampleBoard()}), "/api/matches?status=abandoned")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandleGetLatest(t *testing.T) {
	ref := &fakeRefresher{board: sampleBoard()}

	rec := get(t, newTestServer(ref), "/api/matches/latest")
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled cache: status = %d", rec.Code)
	}

	missing := fakeReader{err: common.NewAppError("NOT_FOUND", "no board", common.ErrNotFound)}
	rec = get(t, newTestServer(ref, WithBoardReader(missing)), "/api/matches/latest?status=Live")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing board: status = %d", rec.Code)
	}

	broken := fakeReader{err: errors.New("connection refused")}
	rec = get(t, newTestServer(ref, WithBoardReader(broken)), "/api/matches/latest")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("broken cache: status = %d", rec.Code)
	}

	rec = get(t, newTestServer(ref, WithBoardReader(fakeReader{board: sampleBoard()})), "/api/matches/latest?status=Recent")
	if rec.Code != http.StatusOK {
		t.Errorf("cached board: status = %d", rec.Code)
	}
}

func TestHandleGetRefreshes(t *testing.T) {
	ref := &fakeRefresher{board: sampleBoard()}
	if rec := get(t, newTestServer(ref), "/api/refreshes"); rec.Code != http.StatusNotFound {
		t.Errorf("disabled history: status = %d", rec.Code)
	}

	hist := &fakeHistory{}
	rec := get(t, newTestServer(ref, WithHistory(hist)), "/api/refreshes?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if hist.limit != 5 {
		t.Errorf("limit = %d", hist.limit)
	}
	var body struct {
		Count int `json:"count"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Count != 1 {
		t.Errorf("count = %d", body.Count)
	}
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(&fakeRefresher{board: sampleBoard()}), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"source":"rest"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestHandleDashboard(t *testing.T) {
	rec := get(t, newTestServer(&fakeRefresher{board: sampleBoard()}), "/?status=Recent")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"🏆 India won by 30 runs",
		"Asia Cup • Final · T20",
		"180/5 (20 ov)",
		"<h3>Today</h3>",
		"Updated: 21:15",
		`<option value="Recent" selected>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}
