package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cricket-hub/cricbuzz"
	"cricket-hub/pkg/common"
	"cricket-hub/pkg/models"
)

type fakeSource struct {
	result  FetchResult
	live    map[string]LiveSnapshot
	liveErr error
	calls   []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(context.Context, models.StatusFilter) FetchResult { return f.result }

func (f *fakeSource) FetchLive(_ context.Context, id string) (LiveSnapshot, error) {
	f.calls = append(f.calls, id)
	if f.liveErr != nil {
		return nil, f.liveErr
	}
	return f.live[id], nil
}

type recordingSink struct {
	events []models.RefreshEvent
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) OnRefresh(_ context.Context, _ *models.Board, ev models.RefreshEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func libraryRecords(raws ...string) []RawRecord {
	out := make([]RawRecord, 0, len(raws))
	for _, r := range raws {
		out = append(out, LibraryRecord{Raw: json.RawMessage(r)})
	}
	return out
}

func newTestDashboard(src Source, sinks ...RefreshSink) *Dashboard {
	d := NewDashboard(src, NewGrouper(testNow.Location(), func() time.Time { return testNow }),
		WithDiagnostics(true),
		WithSinks(sinks...),
		WithLogger(common.NopLogger{}),
	)
	d.newID = func() string { return "refresh-1" }
	return d
}

func mustRefresh(t *testing.T, d *Dashboard, status models.StatusFilter, series string) *models.Board {
	t.Helper()
	board, err := d.Refresh(context.Background(), status, series)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return board
}

func TestDashboardRefreshAttachesLiveDetail(t *testing.T) {
	src := &fakeSource{
		result: Fetched(libraryRecords(
			`{"id":"1","srs":"IPL","mchstate":"inprogress","status":"CSK need 20","team1":{"name":"CSK"},"team2":{"name":"MI"}}`,
			`{"id":"2","srs":"IPL","mchstate":"preview","status":"Match starts at 19:30","team1":{"name":"RCB"},"team2":{"name":"KKR"}}`,
			`{"srs":"IPL","mchstate":"inprogress"}`,
		)),
		live: map[string]LiveSnapshot{
			"1": &cricbuzz.LiveScore{
				Batting: &cricbuzz.LiveSide{
					Team:    "CSK",
					Score:   []cricbuzz.Innings{{Runs: "150", Wickets: "4", Overs: "18.0"}},
					Batsman: []cricbuzz.LiveBatsman{{Name: "Dhoni", Runs: "40", Balls: "22"}},
				},
			},
		},
	}
	sink := &recordingSink{}

	board := mustRefresh(t, newTestDashboard(src, sink), models.FilterAll, "")

	if board.Result != models.ResultOK || board.Len() != 2 {
		t.Fatalf("result=%s len=%d", board.Result, board.Len())
	}
	if len(src.calls) != 1 || src.calls[0] != "1" {
		t.Errorf("live detail fetched for %v, want only the in-progress match", src.calls)
	}

	live := board.Groups[0].Matches[0]
	if live.LiveDetail == nil || live.LiveDetail.Striker == nil || live.LiveDetail.Striker.Name != "Dhoni" {
		t.Errorf("live detail = %+v", live.LiveDetail)
	}

	d := board.Diagnostics
	if d == nil || d.Raw != 3 || d.Accepted != 2 || d.Dropped != 1 || d.Shown != 2 || d.RefreshID != "refresh-1" {
		t.Errorf("diagnostics = %+v", d)
	}

	if len(sink.events) != 1 {
		t.Fatalf("sink called %d times", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Type != models.EventTypeBoardRefreshed || len(ev.LiveIDs) != 1 || ev.LiveIDs[0] != "1" {
		t.Errorf("event = %+v", ev)
	}
}

func TestDashboardRefreshSkipsLiveForRecent(t *testing.T) {
	src := &fakeSource{
		result: Fetched(libraryRecords(`{"id":"1","mchstate":"complete","status":"India won by 5 wkts"}`)),
	}
	mustRefresh(t, newTestDashboard(src), models.FilterRecent, "")
	if len(src.calls) != 0 {
		t.Errorf("unexpected live fetches %v", src.calls)
	}
}

func TestDashboardRefreshLiveFailureKeepsCard(t *testing.T) {
	src := &fakeSource{
		result:  Fetched(libraryRecords(`{"id":"1","mchstate":"inprogress","status":"Day 1"}`)),
		liveErr: errors.New("timeout"),
	}
	board := mustRefresh(t, newTestDashboard(src), models.FilterLive, "")
	if board.Len() != 1 || board.Groups[0].Matches[0].LiveDetail != nil {
		t.Errorf("board = %+v", board)
	}
}

func TestDashboardRefreshResultKinds(t *testing.T) {
	down := &fakeSource{result: Unavailable(errors.New("dial tcp: refused"))}
	sink := &recordingSink{err: errors.New("sink down")}
	board := mustRefresh(t, newTestDashboard(down, sink), models.FilterLive, "")

	if board.Result != models.ResultSourceUnavailable {
		t.Errorf("result = %s", board.Result)
	}
	if board.Diagnostics.Error == "" {
		t.Error("diagnostics should carry the fetch error")
	}
	if len(sink.events) != 1 || sink.events[0].Type != models.EventTypeSourceUnavailable {
		t.Errorf("events = %+v", sink.events)
	}

	empty := &fakeSource{result: Fetched(nil)}
	if got := mustRefresh(t, newTestDashboard(empty), models.FilterLive, "").Result; got != models.ResultEmpty {
		t.Errorf("empty source result = %s", got)
	}

	filteredOut := &fakeSource{result: Fetched(libraryRecords(`{"id":"1","mchstate":"preview"}`))}
	if got := mustRefresh(t, newTestDashboard(filteredOut), models.FilterLive, "").Result; got != models.ResultEmpty {
		t.Errorf("filtered-out result = %s", got)
	}
}

func TestDashboardCancelledRefreshIsDiscarded(t *testing.T) {
	src, _ := newRESTServer(t, map[string]string{
		"/matches/v1/live":   restListing("1"),
		"/matches/v1/recent": restListing("2"),
	})
	notifier := &recordingNotifier{}
	sink := &recordingSink{}
	d := newTestDashboard(src, sink, NewAlertSink(notifier))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	board, err := d.Refresh(ctx, models.FilterLive, "")
	if !errors.Is(err, context.Canceled) || board != nil {
		t.Fatalf("Refresh = %v, %v; want nil board and context.Canceled", board, err)
	}
	if len(sink.events) != 0 || len(notifier.texts) != 0 {
		t.Fatalf("sinks fired for a discarded refresh: events=%d alerts=%q", len(sink.events), notifier.texts)
	}

	// the next good refresh must not report a recovery
	mustRefresh(t, d, models.FilterRecent, "")
	if len(notifier.texts) != 0 {
		t.Errorf("unexpected alerts %q", notifier.texts)
	}
	if len(sink.events) != 1 {
		t.Errorf("events = %d, want 1", len(sink.events))
	}
}
