package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cricket-hub/cricbuzz"
	"cricket-hub/feed"
	"cricket-hub/pkg/common"
	"cricket-hub/pkg/models"
)

func restListing(ids ...string) string {
	matches := make([]string, 0, len(ids))
	for _, id := range ids {
		matches = append(matches, fmt.Sprintf(`{"matchInfo":{"matchId":%s,"seriesName":"Asia Cup","state":"Complete","status":"India won","team1":{"teamName":"India"},"team2":{"teamName":"Pakistan"}}}`, id))
	}
	return `{"typeMatches":[{"matchType":"International","seriesMatches":[{"seriesAdWrapper":{"seriesName":"Asia Cup","matches":[` +
		strings.Join(matches, ",") + `]}},{"adDetail":{}}]}]}`
}

func newRESTServer(t *testing.T, handlers map[string]string) (*RESTSource, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		body, ok := handlers[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := cricbuzz.NewClientWithConfig(cricbuzz.Config{RESTBaseURL: srv.URL, APIKey: "k"})
	return NewRESTSource(client, ScoreStyleDash), &paths
}

func TestRESTSourceAllFetchesSequentially(t *testing.T) {
	src, paths := newRESTServer(t, map[string]string{
		"/matches/v1/live":     restListing("1"),
		"/matches/v1/recent":   restListing("1", "2"),
		"/matches/v1/upcoming": restListing("3"),
	})

	res := src.Fetch(context.Background(), models.FilterAll)
	if res.Kind != models.ResultOK || len(res.Records) != 4 {
		t.Fatalf("kind=%s records=%d", res.Kind, len(res.Records))
	}
	want := []string{"/matches/v1/live", "/matches/v1/recent", "/matches/v1/upcoming"}
	if strings.Join(*paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v", *paths)
	}

	views, dropped := NormalizeBatch(res.Records)
	if len(views) != 3 || dropped != 1 {
		t.Errorf("views=%d dropped=%d, want duplicates removed", len(views), dropped)
	}
}

func TestRESTSourcePartialFailureStillOk(t *testing.T) {
	src, _ := newRESTServer(t, map[string]string{
		"/matches/v1/recent": restListing("2"),
	})
	res := src.Fetch(context.Background(), models.FilterAll)
	if res.Kind != models.ResultOK || len(res.Records) != 1 {
		t.Errorf("kind=%s records=%d", res.Kind, len(res.Records))
	}
}

func TestRESTSourceUnavailable(t *testing.T) {
	src, _ := newRESTServer(t, nil)
	res := src.Fetch(context.Background(), models.FilterLive)
	if res.Kind != models.ResultSourceUnavailable {
		t.Fatalf("kind = %s", res.Kind)
	}
	if !errors.Is(res.Err, common.ErrSourceUnavailable) {
		t.Errorf("err = %v", res.Err)
	}
	var apiErr *cricbuzz.APIError
	if !errors.As(res.Err, &apiErr) || apiErr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected wrapped APIError, got %v", res.Err)
	}
}

func TestRESTSourceEmptyListing(t *testing.T) {
	src, _ := newRESTServer(t, map[string]string{"/matches/v1/upcoming": `{"typeMatches":[]}`})
	if res := src.Fetch(context.Background(), models.FilterUpcoming); res.Kind != models.ResultEmpty {
		t.Errorf("kind = %s", res.Kind)
	}
}

func TestLibrarySourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches":
			w.Write([]byte(`[{"id":"1","mchstate":"inprogress"},{"id":"2","mchstate":"preview"}]`))
		case "/livescore/1":
			w.Write([]byte(`{"batting":{"team":"India","score":[{"runs":"100","wickets":"2","overs":"10"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewLibrarySource(cricbuzz.NewClientWithConfig(cricbuzz.Config{LibraryBaseURL: srv.URL}))
	res := src.Fetch(context.Background(), models.FilterLive)
	if res.Kind != models.ResultOK || len(res.Records) != 2 {
		t.Fatalf("kind=%s records=%d", res.Kind, len(res.Records))
	}

	snap, err := src.FetchLive(context.Background(), "1")
	if err != nil {
		t.Fatalf("FetchLive: %v", err)
	}
	if ls, ok := snap.(*cricbuzz.LiveScore); !ok || ls.Batting == nil {
		t.Errorf("snapshot = %#v", snap)
	}
}

func TestFeedSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewFeedSource(feed.NewClient(srv.URL, 0))
	if res := src.Fetch(context.Background(), models.FilterAll); res.Kind != models.ResultSourceUnavailable {
		t.Errorf("kind = %s", res.Kind)
	}
}
