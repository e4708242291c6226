package services

import (
	"context"
	"errors"
	"fmt"

	"cricket-hub/cricbuzz"
	"cricket-hub/feed"
	"cricket-hub/logger"
	"cricket-hub/pkg/common"
	"cricket-hub/pkg/models"
)

// FetchResult is what a source hands to the normalizer. Transport failures
// carry no records; the kind lets the presenter tell them from an empty source.
type FetchResult struct {
	Kind    models.ResultKind
	Records []RawRecord
	Err     error
}

// Fetched builds an Ok or Empty result.
func Fetched(records []RawRecord) FetchResult {
	if len(records) == 0 {
		return FetchResult{Kind: models.ResultEmpty}
	}
	return FetchResult{Kind: models.ResultOK, Records: records}
}

// Unavailable builds a SourceUnavailable result.
func Unavailable(err error) FetchResult {
	return FetchResult{
		Kind: models.ResultSourceUnavailable,
		Err:  common.NewAppError("SOURCE_UNAVAILABLE", "fetching matches", errors.Join(common.ErrSourceUnavailable, err)),
	}
}

// Source is a raw source adapter.
type Source interface {
	Name() string
	Fetch(ctx context.Context, filter models.StatusFilter) FetchResult
}

// LiveSource is implemented by sources that can fetch in-play detail.
type LiveSource interface {
	FetchLive(ctx context.Context, matchID string) (LiveSnapshot, error)
}

// LibrarySource reads the pycricbuzz-style bridge. The list is not split by
// status, so the filter is applied after normalization.
type LibrarySource struct {
	client *cricbuzz.Client
}

func NewLibrarySource(client *cricbuzz.Client) *LibrarySource {
	return &LibrarySource{client: client}
}

func (s *LibrarySource) Name() string { return string(ShapeLibrary) }

func (s *LibrarySource) Fetch(ctx context.Context, _ models.StatusFilter) FetchResult {
	raw, err := s.client.GetMatches(ctx)
	if err != nil {
		logger.Errorf("[LibrarySource] ❌ Failed to fetch matches: %v", err)
		return Unavailable(err)
	}

	records := make([]RawRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, LibraryRecord{Raw: r})
	}
	return Fetched(records)
}

func (s *LibrarySource) FetchLive(ctx context.Context, matchID string) (LiveSnapshot, error) {
	return s.client.GetLiveScore(ctx, matchID)
}

// RESTSource reads the nested REST listings. The All filter fetches the live,
// recent and upcoming listings one after another.
type RESTSource struct {
	client *cricbuzz.Client
	style  ScoreStyle
}

func NewRESTSource(client *cricbuzz.Client, style ScoreStyle) *RESTSource {
	return &RESTSource{client: client, style: style}
}

func (s *RESTSource) Name() string { return string(ShapeREST) }

// listsFor returns the listings a filter needs, in fetch order.
func listsFor(filter models.StatusFilter) []cricbuzz.ListKind {
	switch filter {
	case models.FilterLive:
		return []cricbuzz.ListKind{cricbuzz.ListLive}
	case models.FilterRecent:
		return []cricbuzz.ListKind{cricbuzz.ListRecent}
	case models.FilterUpcoming:
		return []cricbuzz.ListKind{cricbuzz.ListUpcoming}
	}
	return []cricbuzz.ListKind{cricbuzz.ListLive, cricbuzz.ListRecent, cricbuzz.ListUpcoming}
}

func (s *RESTSource) Fetch(ctx context.Context, filter models.StatusFilter) FetchResult {
	kinds := listsFor(filter)

	var records []RawRecord
	var errs []error
	for _, kind := range kinds {
		raw, err := s.client.GetMatchList(ctx, kind)
		if err != nil {
			logger.Errorf("[RESTSource] ❌ Failed to fetch %s matches: %v", kind, err)
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}
		for _, r := range raw {
			records = append(records, RESTRecord{Raw: r, Style: s.style})
		}
	}

	if len(errs) == len(kinds) {
		return Unavailable(errors.Join(errs...))
	}
	return Fetched(records)
}

func (s *RESTSource) FetchLive(ctx context.Context, matchID string) (LiveSnapshot, error) {
	return s.client.GetMiniscore(ctx, matchID)
}

// FeedSource reads an RSS feed.
type FeedSource struct {
	client *feed.Client
}

func NewFeedSource(client *feed.Client) *FeedSource {
	return &FeedSource{client: client}
}

func (s *FeedSource) Name() string { return string(ShapeFeed) }

func (s *FeedSource) Fetch(ctx context.Context, _ models.StatusFilter) FetchResult {
	entries, err := s.client.Fetch(ctx)
	if err != nil {
		logger.Errorf("[FeedSource] ❌ Failed to fetch %s: %v", s.client.URL(), err)
		return Unavailable(err)
	}

	records := make([]RawRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, FeedRecord{Entry: e})
	}
	return Fetched(records)
}
