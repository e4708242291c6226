package cricbuzz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListKind selects one of the REST match listings
type ListKind string

const (
	ListLive     ListKind = "live"
	ListRecent   ListKind = "recent"
	ListUpcoming ListKind = "upcoming"
)

// GetMatches retrieves the library bridge match list. Entries are returned
// undecoded so one malformed match cannot fail the whole list.
func (c *Client) GetMatches(ctx context.Context) ([]json.RawMessage, error) {
	body, err := c.getLibrary(ctx, "/matches")
	if err != nil {
		return nil, err
	}

	var matches []json.RawMessage
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return matches, nil
}

// GetLiveScore retrieves the livescore of one library match
func (c *Client) GetLiveScore(ctx context.Context, matchID string) (*LiveScore, error) {
	body, err := c.getLibrary(ctx, "/livescore/"+url.PathEscape(matchID))
	if err != nil {
		return nil, err
	}

	var score LiveScore
	if err := json.Unmarshal(body, &score); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &score, nil
}

// GetMatchList retrieves one REST listing and flattens
// typeMatches → seriesMatches → matches into a single list.
func (c *Client) GetMatchList(ctx context.Context, kind ListKind) ([]json.RawMessage, error) {
	body, err := c.getREST(ctx, "/matches/v1/"+string(kind))
	if err != nil {
		return nil, err
	}

	var response RESTResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return response.Flatten(), nil
}

// Flatten returns every match of the response in source order
func (r *RESTResponse) Flatten() []json.RawMessage {
	var matches []json.RawMessage
	for _, tm := range r.TypeMatches {
		for _, sm := range tm.SeriesMatches {
			if sm.SeriesAdWrapper == nil {
				continue
			}
			matches = append(matches, sm.SeriesAdWrapper.Matches...)
		}
	}
	return matches
}

// GetMiniscore retrieves the in-play summary of a REST match
func (c *Client) GetMiniscore(ctx context.Context, matchID string) (*Miniscore, error) {
	body, err := c.getREST(ctx, "/mcenter/v1/"+url.PathEscape(matchID)+"/comm")
	if err != nil {
		return nil, err
	}

	var response Commentary
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if response.Miniscore == nil {
		return nil, fmt.Errorf("match %s has no miniscore", matchID)
	}

	return response.Miniscore, nil
}

// DecodeLibraryMatch decodes one entry of GetMatches
func DecodeLibraryMatch(raw json.RawMessage) (*LibraryMatch, error) {
	var m LibraryMatch
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeRESTMatch decodes one entry of GetMatchList
func DecodeRESTMatch(raw json.RawMessage) (*RESTMatch, error) {
	var m RESTMatch
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
