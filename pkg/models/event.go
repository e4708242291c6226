package models

import "time"

// RefreshEvent summarizes one refresh cycle for downstream consumers.
type RefreshEvent struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Source    string        `json:"source"`
	Status    StatusFilter  `json:"status"`
	Result    ResultKind    `json:"result"`
	Error     string        `json:"error,omitempty"`
	Raw       int           `json:"raw"`
	Accepted  int           `json:"accepted"`
	Dropped   int           `json:"dropped"`
	Matches   int           `json:"matches"`
	LiveIDs   []string      `json:"live_ids,omitempty"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// EventType names what happened.
type EventType string

const (
	EventTypeBoardRefreshed    EventType = "board_refreshed"
	EventTypeSourceUnavailable EventType = "source_unavailable"
)

// NewRefreshEvent builds the event for a finished board and its cycle counters.
func NewRefreshEvent(board *Board, diag Diagnostics) RefreshEvent {
	ev := RefreshEvent{
		ID:        diag.RefreshID,
		Type:      EventTypeBoardRefreshed,
		Source:    diag.Source,
		Status:    board.Status,
		Result:    board.Result,
		Error:     diag.Error,
		Raw:       diag.Raw,
		Accepted:  diag.Accepted,
		Dropped:   diag.Dropped,
		Matches:   board.Len(),
		Elapsed:   diag.Elapsed,
		Timestamp: board.UpdatedAt,
	}
	if board.Result == ResultSourceUnavailable {
		ev.Type = EventTypeSourceUnavailable
	}
	for _, g := range board.Groups {
		for _, m := range g.Matches {
			if m.LiveDetail != nil {
				ev.LiveIDs = append(ev.LiveIDs, m.MatchID)
			}
		}
	}
	return ev
}
