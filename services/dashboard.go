package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cricket-hub/pkg/common"
	"cricket-hub/pkg/models"
)

// RefreshSink receives every finished board. Sink errors are logged and never
// fail the refresh.
type RefreshSink interface {
	Name() string
	OnRefresh(ctx context.Context, board *models.Board, event models.RefreshEvent) error
}

// Dashboard runs the fetch → normalize → group cycle for one source.
type Dashboard struct {
	source      Source
	grouper     *Grouper
	diagnostics bool
	sinks       []RefreshSink
	newID       func() string
	logger      common.Logger
}

// DashboardOption customizes a Dashboard.
type DashboardOption func(*Dashboard)

// WithDiagnostics attaches the diagnostic panel to every board.
func WithDiagnostics(on bool) DashboardOption {
	return func(d *Dashboard) { d.diagnostics = on }
}

// WithSinks registers refresh sinks, called in order.
func WithSinks(sinks ...RefreshSink) DashboardOption {
	return func(d *Dashboard) { d.sinks = append(d.sinks, sinks...) }
}

// WithLogger replaces the default logger.
func WithLogger(l common.Logger) DashboardOption {
	return func(d *Dashboard) { d.logger = l }
}

// NewDashboard creates a dashboard over a source.
func NewDashboard(source Source, grouper *Grouper, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		source:  source,
		grouper: grouper,
		newID:   uuid.NewString,
		logger:  common.NewLogger("Dashboard", false),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SourceName returns the configured source name.
func (d *Dashboard) SourceName() string { return d.source.Name() }

// AddSink registers a sink after construction.
func (d *Dashboard) AddSink(s RefreshSink) { d.sinks = append(d.sinks, s) }

// Refresh runs one full cycle. Nothing from earlier cycles is reused.
//
// When ctx ends before the fetch completes the cycle is discarded: the
// context error is returned, no board is built and no sink is called.
func (d *Dashboard) Refresh(ctx context.Context, status models.StatusFilter, series string) (*models.Board, error) {
	start := time.Now()
	id := d.newID()

	res := d.source.Fetch(ctx, status)
	views, dropped := NormalizeBatch(res.Records)
	views = d.attachLive(ctx, views, status)

	if err := ctx.Err(); err != nil {
		d.logger.Debug("refresh %s: discarded (%v)", id, err)
		return nil, err
	}

	board := d.grouper.FilterAndGroup(views, status, series)
	switch {
	case res.Kind == models.ResultSourceUnavailable:
		board.Result = models.ResultSourceUnavailable
	case board.Len() == 0:
		board.Result = models.ResultEmpty
	default:
		board.Result = models.ResultOK
	}

	diag := models.Diagnostics{
		RefreshID: id,
		Source:    d.source.Name(),
		Result:    board.Result,
		Raw:       len(res.Records),
		Accepted:  len(views),
		Dropped:   dropped,
		Shown:     board.Len(),
		Elapsed:   time.Since(start),
	}
	if res.Err != nil {
		diag.Error = res.Err.Error()
	}
	if d.diagnostics {
		board.Diagnostics = &diag
	}

	d.logger.Info("refresh %s: source=%s status=%s result=%s raw=%d shown=%d dropped=%d in %v",
		id, diag.Source, status, board.Result, diag.Raw, diag.Shown, diag.Dropped, diag.Elapsed.Round(time.Millisecond))

	event := models.NewRefreshEvent(&board, diag)
	for _, sink := range d.sinks {
		if err := sink.OnRefresh(ctx, &board, event); err != nil {
			d.logger.Warn("sink %s failed: %v", sink.Name(), err)
		}
	}

	return &board, nil
}

// attachLive fetches in-play detail for in-progress matches the filter keeps.
// A failed fetch leaves the view as normalized.
func (d *Dashboard) attachLive(ctx context.Context, views []models.MatchView, status models.StatusFilter) []models.MatchView {
	ls, ok := d.source.(LiveSource)
	if !ok || (status != models.FilterLive && status != models.FilterAll) {
		return views
	}

	for i, v := range views {
		if v.StateCode != "inprogress" || !MatchesStatus(v, status) {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		snap, err := ls.FetchLive(ctx, v.MatchID)
		if err != nil {
			d.logger.Debug("live detail for %s unavailable: %v", v.MatchID, err)
			continue
		}
		views[i] = ApplyLiveSnapshot(v, snap)
	}
	return views
}
