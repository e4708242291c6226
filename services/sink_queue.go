package services

import (
	"context"
	"fmt"

	"cricket-hub/pkg/common"
	"cricket-hub/pkg/models"
)

type sinkJob struct {
	board models.Board
	event models.RefreshEvent
}

// SinkQueue hands refreshes to a slow sink on its own goroutine so a stalled
// database, cache or broker never holds up the refresh that produced them.
type SinkQueue struct {
	sink   RefreshSink
	jobs   chan sinkJob
	logger common.Logger
}

// NewSinkQueue buffers up to size refreshes for sink. Run must be started.
func NewSinkQueue(sink RefreshSink, size int, logger common.Logger) *SinkQueue {
	if size < 1 {
		size = 1
	}
	return &SinkQueue{
		sink:   sink,
		jobs:   make(chan sinkJob, size),
		logger: logger,
	}
}

func (q *SinkQueue) Name() string { return q.sink.Name() }

// OnRefresh enqueues a copy of the board. When the queue is full the refresh
// is dropped for this sink only.
func (q *SinkQueue) OnRefresh(_ context.Context, board *models.Board, event models.RefreshEvent) error {
	select {
	case q.jobs <- sinkJob{board: *board, event: event}:
		return nil
	default:
		return fmt.Errorf("queue full, dropped refresh %s", event.ID)
	}
}

// Run delivers queued refreshes until ctx ends. Delivery uses ctx, not the
// context of the request that triggered the refresh.
func (q *SinkQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			if err := q.sink.OnRefresh(ctx, &job.board, job.event); err != nil {
				q.logger.Warn("sink %s failed for refresh %s: %v", q.sink.Name(), job.event.ID, err)
			}
		}
	}
}
