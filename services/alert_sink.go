package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cricket-hub/pkg/models"
)

// Notifier sends a text alert somewhere.
type Notifier interface {
	Name() string
	SendText(text string) error
}

// AlertSink notifies when a source goes down and when it comes back. Only
// transitions are reported, not every failed refresh.
type AlertSink struct {
	notifiers []Notifier

	mu   sync.Mutex
	down map[string]time.Time
}

func NewAlertSink(notifiers ...Notifier) *AlertSink {
	return &AlertSink{
		notifiers: notifiers,
		down:      make(map[string]time.Time),
	}
}

func (s *AlertSink) Name() string { return "alerts" }

func (s *AlertSink) OnRefresh(_ context.Context, board *models.Board, event models.RefreshEvent) error {
	text, ok := s.transition(event.Source, board.Result == models.ResultSourceUnavailable, event.Timestamp)
	if !ok {
		return nil
	}

	var errs []error
	for _, n := range s.notifiers {
		if err := n.SendText(text); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *AlertSink) transition(source string, unavailable bool, at time.Time) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	since, wasDown := s.down[source]
	switch {
	case unavailable && !wasDown:
		s.down[source] = at
		return fmt.Sprintf("❌ Cricket source %q is unavailable (since %s)", source, at.Format("15:04")), true
	case !unavailable && wasDown:
		delete(s.down, source)
		return fmt.Sprintf("✅ Cricket source %q recovered after %v", source, at.Sub(since).Round(time.Second)), true
	}
	return "", false
}
