package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"cricket-hub/pkg/models"
)

func newMockStore(t *testing.T) (*RefreshStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRefreshStore(db), mock
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 20},
		{-5, 20},
		{1, 1},
		{50, 50},
		{1000, 200},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSaveRefreshInsertsEventColumns(t *testing.T) {
	store, mock := newMockStore(t)

	event := models.RefreshEvent{
		ID:        "refresh-1",
		Source:    "rest",
		Status:    models.FilterLive,
		Result:    models.ResultOK,
		Raw:       5,
		Accepted:  4,
		Dropped:   1,
		Matches:   3,
		LiveIDs:   []string{"7", "9"},
		Elapsed:   1500 * time.Millisecond,
		Timestamp: testNow,
	}
	mock.ExpectExec(`INSERT INTO refresh_log`).
		WithArgs("refresh-1", "rest", "Live", "ok", nil, 5, 4, 1, 3, `{"7","9"}`, int64(1500), testNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.OnRefresh(context.Background(), &models.Board{}, event); err != nil {
		t.Fatalf("OnRefresh: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSaveRefreshStoresSourceError(t *testing.T) {
	store, mock := newMockStore(t)

	event := models.RefreshEvent{
		ID:        "refresh-2",
		Source:    "rest",
		Status:    models.FilterAll,
		Result:    models.ResultSourceUnavailable,
		Error:     "source unavailable: 503",
		Timestamp: testNow,
	}
	mock.ExpectExec(`INSERT INTO refresh_log`).
		WithArgs("refresh-2", "rest", "All", string(models.ResultSourceUnavailable), "source unavailable: 503",
			0, 0, 0, 0, nil, int64(0), testNow).
		WillReturnResult(sqlmock.NewResult(2, 1))

	if err := store.SaveRefresh(context.Background(), event); err != nil {
		t.Fatalf("SaveRefresh: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRecentScansRows(t *testing.T) {
	store, mock := newMockStore(t)

	columns := []string{"id", "refresh_id", "source", "status_filter", "result", "error",
		"raw_count", "accepted_count", "dropped_count", "shown_count", "live_ids", "elapsed_ms", "refreshed_at"}
	rows := sqlmock.NewRows(columns).
		AddRow(int64(2), "refresh-2", "rest", "Live", "source_unavailable", "source unavailable", 0, 0, 0, 0, []byte("{}"), int64(30), testNow).
		AddRow(int64(1), "refresh-1", "rest", "Live", "ok", nil, 5, 4, 1, 3, []byte(`{"7","9"}`), int64(1500), testNow.Add(-time.Minute))
	mock.ExpectQuery(`SELECT .+ FROM refresh_log`).WithArgs(20).WillReturnRows(rows)

	logs, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs", len(logs))
	}
	if logs[0].Error == nil || *logs[0].Error != "source unavailable" || len(logs[0].LiveIDs) != 0 {
		t.Errorf("first log = %+v", logs[0])
	}
	if logs[1].Error != nil || strings.Join(logs[1].LiveIDs, ",") != "7,9" || logs[1].ElapsedMs != 1500 {
		t.Errorf("second log = %+v", logs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
