package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cricket-hub/pkg/common"
	"cricket-hub/pkg/models"
)

// TTL constants
const (
	LiveBoardTTL  = 2 * time.Minute
	BoardTTL      = 15 * time.Minute
	LiveIDsTTL    = 2 * time.Minute
	liveIDsKey    = "matches:live"
	boardKeyStart = "board:latest:"
)

// BoardCache keeps the last good board per status filter in Redis.
type BoardCache struct {
	client *redis.Client
}

// NewBoardCache wraps an existing client.
func NewBoardCache(client *redis.Client) *BoardCache {
	return &BoardCache{client: client}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// BoardKey returns the key holding the latest board for a status filter.
func BoardKey(status models.StatusFilter) string {
	return boardKeyStart + strings.ToLower(string(status))
}

// TTLFor returns how long a board for the given filter stays cached.
func TTLFor(status models.StatusFilter) time.Duration {
	if status == models.FilterLive {
		return LiveBoardTTL
	}
	return BoardTTL
}

func (c *BoardCache) Name() string { return "redis" }

// OnRefresh stores the board unless the source was unavailable, so readers
// keep seeing the last good one. Series-filtered boards are partial and are
// not cached under the status key.
func (c *BoardCache) OnRefresh(ctx context.Context, board *models.Board, event models.RefreshEvent) error {
	if board.Result == models.ResultSourceUnavailable || board.SeriesFilter != "" {
		return nil
	}
	return c.WriteBoard(ctx, board, event.LiveIDs)
}

// WriteBoard stores the board and, for live-capable filters, the live match IDs.
func (c *BoardCache) WriteBoard(ctx context.Context, board *models.Board, liveIDs []string) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshaling board: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, BoardKey(board.Status), data, TTLFor(board.Status))
	if board.Status == models.FilterLive || board.Status == models.FilterAll {
		values := make([]interface{}, len(liveIDs))
		for i, id := range liveIDs {
			values[i] = id
		}
		pipe.Del(ctx, liveIDsKey)
		if len(values) > 0 {
			pipe.SAdd(ctx, liveIDsKey, values...)
		}
		pipe.Expire(ctx, liveIDsKey, LiveIDsTTL)
	}

	_, err = pipe.Exec(ctx)
	return err
}

// Latest returns the cached board for a filter, or common.ErrNotFound.
func (c *BoardCache) Latest(ctx context.Context, status models.StatusFilter) (*models.Board, error) {
	data, err := c.client.Get(ctx, BoardKey(status)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("no cached %s board", status), common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading board: %w", err)
	}

	var board models.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("unmarshaling board: %w", err)
	}
	return &board, nil
}

// LiveIDs returns the match IDs seen live in the last live-capable refresh.
func (c *BoardCache) LiveIDs(ctx context.Context) ([]string, error) {
	return c.client.SMembers(ctx, liveIDsKey).Result()
}
