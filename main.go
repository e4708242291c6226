package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"cricket-hub/cache"
	"cricket-hub/config"
	"cricket-hub/cricbuzz"
	"cricket-hub/database"
	"cricket-hub/feed"
	"cricket-hub/logger"
	"cricket-hub/pkg/common"
	"cricket-hub/pkg/models"
	"cricket-hub/services"
	"cricket-hub/web"
)

const sinkQueueSize = 32

func main() {
	logger.Println("Starting Cricket Hub...")

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	logger.SetDebug(cfg.Debug)

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := newSource(cfg)
	hub := web.NewHub()
	go hub.Run(ctx)

	dashboard := services.NewDashboard(source, services.NewGrouper(loc, time.Now),
		services.WithDiagnostics(cfg.ShowDiagnostics),
		services.WithLogger(common.NewLogger("Dashboard", cfg.Debug)),
		services.WithSinks(hub),
	)

	var serverOpts []web.ServerOption

	// 慢速 sink 在各自的队列中异步执行，不阻塞请求
	queued := func(sink services.RefreshSink) services.RefreshSink {
		q := services.NewSinkQueue(sink, sinkQueueSize, common.NewLogger("SinkQueue", cfg.Debug))
		go q.Run(ctx)
		return q
	}

	// 可选: PostgreSQL 刷新记录
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Println("[Database] ✅ Connected and migrated")

		store := services.NewRefreshStore(db)
		dashboard.AddSink(queued(store))
		serverOpts = append(serverOpts, web.WithHistory(store))
	}

	// 可选: Redis 最新看板缓存
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Errorf("[Redis] ❌ %v, board cache disabled", err)
		} else {
			defer client.Close()
			boards := cache.NewBoardCache(client)
			dashboard.AddSink(queued(boards))
			serverOpts = append(serverOpts, web.WithBoardReader(boards))
			logger.Println("[Redis] ✅ Board cache enabled")
		}
	}

	// 可选: AMQP 刷新事件
	if cfg.AMQPURL != "" {
		publisher := services.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		defer publisher.Close()
		dashboard.AddSink(queued(publisher))
	}

	// 可选: 数据源故障通知
	var notifiers []services.Notifier
	larkNotifier := services.NewLarkNotifier(cfg.LarkWebhook)
	if larkNotifier.Enabled() {
		notifiers = append(notifiers, larkNotifier)
	}
	if cfg.TelegramToken != "" {
		tg, err := services.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Errorf("[Telegram] ❌ %v, alerts disabled", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	if len(notifiers) > 0 {
		dashboard.AddSink(queued(services.NewAlertSink(notifiers...)))
	}

	// 启动Web服务器
	server := web.NewServer(cfg, dashboard, hub, serverOpts...)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Web server error: %v", err)
		}
	}()

	if err := larkNotifier.NotifyServiceStart(dashboard.SourceName(), cfg.Port); err != nil {
		logger.Errorf("Failed to send startup notification: %v", err)
	}

	// 定时刷新并推送给 WebSocket 客户端
	if interval := cfg.AutoRefresh(); interval > 0 {
		go autoRefresh(ctx, dashboard, interval)
		logger.Printf("Auto refresh every %v", interval)
	}

	logger.Printf("Cricket Hub started (source: %s, timezone: %s)", dashboard.SourceName(), loc)

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down...")
	cancel()
	server.Stop()
	logger.Println("Cricket Hub stopped")
}

func newSource(cfg *config.Config) services.Source {
	switch cfg.Source {
	case config.SourceLibrary:
		return services.NewLibrarySource(cricbuzz.NewClientWithConfig(cricbuzz.Config{
			LibraryBaseURL: cfg.LibraryBaseURL,
			Timeout:        cfg.FetchTimeout,
		}))
	case config.SourceFeed:
		return services.NewFeedSource(feed.NewClient(cfg.FeedURL, cfg.FetchTimeout))
	default:
		client := cricbuzz.NewClientWithConfig(cricbuzz.Config{
			RESTBaseURL: cfg.RESTBaseURL,
			RESTHost:    cfg.RESTHost,
			APIKey:      cfg.RapidAPIKey,
			Timeout:     cfg.FetchTimeout,
		})
		return services.NewRESTSource(client, services.ParseScoreStyle(cfg.ScoreStyle))
	}
}

// autoRefresh refreshes every status filter on each tick; boards reach
// websocket clients through the hub sink.
func autoRefresh(ctx context.Context, dashboard *services.Dashboard, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, status := range models.StatusFilters {
				if _, err := dashboard.Refresh(ctx, status, ""); err != nil {
					return
				}
			}
		}
	}
}
