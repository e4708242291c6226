package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"cricket-hub/logger"
	"cricket-hub/pkg/models"
)

const (
	amqpDialTimeout   = 2 * time.Second
	amqpRedialBackoff = 30 * time.Second
)

// AMQPPublisher 将每次刷新结果发布到 topic exchange
type AMQPPublisher struct {
	url      string
	exchange string
	dial     func(url string, cfg amqp.Config) (*amqp.Connection, error)
	now      func() time.Time

	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	nextDial time.Time // 连接失败后，在此之前不再重连
}

// NewAMQPPublisher 创建发布器，连接在首次发布时建立
func NewAMQPPublisher(url, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		url:      url,
		exchange: exchange,
		dial:     amqp.DialConfig,
		now:      time.Now,
	}
}

func (p *AMQPPublisher) Name() string { return "amqp" }

// RoutingKey returns refresh.<status> in lower case, e.g. refresh.live.
func RoutingKey(event models.RefreshEvent) string {
	return "refresh." + strings.ToLower(string(event.Status))
}

// connect 建立连接并声明 exchange
func (p *AMQPPublisher) connect() (*amqp.Channel, error) {
	if p.channel != nil {
		return p.channel, nil
	}
	if now := p.now(); now.Before(p.nextDial) {
		return nil, fmt.Errorf("AMQP unavailable, next dial in %v", p.nextDial.Sub(now).Round(time.Second))
	}

	conn, err := p.dial(p.url, amqp.Config{
		Heartbeat: 30 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(amqpDialTimeout),
	})
	if err != nil {
		p.nextDial = p.now().Add(amqpRedialBackoff)
		logger.Errorf("[AMQP] ❌ Dial failed, retrying after %v: %v", amqpRedialBackoff, err)
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Printf("[AMQP] ✅ Connected, publishing to exchange %s", p.exchange)
	p.nextDial = time.Time{}
	p.conn = conn
	p.channel = channel
	return channel, nil
}

// OnRefresh publishes the event. A failed publish drops the connection so the
// next refresh redials.
func (p *AMQPPublisher) OnRefresh(_ context.Context, _ *models.Board, event models.RefreshEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	channel, err := p.connect()
	if err != nil {
		return err
	}

	err = channel.Publish(p.exchange, RoutingKey(event), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		MessageId:    event.ID,
		Timestamp:    event.Timestamp,
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		logger.Errorf("[AMQP] ❌ Publish failed: %v", err)
		p.reset()
		return fmt.Errorf("failed to publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) reset() {
	if p.conn != nil {
		p.conn.Close()
	}
	p.conn = nil
	p.channel = nil
}

// Close 关闭连接
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	logger.Println("[AMQP] Closing publisher...")
	p.reset()
}
