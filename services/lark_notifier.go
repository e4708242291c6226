package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cricket-hub/logger"
)

// LarkNotifier 飞书机器人通知器
type LarkNotifier struct {
	webhookURL string
	client     *http.Client
	enabled    bool
}

// NewLarkNotifier 创建飞书通知器
func NewLarkNotifier(webhookURL string) *LarkNotifier {
	enabled := webhookURL != ""
	if enabled {
		logger.Printf("[LarkNotifier] Initialized with webhook")
	} else {
		logger.Printf("[LarkNotifier] Disabled (no webhook URL)")
	}

	return &LarkNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		enabled:    enabled,
	}
}

// LarkMessage 飞书消息结构
type LarkMessage struct {
	MsgType string      `json:"msg_type"`
	Content interface{} `json:"content"`
}

// LarkTextContent 文本消息内容
type LarkTextContent struct {
	Text string `json:"text"`
}

// LarkPostContent 富文本消息内容
type LarkPostContent struct {
	Post LarkPost `json:"post"`
}

type LarkPost struct {
	EnUs LarkPostLang `json:"en_us"`
}

type LarkPostLang struct {
	Title   string          `json:"title"`
	Content [][]LarkElement `json:"content"`
}

type LarkElement struct {
	Tag  string `json:"tag"`
	Text string `json:"text,omitempty"`
	Href string `json:"href,omitempty"`
}

// Name implements Notifier
func (n *LarkNotifier) Name() string { return "lark" }

// Enabled reports whether a webhook is configured
func (n *LarkNotifier) Enabled() bool { return n.enabled }

// SendText 发送文本消息
func (n *LarkNotifier) SendText(text string) error {
	if !n.enabled {
		return nil
	}

	return n.send(LarkMessage{
		MsgType: "text",
		Content: LarkTextContent{Text: text},
	})
}

// SendRichText 发送富文本消息
func (n *LarkNotifier) SendRichText(title string, content [][]LarkElement) error {
	if !n.enabled {
		return nil
	}

	return n.send(LarkMessage{
		MsgType: "post",
		Content: LarkPostContent{
			Post: LarkPost{
				EnUs: LarkPostLang{
					Title:   title,
					Content: content,
				},
			},
		},
	})
}

// send 发送消息
func (n *LarkNotifier) send(message LarkMessage) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// NotifyServiceStart 通知服务启动
func (n *LarkNotifier) NotifyServiceStart(source string, port string) error {
	content := [][]LarkElement{
		{{Tag: "text", Text: "🚀 Cricket hub started\n"}},
		{{Tag: "text", Text: fmt.Sprintf("Source: %s\n", source)}},
		{{Tag: "text", Text: fmt.Sprintf("Port: %s\n", port)}},
		{{Tag: "text", Text: fmt.Sprintf("Time: %s", time.Now().Format("2006-01-02 15:04:05"))}},
	}

	return n.SendRichText("Cricket Hub Started", content)
}
