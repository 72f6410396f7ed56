package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// WebhookPublisher delivers outbound prompts and awards to the chat
// platform bridge as JSON POSTs. It implements game.Publisher.
type WebhookPublisher struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhookPublisher creates a publisher posting to the given webhook URL.
func NewWebhookPublisher(url string, logger *slog.Logger) *WebhookPublisher {
	return &WebhookPublisher{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// OutboundMessage is the wire format the chat bridge accepts.
type OutboundMessage struct {
	ChannelID string `json:"channel_id"`
	Text      string `json:"text,omitempty"`
	AssetPath string `json:"asset_path,omitempty"`
}

func (p *WebhookPublisher) PublishText(ctx context.Context, channelID, text string) error {
	return p.post(ctx, OutboundMessage{ChannelID: channelID, Text: text})
}

func (p *WebhookPublisher) PublishAsset(ctx context.Context, channelID, assetPath string) error {
	return p.post(ctx, OutboundMessage{ChannelID: channelID, AssetPath: assetPath})
}

func (p *WebhookPublisher) post(ctx context.Context, msg OutboundMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("Webhook request failed", "error", err, "channel_id", msg.ChannelID)
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Error("Webhook rejected message", "status", resp.StatusCode, "channel_id", msg.ChannelID)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	p.logger.Debug("Outbound message delivered", "channel_id", msg.ChannelID)
	return nil
}
