package handlers

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// stubPublisher records published prompts and awards for assertions.
type stubPublisher struct {
	mu     sync.Mutex
	texts  []string
	assets []string
}

func (p *stubPublisher) PublishText(ctx context.Context, channelID, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts = append(p.texts, text)
	return nil
}

func (p *stubPublisher) PublishAsset(ctx context.Context, channelID, assetPath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assets = append(p.assets, assetPath)
	return nil
}
