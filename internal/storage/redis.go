package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/joinemm/quotegame/pkg/challenge"
	"github.com/joinemm/quotegame/pkg/document"
	"github.com/joinemm/quotegame/pkg/inventory"
)

// RedisStorage implements the Storage interface using Redis for the
// state document and the filesystem for award assets. The document is
// held in memory and written through as a whole on every mutation; a
// failed write leaves the in-memory copy at the last persisted state.
type RedisStorage struct {
	client *redis.Client
	key    string
	assets *AssetLibrary
	logger *slog.Logger

	mu  sync.Mutex
	doc *document.Document
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. Call Load
// before use to read the persisted document.
func NewRedisStorage(redisURL, stateKey string, assets *AssetLibrary, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStorage{
		client: rdb,
		key:    stateKey,
		assets: assets,
		logger: logger,
		doc:    document.New(),
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Load reads and validates the persisted state document. A missing key
// starts a fresh document.
func (r *RedisStorage) Load(ctx context.Context) error {
	cmd := r.client.Get(ctx, r.key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Info("No state document found, starting fresh", "key", r.key)
			return nil
		}
		return fmt.Errorf("failed to load state document: %w", err)
	}

	doc, err := document.Load([]byte(cmd.Val()))
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.doc = doc
	r.mu.Unlock()

	r.logger.Info("State document loaded",
		"key", r.key,
		"challenges", len(doc.Challenges),
		"users", len(doc.Users))
	return nil
}

// persistLocked writes next to Redis and swaps it in. Callers hold r.mu.
func (r *RedisStorage) persistLocked(ctx context.Context, next *document.Document) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal state document: %w", err)
	}

	if err := r.client.Set(ctx, r.key, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save state document", "error", err)
		return fmt.Errorf("failed to save state document: %w", err)
	}

	r.doc = next
	return nil
}

// mutate clones the document, applies the change and persists it.
func (r *RedisStorage) mutate(ctx context.Context, apply func(doc *document.Document) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.doc.Clone()
	if err := apply(next); err != nil {
		return err
	}
	return r.persistLocked(ctx, next)
}

// Settings operations

func (r *RedisStorage) Settings(ctx context.Context) (document.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings := r.doc.Settings
	if settings.Frequency != nil {
		freq := *settings.Frequency
		settings.Frequency = &freq
	}
	return settings, nil
}

func (r *RedisStorage) SetFrequency(ctx context.Context, freq document.FrequencyRange) error {
	if err := freq.Validate(); err != nil {
		return fmt.Errorf("%w: %s", document.ErrMalformedSetting, err)
	}
	return r.mutate(ctx, func(doc *document.Document) error {
		doc.Settings.Frequency = &freq
		return nil
	})
}

func (r *RedisStorage) SetChannel(ctx context.Context, channelID string) error {
	return r.mutate(ctx, func(doc *document.Document) error {
		doc.Settings.Channel = channelID
		return nil
	})
}

// Challenge pool operations

func (r *RedisStorage) ListChallenges(ctx context.Context) ([]challenge.Definition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]challenge.Definition, len(r.doc.Challenges))
	copy(out, r.doc.Challenges)
	return out, nil
}

func (r *RedisStorage) Weights(ctx context.Context) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	weights := make([]int, len(r.doc.Challenges))
	for i, def := range r.doc.Challenges {
		weights[i] = def.EffectiveWeight()
	}
	return weights, nil
}

func (r *RedisStorage) AddChallenge(ctx context.Context, def challenge.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	return r.mutate(ctx, func(doc *document.Document) error {
		doc.Challenges = append(doc.Challenges, def)
		return nil
	})
}

// RemoveChallenge scans the whole pool and removes the first entry
// whose key matches case-insensitively. It reports whether a match was
// found; a miss is not persisted.
func (r *RedisStorage) RemoveChallenge(ctx context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, def := range r.doc.Challenges {
		if challenge.KeysEqual(def.Key(), key) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	next := r.doc.Clone()
	next.Challenges = append(next.Challenges[:idx], next.Challenges[idx+1:]...)
	if err := r.persistLocked(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Inventory operations

// GetInventory returns the user's inventory after on-read repair: an
// entry whose backing asset file is missing migrates its quantity to
// the reference replacement, or is dropped when none resolves.
// Challenge-identity keys carry no backing file and are never repaired.
func (r *RedisStorage) GetInventory(ctx context.Context, userID string) (inventory.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.doc.Users[userID]
	if !ok {
		return inventory.Inventory{}, nil
	}

	type migration struct {
		from string
		to   string // empty means drop
	}
	var stale []migration
	for item := range inv {
		if !isAssetKey(item) || r.assets.Exists(item) {
			continue
		}
		replacement, _ := r.assets.ResolveReference(item)
		stale = append(stale, migration{from: item, to: replacement})
	}

	if len(stale) == 0 {
		return inv.Clone(), nil
	}

	next := r.doc.Clone()
	repaired := next.Users[userID]
	for _, m := range stale {
		qty := repaired[m.from]
		delete(repaired, m.from)
		if m.to != "" {
			inventory.Add(repaired, m.to, qty)
			r.logger.Info("Migrated stale inventory item to reference asset",
				"user_id", userID, "from", m.from, "to", m.to, "quantity", qty)
		} else {
			r.logger.Warn("Dropped inventory item with missing asset",
				"user_id", userID, "item", m.from, "quantity", qty)
		}
	}
	if len(repaired) == 0 {
		delete(next.Users, userID)
	}

	if err := r.persistLocked(ctx, next); err != nil {
		return nil, err
	}
	return repaired.Clone(), nil
}

func (r *RedisStorage) AddItem(ctx context.Context, userID, item string, amount int) error {
	return r.mutate(ctx, func(doc *document.Document) error {
		inv, ok := doc.Users[userID]
		if !ok {
			inv = inventory.Inventory{}
			doc.Users[userID] = inv
		}
		inventory.Add(inv, item, amount)
		if len(inv) == 0 {
			delete(doc.Users, userID)
		}
		return nil
	})
}

func (r *RedisStorage) RemoveItem(ctx context.Context, userID, item string, amount int, deleteAll bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.doc.Users[userID]
	if !ok {
		return false, nil
	}
	if _, ok := inv[item]; !ok {
		return false, nil
	}

	next := r.doc.Clone()
	inventory.Remove(next.Users[userID], item, amount, deleteAll)
	if len(next.Users[userID]) == 0 {
		delete(next.Users, userID)
	}
	if err := r.persistLocked(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisStorage) Leaderboard(ctx context.Context) ([]inventory.Total, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return inventory.Totals(r.doc.Users), nil
}

// Whitelist operations

func (r *RedisStorage) WhitelistAdd(ctx context.Context, userID string) error {
	return r.mutate(ctx, func(doc *document.Document) error {
		for _, id := range doc.Whitelist {
			if id == userID {
				return nil
			}
		}
		doc.Whitelist = append(doc.Whitelist, userID)
		return nil
	})
}

func (r *RedisStorage) WhitelistRemove(ctx context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, id := range r.doc.Whitelist {
		if id == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	next := r.doc.Clone()
	next.Whitelist = append(next.Whitelist[:idx], next.Whitelist[idx+1:]...)
	if err := r.persistLocked(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisStorage) IsWhitelisted(ctx context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.doc.Whitelist {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// Asset operations (filesystem-backed)

func (r *RedisStorage) PickRandomAsset(ctx context.Context) (string, error) {
	return r.assets.PickRandom()
}

func (r *RedisStorage) ResolveReferenceAsset(assetPath string) (string, bool) {
	return r.assets.ResolveReference(assetPath)
}

// Users returns the stored user ids in sorted order.
func (r *RedisStorage) Users(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.doc.Users))
	for id := range r.doc.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// isAssetKey reports whether an inventory item key refers to an asset
// file rather than a challenge identity.
func isAssetKey(item string) bool {
	return strings.ContainsRune(item, '/')
}
