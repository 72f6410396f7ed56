package storage

import (
	"context"
	"errors"

	"github.com/joinemm/quotegame/pkg/challenge"
	"github.com/joinemm/quotegame/pkg/document"
	"github.com/joinemm/quotegame/pkg/inventory"
)

// ErrNoAssets is returned when the award asset pool is empty.
var ErrNoAssets = errors.New("no assets available")

// Storage is the persistence surface for settings, the challenge pool,
// per-user inventories, the spawn whitelist and award assets. Every
// mutation is a write-through save of the whole state document;
// implementations serialize mutations (single-writer discipline).
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	// Settings
	Settings(ctx context.Context) (document.Settings, error)
	SetFrequency(ctx context.Context, freq document.FrequencyRange) error
	SetChannel(ctx context.Context, channelID string) error

	// Challenge pool. Weights aligns by index with ListChallenges,
	// defaulting to 1 for definitions that omit a weight.
	ListChallenges(ctx context.Context) ([]challenge.Definition, error)
	Weights(ctx context.Context) ([]int, error)
	AddChallenge(ctx context.Context, def challenge.Definition) error
	RemoveChallenge(ctx context.Context, key string) (bool, error)

	// Inventories. GetInventory performs on-read repair of entries
	// whose backing asset file has gone missing.
	GetInventory(ctx context.Context, userID string) (inventory.Inventory, error)
	AddItem(ctx context.Context, userID, item string, amount int) error
	RemoveItem(ctx context.Context, userID, item string, amount int, deleteAll bool) (bool, error)
	Leaderboard(ctx context.Context) ([]inventory.Total, error)

	// Whitelist
	WhitelistAdd(ctx context.Context, userID string) error
	WhitelistRemove(ctx context.Context, userID string) (bool, error)
	IsWhitelisted(ctx context.Context, userID string) (bool, error)

	// Award assets
	PickRandomAsset(ctx context.Context) (string, error)
	ResolveReferenceAsset(assetPath string) (string, bool)
}
