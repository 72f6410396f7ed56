package storage

import (
	"context"
	"sync"

	"github.com/joinemm/quotegame/pkg/challenge"
	"github.com/joinemm/quotegame/pkg/document"
	"github.com/joinemm/quotegame/pkg/inventory"
)

// MockStorage is an in-memory implementation of Storage for testing.
type MockStorage struct {
	mu        sync.RWMutex
	doc       *document.Document
	pingError error
	saveError error

	randomAsset      string
	randomAssetError error
	referenceAssets  map[string]string
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		doc:             document.New(),
		referenceAssets: make(map[string]string),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures every mutation to fail with the given error
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetRandomAsset configures the asset returned by PickRandomAsset
func (m *MockStorage) SetRandomAsset(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.randomAsset = path
	m.randomAssetError = nil
}

// SetRandomAssetError configures PickRandomAsset to fail
func (m *MockStorage) SetRandomAssetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.randomAssetError = err
}

// SetReferenceAsset registers a reference replacement for an asset path
func (m *MockStorage) SetReferenceAsset(assetPath, replacement string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.referenceAssets[assetPath] = replacement
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) Settings(ctx context.Context) (document.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Settings, nil
}

func (m *MockStorage) SetFrequency(ctx context.Context, freq document.FrequencyRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.doc.Settings.Frequency = &freq
	return nil
}

func (m *MockStorage) SetChannel(ctx context.Context, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.doc.Settings.Channel = channelID
	return nil
}

func (m *MockStorage) ListChallenges(ctx context.Context) ([]challenge.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]challenge.Definition, len(m.doc.Challenges))
	copy(out, m.doc.Challenges)
	return out, nil
}

func (m *MockStorage) Weights(ctx context.Context) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	weights := make([]int, len(m.doc.Challenges))
	for i, def := range m.doc.Challenges {
		weights[i] = def.EffectiveWeight()
	}
	return weights, nil
}

func (m *MockStorage) AddChallenge(ctx context.Context, def challenge.Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.doc.Challenges = append(m.doc.Challenges, def)
	return nil
}

func (m *MockStorage) RemoveChallenge(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return false, m.saveError
	}
	for i, def := range m.doc.Challenges {
		if challenge.KeysEqual(def.Key(), key) {
			m.doc.Challenges = append(m.doc.Challenges[:i], m.doc.Challenges[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockStorage) GetInventory(ctx context.Context, userID string) (inventory.Inventory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.doc.Users[userID]
	if !ok {
		return inventory.Inventory{}, nil
	}
	return inv.Clone(), nil
}

func (m *MockStorage) AddItem(ctx context.Context, userID, item string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	inv, ok := m.doc.Users[userID]
	if !ok {
		inv = inventory.Inventory{}
		m.doc.Users[userID] = inv
	}
	inventory.Add(inv, item, amount)
	if len(inv) == 0 {
		delete(m.doc.Users, userID)
	}
	return nil
}

func (m *MockStorage) RemoveItem(ctx context.Context, userID, item string, amount int, deleteAll bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return false, m.saveError
	}
	inv, ok := m.doc.Users[userID]
	if !ok {
		return false, nil
	}
	removed := inventory.Remove(inv, item, amount, deleteAll)
	if len(inv) == 0 {
		delete(m.doc.Users, userID)
	}
	return removed, nil
}

func (m *MockStorage) Leaderboard(ctx context.Context) ([]inventory.Total, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return inventory.Totals(m.doc.Users), nil
}

func (m *MockStorage) WhitelistAdd(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	for _, id := range m.doc.Whitelist {
		if id == userID {
			return nil
		}
	}
	m.doc.Whitelist = append(m.doc.Whitelist, userID)
	return nil
}

func (m *MockStorage) WhitelistRemove(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return false, m.saveError
	}
	for i, id := range m.doc.Whitelist {
		if id == userID {
			m.doc.Whitelist = append(m.doc.Whitelist[:i], m.doc.Whitelist[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockStorage) IsWhitelisted(ctx context.Context, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.doc.Whitelist {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockStorage) PickRandomAsset(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.randomAssetError != nil {
		return "", m.randomAssetError
	}
	if m.randomAsset == "" {
		return "", ErrNoAssets
	}
	return m.randomAsset, nil
}

func (m *MockStorage) ResolveReferenceAsset(assetPath string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	replacement, ok := m.referenceAssets[assetPath]
	return replacement, ok
}
