package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/joinemm/quotegame/pkg/challenge"
	"github.com/joinemm/quotegame/pkg/document"
	"github.com/joinemm/quotegame/pkg/selector"
)

// ErrUnauthorized is returned when a caller outside the whitelist (and
// not the owner) forces a spawn.
var ErrUnauthorized = errors.New("caller is not permitted to force a spawn")

// Store is the persistence surface the scheduler needs.
type Store interface {
	Settings(ctx context.Context) (document.Settings, error)
	ListChallenges(ctx context.Context) ([]challenge.Definition, error)
	Weights(ctx context.Context) ([]int, error)
	AddItem(ctx context.Context, userID, item string, amount int) error
	IsWhitelisted(ctx context.Context, userID string) (bool, error)
	PickRandomAsset(ctx context.Context) (string, error)
}

// Publisher delivers outbound prompts and awards to the chat platform.
type Publisher interface {
	PublishText(ctx context.Context, channelID, text string) error
	PublishAsset(ctx context.Context, channelID, assetPath string) error
}

// Scheduler is the per-deployment spawn state machine. It counts
// inbound messages, spawns a challenge once the count passes a
// randomized threshold, and matches replies against the open challenge.
// State is process-local: a restart forgets an unanswered challenge.
type Scheduler struct {
	store     Store
	publisher Publisher
	rng       *rand.Rand
	log       *slog.Logger
	ownerID   string

	mu        sync.Mutex
	counter   int
	threshold int
	open      *challenge.Definition
	spawnID   uuid.UUID
	spawning  bool
}

// NewScheduler creates a scheduler and draws the initial spawn
// threshold from the configured frequency range.
func NewScheduler(ctx context.Context, store Store, publisher Publisher, ownerID string, rng *rand.Rand, log *slog.Logger) (*Scheduler, error) {
	settings, err := store.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	s := &Scheduler{
		store:     store,
		publisher: publisher,
		rng:       rng,
		log:       log,
		ownerID:   ownerID,
		threshold: selector.DrawThreshold(rng, settings.FrequencyOrDefault()),
	}
	log.Info("Spawn scheduler ready", "threshold", s.threshold)
	return s, nil
}

// Status returns the message count since the last spawn and the
// current spawn threshold.
func (s *Scheduler) Status() (counter, threshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter, s.threshold
}

// HandleMessage processes one inbound message: it always increments
// the counter, credits the sender when the message answers the open
// challenge, and otherwise spawns a new challenge once the counter
// passes the threshold.
func (s *Scheduler) HandleMessage(ctx context.Context, msg Message) (Result, error) {
	if err := msg.Validate(); err != nil {
		return Result{}, err
	}

	settings, err := s.store.Settings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read settings: %w", err)
	}
	// spawns and awards go to the configured channel, falling back to
	// the channel the message arrived in
	channelID := settings.Channel
	if channelID == "" {
		channelID = msg.ChannelID
	}
	channelOK := settings.Channel == "" || msg.ChannelID == settings.Channel

	s.mu.Lock()
	s.counter++

	var claimed *challenge.Definition
	var spawnID uuid.UUID
	if s.open != nil && channelOK && answersMatch(msg.Text, s.open.Answer) {
		claimed = s.open
		spawnID = s.spawnID
		s.open = nil
	}

	shouldSpawn := claimed == nil && s.open == nil && s.counter > s.threshold && !s.spawning
	if shouldSpawn {
		s.spawning = true
	}
	s.mu.Unlock()

	if claimed != nil {
		return s.credit(ctx, msg, claimed, spawnID, channelID)
	}
	if shouldSpawn {
		return s.spawn(ctx, channelID, settings.FrequencyOrDefault())
	}
	return Result{}, nil
}

// ForceSpawn triggers a spawn for a whitelisted caller (the owner is
// always permitted). When no destination channel is configured it only
// pushes the counter past the threshold, so the spawn fires on the
// next message in whatever channel it arrives.
func (s *Scheduler) ForceSpawn(ctx context.Context, callerID string) (Result, error) {
	authorized := callerID != "" && callerID == s.ownerID
	if !authorized {
		ok, err := s.store.IsWhitelisted(ctx, callerID)
		if err != nil {
			return Result{}, fmt.Errorf("failed to check whitelist: %w", err)
		}
		authorized = ok
	}
	if !authorized {
		return Result{}, ErrUnauthorized
	}

	settings, err := s.store.Settings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read settings: %w", err)
	}

	s.mu.Lock()
	if s.open != nil || s.spawning {
		s.mu.Unlock()
		s.log.Info("Forced spawn ignored, challenge already open", "caller_id", callerID)
		return Result{}, nil
	}
	s.counter = s.threshold + 1
	if settings.Channel == "" {
		s.mu.Unlock()
		s.log.Info("Forced spawn armed for next message", "caller_id", callerID)
		return Result{}, nil
	}
	s.spawning = true
	s.mu.Unlock()

	return s.spawn(ctx, settings.Channel, settings.FrequencyOrDefault())
}

// spawn publishes a freshly selected challenge. The caller has already
// set the spawning guard; it is released on every exit path.
func (s *Scheduler) spawn(ctx context.Context, channelID string, freq document.FrequencyRange) (Result, error) {
	defer func() {
		s.mu.Lock()
		s.spawning = false
		s.mu.Unlock()
	}()

	pool, err := s.store.ListChallenges(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list challenges: %w", err)
	}
	weights, err := s.store.Weights(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read weights: %w", err)
	}

	def, err := selector.PickOne(s.rng, pool, weights)
	if err != nil {
		if errors.Is(err, selector.ErrEmptyPool) {
			s.log.Warn("No challenges configured, skipping spawn")
			return Result{}, nil
		}
		return Result{}, err
	}

	if def.Kind() == challenge.KindImage {
		err = s.publisher.PublishAsset(ctx, channelID, def.PromptAsset)
	} else {
		err = s.publisher.PublishText(ctx, channelID, def.Question)
	}
	if err != nil {
		// the spawn never happened: counter and threshold are untouched
		return Result{}, fmt.Errorf("failed to publish challenge: %w", err)
	}

	id := uuid.New()
	next := selector.DrawThreshold(s.rng, freq)
	s.mu.Lock()
	s.open = &def
	s.spawnID = id
	s.counter = 0
	s.threshold = next
	s.mu.Unlock()

	s.log.Info("Challenge spawned",
		"spawn_id", id,
		"key", def.Key(),
		"channel_id", channelID,
		"next_threshold", next)
	return Result{Spawned: true, SpawnID: id.String()}, nil
}

// credit awards the item for a correctly answered challenge: the fixed
// response asset for image challenges, a random asset draw otherwise.
// If the award cannot be granted the challenge reopens, so a correct
// answer is never silently swallowed.
func (s *Scheduler) credit(ctx context.Context, msg Message, def *challenge.Definition, spawnID uuid.UUID, channelID string) (Result, error) {
	item := def.ResponseAsset
	if item == "" {
		var err error
		item, err = s.store.PickRandomAsset(ctx)
		if err != nil {
			s.reopen(def, spawnID)
			return Result{}, fmt.Errorf("failed to draw award asset: %w", err)
		}
	}

	if err := s.store.AddItem(ctx, msg.UserID, item, 1); err != nil {
		s.reopen(def, spawnID)
		return Result{}, fmt.Errorf("failed to credit %s: %w", msg.UserID, err)
	}

	if err := s.publisher.PublishAsset(ctx, channelID, item); err != nil {
		// the credit is persisted; delivery is the transport's problem
		s.log.Error("Failed to publish award", "error", err, "spawn_id", spawnID, "item", item)
	}

	s.log.Info("Challenge answered",
		"spawn_id", spawnID,
		"user_id", msg.UserID,
		"item", item)
	return Result{Matched: true, AwardedItem: item}, nil
}

// reopen restores a claimed challenge after a failed credit, unless a
// new one was opened in the meantime.
func (s *Scheduler) reopen(def *challenge.Definition, spawnID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == nil {
		s.open = def
		s.spawnID = spawnID
	}
}

// answersMatch compares an incoming reply to the stored answer:
// leading/trailing whitespace trimmed, then full Unicode case folding
// on both sides.
func answersMatch(text, answer string) bool {
	return challenge.Fold(strings.TrimSpace(text)) == challenge.Fold(answer)
}
