package document

import (
	"encoding/json"
	"fmt"

	"github.com/joinemm/quotegame/pkg/challenge"
	"github.com/joinemm/quotegame/pkg/inventory"
)

// Pool keys seen in persisted documents. Deployments historically used
// "quotes" for text pools and "images" for image pools before settling
// on "questions"; the key found on load is reused on save so documents
// round-trip losslessly.
const (
	PoolQuotes    = "quotes"
	PoolImages    = "images"
	PoolQuestions = "questions"
)

// Document is the entire persisted game state: settings, per-user
// inventories, the challenge pool and the spawn whitelist. Every
// mutation persists the whole document (write-through, no buffering).
type Document struct {
	Settings   Settings
	Users      map[string]inventory.Inventory
	Challenges []challenge.Definition
	Whitelist  []string

	poolKey string
}

// New returns an empty document using the default pool key.
func New() *Document {
	return &Document{
		Users:   make(map[string]inventory.Inventory),
		poolKey: PoolQuestions,
	}
}

// PoolKey returns the JSON key the challenge pool is stored under.
func (d *Document) PoolKey() string {
	if d.poolKey == "" {
		return PoolQuestions
	}
	return d.poolKey
}

type documentJSON struct {
	Settings  Settings                       `json:"settings"`
	Users     map[string]inventory.Inventory `json:"users"`
	Quotes    []challenge.Definition         `json:"quotes,omitempty"`
	Images    []challenge.Definition         `json:"images,omitempty"`
	Questions []challenge.Definition         `json:"questions,omitempty"`
	Whitelist []string                       `json:"whitelist,omitempty"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{
		Settings:  d.Settings,
		Users:     d.Users,
		Whitelist: d.Whitelist,
	}
	if out.Users == nil {
		out.Users = map[string]inventory.Inventory{}
	}
	switch d.PoolKey() {
	case PoolQuotes:
		out.Quotes = d.Challenges
	case PoolImages:
		out.Images = d.Challenges
	case PoolQuestions:
		out.Questions = d.Challenges
	default:
		return nil, fmt.Errorf("unknown challenge pool key %q", d.poolKey)
	}
	return json.Marshal(out)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	pools := 0
	d.poolKey = PoolQuestions
	d.Challenges = nil
	if raw.Quotes != nil {
		d.poolKey, d.Challenges = PoolQuotes, raw.Quotes
		pools++
	}
	if raw.Images != nil {
		d.poolKey, d.Challenges = PoolImages, raw.Images
		pools++
	}
	if raw.Questions != nil {
		d.poolKey, d.Challenges = PoolQuestions, raw.Questions
		pools++
	}
	if pools > 1 {
		return fmt.Errorf("document has multiple challenge pools; expected one of %q, %q or %q",
			PoolQuotes, PoolImages, PoolQuestions)
	}

	d.Settings = raw.Settings
	d.Users = raw.Users
	if d.Users == nil {
		d.Users = make(map[string]inventory.Inventory)
	}
	d.Whitelist = raw.Whitelist
	return nil
}

// Validate checks the loaded document shape, failing fast with a
// descriptive error instead of silently defaulting malformed fields.
func (d *Document) Validate() error {
	if err := d.Settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	for i, def := range d.Challenges {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("invalid challenge at index %d: %w", i, err)
		}
	}
	for userID, inv := range d.Users {
		for item, qty := range inv {
			if qty < 1 {
				return fmt.Errorf("user %s holds %d of %q; stored quantities must be >= 1", userID, qty, item)
			}
		}
	}
	return nil
}

// Clone returns a deep copy. Mutations are applied to a clone and the
// clone swapped in only after a successful persist, so a failed write
// never diverges in-memory state from the stored document.
func (d *Document) Clone() *Document {
	out := &Document{
		Settings: d.Settings,
		Users:    make(map[string]inventory.Inventory, len(d.Users)),
		poolKey:  d.poolKey,
	}
	if d.Settings.Frequency != nil {
		freq := *d.Settings.Frequency
		out.Settings.Frequency = &freq
	}
	for userID, inv := range d.Users {
		out.Users[userID] = inv.Clone()
	}
	if d.Challenges != nil {
		out.Challenges = make([]challenge.Definition, len(d.Challenges))
		copy(out.Challenges, d.Challenges)
	}
	if d.Whitelist != nil {
		out.Whitelist = make([]string, len(d.Whitelist))
		copy(out.Whitelist, d.Whitelist)
	}
	return out
}

// Load parses and validates a persisted document.
func Load(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid state document: %w", err)
	}
	return &doc, nil
}
