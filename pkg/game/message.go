package game

import "fmt"

// Message is one inbound chat message from the transport collaborator.
type Message struct {
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
}

func (m Message) Validate() error {
	if m.UserID == "" {
		return fmt.Errorf("message user_id cannot be empty")
	}
	if m.ChannelID == "" {
		return fmt.Errorf("message channel_id cannot be empty")
	}
	return nil
}

// Result describes what handling a message (or a forced spawn) caused.
type Result struct {
	Spawned     bool   `json:"spawned"`
	SpawnID     string `json:"spawn_id,omitempty"`
	Matched     bool   `json:"matched"`
	AwardedItem string `json:"awarded_item,omitempty"`
}
