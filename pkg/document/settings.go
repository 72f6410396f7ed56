package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedSetting is wrapped by every setting parse failure. A
// rejected change leaves the prior setting in place.
var ErrMalformedSetting = errors.New("malformed setting value")

// DefaultFrequency is used when no frequency setting is stored.
var DefaultFrequency = FrequencyRange{Min: 10, Max: 20}

// FrequencyRange is the inclusive bounds for the randomized spawn
// threshold. Persisted as a [min, max] pair.
type FrequencyRange struct {
	Min int
	Max int
}

func (f FrequencyRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{f.Min, f.Max})
}

func (f *FrequencyRange) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("frequency must be a [min, max] pair: %w", err)
	}
	f.Min, f.Max = pair[0], pair[1]
	return nil
}

// Validate checks the range bounds.
func (f FrequencyRange) Validate() error {
	if f.Min < 0 {
		return fmt.Errorf("frequency minimum cannot be negative: %d", f.Min)
	}
	if f.Max < f.Min {
		return fmt.Errorf("frequency maximum %d is below minimum %d", f.Max, f.Min)
	}
	return nil
}

// ParseFrequency parses a "min-max" setting value.
func ParseFrequency(value string) (FrequencyRange, error) {
	minStr, maxStr, ok := strings.Cut(value, "-")
	if !ok {
		return FrequencyRange{}, fmt.Errorf("%w: frequency must be min-max, got %q", ErrMalformedSetting, value)
	}

	min, err := strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil {
		return FrequencyRange{}, fmt.Errorf("%w: frequency minimum %q is not a number", ErrMalformedSetting, strings.TrimSpace(minStr))
	}
	max, err := strconv.Atoi(strings.TrimSpace(maxStr))
	if err != nil {
		return FrequencyRange{}, fmt.Errorf("%w: frequency maximum %q is not a number", ErrMalformedSetting, strings.TrimSpace(maxStr))
	}

	freq := FrequencyRange{Min: min, Max: max}
	if err := freq.Validate(); err != nil {
		return FrequencyRange{}, fmt.Errorf("%w: %s", ErrMalformedSetting, err)
	}
	return freq, nil
}

// Settings holds the recognized game settings. Channel is the
// destination channel identifier; empty means "reply in the channel
// that triggered the spawn".
type Settings struct {
	Frequency *FrequencyRange `json:"frequency,omitempty"`
	Channel   string          `json:"channel,omitempty"`
}

// FrequencyOrDefault returns the configured frequency range, or
// DefaultFrequency when none is stored.
func (s Settings) FrequencyOrDefault() FrequencyRange {
	if s.Frequency == nil {
		return DefaultFrequency
	}
	return *s.Frequency
}

// Validate checks stored settings on load.
func (s Settings) Validate() error {
	if s.Frequency != nil {
		if err := s.Frequency.Validate(); err != nil {
			return err
		}
	}
	return nil
}
