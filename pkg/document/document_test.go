package document

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/joinemm/quotegame/pkg/challenge"
	"github.com/joinemm/quotegame/pkg/inventory"
)

func TestDocument_RoundTrip(t *testing.T) {
	doc := New()
	doc.Settings.Frequency = &FrequencyRange{Min: 100, Max: 500}
	doc.Settings.Channel = "286179"
	doc.Users["123"] = inventory.Inventory{"img/9/rare.png": 2}
	doc.Challenges = []challenge.Definition{
		{Question: "2+2", Answer: "4"},
		{Question: "capital of France", Answer: "Paris", Weight: 3},
	}
	doc.Whitelist = []string{"456"}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal document: %v", err)
	}

	loaded, err := Load(data)
	if err != nil {
		t.Fatalf("failed to load document: %v", err)
	}

	if !reflect.DeepEqual(loaded.Settings, doc.Settings) {
		t.Errorf("settings did not round-trip: got %+v, want %+v", loaded.Settings, doc.Settings)
	}
	if !reflect.DeepEqual(loaded.Users, doc.Users) {
		t.Errorf("users did not round-trip: got %+v, want %+v", loaded.Users, doc.Users)
	}
	if !reflect.DeepEqual(loaded.Challenges, doc.Challenges) {
		t.Errorf("challenges did not round-trip: got %+v, want %+v", loaded.Challenges, doc.Challenges)
	}
	if !reflect.DeepEqual(loaded.Whitelist, doc.Whitelist) {
		t.Errorf("whitelist did not round-trip: got %+v, want %+v", loaded.Whitelist, doc.Whitelist)
	}
}

func TestDocument_PoolKeyPreserved(t *testing.T) {
	for _, key := range []string{PoolQuotes, PoolImages, PoolQuestions} {
		t.Run(key, func(t *testing.T) {
			def := `{"question":"2+2","answer":"4"}`
			if key == PoolImages {
				def = `{"image":"img/prompts/a.png","answer":"4","response":"img/responses/a.png"}`
			}
			data := []byte(`{"settings":{},"users":{},"` + key + `":[` + def + `]}`)

			doc, err := Load(data)
			if err != nil {
				t.Fatalf("failed to load document: %v", err)
			}
			if doc.PoolKey() != key {
				t.Fatalf("expected pool key %q, got %q", key, doc.PoolKey())
			}

			out, err := json.Marshal(doc)
			if err != nil {
				t.Fatalf("failed to marshal document: %v", err)
			}
			if !strings.Contains(string(out), `"`+key+`"`) {
				t.Errorf("saved document lost pool key %q: %s", key, out)
			}
		})
	}
}

func TestDocument_MultiplePoolsRejected(t *testing.T) {
	data := []byte(`{"settings":{},"users":{},"quotes":[],"questions":[]}`)
	if _, err := Load(data); err == nil {
		t.Error("expected error for document with multiple challenge pools")
	}
}

func TestDocument_MissingSectionsDefault(t *testing.T) {
	doc, err := Load([]byte(`{}`))
	if err != nil {
		t.Fatalf("failed to load empty document: %v", err)
	}
	if doc.Users == nil {
		t.Error("users should default to an empty map")
	}
	if len(doc.Challenges) != 0 {
		t.Errorf("expected empty challenge pool, got %v", doc.Challenges)
	}
	if doc.PoolKey() != PoolQuestions {
		t.Errorf("expected default pool key %q, got %q", PoolQuestions, doc.PoolKey())
	}
}

func TestDocument_ValidateFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "zero inventory quantity",
			data: `{"users":{"123":{"img/1/a.png":0}}}`,
		},
		{
			name: "inverted frequency bounds",
			data: `{"settings":{"frequency":[20,10]}}`,
		},
		{
			name: "challenge without answer",
			data: `{"questions":[{"question":"2+2"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load([]byte(tt.data)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDocument_Clone(t *testing.T) {
	doc := New()
	doc.Settings.Frequency = &FrequencyRange{Min: 5, Max: 10}
	doc.Users["123"] = inventory.Inventory{"a": 1}
	doc.Challenges = []challenge.Definition{{Question: "q", Answer: "a"}}
	doc.Whitelist = []string{"456"}

	clone := doc.Clone()
	clone.Settings.Frequency.Min = 99
	clone.Users["123"]["a"] = 99
	clone.Challenges[0].Answer = "changed"
	clone.Whitelist[0] = "changed"

	if doc.Settings.Frequency.Min != 5 {
		t.Error("clone shares frequency with original")
	}
	if doc.Users["123"]["a"] != 1 {
		t.Error("clone shares inventories with original")
	}
	if doc.Challenges[0].Answer != "a" {
		t.Error("clone shares challenge pool with original")
	}
	if doc.Whitelist[0] != "456" {
		t.Error("clone shares whitelist with original")
	}
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    FrequencyRange
		wantErr bool
	}{
		{name: "valid range", value: "100-500", want: FrequencyRange{Min: 100, Max: 500}},
		{name: "spaces around bounds", value: "10 - 20", want: FrequencyRange{Min: 10, Max: 20}},
		{name: "missing separator", value: "100", wantErr: true},
		{name: "non-numeric minimum", value: "abc-500", wantErr: true},
		{name: "non-numeric maximum", value: "100-xyz", wantErr: true},
		{name: "inverted bounds", value: "500-100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFrequency(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected parse error")
				}
				if !errors.Is(err, ErrMalformedSetting) {
					t.Errorf("error should wrap ErrMalformedSetting, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFrequency(%q) = %+v; want %+v", tt.value, got, tt.want)
			}
		})
	}
}

func TestSettings_FrequencyOrDefault(t *testing.T) {
	var s Settings
	if got := s.FrequencyOrDefault(); got != DefaultFrequency {
		t.Errorf("expected default frequency %+v, got %+v", DefaultFrequency, got)
	}

	s.Frequency = &FrequencyRange{Min: 1, Max: 2}
	if got := s.FrequencyOrDefault(); got.Min != 1 || got.Max != 2 {
		t.Errorf("expected configured frequency, got %+v", got)
	}
}
