package challenge

import (
	"fmt"

	"golang.org/x/text/cases"
)

// Kind discriminates the two challenge shapes.
type Kind string

const (
	// KindText poses a question and awards a randomly drawn asset.
	KindText Kind = "text"
	// KindImage poses a prompt asset and awards its fixed response asset.
	KindImage Kind = "image"
)

// Definition is a single entry in the challenge pool. Exactly one of
// Question and PromptAsset is set, and that field is also the
// definition's identity. Duplicates are legal and independently
// weighted.
type Definition struct {
	Question      string `json:"question,omitempty"`
	PromptAsset   string `json:"image,omitempty"`
	Answer        string `json:"answer"`
	ResponseAsset string `json:"response,omitempty"`
	Weight        int    `json:"weight,omitempty"`
}

// Kind returns the shape of the definition.
func (d Definition) Kind() Kind {
	if d.PromptAsset != "" {
		return KindImage
	}
	return KindText
}

// Key identifies the definition for removal and crediting: the question
// text for text challenges, the prompt asset path for image challenges.
func (d Definition) Key() string {
	if d.Kind() == KindImage {
		return d.PromptAsset
	}
	return d.Question
}

// EffectiveWeight returns the selection weight, defaulting to 1 when
// the definition does not carry one.
func (d Definition) EffectiveWeight() int {
	if d.Weight < 1 {
		return 1
	}
	return d.Weight
}

// Validate checks the definition shape. Weight 0 means unset.
func (d Definition) Validate() error {
	if (d.Question == "") == (d.PromptAsset == "") {
		return fmt.Errorf("challenge must have exactly one of question or image")
	}
	if d.Answer == "" {
		return fmt.Errorf("challenge answer cannot be empty")
	}
	if d.Weight < 0 {
		return fmt.Errorf("challenge weight cannot be negative: %d", d.Weight)
	}
	if d.Kind() == KindImage && d.ResponseAsset == "" {
		return fmt.Errorf("image challenge requires a response asset")
	}
	if d.Kind() == KindText && d.ResponseAsset != "" {
		return fmt.Errorf("text challenge cannot have a response asset")
	}
	return nil
}

// Fold normalizes text with full Unicode case folding. Answers and
// challenge keys are compared under this normalization.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// KeysEqual reports whether two challenge keys match under case folding.
func KeysEqual(a, b string) bool {
	return Fold(a) == Fold(b)
}
