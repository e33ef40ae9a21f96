// Package linguaclassify detects the language of free text with a local
// statistical model, so the language guard never spends a model call on
// classification.
package linguaclassify

import (
	"errors"
	"strings"

	"github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over all supported languages. Construction loads
// the language models and is expensive; build one and share it.
func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Classify returns the lowercase ISO 639-1 code of the text's language.
func (d *Detector) Classify(text string) (string, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return "", errors.New("cannot classify empty text")
	}
	lang, ok := d.detector.DetectLanguageOf(t)
	if !ok {
		return "", errors.New("language not recognized")
	}
	return strings.ToLower(lang.IsoCode639_1().String()), nil
}
