package validate

import (
	"strings"

	"github.com/piwi3910/SailQuote/internal/model"
)

// Suggestion is an outstanding typo correction for one field.
type Suggestion struct {
	Field string  `json:"field"`
	Raw   string  `json:"raw"`
	Value float64 `json:"value"`
}

// Suggestions tracks typo corrections offered during one editing session.
// A dismissed suggestion is not offered again until the raw input for that
// field changes. It is not safe for concurrent use.
type Suggestions struct {
	active    map[string]Suggestion
	dismissed map[string]string // field key -> raw input the user kept
}

// NewSuggestions returns an empty tracker.
func NewSuggestions() *Suggestions {
	return &Suggestions{
		active:    map[string]Suggestion{},
		dismissed: map[string]string{},
	}
}

// Check re-evaluates key after the user entered raw. It records and returns
// a suggestion when one applies, and clears any stale one otherwise.
func (s *Suggestions) Check(key, raw string, cfg model.ShadeConfiguration) (Suggestion, bool) {
	raw = strings.TrimSpace(raw)
	delete(s.active, key)
	if kept, ok := s.dismissed[key]; ok {
		if kept == raw {
			return Suggestion{}, false
		}
		delete(s.dismissed, key)
	}
	v, ok := SuggestTypoCorrection(key, raw, cfg)
	if !ok {
		return Suggestion{}, false
	}
	sug := Suggestion{Field: key, Raw: raw, Value: v}
	s.active[key] = sug
	return sug, true
}

// Accept writes the suggested value for key into cfg.
func (s *Suggestions) Accept(key string, cfg *model.ShadeConfiguration) (float64, bool) {
	sug, ok := s.active[key]
	if !ok {
		return 0, false
	}
	if !cfg.SetLength(key, sug.Value) {
		return 0, false
	}
	delete(s.active, key)
	return sug.Value, true
}

// Dismiss keeps the user's value for key and suppresses the suggestion for
// that exact raw input.
func (s *Suggestions) Dismiss(key string) {
	sug, ok := s.active[key]
	if !ok {
		return
	}
	s.dismissed[key] = sug.Raw
	delete(s.active, key)
}

// Keep records that the user already chose raw for key, as if its
// suggestion had been dismissed. Used to restore a session.
func (s *Suggestions) Keep(key, raw string) {
	s.dismissed[key] = strings.TrimSpace(raw)
	delete(s.active, key)
}

// IsDismissed reports whether raw was dismissed for key.
func (s *Suggestions) IsDismissed(key, raw string) bool {
	kept, ok := s.dismissed[key]
	return ok && kept == strings.TrimSpace(raw)
}

// Active returns the outstanding suggestions keyed by field.
func (s *Suggestions) Active() model.TypoSuggestions {
	out := make(model.TypoSuggestions, len(s.active))
	for k, sug := range s.active {
		out[k] = sug.Value
	}
	return out
}
