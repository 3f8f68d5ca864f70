package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"latin defaults to english", "what is the cutoff for CSE", "en"},
		{"devanagari", "फीस कितनी है", "hi"},
		{"telugu", "ఫీజు ఎంత", "te"},
		{"tamil", "கட்டணம் எவ்வளவு", "ta"},
		{"mixed script follows first indic rune", "fees ఎంత", "te"},
		{"empty", "", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestDetectChangeRequest(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		current string
		want    string
	}{
		{"named switch", "please switch to hindi", "en", "hi"},
		{"reply-in phrasing", "reply in telugu", "en", "te"},
		{"already current is no-op", "switch to english", "en", ""},
		{"bare change shows selector", "change language", "en", "show_selector"},
		{"language name without change word", "I like telugu movies", "en", ""},
		{"ordinary question", "what is the fee", "en", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectChangeRequest(tt.text, tt.current))
		})
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "en"},
		{"2", "hi"},
		{"3", "te"},
		{"4", "ta"},
		{"Telugu please", "te"},
		{"english", "en"},
		{"maybe later", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSelection(tt.in), "input %q", tt.in)
	}
}

func TestTranslationFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, Translation("greeting", "en"), Translation("greeting", "fr"))
	assert.NotEmpty(t, Translation("out_of_scope", "hi"))
}

func TestSelectorMessageListsAllLanguages(t *testing.T) {
	msg := SelectorMessage("en")
	for _, name := range SupportedLanguages {
		assert.Contains(t, msg, name)
	}
}
