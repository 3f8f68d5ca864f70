package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntentJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Intent
		ok   bool
	}{
		{"plain json", `{"intent": "CUTOFF"}`, IntentCutoff, true},
		{"fenced json", "```json\n{\"intent\": \"ELIGIBILITY\"}\n```", IntentEligibility, true},
		{"lowercase label", `{"intent": "greeting"}`, IntentGreeting, true},
		{"surrounding prose", `Sure, here it is: {"intent": "MIXED"} hope that helps`, IntentMixed, true},
		{"bare label", `INFORMATIONAL`, IntentInformational, true},
		{"quoted bare label", `"OUT_OF_SCOPE"`, IntentOutOfScope, true},
		{"unknown label", `{"intent": "BANANA"}`, "", false},
		{"garbage", `I cannot classify this`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseIntentJSON(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRuleBasedFallback(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"hi", IntentGreeting},
		{"thank you", IntentGreeting},
		{"what is the cutoff for CSE", IntentCutoff},
		{"closing rank for ECE 2023", IntentCutoff},
		{"am I eligible for CSE with 5000 rank", IntentEligibility},
		{"can i get a seat in ECE", IntentEligibility},
		{"what are the hostel fees", IntentInformational},
		{"tell me about placements", IntentInformational},
		{"CSE cutoff and placement details", IntentMixed},
		{"what is the weather today", IntentOutOfScope},
		{"", IntentOutOfScope},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, RuleBased(tt.message))
		})
	}
}

func TestNeedsCutoffData(t *testing.T) {
	assert.True(t, IntentCutoff.NeedsCutoffData())
	assert.True(t, IntentEligibility.NeedsCutoffData())
	assert.True(t, IntentMixed.NeedsCutoffData())
	assert.False(t, IntentInformational.NeedsCutoffData())
	assert.False(t, IntentGreeting.NeedsCutoffData())
}
