package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyNormalization(t *testing.T) {
	base := Key("What is the CSE cutoff?", "CUTOFF", "en")

	tests := []struct {
		name  string
		query string
		same  bool
	}{
		{"extra whitespace", "What   is the   CSE cutoff?", true},
		{"different casing", "WHAT IS THE cse CUTOFF", true},
		{"punctuation stripped", "What, is the CSE cutoff!!!", true},
		{"different words", "What is the ECE cutoff?", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.query, "CUTOFF", "en")
			if tt.same {
				assert.Equal(t, base, got)
			} else {
				assert.NotEqual(t, base, got)
			}
		})
	}
}

func TestKeyVariesByIntentAndLanguage(t *testing.T) {
	q := "hostel fees"
	assert.NotEqual(t, Key(q, "INFORMATIONAL", "en"), Key(q, "CUTOFF", "en"))
	assert.NotEqual(t, Key(q, "INFORMATIONAL", "en"), Key(q, "INFORMATIONAL", "hi"))
}

func TestResponseCacheRoundTrip(t *testing.T) {
	c := NewResponseCache()
	c.Set("cse placements", "INFORMATIONAL", "en", &Entry{Reply: "good placements"})

	entry, found := c.Get("CSE   placements!", "INFORMATIONAL", "en")
	assert.True(t, found)
	assert.Equal(t, "good placements", entry.Reply)

	_, found = c.Get("cse placements", "INFORMATIONAL", "hi")
	assert.False(t, found)
}

func TestResponseCacheEvictsOldest(t *testing.T) {
	c := NewResponseCache()
	c.capacity = 10

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("query %d", i), "CUTOFF", "en", &Entry{
			Reply:     fmt.Sprintf("reply %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	// Next insert crosses capacity and evicts the oldest batch.
	c.Set("fresh query", "CUTOFF", "en", &Entry{Reply: "fresh"})

	_, found := c.Get("query 0", "CUTOFF", "en")
	assert.False(t, found, "oldest entry should be evicted")

	_, found = c.Get("fresh query", "CUTOFF", "en")
	assert.True(t, found)
}
