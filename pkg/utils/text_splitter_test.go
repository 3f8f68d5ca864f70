package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short", 100, 20)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	assert.True(t, len(chunks) >= 3)
	for i := 0; i < len(chunks)-1; i++ {
		assert.Len(t, chunks[i], 40)
		// The tail of one chunk reappears at the head of the next.
		assert.Equal(t, chunks[i][30:], chunks[i+1][:10])
	}

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(c[10:])
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	text := strings.Repeat("x", 50)
	chunks := SplitText(text, 10, 10)

	assert.Len(t, chunks, 5)
	assert.Equal(t, text, strings.Join(chunks, ""))
}
