// Package utils holds small helpers shared by the ingestion command.
package utils

// SplitText cuts text into overlapping chunks of roughly chunkSize runes.
// The overlap keeps table rows and sentences that straddle a boundary
// retrievable from both neighbouring chunks.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
