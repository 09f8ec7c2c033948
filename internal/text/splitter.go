package text

import (
	"strings"
	"unicode"
)

// Split cuts text into overlapping fixed-size windows. Both size and
// overlap are measured in runes. A cut snaps back to the last whitespace
// inside the window so words stay intact, and the cursor rewinds by
// overlap so consecutive windows share cross-boundary context.
//
// Input whitespace is normalized first: runs of spaces, tabs and newlines
// collapse to a single space. Empty input yields nil.
func Split(text string, size, overlap int) []string {
	norm := strings.Join(strings.Fields(text), " ")
	if norm == "" {
		return nil
	}
	if size <= 0 {
		return []string{norm}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(norm)
	if len(runes) <= size {
		return []string{norm}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			// Snap back to the last whitespace inside the window. If the
			// window is a single unbroken run, cut mid-word rather than
			// emit an oversized chunk.
			if ws := lastSpace(runes[start:end]); ws > 0 {
				end = start + ws
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

func lastSpace(window []rune) int {
	for i := len(window) - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	return -1
}
