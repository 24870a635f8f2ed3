package corpus

import "strings"

// DefaultReflowWidth is the visual segment width poems are reflowed to.
const DefaultReflowWidth = 60

// ReflowLine splits a line of length L into ceil(L/width) segments of at
// most width characters, each but the last followed by a newline. The split
// is character-position based, not word-aware. Lines already within the
// width are returned unchanged, so reapplying is a no-op.
func ReflowLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	var b strings.Builder
	b.Grow(len(line) + len(runes)/width)
	for start := 0; start < len(runes); start += width {
		end := start + width
		if end > len(runes) {
			end = len(runes)
		}
		if start > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(runes[start:end]))
	}
	return b.String()
}
