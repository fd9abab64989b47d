package output

import (
	"fmt"
	"strings"
)

// FormatHeader renders a markdown-style header for off-terminal output.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue renders one "key: value" line.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", key, value)
}
