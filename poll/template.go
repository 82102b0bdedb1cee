package poll

import (
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\{(.*?)\}`)

// FormatMessage replaces every {key} in template with data[key]. Keys are trimmed and
// unknown keys render as an empty string.
func FormatMessage(template string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.TrimSpace(match[1 : len(match)-1])
		return data[key]
	})
}
