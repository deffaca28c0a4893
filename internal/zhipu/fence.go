package zhipu

import (
	"regexp"
	"strings"
)

var (
	leadingJSONFence = regexp.MustCompile("^```json\\s*")
	leadingFence     = regexp.MustCompile("^```\\s*")
	trailingFence    = regexp.MustCompile("\\s*```$")
)

// StripCodeFence removes a markdown code fence wrapped around generated content.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = leadingJSONFence.ReplaceAllString(content, "")
	content = leadingFence.ReplaceAllString(content, "")
	content = trailingFence.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}
