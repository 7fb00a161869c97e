package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const ellipsis = "..."

var wordPattern = regexp.MustCompile(`\S+`)

// ValidatePost adjusts content so it satisfies the platform policy.
//
// Posts for x are rendered as a thread joined by ThreadSeparator; posts for
// other platforms are truncated with an ellipsis when too long. When the
// content carries more hashtags than allowed, the surplus count of trailing
// words is dropped and everything before them is kept as is.
// Policy violations are corrected, never reported.
func ValidatePost(policy PlatformPolicy, content string) string {
	if strings.EqualFold(policy.Name, PlatformX) {
		content = strings.Join(SplitIntoThread(content), ThreadSeparator)
	} else {
		content = Truncate(content, policy.MaxLength)
	}

	return trimHashtagSurplus(content, policy.HashtagLimit)
}

// Truncate shortens s to max code points, ending with an ellipsis when there
// is room for one.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if max <= len(ellipsis) {
		return string(runes[:max])
	}
	return string(runes[:max-len(ellipsis)]) + ellipsis
}

func trimHashtagSurplus(content string, limit int) string {
	words := wordPattern.FindAllStringIndex(content, -1)
	var count int
	for _, w := range words {
		if content[w[0]] == '#' {
			count++
		}
	}
	if count <= limit {
		return content
	}
	cut := words[len(words)-(count-limit)][0]
	return strings.TrimRightFunc(content[:cut], unicode.IsSpace)
}
