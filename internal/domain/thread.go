package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxTweetLength is the per-tweet limit, counted in code points.
	MaxTweetLength = 280

	// ThreadMarker is prepended to the first tweet of a thread.
	ThreadMarker = "🧵"

	// ThreadSeparator joins the tweets of a thread into a single post.
	ThreadSeparator = "\n\n---\n\n"
)

var (
	hashtagPattern   = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	horizontalSpace  = regexp.MustCompile(`[ \t]+`)
	spaceBeforePunct = regexp.MustCompile(` ([.,!?;:])`)
	spaceAroundBreak = regexp.MustCompile(` ?\n ?`)
)

// ExtractHashtags returns every hashtag in content in order of appearance.
func ExtractHashtags(content string) []string {
	return hashtagPattern.FindAllString(content, -1)
}

// SplitIntoThread splits content into a thread of tweets.
//
// Hashtags are lifted out of the body and reattached to the last tweet only
// when the whole set fits. The first tweet starts with ThreadMarker and every
// tweet ends with an "(i/N)" counter. A single sentence longer than the limit
// is emitted whole in its own tweet.
func SplitIntoThread(content string) []string {
	hashtags := ExtractHashtags(content)
	body := stripHashtags(content)
	if body == "" {
		return []string{}
	}

	sentences := splitSentences(body)

	// Packing reserves room for the counter of the final thread size. A thread
	// that grows past a power of ten is repacked with the wider counter.
	total := 1
	var bodies []string
	for {
		bodies = packSentences(sentences, total)
		if len(bodies) <= total || digits(len(bodies)) == digits(total) {
			break
		}
		total = len(bodies)
	}

	n := len(bodies)
	tweets := make([]string, n)
	for i, b := range bodies {
		tweet := b
		if i == 0 {
			tweet = ThreadMarker + " " + tweet
		}
		tweet = fmt.Sprintf("%s (%d/%d)", tweet, i+1, n)

		if i == n-1 && len(hashtags) > 0 {
			withTags := tweet + " " + strings.Join(hashtags, " ")
			if utf8.RuneCountInString(withTags) <= MaxTweetLength {
				tweet = withTags
			}
		}
		tweets[i] = tweet
	}
	return tweets
}

// stripHashtags removes hashtags from content and closes the gaps they leave.
func stripHashtags(content string) string {
	body := hashtagPattern.ReplaceAllString(content, "")
	body = horizontalSpace.ReplaceAllString(body, " ")
	body = spaceBeforePunct.ReplaceAllString(body, "$1")
	body = spaceAroundBreak.ReplaceAllString(body, "\n")
	return strings.TrimSpace(body)
}

// packSentences greedily fills tweet bodies, leaving room for the marker on
// the first tweet and a counter sized for a thread of estimate tweets.
func packSentences(sentences []string, estimate int) []string {
	var (
		tweets  []string
		current strings.Builder
		curLen  int
	)

	for _, sentence := range sentences {
		sLen := utf8.RuneCountInString(sentence)
		reserve := suffixWidth(len(tweets)+1, estimate)

		candidate := curLen + sLen
		if curLen > 0 {
			candidate++
		}

		if candidate+reserve > MaxTweetLength && curLen > 0 {
			tweets = append(tweets, current.String())
			current.Reset()
			current.WriteString(sentence)
			curLen = sLen
			continue
		}

		if curLen > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
		curLen = candidate
	}

	if curLen > 0 {
		tweets = append(tweets, current.String())
	}
	return tweets
}

// suffixWidth is the number of code points added around a tweet body at
// position pos in a thread of total tweets.
func suffixWidth(pos, total int) int {
	if total < pos {
		total = pos
	}
	width := len(fmt.Sprintf(" (%d/%d)", pos, total))
	if pos == 1 {
		width += utf8.RuneCountInString(ThreadMarker) + 1
	}
	return width
}

func digits(n int) int {
	return len(fmt.Sprint(n))
}

// splitSentences breaks text after '.', '!' or '?' when followed by whitespace.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)
	runes := []rune(text)
	for i := 0; i < len(runes)-1; i++ {
		if !isSentenceEnd(runes[i]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentences = appendSentence(sentences, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		sentences = appendSentence(sentences, string(runes[start:]))
	}
	return sentences
}

func appendSentence(sentences []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return sentences
	}
	return append(sentences, s)
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// ThreadSegments splits a post joined with ThreadSeparator back into tweets.
func ThreadSegments(post string) []string {
	var tweets []string
	for _, part := range strings.Split(post, ThreadSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			tweets = append(tweets, part)
		}
	}
	return tweets
}
