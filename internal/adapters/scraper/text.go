package scraper

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

const (
	// readabilityMinWords is the least text readability must produce before
	// the DOM walker is tried instead.
	readabilityMinWords = 50

	// emptyShellThreshold is the word count below which a page is treated
	// as a JavaScript shell that needs rendering.
	emptyShellThreshold = 10
)

var (
	horizontalSpace = regexp.MustCompile(`[^\S\n]+`)
	manyNewlines    = regexp.MustCompile(`\n{3,}`)
)

// strippedTags never contribute visible text.
var strippedTags = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"iframe":   true,
	"noscript": true,
	"template": true,
}

// blockTags start a new line in extracted text.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"li": true, "pre": true, "blockquote": true, "br": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// extractArticle returns the readable text of an HTML document: the
// readability article as markdown, then as plain text, then the visible text
// of the whole page.
func extractArticle(data []byte, pageURL string) string {
	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err == nil && article.Node != nil {
		md, mdErr := htmltomarkdown.ConvertNode(article.Node)
		if mdErr == nil {
			text := cleanTextPreserveNewlines(string(md))
			if wordCount(text) >= readabilityMinWords {
				return text
			}
		}

		var buf bytes.Buffer
		_ = article.RenderText(&buf)
		text := cleanTextPreserveNewlines(buf.String())
		if wordCount(text) >= readabilityMinWords {
			return text
		}
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return visibleText(doc)
}

// visibleText returns the text a reader sees, preferring the main content
// region: <main>, then <article>, then <div class="content">, then the body.
func visibleText(doc *html.Node) string {
	root := findMainContent(doc)
	if root == nil {
		root = doc
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tag := strings.ToLower(n.Data)
			if strippedTags[tag] || hasAttr(n, "hidden") || attrVal(n, "aria-hidden") == "true" {
				return
			}
			if blockTags[tag] {
				sb.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return cleanTextPreserveNewlines(sb.String())
}

func findMainContent(doc *html.Node) *html.Node {
	matchers := []func(*html.Node) bool{
		func(n *html.Node) bool { return n.Data == "main" },
		func(n *html.Node) bool { return n.Data == "article" },
		func(n *html.Node) bool { return n.Data == "div" && hasClass(n, "content") },
	}
	for _, match := range matchers {
		if n := findElement(doc, match); n != nil {
			return n
		}
	}
	return nil
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// cleanTextPreserveNewlines normalizes horizontal whitespace but preserves line breaks.
func cleanTextPreserveNewlines(text string) string {
	text = horizontalSpace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	// Collapse runs of blank lines to a single paragraph break
	text = manyNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func looksLikeEmptyShell(text string) bool {
	return wordCount(text) < emptyShellThreshold
}
