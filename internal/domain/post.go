package domain

// DefaultTone is used when a request carries no tone.
const DefaultTone = "neutral"

// PostRequest is the input of the content pipeline.
type PostRequest struct {
	Topic    string
	Platform PlatformPolicy
	Tone     string
}

// ResearchedPost carries the request and the synthesized research.
type ResearchedPost struct {
	PostRequest
	Research string
}

// DraftPost carries the generated, not yet formatted, post text.
type DraftPost struct {
	ResearchedPost
	Content string
}

// FormattedPost carries the draft with hashtags attached.
type FormattedPost struct {
	DraftPost
	Formatted string
}

// Post is the final, validated post.
type Post struct {
	FormattedPost
	Final string
}

// Tweets returns the thread segments of an x post, or nil for other platforms.
func (p Post) Tweets() []string {
	if p.Platform.Name != PlatformX || p.Final == "" {
		return nil
	}
	return ThreadSegments(p.Final)
}
