package domain

import "errors"

var (
	// ErrUnsupportedPlatform is returned when a platform name has no policy.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrEmptyTopic is returned when a post is requested without a topic.
	ErrEmptyTopic = errors.New("topic is empty")

	// ErrNoResults is returned by a search provider that answered but found nothing.
	ErrNoResults = errors.New("no search results")

	// ErrProviderNotConfigured is returned when a search provider is missing
	// its API key or endpoint.
	ErrProviderNotConfigured = errors.New("search provider not configured")

	// ErrEmptyCompletion is returned when the language model answers with no choices.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrRateLimited is returned when rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)
