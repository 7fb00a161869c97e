package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"socialpost-ai/internal/domain"
	"socialpost-ai/internal/metrics"
	"socialpost-ai/pkg/log"
)

// Researcher researches a topic and never fails.
type Researcher interface {
	Execute(ctx context.Context, topic string, focusAreas []string) domain.ResearchResult
}

// PlatformLookup resolves platform names to policies.
type PlatformLookup interface {
	Lookup(name string) (domain.PlatformPolicy, error)
}

// GeneratePostUseCase runs the content pipeline for one platform:
// research, generate, format and validate, in that order.
type GeneratePostUseCase struct {
	platforms  PlatformLookup
	researcher Researcher
	llm        ChatModel
	focusAreas []string
}

// NewGeneratePostUseCase creates a new GeneratePostUseCase.
func NewGeneratePostUseCase(platforms PlatformLookup, researcher Researcher, llm ChatModel) *GeneratePostUseCase {
	return &GeneratePostUseCase{
		platforms:  platforms,
		researcher: researcher,
		llm:        llm,
		focusAreas: DefaultFocusAreas,
	}
}

// GeneratePost returns the final text of a post about topic for platform.
func (uc *GeneratePostUseCase) GeneratePost(ctx context.Context, topic, platform, tone string) (string, error) {
	post, err := uc.Execute(ctx, topic, platform, tone)
	if err != nil {
		return "", err
	}
	return post.Final, nil
}

// Execute runs the pipeline. The platform is resolved before any work is done.
func (uc *GeneratePostUseCase) Execute(ctx context.Context, topic, platform, tone string) (domain.Post, error) {
	policy, err := uc.platforms.Lookup(platform)
	if err != nil {
		return domain.Post{}, err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.Post{}, domain.ErrEmptyTopic
	}
	if strings.TrimSpace(tone) == "" {
		tone = domain.DefaultTone
	}

	ctx = log.WithFields(ctx, "run_id", uuid.NewString(), "platform", policy.Name)
	log.GlobalInfoCtx(ctx, "generating post", "topic", topic, "tone", tone)
	start := time.Now()

	post, err := uc.pipeline(ctx, domain.PostRequest{Topic: topic, Platform: policy, Tone: tone})
	if err != nil {
		metrics.PostsGenerated.WithLabelValues(policy.Name, "error").Inc()
		log.GlobalErrorCtx(ctx, "post generation failed", "error", err)
		return domain.Post{}, err
	}

	metrics.PostsGenerated.WithLabelValues(policy.Name, "ok").Inc()
	log.GlobalInfoCtx(ctx, "post generated",
		"length", len([]rune(post.Final)),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return post, nil
}

func (uc *GeneratePostUseCase) pipeline(ctx context.Context, req domain.PostRequest) (domain.Post, error) {
	researched, err := uc.research(ctx, req)
	if err != nil {
		return domain.Post{}, err
	}
	draft, err := uc.generate(ctx, researched)
	if err != nil {
		return domain.Post{}, err
	}
	formatted, err := uc.format(ctx, draft)
	if err != nil {
		return domain.Post{}, err
	}
	return uc.validate(formatted), nil
}

func (uc *GeneratePostUseCase) research(ctx context.Context, req domain.PostRequest) (domain.ResearchedPost, error) {
	defer metrics.ObserveStage("research", time.Now())

	findings := uc.researcher.Execute(ctx, req.Topic, uc.focusAreas)
	analysis, err := uc.complete(ctx, strategistSystemPrompt, synthesisPrompt(req.Topic, findings))
	if err != nil {
		return domain.ResearchedPost{}, fmt.Errorf("research topic: %w", err)
	}
	return domain.ResearchedPost{PostRequest: req, Research: analysis}, nil
}

func (uc *GeneratePostUseCase) generate(ctx context.Context, p domain.ResearchedPost) (domain.DraftPost, error) {
	defer metrics.ObserveStage("generate", time.Now())

	content, err := uc.complete(ctx,
		platformSystemPrompt(p.Platform),
		userPrompt(generationContent(p.Topic, p.Research), p.Platform.Name, p.Tone),
	)
	if err != nil {
		return domain.DraftPost{}, fmt.Errorf("generate content: %w", err)
	}

	if p.Platform.EmojiSupport {
		content, err = uc.complete(ctx, emojiSystemPrompt, emojiUserPrompt(content, p.Platform.Name))
		if err != nil {
			return domain.DraftPost{}, fmt.Errorf("generate content: optimize emoji: %w", err)
		}
	}
	return domain.DraftPost{ResearchedPost: p, Content: content}, nil
}

func (uc *GeneratePostUseCase) format(ctx context.Context, p domain.DraftPost) (domain.FormattedPost, error) {
	defer metrics.ObserveStage("format", time.Now())

	limit := p.Platform.HashtagLimit
	if limit <= 0 {
		return domain.FormattedPost{DraftPost: p, Formatted: p.Content}, nil
	}

	raw, err := uc.complete(ctx, hashtagSystemPrompt, hashtagUserPrompt(p.Content, p.Platform.Name, limit))
	if err != nil {
		return domain.FormattedPost{}, fmt.Errorf("format post: %w", err)
	}

	formatted := p.Content
	if hashtags := NormalizeHashtags(raw, limit); len(hashtags) > 0 {
		formatted += "\n\n" + strings.Join(hashtags, " ")
	}
	return domain.FormattedPost{DraftPost: p, Formatted: formatted}, nil
}

func (uc *GeneratePostUseCase) validate(p domain.FormattedPost) domain.Post {
	defer metrics.ObserveStage("validate", time.Now())
	return domain.Post{FormattedPost: p, Final: domain.ValidatePost(p.Platform, p.Formatted)}
}

func (uc *GeneratePostUseCase) complete(ctx context.Context, system, user string) (string, error) {
	completion, err := uc.llm.Chat(ctx, []domain.Message{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: user},
	}, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion.Content), nil
}

// NormalizeHashtags turns model output into at most limit unique #word tags.
// Tokens are split on whitespace and commas. Characters other than letters,
// digits and underscores are dropped, and all-digit tokens are skipped.
func NormalizeHashtags(raw string, limit int) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	seen := make(map[string]struct{}, len(fields))
	tags := make([]string, 0, limit)
	for _, f := range fields {
		if len(tags) >= limit {
			break
		}
		word := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
				return r
			}
			return -1
		}, f)
		if strings.TrimFunc(word, unicode.IsDigit) == "" {
			continue
		}
		key := strings.ToLower(word)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, "#"+word)
	}
	return tags
}
