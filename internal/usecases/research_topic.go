package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"socialpost-ai/internal/domain"
	"socialpost-ai/internal/metrics"
	"socialpost-ai/pkg/log"
)

// DefaultMaxIterations bounds the tool-use loop of a research run.
const DefaultMaxIterations = 5

// maxToolChunks caps the chunks returned to the model per web_search call.
const maxToolChunks = 10

// ChatModel is a chat completion model with optional tool calling.
type ChatModel interface {
	Chat(ctx context.Context, msgs []domain.Message, tools []domain.Tool) (domain.Completion, error)
}

// ResearchCache stores research by topic.
type ResearchCache interface {
	Get(topic string) (domain.ResearchResult, bool)
	Set(topic string, data domain.ResearchResult)
}

// WebSearcher searches the web and returns scraped chunks.
type WebSearcher interface {
	SearchAndScrape(ctx context.Context, query string) []domain.Chunk
}

// ResearchTopicUseCase researches a topic with a cache-first strategy.
type ResearchTopicUseCase struct {
	cache         ResearchCache
	searcher      WebSearcher
	llm           ChatModel
	maxIterations int
}

// NewResearchTopicUseCase creates a new ResearchTopicUseCase.
// maxIterations <= 0 uses DefaultMaxIterations.
func NewResearchTopicUseCase(cache ResearchCache, searcher WebSearcher, llm ChatModel, maxIterations int) *ResearchTopicUseCase {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &ResearchTopicUseCase{
		cache:         cache,
		searcher:      searcher,
		llm:           llm,
		maxIterations: maxIterations,
	}
}

// Execute researches topic. It never fails: when research cannot be
// completed the fallback result is returned and nothing is cached.
func (uc *ResearchTopicUseCase) Execute(ctx context.Context, topic string, focusAreas []string) domain.ResearchResult {
	if cached, found := uc.cache.Get(topic); found {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		log.GlobalDebugCtx(ctx, "research cache hit", "topic", topic)
		return cached
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	output, err := uc.run(ctx, researchQuery(topic, focusAreas))
	if err != nil {
		metrics.ResearchFallbacks.Inc()
		log.GlobalErrorCtx(ctx, "research failed", "topic", topic, "error", err)
		return domain.FallbackResearch(topic)
	}

	result := domain.ParseResearch(output)
	uc.cache.Set(topic, result)
	return result
}

func researchQuery(topic string, focusAreas []string) string {
	query := "Research about " + topic
	if len(focusAreas) > 0 {
		query += " focusing on: " + strings.Join(focusAreas, ", ")
	}
	return query
}

// run drives the tool-use loop and returns the model's final analysis.
func (uc *ResearchTopicUseCase) run(ctx context.Context, query string) (string, error) {
	msgs := []domain.Message{
		{Role: domain.RoleSystem, Content: researcherSystemPrompt},
		{Role: domain.RoleUser, Content: query},
	}
	tools := []domain.Tool{webSearchTool}

	for i := 0; i < uc.maxIterations; i++ {
		completion, err := uc.llm.Chat(ctx, msgs, tools)
		if err != nil {
			return "", err
		}
		if len(completion.ToolCalls) == 0 {
			return nonEmpty(completion.Content)
		}

		msgs = append(msgs, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   completion.Content,
			ToolCalls: completion.ToolCalls,
		})
		for _, call := range completion.ToolCalls {
			msgs = append(msgs, domain.Message{
				Role:       domain.RoleTool,
				Content:    uc.runTool(ctx, call, query),
				ToolCallID: call.ID,
			})
		}
	}

	log.GlobalWarnCtx(ctx, "research iteration limit reached", "max_iterations", uc.maxIterations)
	completion, err := uc.llm.Chat(ctx, msgs, nil)
	if err != nil {
		return "", err
	}
	return nonEmpty(completion.Content)
}

func nonEmpty(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", domain.ErrEmptyCompletion
	}
	return content, nil
}

func (uc *ResearchTopicUseCase) runTool(ctx context.Context, call domain.ToolCall, fallbackQuery string) string {
	if call.Name != webSearchToolName {
		return fmt.Sprintf("Unknown tool %q.", call.Name)
	}

	query := queryArgument(call.Arguments)
	if query == "" {
		query = fallbackQuery
	}
	log.GlobalInfoCtx(ctx, "web search tool call", "query", query)

	return formatChunks(query, uc.searcher.SearchAndScrape(ctx, query))
}

// queryArgument extracts the "query" field from tool call arguments.
// Arguments that are not a JSON object are used verbatim.
func queryArgument(arguments string) string {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return strings.TrimSpace(arguments)
	}
	return strings.TrimSpace(args.Query)
}

func formatChunks(query string, chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return fmt.Sprintf("No results found for %q. Try broader or different keywords.", query)
	}
	if len(chunks) > maxToolChunks {
		chunks = chunks[:maxToolChunks]
	}

	var sb strings.Builder
	for i, c := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Source: %s\nTitle: %s\n%s", c.Source, c.Title, c.Text)
	}
	return sb.String()
}
