package usecases

import (
	"fmt"
	"strings"

	"socialpost-ai/internal/domain"
)

const researcherSystemPrompt = `You are a research assistant specialized in gathering and analyzing information.
Your goal is to provide comprehensive, accurate, and well-structured information about topics.

Follow these steps:
1. Start with a focused search query using the most important keywords
2. If no results, try a broader search or different keyword combinations
3. Analyze and synthesize the information
4. Identify key facts, trends, and insights
5. Structure the information in a clear, organized way

Guidelines:
- Keep search queries concise and focused
- Use specific keywords related to the topic
- If initial search fails, try alternative keywords or broader terms
- Always cite your sources and provide context for the information
- If you can't find recent information, acknowledge this and provide historical context`

const webSearchToolName = "web_search"

var webSearchTool = domain.Tool{
	Name: webSearchToolName,
	Description: "Use this tool to search the web and scrape content about a topic. " +
		"Input should be a search query string. " +
		"Returns a list of documents containing relevant information.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Concise search query",
			},
		},
		"required": []string{"query"},
	},
}

// DefaultFocusAreas steer the research run of the pipeline.
var DefaultFocusAreas = []string{
	"current developments",
	"key statistics",
	"relevant context",
	"social media angles",
}

const strategistSystemPrompt = "You are a social media content strategist specializing in analyzing research " +
	"and identifying the most engaging aspects for social media posts."

func synthesisPrompt(topic string, r domain.ResearchResult) string {
	return fmt.Sprintf(`Based on the following research about %s:

Summary:
%s

Key Facts:
%s

Current Trends:
%s

Sources:
%s

Please provide a comprehensive analysis focusing on:
1. Most relevant information for social media
2. Key insights and takeaways
3. Potential angles for engagement
4. Supporting data and statistics
5. Current context and relevance

Format the response in a clear, structured way that will help create engaging social media content.`,
		topic, r.Summary, r.KeyFacts, r.Trends, r.Sources)
}

var platformSystemPrompts = map[string]string{
	"instagram": `Format:
- Max 30 hashtags
- Line breaks for readability
- Structure:
  * Engaging opening
  * Clear paragraphs
  * Bullet points when needed
  * Strong call-to-action
  * Hashtags on new line
- Style:
  * Natural, conversational tone
  * Relatable content
  * Current references
  * Strategic emojis
  * Authentic voice`,
	"linkedin": `Format:
- Max 5 hashtags
- Rich formatting
- Structure:
  * Attention-grabbing headline
  * Formatted paragraphs
  * Key point lists
  * Professional call-to-action
  * End hashtags
- Style:
  * Professional insights
  * Industry expertise
  * Thoughtful analysis
  * Current trends
  * Strategic emojis`,
	"facebook": `Format:
- Max 10 hashtags
- Rich formatting
- Structure:
  * Engaging opening
  * Clear paragraphs
  * Visual breaks
  * Interactive elements
  * End hashtags
- Style:
  * Social insights
  * Personal experiences
  * Current events
  * Authentic voice
  * Strategic emojis`,
	domain.PlatformX: `Format:
- Max 5 hashtags
- 280 char limit per tweet
- Thread structure:
  * First tweet: Hook + "🧵"
  * Middle tweets: Key points
  * Last tweet: Call-to-action + hashtags
- Style:
  * Current topics
  * Concise insights
  * Modern language
  * Relatable content
  * Strategic emojis
  * Clear thread flow`,
}

const emojiNote = `Note: When using emojis:
- Use them naturally and authentically
- Match the platform's vibe
- Don't overuse them
- Use combinations when appropriate`

// platformSystemPrompt returns the writing guidelines for a platform.
// Platforms added through configuration get guidelines built from their policy.
func platformSystemPrompt(p domain.PlatformPolicy) string {
	prompt, ok := platformSystemPrompts[p.Name]
	if !ok {
		prompt = genericSystemPrompt(p)
	}
	if p.EmojiSupport {
		prompt += "\n\n" + emojiNote
	}
	return prompt
}

func genericSystemPrompt(p domain.PlatformPolicy) string {
	var sb strings.Builder
	sb.WriteString("Format:\n")
	fmt.Fprintf(&sb, "- Max %d hashtags\n", p.HashtagLimit)
	fmt.Fprintf(&sb, "- %d character limit\n", p.MaxLength)
	if !p.LinkSupport {
		sb.WriteString("- No links\n")
	}
	for _, rule := range []string{domain.RuleLineBreaks, domain.RuleBold, domain.RuleItalic, domain.RuleLists} {
		if p.Allows(rule) {
			fmt.Fprintf(&sb, "- Supports %s\n", strings.ReplaceAll(rule, "_", " "))
		}
	}
	sb.WriteString("- Style:\n  * Clear structure\n  * Authentic voice")
	return sb.String()
}

func generationContent(topic, research string) string {
	return fmt.Sprintf("Topic: %s\n\nResearch:\n%s\n\nPlease create a social media post based on this information.",
		topic, research)
}

func userPrompt(content, platform, tone string) string {
	return fmt.Sprintf(`Create %s tone %s post with:
%s

Format:
1. Platform best practices
2. Clear structure
3. Supported formatting
4. Platform hashtag limits
5. Consistent tone
6. Strong open/close
7. Strategic emojis
8. Readable format
9. Natural language
10. Relatable content
11. Current topics
12. Authentic voice`, tone, platform, content)
}

const emojiGuide = `Emotions & Reactions:
🫡 - Saluting, respect
🫣 - Peeking, sneaky
🫢 - Shocked, surprised
🫥 - Invisible, done
🫤 - Annoyed, whatever
🫶 - Love, thanks

Status & Mood:
💅 - Confidence, sass
💀 - Dying laughing
💯 - 100% agree
🔥 - Amazing, on fire
🎯 - On point
🫂 - Support
🫰 - Money

Reactions:
😭 - Intense emotion
😮‍💨 - Exhausted
🥲 - Happy but sad
🥹 - Emotional

Common combos:
💀😭 - Dying laughing
💅✨ - Best life
🫡💯 - Respect
🫣😮‍💨 - Can't believe it`

var emojiSystemPrompt = `You are a Gen Z emoji optimization expert.
Use this guide to optimize emoji usage in the content:
` + emojiGuide + `

Guidelines:
1. Use emojis naturally and authentically
2. Match the platform's vibe (e.g., more professional for LinkedIn)
3. Don't overuse emojis
4. Use combinations when appropriate
5. Keep the original message intact`

func emojiUserPrompt(content, platform string) string {
	return fmt.Sprintf("Optimize emoji usage in this content for %s:\n\n%s", platform, content)
}

const hashtagSystemPrompt = "You are a social media strategist who picks relevant, popular hashtags. " +
	"Answer with hashtags only, separated by spaces."

func hashtagUserPrompt(content, platform string, limit int) string {
	return fmt.Sprintf("Suggest up to %d hashtags for this %s post:\n\n%s", limit, platform, content)
}
