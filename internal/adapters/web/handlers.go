package web

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialpost-ai/internal/domain"
	"socialpost-ai/pkg/log"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// generateTimeout bounds one POST /api/posts request across all platforms.
const generateTimeout = 5 * time.Minute

// PostGenerator runs the content pipeline for one platform.
type PostGenerator interface {
	Execute(ctx context.Context, topic, platform, tone string) (domain.Post, error)
}

// PlatformCatalog lists the supported platforms.
type PlatformCatalog interface {
	Names() []string
	Lookup(name string) (domain.PlatformPolicy, error)
}

// Handlers contains the HTTP handlers for the web application.
type Handlers struct {
	generator PostGenerator
	platforms PlatformCatalog
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(generator PostGenerator, platforms PlatformCatalog) *Handlers {
	return &Handlers{
		generator: generator,
		platforms: platforms,
	}
}

type createPostsRequest struct {
	Topic     string   `json:"topic"`
	Platforms []string `json:"platforms"`
	Tone      string   `json:"tone"`
}

type postResponse struct {
	Platform string   `json:"platform"`
	Content  string   `json:"content,omitempty"`
	Tweets   []string `json:"tweets,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type createPostsResponse struct {
	Topic string         `json:"topic"`
	Posts []postResponse `json:"posts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// render is a helper to render templ components.
func render(c *fiber.Ctx, component templ.Component) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return adaptor.HTTPHandler(templ.Handler(component))(c)
}

// Home renders the generator form.
func (h *Handlers) Home(c *fiber.Ctx) error {
	return render(c, homePage(h.platforms.Names()))
}

// CreatePosts generates a post for every requested platform. A failure on
// one platform is reported in its entry and the others still run.
func (h *Handlers) CreatePosts(c *fiber.Ctx) error {
	var req createPostsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Request body must be JSON with a topic."})
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: friendlyError(domain.ErrEmptyTopic)})
	}
	if len(req.Platforms) == 0 {
		req.Platforms = h.platforms.Names()
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), generateTimeout)
	defer cancel()

	resp := createPostsResponse{Topic: req.Topic, Posts: make([]postResponse, 0, len(req.Platforms))}
	for _, platform := range req.Platforms {
		post, err := h.generator.Execute(ctx, req.Topic, platform, req.Tone)
		if err != nil {
			log.GlobalErrorCtx(ctx, "generate post failed", "platform", platform, "error", err)
			resp.Posts = append(resp.Posts, postResponse{Platform: platform, Error: friendlyError(err)})
			continue
		}
		resp.Posts = append(resp.Posts, postResponse{
			Platform: post.Platform.Name,
			Content:  post.Final,
			Tweets:   post.Tweets(),
		})
	}

	return c.JSON(resp)
}

// Platforms lists the policy of every supported platform.
func (h *Handlers) Platforms(c *fiber.Ctx) error {
	names := h.platforms.Names()
	policies := make([]domain.PlatformPolicy, 0, len(names))
	for _, name := range names {
		if p, err := h.platforms.Lookup(name); err == nil {
			policies = append(policies, p)
		}
	}
	return c.JSON(policies)
}

// Healthz reports liveness.
func (h *Handlers) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// friendlyError returns a neutral, non-blaming error message.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedPlatform):
		return "This platform isn't supported yet."
	case errors.Is(err, domain.ErrEmptyTopic):
		return "Please enter a topic to write about."
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "Generating this post took too long. Please try again."
	default:
		return "Unable to generate this post right now. Please try again in a moment."
	}
}
