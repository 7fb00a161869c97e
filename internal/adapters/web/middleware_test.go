package web

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"socialpost-ai/pkg/log"
	"socialpost-ai/pkg/log/transporters"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func setupTestApp() *fiber.App {
	app := fiber.New()
	app.Use(requestid.New(RequestIDConfig()))
	app.Use(RequestIDToContextMiddleware())
	return app
}

// captureLogs installs a JSON logger writing to a buffer. The returned
// function flushes the logger and returns everything written.
func captureLogs(t *testing.T) func() string {
	t.Helper()
	var buf bytes.Buffer
	logger := log.New(log.Info, transporters.NewStdoutWithWriter(&buf))
	log.SetDefault(logger)
	t.Cleanup(func() { log.SetDefault(nil) })

	return func() string {
		logger.Close()
		return buf.String()
	}
}

func doRequest(t *testing.T, app *fiber.App, method, path string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
}

func TestRequestIDToContext_ExtractsIDFromFiber(t *testing.T) {
	app := setupTestApp()

	var captured string
	app.Get("/test", func(c *fiber.Ctx) error {
		captured = log.RequestIDFromContext(c.UserContext())
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if captured == "" {
		t.Error("request_id should be extracted from Fiber's requestid middleware")
	}
	if header := resp.Header.Get("X-Request-ID"); header != captured {
		t.Errorf("response header = %q, context = %q, should match", header, captured)
	}
}

func TestRequestIDToContext_UsesProvidedID(t *testing.T) {
	app := setupTestApp()

	var captured string
	app.Get("/test", func(c *fiber.Ctx) error {
		captured = log.RequestIDFromContext(c.UserContext())
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "custom-trace-id-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if captured != "custom-trace-id-123" {
		t.Errorf("request_id = %q, want %q", captured, "custom-trace-id-123")
	}
}

func TestRequestLoggerMiddleware_LogsRequest(t *testing.T) {
	flush := captureLogs(t)
	app := setupTestApp()
	app.Use(RequestLoggerMiddleware())
	app.Get("/api/platforms", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/api/platforms", nil)
	req.Header.Set("X-Request-ID", "test-req-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	resp.Body.Close()

	output := flush()
	for _, want := range []string{"request completed", "test-req-123", "/api/platforms", `"status":200`} {
		if !strings.Contains(output, want) {
			t.Errorf("log should contain %q, got: %s", want, output)
		}
	}
}

func TestRequestLoggerMiddleware_LevelFollowsStatus(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		level  string
	}{
		{name: "client error", status: fiber.StatusNotFound, level: "WARN"},
		{name: "server error", status: fiber.StatusInternalServerError, level: "ERROR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			flush := captureLogs(t)
			app := setupTestApp()
			app.Use(RequestLoggerMiddleware())
			app.Get("/status", func(c *fiber.Ctx) error {
				return c.Status(tc.status).SendString("nope")
			})

			doRequest(t, app, "GET", "/status")

			if output := flush(); !strings.Contains(output, tc.level) {
				t.Errorf("status %d should be logged as %s, got: %s", tc.status, tc.level, output)
			}
		})
	}
}

func TestRateLimiter_Allow_EnforcesLimitPerIP(t *testing.T) {
	// Arrange
	rl := NewRateLimiter(2, time.Minute)

	// Act
	first, second, third := rl.Allow("1.1.1.1"), rl.Allow("1.1.1.1"), rl.Allow("1.1.1.1")
	other := rl.Allow("2.2.2.2")

	// Assert
	if !first || !second {
		t.Error("requests within the limit should be allowed")
	}
	if third {
		t.Error("request over the limit should be rejected")
	}
	if !other {
		t.Error("limits are per IP")
	}
}

func TestRateLimiter_Allow_WindowSlides(t *testing.T) {
	// Arrange
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }
	rl.Allow("ip")

	// Act
	now = now.Add(30 * time.Second)
	blocked := !rl.Allow("ip")
	now = now.Add(31 * time.Second)
	allowed := rl.Allow("ip")

	// Assert
	if !blocked {
		t.Error("second request inside the window should be blocked")
	}
	if !allowed {
		t.Error("request after the window should be allowed")
	}
}

func TestRateLimiter_Sweep_DropsIdleIPs(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }
	rl.Allow("idle")
	now = now.Add(2 * time.Minute)
	rl.Allow("active")

	rl.sweep()

	if _, ok := rl.requests["idle"]; ok {
		t.Error("idle IP should be removed")
	}
	if len(rl.requests["active"]) != 1 {
		t.Error("active IP should be kept")
	}
}

func TestRateLimiter_Middleware_Returns429(t *testing.T) {
	// Arrange
	app := fiber.New()
	rl := NewRateLimiter(1, time.Minute)
	app.Post("/api/posts", rl.Middleware(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Act
	first, err := app.Test(httptest.NewRequest("POST", "/api/posts", nil))
	if err != nil {
		t.Fatal(err)
	}
	first.Body.Close()
	second, err := app.Test(httptest.NewRequest("POST", "/api/posts", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer second.Body.Close()

	// Assert
	if first.StatusCode != fiber.StatusOK {
		t.Errorf("first: got %d", first.StatusCode)
	}
	if second.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("second: got %d, want 429", second.StatusCode)
	}
	if second.Header.Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
}
