package fiberguard

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/abuseguard"
)

type fakeSender struct {
	mu      sync.Mutex
	reports []abuseguard.Report
}

func (s *fakeSender) Name() string { return "fake" }

func (s *fakeSender) Send(ctx context.Context, report abuseguard.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

func (s *fakeSender) snapshot() []abuseguard.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]abuseguard.Report(nil), s.reports...)
}

func newApp(t *testing.T, cfg Config) (*fiber.App, *abuseguard.Guard, *fakeSender) {
	t.Helper()
	sender := &fakeSender{}
	g, err := abuseguard.New(abuseguard.Config{APIKey: "test-key", Sender: sender})
	require.NoError(t, err)
	t.Cleanup(g.Close)

	app := fiber.New()
	app.Use(New(g, cfg))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/.env", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/manual-report", func(c *fiber.Ctx) error {
		Report(g, c, "Manual Fiber Report")
		return c.SendStatus(fiber.StatusOK)
	})
	return app, g, sender
}

func TestNormalPathNotReported(t *testing.T) {
	app, g, sender := newApp(t, Config{TrustForwarded: true})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	g.Close()
	assert.Empty(t, sender.snapshot())
}

func TestSuspiciousPathReported(t *testing.T) {
	app, g, sender := newApp(t, Config{TrustForwarded: true})

	req := httptest.NewRequest(fiber.MethodGet, "/.env", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, "192.168.1.1, 10.0.0.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	g.Close()
	reports := sender.snapshot()
	require.Len(t, reports, 1)
	assert.Equal(t, "192.168.1.1", reports[0].IP)
	assert.Equal(t, "/.env", reports[0].Comment)
}

func TestUnmatchedSuspiciousRouteStillForwarded(t *testing.T) {
	app, g, sender := newApp(t, Config{TrustForwarded: true})

	req := httptest.NewRequest(fiber.MethodGet, "/wp-login.php", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, "192.168.1.2")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	g.Close()
	assert.Len(t, sender.snapshot(), 1)
}

func TestNextSkipsInspection(t *testing.T) {
	app, g, sender := newApp(t, Config{
		TrustForwarded: true,
		Next:           func(c *fiber.Ctx) bool { return true },
	})

	req := httptest.NewRequest(fiber.MethodGet, "/.env", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, "192.168.1.3")
	_, err := app.Test(req)
	require.NoError(t, err)

	g.Close()
	assert.Empty(t, sender.snapshot())
}

func TestManualReport(t *testing.T) {
	app, g, sender := newApp(t, Config{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/manual-report", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	g.Close()
	reports := sender.snapshot()
	require.Len(t, reports, 1)
	assert.Equal(t, "Manual Fiber Report", reports[0].Comment)
	assert.NotEmpty(t, reports[0].IP)
}
