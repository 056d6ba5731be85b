package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsteps/brightsteps/internal/articles"
	"github.com/brightsteps/brightsteps/internal/charts"
	"github.com/brightsteps/brightsteps/internal/contact"
	"github.com/brightsteps/brightsteps/internal/dashboard"
	dashboardhttp "github.com/brightsteps/brightsteps/internal/dashboard/http"
	"github.com/brightsteps/brightsteps/internal/observability"
	"github.com/brightsteps/brightsteps/internal/roster"
	"github.com/brightsteps/brightsteps/internal/shared"
	"github.com/brightsteps/brightsteps/internal/theme"
	"github.com/brightsteps/brightsteps/internal/view"
)

var csrfMeta = regexp.MustCompile(`name="csrf-token" content="([A-Za-z0-9_-]+)"`)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second, RosterTTL: time.Hour, CSRFSecret: "secret"}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	templates, err := view.NewEngine()
	require.NoError(t, err)
	library, err := articles.Load()
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	sessions := shared.NewSessionManager(client, "brightsteps_session", time.Hour, false)
	csrf := shared.NewCSRFManager(cfg.CSRFSecret)
	themes := &theme.CookieStore{}

	service := dashboard.NewService(roster.NewStore(client, cfg.RosterTTL), metrics.RosterGenerated)
	dash := dashboardhttp.NewHandler(logger, service, library, templates, csrf, themes, "team@brightsteps.example", func(k charts.Kind) {
		metrics.ChartRendered(string(k))
	})
	contactHandler := contact.NewHandler(logger, templates, csrf, themes, "team@brightsteps.example", metrics.ContactSubmitted)

	srv := httptest.NewServer(NewRouter(RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessions,
		CSRFManager:      csrf,
		DashboardHandler: dash,
		ContactHandler:   contactHandler,
		Metrics:          metrics,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func noRedirectClient(t *testing.T) *http.Client {
	t.Helper()
	jar := newJar(t)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func fetchToken(t *testing.T, client *http.Client, base string) string {
	t.Helper()
	resp, err := client.Get(base + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	m := csrfMeta.FindSubmatch(body)
	require.Len(t, m, 2, "csrf meta tag missing")
	return string(m[1])
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestLandingSetsSecurityHeadersAndSession(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	csp := resp.Header.Get("Content-Security-Policy")
	assert.Contains(t, csp, "https://cdn.jsdelivr.net")
	assert.Contains(t, csp, "'unsafe-inline'")
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "brightsteps_session" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
}

func TestThemeToggleRequiresCSRFToken(t *testing.T) {
	srv := newTestServer(t)
	client := noRedirectClient(t)
	token := fetchToken(t, client, srv.URL)

	resp, err := client.PostForm(srv.URL+"/theme/toggle", url.Values{"return": {"/"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+"/theme/toggle", url.Values{"return": {"/"}, shared.CSRFFormField: {token}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var pref string
	for _, c := range resp.Cookies() {
		if c.Name == theme.CookieName {
			pref = c.Value
		}
	}
	assert.Equal(t, string(theme.Light), pref)
}

func TestContactSubmissionRedirectsToMailto(t *testing.T) {
	srv := newTestServer(t)
	client := noRedirectClient(t)
	token := fetchToken(t, client, srv.URL)

	resp, err := client.PostForm(srv.URL+"/contact", url.Values{
		"name":               {"Jane Doe"},
		"email":              {"jane@x.io"},
		"message":            {"Hello"},
		shared.CSRFFormField: {token},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "mailto:team@brightsteps.example?subject="))
}

func TestMetricsEndpointCountsDomainEvents(t *testing.T) {
	srv := newTestServer(t)
	client := noRedirectClient(t)
	fetchToken(t, client, srv.URL)

	resp, err := client.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	assert.Contains(t, text, "brightsteps_roster_generations_total 1")
	assert.Contains(t, text, `brightsteps_chart_renders_total{kind="heatmap"} 1`)
	assert.Contains(t, text, `brightsteps_http_requests_total{code="200",route="/"} 1`)
}

func TestStaticAssetsAreCached(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/static/js/site.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
}

func TestConfigFinalize(t *testing.T) {
	cfg := Config{AppEnv: "development", RosterTTL: time.Hour}
	require.NoError(t, cfg.finalize())
	assert.Equal(t, devCSRFSecret, cfg.CSRFSecret)
	assert.Equal(t, contact.DefaultRecipient, cfg.ContactRecipient)

	prod := Config{AppEnv: "production", RosterTTL: time.Hour}
	assert.Error(t, prod.finalize())
	prod.CSRFSecret = "s"
	assert.NoError(t, prod.finalize())
	assert.True(t, prod.IsProduction())

	bad := Config{RosterTTL: 0, CSRFSecret: "s"}
	assert.Error(t, bad.finalize())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("ROSTER_TTL", "30m")
	t.Setenv("CONTACT_RECIPIENT", "ops@brightsteps.example")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.RosterTTL)
	assert.Equal(t, "ops@brightsteps.example", cfg.ContactRecipient)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, "brightsteps_session", cfg.SessionCookie)
}

func TestNewLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{AppEnv: "test", LogFormat: "json", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "brightsteps", entry["service"])
	assert.Equal(t, "test", entry["env"])

	buf.Reset()
	newLogger(&Config{LogLevel: "bogus"}, &buf).Debug("dropped")
	assert.Empty(t, buf.String())
}

func TestTestModeFlag(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	assert.True(t, InTestMode())
	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	assert.False(t, InTestMode())
}

func newJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return jar
}
