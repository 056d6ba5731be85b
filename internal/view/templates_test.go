package view

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsteps/brightsteps/internal/theme"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestFuncs(t *testing.T) {
	funcs := Funcs()
	assert.Equal(t, "", funcs["formatDate"].(func(time.Time) string)(time.Time{}))
	assert.Equal(t, "10 Feb 2025", funcs["formatDate"].(func(time.Time) string)(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Heatmap", funcs["title"].(func(any) string)("heatmap"))
	assert.Equal(t, "Doughnut", funcs["title"].(func(any) string)(stringer("doughnut")))
	assert.Equal(t, "1,100", funcs["number"].(func(float64) string)(1100))
	assert.Equal(t, "7.5", funcs["oneDecimal"].(func(float64) string)(7.46))
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestNextTheme(t *testing.T) {
	assert.Equal(t, theme.Light, TemplateData{Theme: theme.Dark}.NextTheme())
	assert.Equal(t, theme.Dark, TemplateData{Theme: theme.Light}.NextTheme())
}

func TestRenderNilEngine(t *testing.T) {
	var e *Engine
	err := e.Render(httptest.NewRecorder(), "pages/landing.html", TemplateData{})
	require.Error(t, err)
}
