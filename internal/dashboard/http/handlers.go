package dashboardhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/brightsteps/brightsteps/internal/articles"
	"github.com/brightsteps/brightsteps/internal/charts"
	"github.com/brightsteps/brightsteps/internal/charts/svg"
	"github.com/brightsteps/brightsteps/internal/contact"
	"github.com/brightsteps/brightsteps/internal/dashboard"
	"github.com/brightsteps/brightsteps/internal/dashboard/export"
	"github.com/brightsteps/brightsteps/internal/kpi"
	"github.com/brightsteps/brightsteps/internal/platform/httpx"
	"github.com/brightsteps/brightsteps/internal/roster"
	"github.com/brightsteps/brightsteps/internal/shared"
	"github.com/brightsteps/brightsteps/internal/theme"
	"github.com/brightsteps/brightsteps/internal/view"
)

const (
	requestTimeout  = 2 * time.Second
	activeClientKey = "active_client"
	anonymousKey    = "anonymous"
)

var errInvalidClientID = fmt.Errorf("invalid client id: %w", httpx.ErrValidation)

// DashboardService is the roster contract used by the handler.
type DashboardService interface {
	Regenerate(ctx context.Context, visitor string) (roster.Roster, error)
	Load(ctx context.Context, visitor string) (roster.Roster, error)
	Summary(c roster.Client) (kpi.Summary, error)
	Summaries(r roster.Roster) map[int64]kpi.Summary
}

// ArticleLibrary resolves articles for the landing page and modal.
type ArticleLibrary interface {
	Get(slug string) (articles.Article, error)
	List() []articles.Article
}

// Handler serves the landing page, the demo dashboard and its JSON API.
type Handler struct {
	logger    *slog.Logger
	service   DashboardService
	articles  ArticleLibrary
	templates *view.Engine
	csrf      *shared.CSRFManager
	themes    *theme.CookieStore
	recipient string
	observe   func(charts.Kind)
	csvPool   sync.Pool
}

// NewHandler constructs the dashboard HTTP handler. observe, when set, is called per rendered chart.
func NewHandler(logger *slog.Logger, service DashboardService, library ArticleLibrary, templates *view.Engine, csrf *shared.CSRFManager, themes *theme.CookieStore, recipient string, observe func(charts.Kind)) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if themes == nil {
		themes = &theme.CookieStore{}
	}
	h := &Handler{
		logger:    logger,
		service:   service,
		articles:  library,
		templates: templates,
		csrf:      csrf,
		themes:    themes,
		recipient: recipient,
		observe:   observe,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

func (h *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sess := shared.SessionFromContext(r.Context())
	generated, err := h.service.Regenerate(ctx, visitorID(sess))
	if err != nil {
		h.handleServerError(w, "regenerate roster", err)
		return
	}
	state := dashboard.NewState(generated, h.themes.Load(r))
	state.SelectFirst()
	rememberActive(sess, state.ActiveID())
	h.renderPage(ctx, w, r, state)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, err := clientIDParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sess := shared.SessionFromContext(r.Context())
	stored, err := h.service.Load(ctx, visitorID(sess))
	if err != nil {
		h.handleServerError(w, "load roster", err)
		return
	}
	state := dashboard.NewState(stored, h.themes.Load(r))
	if err := state.Select(id); err != nil {
		h.handleLookupError(w, err)
		return
	}
	rememberActive(sess, id)
	h.renderPage(ctx, w, r, state)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	id, err := clientIDParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stored, err := h.service.Load(ctx, visitorID(shared.SessionFromContext(r.Context())))
	if err != nil {
		h.handleServerError(w, "load roster", err)
		return
	}
	client, ok := stored.Find(id)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()
	if err := export.WriteClientCSV(buf, client); err != nil {
		h.handleServerError(w, "write client csv", err)
		return
	}

	filename := fmt.Sprintf("client-%d.csv", client.ID)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("stream csv", slog.Any("error", err))
	}
}

func (h *Handler) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	next := h.themes.Toggle(w, r)
	h.logger.Debug("theme toggled", slog.String("theme", next.String()))
	http.Redirect(w, r, returnPath(r.PostFormValue("return")), http.StatusSeeOther)
}

func (h *Handler) handleArticle(w http.ResponseWriter, r *http.Request) {
	if h.articles == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	article, err := h.articles.Get(chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, articles.ErrNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.handleServerError(w, "load article", err)
		return
	}
	pref := h.themes.Load(r)
	chart, err := articleChart(article, pref)
	if err != nil {
		h.handleServerError(w, "render article chart", err)
		return
	}
	data := view.TemplateData{
		Title:       article.Title,
		CurrentPath: r.URL.Path,
		Theme:       pref,
		Data:        articleView{Article: article, Chart: chart},
	}
	if err := h.templates.Render(w, "partials/article_modal.html", data); err != nil {
		h.handleServerError(w, "render article", err)
	}
}

func (h *Handler) renderPage(ctx context.Context, w http.ResponseWriter, r *http.Request, state *dashboard.State) {
	defer h.release(state)
	vm, err := h.buildViewModel(ctx, state)
	if err != nil {
		h.handleServerError(w, "build dashboard", err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	csrfToken := ""
	if sess != nil {
		flash = sess.PopFlash()
	}
	if h.csrf != nil {
		csrfToken = h.csrf.EnsureToken(sess)
	}
	vm.Contact.CSRFToken = csrfToken
	viewData := view.TemplateData{
		Title:       "BrightSteps Therapy",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Theme:       state.Theme,
		Data:        vm,
	}
	if err := h.templates.Render(w, "pages/landing.html", viewData); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) buildViewModel(ctx context.Context, state *dashboard.State) (pageView, error) {
	summaries := h.service.Summaries(state.Roster)
	renderer := charts.NewRenderer(theme.PaletteFor(state.Theme), h.observe)
	colors := svg.ColorsFor(theme.PaletteFor(state.Theme))

	vm := pageView{Contact: contact.FormView{Recipient: h.recipient}}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		handles, err := state.Render(renderer, summaries)
		if err != nil {
			return err
		}
		vm.Charts = handles
		return nil
	})

	g.Go(func() error {
		cards, err := clientCards(state, summaries, colors)
		if err != nil {
			return err
		}
		vm.Clients = cards
		for i := range cards {
			if cards[i].Active {
				active := cards[i]
				vm.Active = &active
			}
		}
		return nil
	})

	g.Go(func() error {
		if h.articles == nil {
			return nil
		}
		vm.Articles = h.articles.List()
		featured, err := h.articles.Get(articles.DefaultSlug)
		if err != nil {
			if errors.Is(err, articles.ErrNotFound) {
				return nil
			}
			return err
		}
		chart, err := articleChart(featured, state.Theme)
		if err != nil {
			return err
		}
		vm.Featured = &articleView{Article: featured, Chart: chart}
		return nil
	})

	if err := g.Wait(); err != nil {
		return pageView{}, err
	}
	return vm, nil
}

func (h *Handler) handleLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrClientNotFound) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	h.handleServerError(w, "lookup client", err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func articleChart(a articles.Article, pref theme.Preference) (template.HTML, error) {
	if len(a.Chart.Values) == 0 {
		return "", nil
	}
	return svg.Line(svg.DefaultWidth, svg.DefaultHeight, a.Chart.Values, a.Chart.Labels, svg.LineOpts{
		Title:       a.Chart.Title,
		Description: a.Summary,
		Colors:      svg.ColorsFor(theme.PaletteFor(pref)),
		ShowDots:    true,
		ShowArea:    true,
		TickCount:   svg.DefaultTicks,
		Headroom:    0.1,
	})
}

func clientIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidClientID
	}
	return id, nil
}

// release disposes the chart handles a request rendered once the response is written.
func (h *Handler) release(state *dashboard.State) {
	if state == nil || state.Charts() == nil {
		return
	}
	n := state.Charts().DisposeAll()
	h.logger.Debug("released charts", slog.Int("count", n))
}

func visitorID(sess *shared.Session) string {
	if sess == nil || sess.ID == "" {
		return anonymousKey
	}
	return sess.ID
}

func rememberActive(sess *shared.Session, id int64) {
	if sess == nil {
		return
	}
	if id == 0 {
		sess.Delete(activeClientKey)
		return
	}
	sess.Set(activeClientKey, strconv.FormatInt(id, 10))
}

func recalledActive(sess *shared.Session) int64 {
	if sess == nil {
		return 0
	}
	id, err := strconv.ParseInt(sess.Get(activeClientKey), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// returnPath keeps redirects on this site.
func returnPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return "/"
	}
	return p
}
