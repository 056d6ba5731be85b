package contact

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/brightsteps/brightsteps/internal/shared"
	"github.com/brightsteps/brightsteps/internal/theme"
	"github.com/brightsteps/brightsteps/internal/view"
)

// Submission outcomes reported to the observer.
const (
	OutcomeSent    = "sent"
	OutcomeInvalid = "invalid"
)

// Handler serves the contact page and turns valid submissions into a mailto redirect.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	csrf      *shared.CSRFManager
	themes    *theme.CookieStore
	validator *validator.Validate
	recipient string
	observe   func(outcome string)
}

// NewHandler constructs a Handler. observe may be nil.
func NewHandler(logger *slog.Logger, templates *view.Engine, csrf *shared.CSRFManager, themes *theme.CookieStore, recipient string, observe func(string)) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		templates: templates,
		csrf:      csrf,
		themes:    themes,
		validator: validator.New(),
		recipient: recipient,
		observe:   observe,
	}
}

// MountRoutes registers contact routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/contact", h.show)
	r.With(httprate.LimitByIP(10, time.Minute)).Post("/contact", h.submit)
}

// FormView is the template model for the enquiry form.
type FormView struct {
	Form      Form
	Errors    map[string]string
	Recipient string
	CSRFToken string
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, FormView{Recipient: h.recipient})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := Form{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}.Normalize()

	errs := Validate(h.validator, form)
	if len(errs) > 0 {
		h.record(OutcomeInvalid)
		h.logger.Info("contact form rejected", slog.Int("fields", len(errs)))
		h.render(w, r, http.StatusBadRequest, FormView{Form: form, Errors: errs, Recipient: h.recipient})
		return
	}

	h.record(OutcomeSent)
	http.Redirect(w, r, Compose(h.recipient, form), http.StatusSeeOther)
}

func (h *Handler) record(outcome string) {
	if h.observe != nil {
		h.observe(outcome)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data FormView) {
	sess := shared.SessionFromContext(r.Context())
	var csrfToken string
	if h.csrf != nil {
		csrfToken = h.csrf.EnsureToken(sess)
	}
	data.CSRFToken = csrfToken
	pref := theme.Default
	if h.themes != nil {
		pref = h.themes.Load(r)
	}
	viewData := view.TemplateData{
		Title:       "Contact",
		CSRFToken:   csrfToken,
		CurrentPath: r.URL.Path,
		Theme:       pref,
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/contact.html", viewData); err != nil {
		h.logger.Error("render contact", slog.Any("error", err))
	}
}
