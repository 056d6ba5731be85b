package dashboardhttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brightsteps/brightsteps/internal/charts"
	"github.com/brightsteps/brightsteps/internal/dashboard"
	"github.com/brightsteps/brightsteps/internal/kpi"
	"github.com/brightsteps/brightsteps/internal/platform/httpx"
	"github.com/brightsteps/brightsteps/internal/roster"
	"github.com/brightsteps/brightsteps/internal/shared"
	"github.com/brightsteps/brightsteps/internal/theme"
)

type clientResponse struct {
	roster.Client
	KPI *kpi.Summary `json:"kpi,omitempty"`
}

type rosterResponse struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Clients     []clientResponse `json:"clients"`
}

type kpiResponse struct {
	ClientID int64 `json:"client_id"`
	kpi.Summary
	Display map[string]string `json:"display"`
}

type chartsResponse struct {
	Theme    string           `json:"theme"`
	ActiveID int64            `json:"active_id"`
	Charts   []*charts.Handle `json:"charts"`
}

func (h *Handler) apiClients(w http.ResponseWriter, r *http.Request) {
	stored, err := h.loadRoster(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summaries := h.service.Summaries(stored)
	resp := rosterResponse{GeneratedAt: stored.GeneratedAt, Clients: make([]clientResponse, 0, len(stored.Clients))}
	for _, c := range stored.Clients {
		item := clientResponse{Client: c}
		if s, ok := summaries[c.ID]; ok {
			item.KPI = &s
		}
		resp.Clients = append(resp.Clients, item)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) apiKPI(w http.ResponseWriter, r *http.Request) {
	id, err := clientIDParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	stored, err := h.loadRoster(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	client, ok := stored.Find(id)
	if !ok {
		httpx.RespondError(w, fmt.Errorf("client %d: %w", id, httpx.ErrNotFound))
		return
	}
	summary, err := h.service.Summary(client)
	if err != nil {
		if errors.Is(err, kpi.ErrNoRecords) {
			httpx.RespondError(w, fmt.Errorf("%w: %w", httpx.ErrNotFound, err))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, kpiResponse{
		ClientID: id,
		Summary:  summary,
		Display: map[string]string{
			"mastery":            summary.Mastery(),
			"behavior_reduction": summary.BehaviorReduction(),
			"parent_training":    summary.ParentTraining(),
			"forecast":           summary.Forecast(),
		},
	})
}

// apiCharts returns chart options for the remembered selection, or ?client= when given.
func (h *Handler) apiCharts(w http.ResponseWriter, r *http.Request) {
	stored, err := h.loadRoster(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	state := dashboard.NewState(stored, h.themes.Load(r))
	defer h.release(state)

	selected := recalledActive(sess)
	explicit := false
	if raw := strings.TrimSpace(r.URL.Query().Get("client")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httpx.RespondError(w, errInvalidClientID)
			return
		}
		selected = id
		explicit = true
	}
	if selected != 0 {
		err := state.Select(selected)
		switch {
		case err == nil:
			rememberActive(sess, selected)
		case errors.Is(err, dashboard.ErrClientNotFound) && !explicit:
			// The remembered client belongs to an expired roster.
			state.Clear()
			rememberActive(sess, 0)
		case errors.Is(err, dashboard.ErrClientNotFound):
			httpx.RespondError(w, fmt.Errorf("%w: %w", httpx.ErrNotFound, err))
			return
		default:
			httpx.RespondError(w, err)
			return
		}
	}

	renderer := charts.NewRenderer(theme.PaletteFor(state.Theme), h.observe)
	handles, err := state.Render(renderer, h.service.Summaries(stored))
	if err != nil {
		h.logger.Error("render charts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, chartsResponse{
		Theme:    state.Theme.String(),
		ActiveID: state.ActiveID(),
		Charts:   handles,
	})
}

func (h *Handler) loadRoster(r *http.Request) (roster.Roster, error) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	return h.service.Load(ctx, visitorID(shared.SessionFromContext(r.Context())))
}
