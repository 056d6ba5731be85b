// Package dashboard holds a visitor's demo dashboard: the generated roster,
// the selected client, the display theme and the charts currently rendered.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/brightsteps/brightsteps/internal/charts"
	"github.com/brightsteps/brightsteps/internal/kpi"
	"github.com/brightsteps/brightsteps/internal/roster"
	"github.com/brightsteps/brightsteps/internal/theme"
)

// ErrClientNotFound indicates the requested client is not in the roster.
var ErrClientNotFound = errors.New("dashboard: client not found")

// State is the dashboard for one request. The zero active id means no client is selected.
type State struct {
	Roster   roster.Roster
	Theme    theme.Preference
	activeID int64
	charts   *charts.Registry
}

// NewState wraps a roster with no client selected.
func NewState(r roster.Roster, pref theme.Preference) *State {
	return &State{Roster: r, Theme: pref, charts: charts.NewRegistry()}
}

// Select makes id the active client.
func (s *State) Select(id int64) error {
	if _, ok := s.Roster.Find(id); !ok {
		return fmt.Errorf("%w: %d", ErrClientNotFound, id)
	}
	s.activeID = id
	return nil
}

// SelectFirst selects the first client, if any.
func (s *State) SelectFirst() {
	if len(s.Roster.Clients) > 0 {
		s.activeID = s.Roster.Clients[0].ID
	}
}

// Clear drops the selection.
func (s *State) Clear() {
	s.activeID = 0
}

// ActiveID returns the selected client id, or 0.
func (s *State) ActiveID() int64 {
	return s.activeID
}

// Active returns the selected client.
func (s *State) Active() (roster.Client, bool) {
	if s.activeID == 0 {
		return roster.Client{}, false
	}
	return s.Roster.Find(s.activeID)
}

// Charts exposes the registry of live chart handles.
func (s *State) Charts() *charts.Registry {
	return s.charts
}

// Render rebuilds the chart set for the current selection. Each previous handle is
// disposed before its replacement is installed, and charts no longer produced are removed.
func (s *State) Render(renderer *charts.Renderer, summaries map[int64]kpi.Summary) ([]*charts.Handle, error) {
	if renderer == nil {
		return nil, nil
	}
	var active *roster.Client
	if c, ok := s.Active(); ok {
		active = &c
	}
	specs := charts.DashboardSpecs(s.Roster, active, summaries)

	handles := make([]*charts.Handle, 0, len(specs))
	for _, n := range specs {
		h, err := renderer.Render(n.ID, n.Spec)
		if err != nil {
			for _, done := range handles {
				done.Dispose()
			}
			return nil, err
		}
		handles = append(handles, h)
	}

	keep := make(map[string]bool, len(handles))
	for _, h := range handles {
		keep[h.ID] = true
		s.charts.Replace(h)
	}
	for _, h := range s.charts.Handles() {
		if !keep[h.ID] {
			s.charts.Remove(h.ID)
		}
	}
	return handles, nil
}
