package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/brightsteps/brightsteps/internal/kpi"
	"github.com/brightsteps/brightsteps/internal/roster"
)

// sharedLoadTimeout bounds a roster load that outlives the request that started it.
const sharedLoadTimeout = 5 * time.Second

// Service generates visitor rosters and keeps them in the roster store.
type Service struct {
	store   *roster.Store
	now     func() time.Time
	newRand func() roster.Rand
	loads   singleflight.Group
	observe func()
}

// NewService wires the roster store. observe, when set, is called for every generated roster.
func NewService(store *roster.Store, observe func()) *Service {
	return &Service{
		store:   store,
		now:     time.Now,
		newRand: roster.NewRand,
		observe: observe,
	}
}

// WithClock overrides the anchor date source.
func (s *Service) WithClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// WithRand overrides the random source factory.
func (s *Service) WithRand(fn func() roster.Rand) {
	if fn != nil {
		s.newRand = fn
	}
}

// Regenerate replaces the visitor's roster with a fresh one.
func (s *Service) Regenerate(ctx context.Context, visitor string) (roster.Roster, error) {
	r := s.generate()
	if err := s.store.Put(ctx, visitor, r); err != nil {
		return roster.Roster{}, fmt.Errorf("dashboard: store roster: %w", err)
	}
	return r, nil
}

// Load returns the visitor's stored roster, generating one when none is stored.
// Concurrent loads for the same visitor share one result.
func (s *Service) Load(ctx context.Context, visitor string) (roster.Roster, error) {
	if err := ctx.Err(); err != nil {
		return roster.Roster{}, err
	}
	detached := context.WithoutCancel(ctx)
	resultChan := s.loads.DoChan(visitor, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(detached, sharedLoadTimeout)
		defer cancel()
		return s.store.Fetch(fetchCtx, visitor, func(context.Context) (roster.Roster, error) {
			return s.generate(), nil
		})
	})
	select {
	case <-ctx.Done():
		return roster.Roster{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return roster.Roster{}, fmt.Errorf("dashboard: load roster: %w", res.Err)
		}
		return res.Val.(roster.Roster), nil
	}
}

// Summary computes the KPI cards for one client.
func (s *Service) Summary(c roster.Client) (kpi.Summary, error) {
	return kpi.Compute(c.Records, s.newRand())
}

// Summaries computes KPI cards for every client that has records.
func (s *Service) Summaries(r roster.Roster) map[int64]kpi.Summary {
	out := make(map[int64]kpi.Summary, len(r.Clients))
	for _, c := range r.Clients {
		if summary, err := s.Summary(c); err == nil {
			out[c.ID] = summary
		}
	}
	return out
}

func (s *Service) generate() roster.Roster {
	if s.observe != nil {
		s.observe()
	}
	return roster.New(s.now(), s.newRand())
}
