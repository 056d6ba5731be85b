package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsteps/brightsteps/internal/charts"
	"github.com/brightsteps/brightsteps/internal/roster"
	"github.com/brightsteps/brightsteps/internal/theme"
)

var anchor = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func newService(t *testing.T, generated *atomic.Int32) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(roster.NewStore(client, time.Minute), func() {
		if generated != nil {
			generated.Add(1)
		}
	})
	svc.WithClock(func() time.Time { return anchor })
	var seed atomic.Uint64
	svc.WithRand(func() roster.Rand { return roster.NewSeededRand(seed.Add(1)) })
	return svc, mr
}

func TestStateSelection(t *testing.T) {
	s := NewState(roster.New(anchor, roster.NewSeededRand(1)), theme.Default)
	_, ok := s.Active()
	assert.False(t, ok)
	assert.Zero(t, s.ActiveID())

	require.NoError(t, s.Select(1002))
	c, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "Ethan Lopez", c.Name)

	assert.ErrorIs(t, s.Select(42), ErrClientNotFound)
	assert.Equal(t, int64(1002), s.ActiveID(), "failed select keeps the previous client")

	s.Clear()
	_, ok = s.Active()
	assert.False(t, ok)

	s.SelectFirst()
	assert.Equal(t, roster.BaseID, s.ActiveID())
}

func TestStateRenderDisposesPreviousCharts(t *testing.T) {
	s := NewState(roster.New(anchor, roster.NewSeededRand(2)), theme.Light)
	s.SelectFirst()
	var rendered []charts.Kind
	renderer := charts.NewRenderer(theme.PaletteFor(s.Theme), func(k charts.Kind) { rendered = append(rendered, k) })

	first, err := s.Render(renderer, nil)
	require.NoError(t, err)
	require.Len(t, first, 7)
	assert.Equal(t, 7, s.Charts().Len())

	require.NoError(t, s.Select(1003))
	second, err := s.Render(renderer, nil)
	require.NoError(t, err)
	require.Len(t, second, 7)
	for _, h := range first {
		assert.True(t, h.Disposed(), h.ID)
	}
	for _, h := range second {
		assert.False(t, h.Disposed(), h.ID)
	}

	s.Clear()
	third, err := s.Render(renderer, nil)
	require.NoError(t, err)
	assert.Len(t, third, 4)
	assert.Equal(t, 4, s.Charts().Len())
	_, ok := s.Charts().Get(charts.IDSkillTrend)
	assert.False(t, ok)
	assert.Len(t, rendered, 18)
}

func TestStateRenderWithoutRenderer(t *testing.T) {
	s := NewState(roster.Roster{}, theme.Dark)
	handles, err := s.Render(nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, handles)
}

func TestServiceRegenerateAndLoad(t *testing.T) {
	var generated atomic.Int32
	svc, mr := newService(t, &generated)
	ctx := context.Background()

	first, err := svc.Regenerate(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("roster:v1"))

	loaded, err := svc.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, first.Clients[0].Records[3].SkillMastery, loaded.Clients[0].Records[3].SkillMastery)
	assert.Equal(t, int32(1), generated.Load())

	second, err := svc.Regenerate(ctx, "v1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Clients[0].Records[3].SkillMastery, second.Clients[0].Records[3].SkillMastery)
	assert.Equal(t, int32(2), generated.Load())
}

func TestServiceLoadGeneratesWhenExpired(t *testing.T) {
	var generated atomic.Int32
	svc, mr := newService(t, &generated)
	ctx := context.Background()

	_, err := svc.Load(ctx, "v2")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = svc.Load(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), generated.Load())
}

func TestServiceLoadConcurrent(t *testing.T) {
	var generated atomic.Int32
	svc, _ := newService(t, &generated)

	var wg sync.WaitGroup
	results := make([]roster.Roster, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := svc.Load(context.Background(), "shared")
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Len(t, r.Clients, 3)
	}
}

func TestServiceLoadCancelled(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Load(ctx, "v3")
	assert.Error(t, err)
}

func TestServiceLoadSurvivesFirstCallerCancel(t *testing.T) {
	svc, _ := newService(t, nil)
	started := make(chan struct{})
	proceed := make(chan struct{})
	var once sync.Once
	svc.WithClock(func() time.Time {
		once.Do(func() { close(started) })
		<-proceed
		return anchor
	})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Load(firstCtx, "v4")
		firstErr <- err
	}()
	<-started

	type result struct {
		r   roster.Roster
		err error
	}
	second := make(chan result, 1)
	go func() {
		r, err := svc.Load(context.Background(), "v4")
		second <- result{r, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(proceed)

	got := <-second
	require.NoError(t, got.err)
	assert.Len(t, got.r.Clients, 3)
}

func TestServiceSummaries(t *testing.T) {
	svc, _ := newService(t, nil)
	r := roster.New(anchor, roster.NewSeededRand(9))
	r.Clients = append(r.Clients, roster.Client{ID: 2000, Name: "Empty"})

	summaries := svc.Summaries(r)
	assert.Len(t, summaries, 3)
	_, ok := summaries[2000]
	assert.False(t, ok)

	s, err := svc.Summary(r.Clients[0])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s.ForecastWeeks, 2)
	assert.LessOrEqual(t, s.ForecastWeeks, 5)
}
