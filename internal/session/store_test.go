package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"skillsync/internal/config"
	"skillsync/internal/errors"
	"skillsync/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(cfg config.SessionConfig, p *fakeProvider, clock *fakeClock, rec Recorder) *Store {
	st := NewStore(cfg, func(id string) *Session {
		return New(p, WithID(id), WithClock(clock.Now))
	}, rec, nil)
	st.now = clock.Now
	return st
}

func TestStoreLifecycle(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)}
	rec := &recordingRecorder{}
	st := newTestStore(config.SessionConfig{}, &fakeProvider{}, clock, rec)
	ctx := context.Background()

	s, err := st.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	assert.True(t, st.Delete(ctx, s.ID))
	assert.False(t, st.Delete(ctx, s.ID))
	assert.Equal(t, int64(0), rec.sessions)

	_, err = st.Get(s.ID)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	st := newTestStore(config.SessionConfig{}, &fakeProvider{}, clock, nil)

	a, err := st.Create(context.Background())
	require.NoError(t, err)
	b, err := st.Create(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	a.CompleteAnalysis(sampleResult())
	_, ok := b.Result()
	assert.False(t, ok)
	assert.Equal(t, types.PageGapAnalysis, b.Page())
}

func TestStoreLimit(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	st := newTestStore(config.SessionConfig{MaxSessions: 2}, &fakeProvider{}, clock, nil)
	ctx := context.Background()

	for range 2 {
		_, err := st.Create(ctx)
		require.NoError(t, err)
	}
	_, err := st.Create(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestStoreEvictsIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)}
	rec := &recordingRecorder{}
	st := newTestStore(config.SessionConfig{IdleTTL: 30 * time.Minute}, &fakeProvider{}, clock, rec)
	ctx := context.Background()

	stale, err := st.Create(ctx)
	require.NoError(t, err)
	fresh, err := st.Create(ctx)
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = st.Get(fresh.ID)
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, st.EvictIdle(ctx))
	_, err = st.Get(stale.ID)
	assert.Error(t, err)
	_, err = st.Get(fresh.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rec.sessions)
}

func TestStoreKeepsBusySessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)}
	release := make(chan struct{})
	started := make(chan struct{})
	p := &fakeProvider{analyze: func(context.Context, types.AnalyzeGapInput) (types.AnalysisResult, error) {
		close(started)
		<-release
		return sampleResult(), nil
	}}
	st := newTestStore(config.SessionConfig{IdleTTL: time.Minute}, p, clock, nil)

	s, err := st.Create(context.Background())
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Gap.Submit(context.Background())
	}()
	<-started

	clock.Advance(time.Hour)
	assert.Zero(t, st.EvictIdle(context.Background()))

	close(release)
	<-done
	assert.Equal(t, 1, st.Len())
}

func TestStoreRunStopsOnCancel(t *testing.T) {
	st := NewStore(config.SessionConfig{IdleTTL: time.Minute, CleanupInterval: time.Millisecond},
		func(id string) *Session { return New(&fakeProvider{}, WithID(id)) }, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- st.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
