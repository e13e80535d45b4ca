package poller

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlipSentinel/internal/marketcache"
	"FlipSentinel/internal/model"
	"FlipSentinel/internal/wiki"
)

func i64(v int64) *int64 { return &v }

func testMock() *wiki.MockFetcher {
	return &wiki.MockFetcher{
		Mapping: []model.CatalogEntry{
			{ID: 1, Name: "Widget", BuyLimit: i64(1000)},
			{ID: 2, Name: "Gadget"},
		},
		Latest: map[int]model.LatestPrice{
			1: {High: i64(110), Low: i64(100)},
		},
		FiveMin: map[int]model.AggregateEntry{
			1: {HighVolume: i64(500), LowVolume: i64(600)},
		},
		OneHour: map[int]model.AggregateEntry{
			1: {HighVolume: i64(4000), LowVolume: i64(5000)},
		},
	}
}

func TestRefreshMapping_KeysByID(t *testing.T) {
	cache := marketcache.New()
	p := New(testMock(), cache, DefaultIntervals(), nil, zerolog.Nop())

	p.refreshMapping()

	snap := cache.Mapping.Get()
	require.NotNil(t, snap)
	assert.Len(t, snap.Data, 2)
	assert.Equal(t, "Widget", snap.Data[1].Name)
	assert.Empty(t, snap.Err)
}

func TestRefresh5m_FailureKeepsPreviousData(t *testing.T) {
	mock := testMock()
	cache := marketcache.New()
	p := New(mock, cache, DefaultIntervals(), nil, zerolog.Nop())

	p.refresh5m()
	first := cache.FiveMin.Get()
	require.NotNil(t, first)
	require.Len(t, first.Data, 1)

	time.Sleep(5 * time.Millisecond)
	mock.FiveMinErr = errors.New("rate limited")
	p.refresh5m()

	snap := cache.FiveMin.Get()
	require.NotNil(t, snap)
	assert.Equal(t, "rate limited", snap.Err)
	assert.Equal(t, first.Data, snap.Data)
	assert.True(t, snap.FetchedAt.After(first.FetchedAt))

	// Independence: the other series never saw the failure.
	p.refreshLatest()
	assert.Empty(t, cache.Latest.Get().Err)
}

func TestRefresh_FailureBeforeFirstSuccess(t *testing.T) {
	mock := testMock()
	mock.LatestErr = errors.New("boom")
	cache := marketcache.New()
	p := New(mock, cache, DefaultIntervals(), nil, zerolog.Nop())

	p.refreshLatest()

	snap := cache.Latest.Get()
	require.NotNil(t, snap)
	assert.Equal(t, "boom", snap.Err)
	assert.Empty(t, snap.Data)
}

func TestStart_KicksImmediateFetches(t *testing.T) {
	cache := marketcache.New()
	p := New(testMock(), cache, DefaultIntervals(), nil, zerolog.Nop())

	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return cache.Status().OK
	}, 2*time.Second, 10*time.Millisecond)
}
