package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftshop.GO/catalog"
	"giftshop.GO/core/metrics"
)

func sessionEngine(n int) *catalog.Engine {
	products := make([]catalog.Product, n)
	for i := range products {
		products[i] = catalog.Product{
			ID:                 fmt.Sprintf("p%02d", i),
			Name:               fmt.Sprintf("Gift %02d", i),
			Price:              catalog.Money(100 * (i + 1)),
			DiscountPercentage: i % 3 * 10,
		}
	}
	e := catalog.NewEngine()
	e.Load(catalog.Snapshot{
		Products: products,
		Collections: []catalog.Collection{{
			ID:       "b1",
			Products: []catalog.Product{{ID: "b1-0-p01", Name: "Gift 01"}, {ID: "b1-1-p02", Name: "Gift 02"}},
		}},
	})
	return e
}

func TestSessions_OpenUpdateShrink(t *testing.T) {
	s := NewSessions(sessionEngine(25), catalog.NewShuffler(1), 0)

	st, err := s.Open(catalog.ScreenHome, catalog.FilterState{})
	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
	assert.Len(t, st.Page.Items, 20)
	assert.True(t, st.Page.HasMore)

	maxPrice := catalog.Money(1000)
	st, err = s.Update(st.ID, catalog.FilterState{MaxPrice: &maxPrice})
	require.NoError(t, err)
	assert.Len(t, st.Page.Items, 10)
	assert.False(t, st.Page.HasMore)
	assert.Equal(t, 1, st.Page.CurrentPage)

	st, err = s.LoadMore(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Len(t, st.Page.Items, 10)
}

func TestSessions_ConcurrentUpdatesAgree(t *testing.T) {
	s := NewSessions(sessionEngine(25), catalog.NewShuffler(1), 0)
	st, err := s.Open(catalog.ScreenHome, catalog.FilterState{})
	require.NoError(t, err)

	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		for _, q := range []string{"Gift 01", "Gift 2"} {
			wg.Add(1)
			go func(q string) {
				defer wg.Done()
				_, err := s.Update(st.ID, catalog.FilterState{Query: q})
				assert.NoError(t, err)
			}(q)
		}
		wg.Wait()

		got, err := s.State(st.ID)
		require.NoError(t, err)
		want := s.engine.Query(got.Filter)
		require.Equal(t, len(want), got.Page.Total, "round %d filter %q", round, got.Filter.Query)
		for _, p := range got.Page.Items {
			assert.Contains(t, p.Name, got.Filter.Query)
		}
	}
}

func TestSessions_LoadMoreCoversList(t *testing.T) {
	m := metrics.New(false)
	s := NewSessions(sessionEngine(47), nil, 0, WithSessionMetrics(m))
	st, err := s.Open(catalog.ScreenSearch, catalog.FilterState{Sort: catalog.SortPriceDesc})
	require.NoError(t, err)
	for st.Page.HasMore {
		st, err = s.LoadMore(context.Background(), st.ID)
		require.NoError(t, err)
	}
	assert.Len(t, st.Page.Items, 47)
	assert.Equal(t, "p46", st.Page.Items[0].ID)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoadMore.WithLabelValues("appended")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenSessions))
}

func TestSessions_DealsScreen(t *testing.T) {
	s := NewSessions(sessionEngine(40), catalog.NewShuffler(9), 0)
	st, err := s.Open(catalog.ScreenDeals, catalog.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, 18, st.Page.PageSize)
	for _, p := range st.Page.Items {
		assert.Greater(t, p.DiscountPercentage, 0)
	}
}

func TestSessions_BundleScreen(t *testing.T) {
	s := NewSessions(sessionEngine(5), nil, 0)
	st, err := s.Open(catalog.ScreenBundle, catalog.FilterState{CollectionID: "b1", Query: "02"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b1-1-p02"}, productIDs(st.Page.Items))

	_, err = s.Open(catalog.ScreenBundle, catalog.FilterState{CollectionID: "nope"})
	assert.ErrorIs(t, err, catalog.ErrCollectionNotFound)
}

func TestSessions_Errors(t *testing.T) {
	s := NewSessions(sessionEngine(3), nil, 0)
	_, err := s.Open(catalog.ScreenHome, catalog.FilterState{Sort: "random"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	_, err = s.State("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.LoadMore(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, s.Close("missing"), ErrSessionNotFound)
}

func TestSessions_CloseStopsPendingLoad(t *testing.T) {
	s := NewSessions(sessionEngine(25), nil, time.Hour)
	st, err := s.Open(catalog.ScreenHome, catalog.FilterState{})
	require.NoError(t, err)

	done := make(chan catalog.PageState, 1)
	go func() {
		res, _ := s.LoadMore(context.Background(), st.ID)
		done <- res.Page
	}()
	require.Eventually(t, func() bool {
		cur, err := s.State(st.ID)
		return err == nil && cur.Page.LoadingMore
	}, time.Second, time.Millisecond)

	require.NoError(t, s.Close(st.ID))
	select {
	case page := <-done:
		assert.Len(t, page.Items, 20)
	case <-time.After(time.Second):
		t.Fatal("LoadMore still pending after Close")
	}
	assert.Equal(t, 0, s.Len())
}

func TestSessions_Sweep(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(sessionEngine(3), nil, 0, WithSessionClock(func() time.Time { return now }))
	old, err := s.Open(catalog.ScreenHome, catalog.FilterState{})
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	fresh, err := s.Open(catalog.ScreenHome, catalog.FilterState{})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Sweep(10*time.Minute))
	_, err = s.State(old.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.State(fresh.ID)
	assert.NoError(t, err)
}
