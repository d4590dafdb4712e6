package catalog

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/shop"
	"storefront/pkg/state"
)

type fakeSource struct {
	products []shop.Product
	err      error
	calls    int
}

func (f *fakeSource) Products(context.Context) ([]shop.Product, error) {
	f.calls++
	return f.products, f.err
}

func TestLoad_showsEveryProduct(t *testing.T) {
	store := state.NewStore(state.State{}, nil)
	defer store.Close()
	source := &fakeSource{products: []shop.Product{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	require.NoError(t, NewLoader(source, store, nil).Load(context.Background()))

	st, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
	assert.Len(t, st.Catalog, 3)
	assert.True(t, st.CatalogLoaded)
	assert.False(t, st.ScreenLoading())
	assert.Equal(t, state.NoticeNone, st.Notice.Kind)
}

func TestLoad_failureRaisesNotice(t *testing.T) {
	store := state.NewStore(state.State{}, nil)
	defer store.Close()
	boom := errors.New("connection refused")
	source := &fakeSource{err: boom}

	err := NewLoader(source, store, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	st, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, st.Catalog)
	assert.False(t, st.ScreenLoading())
	assert.Equal(t, state.NoticeError, st.Notice.Kind)
	assert.Equal(t, state.CatalogErrorMessage, st.Notice.Message)
}

func TestLoad_closedStore(t *testing.T) {
	store := state.NewStore(state.State{}, nil)
	store.Close()
	source := &fakeSource{}

	err := NewLoader(source, store, nil).Load(context.Background())
	assert.True(t, errors.Is(err, state.ErrClosed))
	assert.Zero(t, source.calls)
}
