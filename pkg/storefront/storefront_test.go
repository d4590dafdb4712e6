package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/mockapi"
	"storefront/pkg/shop"
	"storefront/pkg/shopapi"
	"storefront/pkg/state"
)

func newTestStorefront(t *testing.T) (*Storefront, *mockapi.Server) {
	t.Helper()
	mock := mockapi.New(mockapi.Config{APIPath: "bakery"}, nil)
	srv := httptest.NewServer(mock.Handler())
	client, err := shopapi.New(shopapi.Config{BaseURL: srv.URL, APIPath: "bakery"}, nil)
	require.NoError(t, err)
	s := New(client, nil)
	t.Cleanup(func() {
		s.Close()
		srv.Close()
		mock.Close()
	})
	return s, mock
}

func snapshot(t *testing.T, s *Storefront) state.State {
	t.Helper()
	st, err := s.State(context.Background())
	require.NoError(t, err)
	return st
}

func TestStart_loadsCatalogAndCart(t *testing.T) {
	s, mock := newTestStorefront(t)

	require.NoError(t, s.Start(context.Background()))

	st := snapshot(t, s)
	assert.Len(t, st.Catalog, len(mockapi.DefaultProducts()))
	assert.Equal(t, uint64(1), st.CartApplied())
	assert.False(t, st.ScreenLoading())
	assert.ElementsMatch(t, []mockapi.Request{
		{Method: http.MethodGet, Path: "/products"},
		{Method: http.MethodGet, Path: "/cart"},
	}, mock.Requests())
}

func TestStart_catalogFailureIsReturned(t *testing.T) {
	s, mock := newTestStorefront(t)
	mock.FailNext(http.MethodGet, "/products", http.StatusInternalServerError, "down")

	err := s.Start(context.Background())
	require.Error(t, err)

	st := snapshot(t, s)
	assert.Empty(t, st.Catalog)
	assert.Equal(t, state.CatalogErrorMessage, st.Notice.Message)
}

func TestStart_cartFailureIsOnlyLogged(t *testing.T) {
	s, mock := newTestStorefront(t)
	mock.FailNext(http.MethodGet, "/cart", http.StatusInternalServerError, "down")

	require.NoError(t, s.Start(context.Background()))
	assert.Len(t, snapshot(t, s).Catalog, 3)
}

func TestDetailFlow(t *testing.T) {
	s, mock := newTestStorefront(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	require.NoError(t, s.Select(ctx, "p-baguette"))
	require.NoError(t, s.SetQuantity(ctx, 3))
	st := snapshot(t, s)
	require.True(t, st.Detail.Open)
	assert.Equal(t, "p-baguette", st.Detail.Product.ID)
	assert.Equal(t, 3, st.Detail.Qty)

	mock.ResetRequests()
	require.NoError(t, s.AddSelected(ctx))
	assert.Equal(t, []mockapi.Request{
		{Method: http.MethodPost, Path: "/cart"},
		{Method: http.MethodGet, Path: "/cart"},
	}, mock.Requests())

	st = snapshot(t, s)
	assert.False(t, st.Detail.Open)
	require.Len(t, st.Cart.Lines, 1)
	assert.Equal(t, 3, st.Cart.Lines[0].Qty)

	assert.True(t, errors.Is(s.AddSelected(ctx), ErrDetailClosed))
}

func TestSelect_unknownProduct(t *testing.T) {
	s, _ := newTestStorefront(t)
	require.NoError(t, s.Start(context.Background()))

	err := s.Select(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrUnknownProduct))
	assert.False(t, snapshot(t, s).Detail.Open)
}

func TestCloseDetailAndDismissNotice(t *testing.T) {
	s, mock := newTestStorefront(t)
	ctx := context.Background()
	mock.FailNext(http.MethodGet, "/products", http.StatusInternalServerError, "")
	_ = s.Start(ctx)
	require.Equal(t, state.NoticeError, snapshot(t, s).Notice.Kind)

	require.NoError(t, s.DismissNotice(ctx))
	assert.Equal(t, state.NoticeNone, snapshot(t, s).Notice.Kind)

	require.NoError(t, s.CloseDetail(ctx))
	assert.False(t, snapshot(t, s).Detail.Open)
}

func TestChangeQuantity(t *testing.T) {
	s, mock := newTestStorefront(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.AddToCart(ctx, "p-tart"))
	line := snapshot(t, s).Cart.Lines[0]
	require.Equal(t, 1, line.Qty)

	mock.ResetRequests()
	err := s.ChangeQuantity(ctx, line.ID, -1)
	assert.Error(t, err, "quantity never drops below one")
	assert.Empty(t, mock.Requests())

	require.NoError(t, s.ChangeQuantity(ctx, line.ID, 1))
	assert.Equal(t, 2, snapshot(t, s).Cart.Lines[0].Qty)

	require.NoError(t, s.ChangeQuantity(ctx, line.ID, -1))
	assert.Equal(t, 1, snapshot(t, s).Cart.Lines[0].Qty)

	assert.True(t, errors.Is(s.ChangeQuantity(ctx, "missing", 1), ErrUnknownLine))
}

func TestRemoveLineAndClear(t *testing.T) {
	s, mock := newTestStorefront(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.AddToCart(ctx, "p-tart"))
	require.NoError(t, s.AddToCart(ctx, "p-baguette"))
	lines := snapshot(t, s).Cart.Lines
	require.Len(t, lines, 2)

	assert.True(t, errors.Is(s.RemoveLine(ctx, ""), ErrUnknownLine))

	require.NoError(t, s.RemoveLine(ctx, lines[0].ID))
	assert.Len(t, snapshot(t, s).Cart.Lines, 1)

	mock.ResetRequests()
	require.NoError(t, s.ClearCart(ctx))
	assert.Equal(t, []mockapi.Request{
		{Method: http.MethodDelete, Path: "/carts"},
		{Method: http.MethodGet, Path: "/cart"},
	}, mock.Requests())
	st := snapshot(t, s)
	assert.Empty(t, st.Cart.Lines)
	assert.True(t, st.Cart.FinalTotal.IsZero())
}

func TestPlaceOrder(t *testing.T) {
	s, _ := newTestStorefront(t)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.AddToCart(ctx, "p-croissant"))

	receipt, err := s.PlaceOrder(ctx, shop.OrderForm{
		Email:   "ann@example.com",
		Name:    "Ann",
		Tel:     "0912345678",
		Address: "1 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, mockapi.OrderCreatedMessage, receipt.Message)

	st := snapshot(t, s)
	assert.Empty(t, st.Cart.Lines)
	assert.Equal(t, state.NoticeInfo, st.Notice.Kind)
}

func TestClosedStorefront(t *testing.T) {
	s, _ := newTestStorefront(t)
	s.Close()

	_, err := s.State(context.Background())
	assert.True(t, errors.Is(err, state.ErrClosed))
}
