package state

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/shop"
)

func products(ids ...string) []shop.Product {
	out := make([]shop.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, shop.Product{ID: id, Title: "product " + id, Price: decimal.NewFromInt(10)})
	}
	return out
}

func cartOf(qty int) shop.Cart {
	total := decimal.NewFromInt(int64(10 * qty))
	return shop.Cart{
		Lines:      []shop.CartLine{{ID: "l1", ProductID: "a", Qty: qty, Total: total, FinalTotal: total}},
		Total:      total,
		FinalTotal: total,
	}
}

func reduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func TestReduce_catalogLoad(t *testing.T) {
	s := Reduce(State{}, CatalogRequested{})
	assert.True(t, s.ScreenLoading())

	s = Reduce(s, CatalogLoaded{Products: products("a", "b", "c")})
	assert.False(t, s.ScreenLoading())
	assert.True(t, s.CatalogLoaded)
	assert.Len(t, s.Catalog, 3)
	assert.Equal(t, NoticeNone, s.Notice.Kind)
}

func TestReduce_catalogLoadedEmptyIsNotNil(t *testing.T) {
	s := reduceAll(State{}, CatalogRequested{}, CatalogLoaded{})
	assert.NotNil(t, s.Catalog)
	assert.Empty(t, s.Catalog)
}

func TestReduce_catalogFailure(t *testing.T) {
	s := reduceAll(State{}, CatalogRequested{}, CatalogFailed{Err: errors.New("boom")})

	assert.Empty(t, s.Catalog)
	assert.False(t, s.CatalogLoaded)
	assert.False(t, s.ScreenLoading())
	assert.Equal(t, Notice{Kind: NoticeError, Message: CatalogErrorMessage}, s.Notice)
}

func TestReduce_doesNotMutateInput(t *testing.T) {
	before := reduceAll(State{},
		CatalogLoaded{Products: products("a")},
		CartRequested{},
		CartLoaded{Generation: 1, Cart: cartOf(1)},
		AddStarted{ProductID: "a"},
	)
	after := reduceAll(before,
		CatalogLoaded{Products: products("x", "y")},
		CartRequested{},
		CartLoaded{Generation: 2, Cart: cartOf(5)},
		AddStarted{ProductID: "b"},
		AddFinished{ProductID: "a"},
	)

	assert.Len(t, before.Catalog, 1)
	assert.Equal(t, 1, before.Cart.Lines[0].Qty)
	assert.True(t, before.Adding("a"))
	assert.False(t, before.Adding("b"))

	assert.Len(t, after.Catalog, 2)
	assert.Equal(t, 5, after.Cart.Lines[0].Qty)
	assert.False(t, after.Adding("a"))
	assert.True(t, after.Adding("b"))
}

func TestReduce_cartGenerations(t *testing.T) {
	s := reduceAll(State{}, CartRequested{}, CartRequested{})
	require.Equal(t, uint64(2), s.CartIssued())

	// the second fetch answers first
	s = Reduce(s, CartLoaded{Generation: 2, Cart: cartOf(3)})
	assert.Equal(t, uint64(2), s.CartApplied())
	assert.Equal(t, 3, s.Cart.Lines[0].Qty)

	s = Reduce(s, CartLoaded{Generation: 1, Cart: cartOf(1)})
	assert.Equal(t, uint64(2), s.CartApplied(), "older snapshot must be dropped")
	assert.Equal(t, 3, s.Cart.Lines[0].Qty)
}

func TestReduce_cartFailureKeepsCart(t *testing.T) {
	s := reduceAll(State{}, CartRequested{}, CartLoaded{Generation: 1, Cart: cartOf(2)}, CartRequested{})
	s = Reduce(s, CartFailed{Generation: 2, Err: errors.New("offline")})

	assert.Equal(t, 2, s.Cart.Lines[0].Qty)
	assert.Equal(t, uint64(1), s.CartApplied())
	assert.Equal(t, NoticeNone, s.Notice.Kind)
}

func TestReduce_detailView(t *testing.T) {
	p := products("a")[0]
	s := Reduce(State{}, ProductSelected{Product: p})
	assert.True(t, s.Detail.Open)
	assert.Equal(t, MinQty, s.Detail.Qty)

	s = Reduce(s, QuantitySelected{Qty: 4})
	assert.Equal(t, 4, s.Detail.Qty)

	for _, qty := range []int{0, -1, MaxQty + 1} {
		assert.Equal(t, 4, Reduce(s, QuantitySelected{Qty: qty}).Detail.Qty, "qty %d", qty)
	}
	assert.Equal(t, MaxQty, Reduce(s, QuantitySelected{Qty: MaxQty}).Detail.Qty)

	s = Reduce(s, DetailClosed{})
	assert.False(t, s.Detail.Open)

	s = Reduce(s, QuantitySelected{Qty: 3})
	assert.Equal(t, Detail{}, s.Detail, "closed view ignores quantity changes")

	s = Reduce(s, ProductSelected{Product: p})
	assert.Equal(t, MinQty, s.Detail.Qty, "reopening resets the quantity")
}

func TestReduce_addingFlags(t *testing.T) {
	s := reduceAll(State{}, ProductSelected{Product: products("a")[0]}, AddStarted{ProductID: "a"})
	assert.True(t, s.Adding("a"))
	assert.True(t, s.AnyAdding())
	assert.False(t, s.ScreenLoading())
	assert.True(t, s.Detail.Open)

	s = Reduce(s, AddFinished{ProductID: "a"})
	assert.False(t, s.Adding("a"))
	assert.False(t, s.AnyAdding())
	assert.False(t, s.Detail.Open)
}

func TestReduce_overlappingAddsKeepFlag(t *testing.T) {
	s := reduceAll(State{}, AddStarted{ProductID: "a"}, AddStarted{ProductID: "a"}, AddFinished{ProductID: "a"})
	assert.True(t, s.Adding("a"))

	s = Reduce(s, AddFinished{ProductID: "a"})
	assert.False(t, s.AnyAdding())

	s = Reduce(s, AddFinished{ProductID: "a"})
	assert.False(t, s.AnyAdding(), "extra finish never goes negative")
}

func TestReduce_mutationLoading(t *testing.T) {
	s := reduceAll(State{}, MutationStarted{}, MutationStarted{}, MutationFinished{})
	assert.True(t, s.ScreenLoading())

	s = reduceAll(s, MutationFinished{}, MutationFinished{})
	assert.False(t, s.ScreenLoading())

	s = Reduce(s, MutationStarted{})
	assert.True(t, s.ScreenLoading())
}

func TestReduce_orderRejected(t *testing.T) {
	form := shop.OrderForm{Email: "bad", Name: "Ann"}
	fields := shop.FieldErrors{shop.FieldEmail: "Email format is invalid"}
	s := Reduce(State{}, OrderRejected{Form: form, Errors: fields})

	assert.Equal(t, form, s.Form)
	assert.Equal(t, fields, s.FieldErrors)
	assert.False(t, s.ScreenLoading())

	fields[shop.FieldTel] = "changed later"
	assert.NotContains(t, s.FieldErrors, shop.FieldTel)
}

func TestReduce_orderSucceeded(t *testing.T) {
	form := shop.OrderForm{Email: "a@b.co", Name: "Ann", Tel: "0912345678", Address: "1 Main St"}
	s := reduceAll(State{},
		ProductSelected{Product: products("a")[0]},
		OrderRejected{Form: shop.OrderForm{}, Errors: shop.FieldErrors{shop.FieldName: "x"}},
		OrderStarted{Form: form},
	)
	assert.True(t, s.ScreenLoading())
	assert.Nil(t, s.FieldErrors)

	s = Reduce(s, OrderSucceeded{Message: "order created"})
	assert.False(t, s.ScreenLoading())
	assert.False(t, s.Detail.Open)
	assert.Equal(t, shop.OrderForm{}, s.Form)
	assert.Equal(t, Notice{Kind: NoticeInfo, Message: "order created"}, s.Notice)
}

func TestReduce_orderFailedKeepsForm(t *testing.T) {
	form := shop.OrderForm{Email: "a@b.co", Name: "Ann", Tel: "0912345678", Address: "1 Main St"}
	s := reduceAll(State{}, OrderStarted{Form: form}, OrderFailed{Message: "cart is empty"})

	assert.False(t, s.ScreenLoading())
	assert.Equal(t, form, s.Form)
	assert.Equal(t, Notice{Kind: NoticeError, Message: "cart is empty"}, s.Notice)

	s = Reduce(s, NoticeDismissed{})
	assert.Equal(t, NoticeNone, s.Notice.Kind)
}

func TestName(t *testing.T) {
	assert.Equal(t, "cart_loaded", Name(CartLoaded{}))
	assert.Equal(t, "order_failed", Name(OrderFailed{}))
	assert.Equal(t, "none", NoticeNone.String())
	assert.Equal(t, "error", NoticeError.String())
}
