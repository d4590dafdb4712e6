// Package state holds the storefront UI state as an immutable value that
// only changes through Reduce.
package state

import "storefront/pkg/shop"

// Quantity bounds offered by the detail view selector.
const (
	MinQty = 1
	MaxQty = 10
)

// Detail is the product detail view: closed, or open on one product with a
// chosen quantity.
type Detail struct {
	Open    bool
	Product shop.Product
	Qty     int
}

// NoticeKind tells the UI how to style a notice.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeError
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeInfo:
		return "info"
	case NoticeError:
		return "error"
	default:
		return "none"
	}
}

// Notice is a blocking message for the shopper (the alert of the page).
type Notice struct {
	Kind    NoticeKind
	Message string
}

// State is the whole UI state. Treat values obtained from it as read-only;
// Reduce always builds new slices and maps instead of editing shared ones.
type State struct {
	Catalog       []shop.Product
	CatalogLoaded bool
	Cart          shop.Cart
	Detail        Detail
	Form          shop.OrderForm
	FieldErrors   shop.FieldErrors
	Notice        Notice

	busy        int
	adding      map[string]int
	cartIssued  uint64
	cartApplied uint64
}

// ScreenLoading reports whether the screen-wide overlay is shown.
func (s State) ScreenLoading() bool {
	return s.busy > 0
}

// Adding reports whether an add-to-cart for productID is in flight.
func (s State) Adding(productID string) bool {
	return s.adding[productID] > 0
}

// AnyAdding reports whether any add-to-cart is in flight. Add buttons are
// disabled while it holds.
func (s State) AnyAdding() bool {
	return len(s.adding) > 0
}

// CartIssued is the generation of the most recently requested cart fetch.
func (s State) CartIssued() uint64 {
	return s.cartIssued
}

// CartApplied is the generation of the cart snapshot currently shown.
func (s State) CartApplied() uint64 {
	return s.cartApplied
}

// Product looks a product up in the loaded catalog.
func (s State) Product(id string) (shop.Product, bool) {
	for _, p := range s.Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return shop.Product{}, false
}
