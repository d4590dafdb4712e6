package state

import "storefront/pkg/shop"

// Action is a typed event fed to Reduce.
type Action interface {
	actionName() string
}

// CatalogRequested marks the start of the catalog read.
type CatalogRequested struct{}

// CatalogLoaded replaces the catalog.
type CatalogLoaded struct {
	Products []shop.Product
}

// CatalogFailed empties the catalog and raises an error notice.
type CatalogFailed struct {
	Err error
}

// CartRequested allocates the next cart fetch generation.
type CartRequested struct{}

// CartLoaded carries the snapshot read by the fetch of Generation.
type CartLoaded struct {
	Generation uint64
	Cart       shop.Cart
}

// CartFailed reports a failed fetch; the shown cart stays as it was.
type CartFailed struct {
	Generation uint64
	Err        error
}

// ProductSelected opens the detail view on Product with quantity 1.
type ProductSelected struct {
	Product shop.Product
}

// QuantitySelected changes the detail view quantity.
type QuantitySelected struct {
	Qty int
}

// DetailClosed closes the detail view.
type DetailClosed struct{}

// AddStarted raises the loading flag of one product's add button.
type AddStarted struct {
	ProductID string
}

// AddFinished lowers that flag and closes the detail view.
type AddFinished struct {
	ProductID string
}

// MutationStarted holds the screen-wide overlay for a cart mutation.
type MutationStarted struct{}

// MutationFinished releases it.
type MutationFinished struct{}

// OrderRejected stores client-side validation errors; nothing was sent.
type OrderRejected struct {
	Form   shop.OrderForm
	Errors shop.FieldErrors
}

// OrderStarted records the submitted form and holds the overlay.
type OrderStarted struct {
	Form shop.OrderForm
}

// OrderSucceeded shows the server confirmation and resets checkout.
type OrderSucceeded struct {
	Message string
}

// OrderFailed shows the server error; the form is kept for correction.
type OrderFailed struct {
	Message string
}

// NoticeDismissed clears the notice.
type NoticeDismissed struct{}

func (CatalogRequested) actionName() string { return "catalog_requested" }
func (CatalogLoaded) actionName() string    { return "catalog_loaded" }
func (CatalogFailed) actionName() string    { return "catalog_failed" }
func (CartRequested) actionName() string    { return "cart_requested" }
func (CartLoaded) actionName() string       { return "cart_loaded" }
func (CartFailed) actionName() string       { return "cart_failed" }
func (ProductSelected) actionName() string  { return "product_selected" }
func (QuantitySelected) actionName() string { return "quantity_selected" }
func (DetailClosed) actionName() string     { return "detail_closed" }
func (AddStarted) actionName() string       { return "add_started" }
func (AddFinished) actionName() string      { return "add_finished" }
func (MutationStarted) actionName() string  { return "mutation_started" }
func (MutationFinished) actionName() string { return "mutation_finished" }
func (OrderRejected) actionName() string    { return "order_rejected" }
func (OrderStarted) actionName() string     { return "order_started" }
func (OrderSucceeded) actionName() string   { return "order_succeeded" }
func (OrderFailed) actionName() string      { return "order_failed" }
func (NoticeDismissed) actionName() string  { return "notice_dismissed" }

// Name returns a stable identifier for logging.
func Name(a Action) string {
	if a == nil {
		return "nil"
	}
	return a.actionName()
}
