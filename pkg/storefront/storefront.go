// Package storefront composes the state store with the catalog loader, the
// cart synchronizer and the order submitter behind one facade used by the
// web UI.
package storefront

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/checkout"
	"storefront/pkg/shop"
	"storefront/pkg/state"
)

var (
	// ErrUnknownProduct is returned for a product id missing from the catalog.
	ErrUnknownProduct = errors.New("product not in catalog")
	// ErrUnknownLine is returned for a line id missing from the shown cart.
	ErrUnknownLine = errors.New("line not in cart")
	// ErrDetailClosed is returned when acting on the detail view while closed.
	ErrDetailClosed = errors.New("detail view is closed")
)

// API is everything the storefront needs from the remote shop.
type API interface {
	catalog.Source
	cart.Backend
	checkout.Backend
}

// Storefront is the running client.
type Storefront struct {
	store    *state.Store
	catalog  *catalog.Loader
	cart     *cart.Synchronizer
	checkout *checkout.Submitter
	logger   *zap.Logger
}

// New builds a storefront with an empty state.
func New(api API, logger *zap.Logger) *Storefront {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := state.NewStore(state.State{}, logger.Named("state"))
	synchronizer := cart.NewSynchronizer(api, store, logger.Named("cart"))
	return &Storefront{
		store:    store,
		catalog:  catalog.NewLoader(api, store, logger.Named("catalog")),
		cart:     synchronizer,
		checkout: checkout.NewSubmitter(api, synchronizer, store, logger.Named("checkout")),
		logger:   logger,
	}
}

// Start loads the catalog and the cart concurrently. A catalog failure is
// returned (it is already shown as a notice); a cart failure is not.
func (s *Storefront) Start(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return s.catalog.Load(ctx)
	})
	g.Go(func() error {
		if err := s.cart.Fetch(ctx); err != nil {
			s.logger.Warn("initial cart fetch failed", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}

// State returns the current UI state.
func (s *Storefront) State(ctx context.Context) (state.State, error) {
	return s.store.Snapshot(ctx)
}

// Select opens the detail view on productID.
func (s *Storefront) Select(ctx context.Context, productID string) error {
	st, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	product, ok := st.Product(productID)
	if !ok {
		return errors.Wrapf(ErrUnknownProduct, "select %q", productID)
	}
	_, err = s.store.Dispatch(ctx, state.ProductSelected{Product: product})
	return err
}

// SetQuantity changes the detail view quantity. Values outside the selector
// range are ignored.
func (s *Storefront) SetQuantity(ctx context.Context, qty int) error {
	_, err := s.store.Dispatch(ctx, state.QuantitySelected{Qty: qty})
	return err
}

// CloseDetail closes the detail view.
func (s *Storefront) CloseDetail(ctx context.Context) error {
	_, err := s.store.Dispatch(ctx, state.DetailClosed{})
	return err
}

// DismissNotice clears the shown notice.
func (s *Storefront) DismissNotice(ctx context.Context) error {
	_, err := s.store.Dispatch(ctx, state.NoticeDismissed{})
	return err
}

// AddToCart adds one unit of productID, as the catalog table button does.
func (s *Storefront) AddToCart(ctx context.Context, productID string) error {
	return s.cart.AddLine(ctx, productID, 1)
}

// AddSelected adds the detail view product with the selected quantity.
func (s *Storefront) AddSelected(ctx context.Context) error {
	st, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	if !st.Detail.Open {
		return ErrDetailClosed
	}
	return s.cart.AddLine(ctx, st.Detail.Product.ID, st.Detail.Qty)
}

// ChangeQuantity moves the quantity of line lineID by delta.
func (s *Storefront) ChangeQuantity(ctx context.Context, lineID string, delta int) error {
	st, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	line, ok := st.Cart.Line(lineID)
	if !ok {
		return errors.Wrapf(ErrUnknownLine, "change %q", lineID)
	}
	return s.cart.UpdateLine(ctx, line, line.Qty+delta)
}

// RemoveLine deletes one cart line.
func (s *Storefront) RemoveLine(ctx context.Context, lineID string) error {
	if lineID == "" {
		return errors.Wrap(ErrUnknownLine, "remove without id")
	}
	return s.cart.RemoveLine(ctx, lineID)
}

// ClearCart deletes every cart line.
func (s *Storefront) ClearCart(ctx context.Context) error {
	return s.cart.RemoveLine(ctx, "")
}

// PlaceOrder validates and submits the checkout form.
func (s *Storefront) PlaceOrder(ctx context.Context, form shop.OrderForm) (shop.OrderReceipt, error) {
	return s.checkout.Submit(ctx, form)
}

// Close stops the state store.
func (s *Storefront) Close() {
	s.store.Close()
}
