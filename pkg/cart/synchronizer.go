// Package cart keeps the displayed cart in step with the remote cart.
//
// Every mutation is followed by exactly one full re-fetch; the client never
// merges changes locally. Fetches are numbered by the state store and a
// response older than the one already shown is dropped.
package cart

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/pkg/shop"
	"storefront/pkg/state"
)

// ErrInvalidQuantity is returned for quantities below one. No request is sent.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Backend is the remote cart resource.
type Backend interface {
	Cart(ctx context.Context) (shop.Cart, error)
	AddToCart(ctx context.Context, productID string, qty int) error
	UpdateCartLine(ctx context.Context, lineID, productID string, qty int) error
	RemoveCartLine(ctx context.Context, lineID string) error
	ClearCart(ctx context.Context) error
}

// Dispatcher applies actions to the UI state.
type Dispatcher interface {
	Dispatch(ctx context.Context, a state.Action) (state.State, error)
}

// Synchronizer runs cart reads and mutations.
type Synchronizer struct {
	backend Backend
	store   Dispatcher
	logger  *zap.Logger
}

// NewSynchronizer wires a synchronizer.
func NewSynchronizer(backend Backend, store Dispatcher, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{backend: backend, store: store, logger: logger}
}

// Fetch reads the cart and shows it unless a newer fetch was shown first.
// Failures leave the current cart in place and are only logged.
func (s *Synchronizer) Fetch(ctx context.Context) error {
	st, err := s.store.Dispatch(ctx, state.CartRequested{})
	if err != nil {
		return errors.Wrap(err, "start cart fetch")
	}
	gen := st.CartIssued()

	snapshot, err := s.backend.Cart(ctx)
	if err != nil {
		s.logger.Warn("cart fetch failed", zap.Uint64("generation", gen), zap.Error(err))
		s.dispatch(ctx, state.CartFailed{Generation: gen, Err: err})
		return errors.Wrap(err, "fetch cart")
	}

	after, err := s.store.Dispatch(ctx, state.CartLoaded{Generation: gen, Cart: snapshot})
	if err != nil {
		return errors.Wrap(err, "apply cart")
	}
	if after.CartApplied() != gen {
		s.logger.Debug("stale cart snapshot dropped",
			zap.Uint64("generation", gen),
			zap.Uint64("applied", after.CartApplied()))
	}
	return nil
}

// AddLine puts qty of productID in the cart. Whatever the outcome the cart
// is re-fetched and the detail view closed before the product's loading
// flag is cleared. The returned error is the mutation's; the shopper is not
// told about it.
func (s *Synchronizer) AddLine(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	s.dispatch(ctx, state.AddStarted{ProductID: productID})
	defer s.dispatch(ctx, state.AddFinished{ProductID: productID})

	err := s.backend.AddToCart(ctx, productID, qty)
	if err != nil {
		s.logger.Warn("add to cart failed",
			zap.String("product_id", productID),
			zap.Int("qty", qty),
			zap.Error(err))
		err = errors.Wrap(err, "add to cart")
	}
	_ = s.Fetch(ctx)
	return err
}

// UpdateLine sets line's quantity to qty and re-fetches.
func (s *Synchronizer) UpdateLine(ctx context.Context, line shop.CartLine, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	s.dispatch(ctx, state.MutationStarted{})
	defer s.dispatch(ctx, state.MutationFinished{})

	err := s.backend.UpdateCartLine(ctx, line.ID, line.ProductID, qty)
	if err != nil {
		s.logger.Warn("cart line update failed",
			zap.String("line_id", line.ID),
			zap.Int("qty", qty),
			zap.Error(err))
		err = errors.Wrap(err, "update cart line")
	}
	_ = s.Fetch(ctx)
	return err
}

// RemoveLine deletes the line lineID, or the whole cart when lineID is
// empty, and re-fetches.
func (s *Synchronizer) RemoveLine(ctx context.Context, lineID string) error {
	s.dispatch(ctx, state.MutationStarted{})
	defer s.dispatch(ctx, state.MutationFinished{})

	var err error
	if lineID == "" {
		err = s.backend.ClearCart(ctx)
	} else {
		err = s.backend.RemoveCartLine(ctx, lineID)
	}
	if err != nil {
		s.logger.Warn("cart delete failed", zap.String("line_id", lineID), zap.Error(err))
		err = errors.Wrap(err, "delete from cart")
	}
	_ = s.Fetch(ctx)
	return err
}

// dispatch records bookkeeping actions even when ctx is already done, so a
// loading flag raised for a request is always lowered again.
func (s *Synchronizer) dispatch(ctx context.Context, a state.Action) {
	if _, err := s.store.Dispatch(context.WithoutCancel(ctx), a); err != nil {
		s.logger.Warn("state update dropped", zap.String("action", state.Name(a)), zap.Error(err))
	}
}
