// Package checkout validates the order form and posts orders.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/pkg/shop"
	"storefront/pkg/state"
)

// FallbackFailureMessage is shown when an order fails without a server message.
const FallbackFailureMessage = "failed to submit order"

// Backend posts orders.
type Backend interface {
	PlaceOrder(ctx context.Context, form shop.OrderForm) (shop.OrderReceipt, error)
}

// CartRefresher re-reads the cart after a successful order.
type CartRefresher interface {
	Fetch(ctx context.Context) error
}

// Dispatcher applies actions to the UI state.
type Dispatcher interface {
	Dispatch(ctx context.Context, a state.Action) (state.State, error)
}

// serverMessenger is implemented by errors that carry text from the shop API.
type serverMessenger interface {
	ServerMessage() string
}

// Submitter turns a filled form into an order.
type Submitter struct {
	backend Backend
	cart    CartRefresher
	store   Dispatcher
	logger  *zap.Logger
}

// NewSubmitter wires a submitter.
func NewSubmitter(backend Backend, cart CartRefresher, store Dispatcher, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{backend: backend, cart: cart, store: store, logger: logger}
}

// Submit normalizes and validates form and, when valid, places the order
// with the normalized values. An invalid form
// returns a *ValidationError and sends nothing. On success the cart is
// re-fetched, the detail view closed and the server message shown; on
// failure the server message is shown and the form kept.
func (s *Submitter) Submit(ctx context.Context, form shop.OrderForm) (shop.OrderReceipt, error) {
	form = Normalize(form)
	if fields := Validate(form); fields != nil {
		s.dispatch(ctx, state.OrderRejected{Form: form, Errors: fields})
		return shop.OrderReceipt{}, &ValidationError{Fields: fields}
	}

	s.dispatch(ctx, state.OrderStarted{Form: form})

	receipt, err := s.backend.PlaceOrder(ctx, form)
	if err != nil {
		message := FallbackFailureMessage
		var sm serverMessenger
		if errors.As(err, &sm) && sm.ServerMessage() != "" {
			message = sm.ServerMessage()
		}
		s.logger.Warn("order failed", zap.String("message", message), zap.Error(err))
		s.dispatch(ctx, state.OrderFailed{Message: message})
		return shop.OrderReceipt{}, errors.Wrap(err, "place order")
	}

	if err := s.cart.Fetch(ctx); err != nil {
		s.logger.Warn("cart refresh after order failed", zap.Error(err))
	}
	s.dispatch(ctx, state.OrderSucceeded{Message: receipt.Message})
	s.logger.Info("order placed", zap.String("order_id", receipt.OrderID))
	return receipt, nil
}

func (s *Submitter) dispatch(ctx context.Context, a state.Action) {
	if _, err := s.store.Dispatch(context.WithoutCancel(ctx), a); err != nil {
		s.logger.Warn("state update dropped", zap.String("action", state.Name(a)), zap.Error(err))
	}
}
