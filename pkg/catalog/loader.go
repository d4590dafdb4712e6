// Package catalog loads the product list into the UI state.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/pkg/shop"
	"storefront/pkg/state"
)

// Source reads the product collection.
type Source interface {
	Products(ctx context.Context) ([]shop.Product, error)
}

// Dispatcher applies actions to the UI state.
type Dispatcher interface {
	Dispatch(ctx context.Context, a state.Action) (state.State, error)
}

// Loader performs the single catalog read done at startup.
type Loader struct {
	source Source
	store  Dispatcher
	logger *zap.Logger
}

// NewLoader wires a loader.
func NewLoader(source Source, store Dispatcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, store: store, logger: logger}
}

// Load reads the catalog once. On failure the catalog is emptied and an
// error notice is raised; the error is also returned.
func (l *Loader) Load(ctx context.Context) error {
	if _, err := l.store.Dispatch(ctx, state.CatalogRequested{}); err != nil {
		return errors.Wrap(err, "start catalog load")
	}

	products, err := l.source.Products(ctx)
	if err != nil {
		l.logger.Error("catalog load failed", zap.Error(err))
		if _, derr := l.store.Dispatch(ctx, state.CatalogFailed{Err: err}); derr != nil {
			l.logger.Warn("catalog failure not recorded", zap.Error(derr))
		}
		return errors.Wrap(err, "load catalog")
	}

	if _, err := l.store.Dispatch(ctx, state.CatalogLoaded{Products: products}); err != nil {
		return errors.Wrap(err, "apply catalog")
	}
	l.logger.Info("catalog loaded", zap.Int("products", len(products)))
	return nil
}
