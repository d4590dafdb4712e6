// Package httpapi renders the storefront page and turns its form posts into
// storefront calls.
package httpapi

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/pkg/checkout"
	"storefront/pkg/shop"
	"storefront/pkg/state"
	"storefront/pkg/storefront"
)

// uiFS packs the page template so deployments ship one binary.
//
//go:embed public_html/app.gohtml
var uiFS embed.FS

// Shop is the storefront surface the page drives.
type Shop interface {
	State(ctx context.Context) (state.State, error)
	Select(ctx context.Context, productID string) error
	SetQuantity(ctx context.Context, qty int) error
	CloseDetail(ctx context.Context) error
	DismissNotice(ctx context.Context) error
	AddToCart(ctx context.Context, productID string) error
	AddSelected(ctx context.Context) error
	ChangeQuantity(ctx context.Context, lineID string, delta int) error
	RemoveLine(ctx context.Context, lineID string) error
	ClearCart(ctx context.Context) error
	PlaceOrder(ctx context.Context, form shop.OrderForm) (shop.OrderReceipt, error)
}

// Server wires the page and its actions to a Shop.
type Server struct {
	shop    Shop
	page    *template.Template
	timeout time.Duration
	logger  *zap.Logger
}

// New parses the page template once. A positive timeout cancels the shop
// calls of a page request after that long; zero leaves them unbounded.
func New(s Shop, timeout time.Duration, logger *zap.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(uiFS, "public_html/app.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parse page template")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{shop: s, page: tmpl, timeout: timeout, logger: logger}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/", s.renderPage)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})
	r.Get("/api/state", s.stateJSON)

	r.Post("/products/{id}/select", s.selectProduct)
	r.Post("/products/{id}/add", s.addProduct)
	r.Post("/detail/quantity", s.setQuantity)
	r.Post("/detail/add", s.addSelected)
	r.Post("/detail/close", s.closeDetail)
	r.Post("/cart/clear", s.clearCart)
	r.Post("/cart/{id}/increment", s.changeQuantity(1))
	r.Post("/cart/{id}/decrement", s.changeQuantity(-1))
	r.Post("/cart/{id}/delete", s.removeLine)
	r.Post("/order", s.placeOrder)
	r.Post("/notice/dismiss", s.dismissNotice)
	return r
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request) {
	st, err := s.shop.State(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, newPageView(st)); err != nil {
		s.logger.Error("page render failed", zap.Error(err))
	}
}

func (s *Server) stateJSON(w http.ResponseWriter, r *http.Request) {
	st, err := s.shop.State(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, newPageView(st))
}

func (s *Server) selectProduct(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.shop.Select(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.shop.AddToCart(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(r.FormValue("qty"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "qty must be a number"})
		return
	}
	s.finish(w, r, s.shop.SetQuantity(r.Context(), qty))
}

func (s *Server) addSelected(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.shop.AddSelected(r.Context()))
}

func (s *Server) closeDetail(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.shop.CloseDetail(r.Context()))
}

func (s *Server) changeQuantity(delta int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.finish(w, r, s.shop.ChangeQuantity(r.Context(), chi.URLParam(r, "id"), delta))
	}
}

func (s *Server) removeLine(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.shop.RemoveLine(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.shop.ClearCart(r.Context()))
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	form := shop.OrderForm{
		Email:   r.FormValue("email"),
		Name:    r.FormValue("name"),
		Tel:     r.FormValue("tel"),
		Address: r.FormValue("address"),
		Message: r.FormValue("message"),
	}
	_, err := s.shop.PlaceOrder(r.Context(), form)
	s.finish(w, r, err)
}

func (s *Server) dismissNotice(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.shop.DismissNotice(r.Context()))
}

// finish redirects back to the page. Errors the page already reflects
// through the state (cart failures, form and order errors) are only logged;
// lookups of unknown ids are client errors.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.Is(err, storefront.ErrUnknownProduct), errors.Is(err, storefront.ErrUnknownLine):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		case errors.Is(err, storefront.ErrDetailClosed):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		case errors.Is(err, state.ErrClosed), errors.Is(err, context.Canceled):
			s.respondError(w, r, err)
			return
		case errors.As(err, &verr):
			s.logger.Debug("order form rejected", zap.Error(err))
		default:
			s.logger.Debug("action finished with error", zap.String("path", r.URL.Path), zap.Error(err))
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("latency", time.Since(start)))
	})
}
