// Package mockapi is an in-memory stand-in for the remote shop REST API.
// It serves the same routes and envelopes so the storefront can run in demo
// mode and be tested end to end without the real service.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/pkg/shop"
)

// Config seeds the mock.
type Config struct {
	APIPath  string
	Products []shop.Product
}

// Server exposes the mock shop over HTTP.
type Server struct {
	store  *store
	prefix string
	path   string
	logger *zap.Logger
}

// New starts the mock. Products default to DefaultProducts when empty.
func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	products := cfg.Products
	if len(products) == 0 {
		products = DefaultProducts()
	}
	path := strings.Trim(cfg.APIPath, "/")
	return &Server{
		store:  newStore(products),
		prefix: "/v2/api/" + path,
		path:   path,
		logger: logger,
	}
}

// Handler returns the router serving /v2/api/{api_path}/...
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/v2/api/{apiPath}", func(r chi.Router) {
		r.Use(s.checkPath)
		r.Use(s.record)
		r.Get("/products", s.listProducts)
		r.Get("/cart", s.getCart)
		r.Post("/cart", s.addLine)
		r.Put("/cart/{id}", s.updateLine)
		r.Delete("/cart/{id}", s.deleteLine)
		r.Delete("/carts", s.clearCart)
		r.Post("/order", s.placeOrder)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, r, http.StatusNotFound, "not found")
	})
	return r
}

// Requests returns every call received so far, in arrival order.
func (s *Server) Requests() []Request {
	return s.store.do(storeCommand{action: "requests"}).requests
}

// Orders returns every accepted order, oldest first.
func (s *Server) Orders() []Order {
	return s.store.do(storeCommand{action: "orders"}).orders
}

// ResetRequests forgets the request log.
func (s *Server) ResetRequests() {
	s.store.do(storeCommand{action: "resetRequests"})
}

// FailNext makes the next method+path call answer status with message.
// path is relative to the API prefix, e.g. "/cart".
func (s *Server) FailNext(method, path string, status int, message string) {
	s.store.do(storeCommand{action: "failNext", failure: failure{
		method:  method,
		path:    path,
		status:  status,
		message: message,
	}})
}

// Close stops the store goroutine.
func (s *Server) Close() {
	s.store.close()
}

func (s *Server) checkPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "apiPath") != s.path {
			fail(w, r, http.StatusNotFound, "unknown api path")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, s.prefix)}
		res := s.store.do(storeCommand{action: "record", request: req})
		s.logger.Debug("mock shop request", zap.String("method", req.Method), zap.String("path", req.Path))
		if res.failure != nil {
			fail(w, r, res.failure.status, res.failure.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type linePayload struct {
	Data struct {
		ProductID string `json:"product_id"`
		Qty       int    `json:"qty"`
	} `json:"data"`
}

type orderPayload struct {
	Data struct {
		User    user   `json:"user"`
		Message string `json:"message"`
	} `json:"data"`
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	res := s.store.do(storeCommand{action: "listProducts"})
	render.JSON(w, r, map[string]interface{}{
		"success":  true,
		"products": res.products,
	})
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	res := s.store.do(storeCommand{action: "getCart"})
	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"data":    res.cart,
	})
}

func (s *Server) addLine(w http.ResponseWriter, r *http.Request) {
	var payload linePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid JSON")
		return
	}
	res := s.store.do(storeCommand{action: "addLine", productID: payload.Data.ProductID, qty: payload.Data.Qty})
	s.respond(w, r, res.err, "added to cart")
}

func (s *Server) updateLine(w http.ResponseWriter, r *http.Request) {
	var payload linePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid JSON")
		return
	}
	res := s.store.do(storeCommand{
		action:    "updateLine",
		lineID:    chi.URLParam(r, "id"),
		productID: payload.Data.ProductID,
		qty:       payload.Data.Qty,
	})
	s.respond(w, r, res.err, "cart updated")
}

func (s *Server) deleteLine(w http.ResponseWriter, r *http.Request) {
	res := s.store.do(storeCommand{action: "deleteLine", lineID: chi.URLParam(r, "id")})
	s.respond(w, r, res.err, "cart line deleted")
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	res := s.store.do(storeCommand{action: "clearCart"})
	s.respond(w, r, res.err, "cart cleared")
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid JSON")
		return
	}
	if missing := missingUserFields(payload.Data.User); len(missing) > 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]interface{}{"success": false, "message": missing})
		return
	}
	res := s.store.do(storeCommand{action: "placeOrder", user: payload.Data.User, message: payload.Data.Message})
	if res.err != nil {
		s.respond(w, r, res.err, "")
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"success":   true,
		"message":   res.receipt.Message,
		"total":     res.receipt.Total,
		"create_at": res.receipt.CreatedAt,
		"orderId":   res.receipt.OrderID,
	})
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case err == nil:
		render.JSON(w, r, map[string]interface{}{"success": true, "message": message})
	case errors.Is(err, errLineNotFound), errors.Is(err, errProductNotFound):
		fail(w, r, http.StatusNotFound, err.Error())
	default:
		fail(w, r, http.StatusBadRequest, err.Error())
	}
}

func fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]interface{}{"success": false, "message": message})
}
