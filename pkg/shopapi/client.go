// Package shopapi talks to the remote shop REST API that owns products,
// the cart and orders.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/pkg/shop"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// Config locates the shop API.
type Config struct {
	BaseURL string
	APIPath string
	// Timeout bounds every request; zero leaves requests unbounded.
	Timeout time.Duration
}

// Client issues the product, cart and order calls.
type Client struct {
	prefix string
	http   *http.Client
	logger *zap.Logger
}

// New builds a client for cfg. A nil logger discards output.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base url is required")
	}
	if strings.TrimSpace(cfg.APIPath) == "" {
		return nil, errors.New("api path is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := strings.TrimRight(cfg.BaseURL, "/") + "/v2/api/" + strings.Trim(cfg.APIPath, "/")
	return &Client{
		prefix: prefix,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

type productsResponse struct {
	Products []shop.Product `json:"products"`
}

type cartResponse struct {
	Data shop.Cart `json:"data"`
}

type lineRequest struct {
	Data struct {
		ProductID string `json:"product_id"`
		Qty       int    `json:"qty"`
	} `json:"data"`
}

type orderUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Tel     string `json:"tel"`
	Address string `json:"address"`
}

type orderRequest struct {
	Data struct {
		User    orderUser `json:"user"`
		Message string    `json:"message"`
	} `json:"data"`
}

// Products reads the whole catalog.
func (c *Client) Products(ctx context.Context) ([]shop.Product, error) {
	var resp productsResponse
	if err := c.call(ctx, http.MethodGet, "/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Cart reads the current cart snapshot.
func (c *Client) Cart(ctx context.Context) (shop.Cart, error) {
	var resp cartResponse
	if err := c.call(ctx, http.MethodGet, "/cart", nil, &resp); err != nil {
		return shop.Cart{}, err
	}
	return resp.Data, nil
}

// AddToCart creates a cart line for productID.
func (c *Client) AddToCart(ctx context.Context, productID string, qty int) error {
	return c.call(ctx, http.MethodPost, "/cart", newLineRequest(productID, qty), nil)
}

// UpdateCartLine sets the quantity of an existing line.
func (c *Client) UpdateCartLine(ctx context.Context, lineID, productID string, qty int) error {
	return c.call(ctx, http.MethodPut, "/cart/"+url.PathEscape(lineID), newLineRequest(productID, qty), nil)
}

// RemoveCartLine deletes a single line.
func (c *Client) RemoveCartLine(ctx context.Context, lineID string) error {
	return c.call(ctx, http.MethodDelete, "/cart/"+url.PathEscape(lineID), nil, nil)
}

// ClearCart deletes every line.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, "/carts", nil, nil)
}

// PlaceOrder submits the checkout form against the current cart.
func (c *Client) PlaceOrder(ctx context.Context, form shop.OrderForm) (shop.OrderReceipt, error) {
	var req orderRequest
	req.Data.User = orderUser{
		Name:    form.Name,
		Email:   form.Email,
		Tel:     form.Tel,
		Address: form.Address,
	}
	req.Data.Message = form.Message

	var receipt shop.OrderReceipt
	if err := c.call(ctx, http.MethodPost, "/order", req, &receipt); err != nil {
		return shop.OrderReceipt{}, err
	}
	return receipt, nil
}

func newLineRequest(productID string, qty int) lineRequest {
	var req lineRequest
	req.Data.ProductID = productID
	req.Data.Qty = qty
	return req
}

// call performs one JSON round trip. out may be nil when only the envelope
// matters.
func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.prefix+path, bodyReader)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s %s", method, path)
	}
	c.logger.Debug("shop api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("latency", time.Since(start)))

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return errors.Wrapf(err, "decode %s %s", method, path)
		}
	}
	if resp.StatusCode >= 300 || (env.Success != nil && !*env.Success) {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Message: env.message()}
	}

	if out == nil {
		return nil
	}
	if len(raw) == 0 {
		return errors.Errorf("%s %s: empty response body", method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}
