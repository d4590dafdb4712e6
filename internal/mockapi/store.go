package mockapi

import (
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/pkg/shop"
)

var (
	errProductNotFound = errors.New("product not found")
	errLineNotFound    = errors.New("cart line not found")
	errInvalidQty      = errors.New("qty must be a positive integer")
	errCartEmpty       = errors.New("cart is empty")
)

// OrderCreatedMessage is the confirmation text of a successful order.
const OrderCreatedMessage = "order created"

// Request is one call received by the mock, path relative to the API prefix.
type Request struct {
	Method string
	Path   string
}

type failure struct {
	method  string
	path    string
	status  int
	message string
}

type lineRecord struct {
	id        string
	productID string
	qty       int
}

// Order is an order the mock accepted, with the user details as posted.
type Order struct {
	ID      string
	Name    string
	Email   string
	Tel     string
	Address string
	Message string
	Lines   []shop.CartLine
}

type user struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Tel     string `json:"tel"`
	Address string `json:"address"`
}

// storeCommand models every operation executed against the in-memory shop.
type storeCommand struct {
	action    string
	productID string
	lineID    string
	qty       int
	user      user
	message   string
	request   Request
	failure   failure
	reply     chan storeResult
}

// storeResult carries whatever the command produced.
type storeResult struct {
	products []shop.Product
	cart     shop.Cart
	receipt  shop.OrderReceipt
	requests []Request
	orders   []Order
	failure  *failure
	err      error
}

// store keeps products, the cart, orders and the request log on one goroutine.
type store struct {
	commands chan storeCommand
	closed   chan struct{}
	once     sync.Once
	products []shop.Product
	lines    []lineRecord
	orders   []Order
	requests []Request
	failures []failure
}

func newStore(products []shop.Product) *store {
	s := &store{
		commands: make(chan storeCommand),
		closed:   make(chan struct{}),
		products: append([]shop.Product(nil), products...),
	}
	go s.loop()
	return s
}

func (s *store) loop() {
	for {
		select {
		case cmd := <-s.commands:
			cmd.reply <- s.apply(cmd)
		case <-s.closed:
			return
		}
	}
}

func (s *store) apply(cmd storeCommand) storeResult {
	switch cmd.action {
	case "listProducts":
		return storeResult{products: append([]shop.Product(nil), s.products...)}
	case "getCart":
		return storeResult{cart: s.cart()}
	case "addLine":
		if cmd.qty < 1 {
			return storeResult{err: errInvalidQty}
		}
		if _, ok := s.product(cmd.productID); !ok {
			return storeResult{err: errProductNotFound}
		}
		for i := range s.lines {
			if s.lines[i].productID == cmd.productID {
				s.lines[i].qty += cmd.qty
				return storeResult{}
			}
		}
		s.lines = append(s.lines, lineRecord{id: uuid.NewString(), productID: cmd.productID, qty: cmd.qty})
		return storeResult{}
	case "updateLine":
		if cmd.qty < 1 {
			return storeResult{err: errInvalidQty}
		}
		if _, ok := s.product(cmd.productID); !ok {
			return storeResult{err: errProductNotFound}
		}
		for i := range s.lines {
			if s.lines[i].id == cmd.lineID {
				s.lines[i].productID = cmd.productID
				s.lines[i].qty = cmd.qty
				return storeResult{}
			}
		}
		return storeResult{err: errLineNotFound}
	case "deleteLine":
		for i := range s.lines {
			if s.lines[i].id == cmd.lineID {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
				return storeResult{}
			}
		}
		return storeResult{err: errLineNotFound}
	case "clearCart":
		s.lines = nil
		return storeResult{}
	case "placeOrder":
		if len(s.lines) == 0 {
			return storeResult{err: errCartEmpty}
		}
		cart := s.cart()
		order := Order{
			ID:      uuid.NewString(),
			Name:    cmd.user.Name,
			Email:   cmd.user.Email,
			Tel:     cmd.user.Tel,
			Address: cmd.user.Address,
			Message: cmd.message,
			Lines:   cart.Lines,
		}
		s.orders = append(s.orders, order)
		s.lines = nil
		return storeResult{receipt: shop.OrderReceipt{
			OrderID:   order.ID,
			Total:     cart.FinalTotal,
			CreatedAt: time.Now().Unix(),
			Message:   OrderCreatedMessage,
		}}
	case "record":
		s.requests = append(s.requests, cmd.request)
		for i, f := range s.failures {
			if f.method == cmd.request.Method && f.path == cmd.request.Path {
				s.failures = append(s.failures[:i], s.failures[i+1:]...)
				return storeResult{failure: &f}
			}
		}
		return storeResult{}
	case "orders":
		return storeResult{orders: append([]Order(nil), s.orders...)}
	case "requests":
		return storeResult{requests: append([]Request(nil), s.requests...)}
	case "resetRequests":
		s.requests = nil
		return storeResult{}
	case "failNext":
		s.failures = append(s.failures, cmd.failure)
		return storeResult{}
	default:
		return storeResult{err: errors.Errorf("unsupported action %s", cmd.action)}
	}
}

// cart builds the response view of the current lines. Totals use the sale
// price; this shop has no coupons so total and final total are equal.
func (s *store) cart() shop.Cart {
	cart := shop.Cart{Lines: make([]shop.CartLine, 0, len(s.lines))}
	for _, rec := range s.lines {
		product, _ := s.product(rec.productID)
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(rec.qty)))
		cart.Lines = append(cart.Lines, shop.CartLine{
			ID:         rec.id,
			ProductID:  rec.productID,
			Qty:        rec.qty,
			Product:    product,
			Total:      lineTotal,
			FinalTotal: lineTotal,
		})
		cart.Total = cart.Total.Add(lineTotal)
	}
	cart.FinalTotal = cart.Total
	return cart
}

func (s *store) product(id string) (shop.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return shop.Product{}, false
}

func (s *store) do(cmd storeCommand) storeResult {
	cmd.reply = make(chan storeResult, 1)
	select {
	case s.commands <- cmd:
	case <-s.closed:
		return storeResult{err: errors.New("mock shop closed")}
	}
	return <-cmd.reply
}

func (s *store) close() {
	s.once.Do(func() { close(s.closed) })
}

// missingUserFields lists empty user fields the way the shop API reports
// them: one message per field.
func missingUserFields(u user) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", u.Name},
		{"email", u.Email},
		{"tel", u.Tel},
		{"address", u.Address},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name+" is required")
		}
	}
	return missing
}
