package shop

import "github.com/shopspring/decimal"

// Product is a catalog entry exactly as the shop API returns it.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	ImagesURL   []string        `json:"imagesUrl,omitempty"`
	Content     string          `json:"content"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	OriginPrice decimal.Decimal `json:"origin_price"`
	IsEnabled   int             `json:"is_enabled"`
}

// CartLine pairs a product with a quantity inside the server-side cart.
// Totals are computed by the server and never recomputed locally.
type CartLine struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Qty        int             `json:"qty"`
	Product    Product         `json:"product"`
	Total      decimal.Decimal `json:"total"`
	FinalTotal decimal.Decimal `json:"final_total"`
}

// Cart is a snapshot of the remote cart.
type Cart struct {
	Lines      []CartLine      `json:"carts"`
	Total      decimal.Decimal `json:"total"`
	FinalTotal decimal.Decimal `json:"final_total"`
}

// Line finds a cart line by its identifier.
func (c Cart) Line(id string) (CartLine, bool) {
	for _, line := range c.Lines {
		if line.ID == id {
			return line, true
		}
	}
	return CartLine{}, false
}

// Clone copies the line slice so callers can keep the snapshot independent.
func (c Cart) Clone() Cart {
	out := c
	if c.Lines != nil {
		out.Lines = make([]CartLine, len(c.Lines))
		copy(out.Lines, c.Lines)
	}
	return out
}

// OrderForm holds the contact details typed into the checkout form.
type OrderForm struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Tel     string `json:"tel"`
	Address string `json:"address"`
	Message string `json:"message"`
}

// OrderReceipt is what the shop API answers to a successful order.
type OrderReceipt struct {
	OrderID   string          `json:"orderId"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt int64           `json:"create_at"`
	Message   string          `json:"message"`
}

// Field names used as keys in FieldErrors.
const (
	FieldEmail   = "email"
	FieldName    = "name"
	FieldTel     = "tel"
	FieldAddress = "address"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

// Clone returns an independent copy, nil stays nil.
func (f FieldErrors) Clone() FieldErrors {
	if f == nil {
		return nil
	}
	out := make(FieldErrors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
