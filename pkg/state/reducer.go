package state

import "storefront/pkg/shop"

// CatalogErrorMessage is shown when the product list cannot be read.
const CatalogErrorMessage = "failed to load products"

// Reduce returns the state that results from applying a to s. It never
// mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case CatalogRequested:
		s.busy++
	case CatalogLoaded:
		s.Catalog = cloneProducts(a.Products)
		s.CatalogLoaded = true
		s.busy = release(s.busy)
	case CatalogFailed:
		s.Catalog = nil
		s.CatalogLoaded = false
		s.Notice = Notice{Kind: NoticeError, Message: CatalogErrorMessage}
		s.busy = release(s.busy)

	case CartRequested:
		s.cartIssued++
	case CartLoaded:
		if a.Generation <= s.cartApplied {
			return s
		}
		s.Cart = a.Cart.Clone()
		s.cartApplied = a.Generation
	case CartFailed:
		return s

	case ProductSelected:
		s.Detail = Detail{Open: true, Product: a.Product, Qty: MinQty}
	case QuantitySelected:
		if !s.Detail.Open || a.Qty < MinQty || a.Qty > MaxQty {
			return s
		}
		s.Detail.Qty = a.Qty
	case DetailClosed:
		s.Detail = Detail{}

	case AddStarted:
		s.adding = adjust(s.adding, a.ProductID, 1)
	case AddFinished:
		s.adding = adjust(s.adding, a.ProductID, -1)
		s.Detail = Detail{}
	case MutationStarted:
		s.busy++
	case MutationFinished:
		s.busy = release(s.busy)

	case OrderRejected:
		s.Form = a.Form
		s.FieldErrors = a.Errors.Clone()
	case OrderStarted:
		s.Form = a.Form
		s.FieldErrors = nil
		s.busy++
	case OrderSucceeded:
		s.busy = release(s.busy)
		s.Detail = Detail{}
		s.Form = shop.OrderForm{}
		s.FieldErrors = nil
		s.Notice = Notice{Kind: NoticeInfo, Message: a.Message}
	case OrderFailed:
		s.busy = release(s.busy)
		s.Notice = Notice{Kind: NoticeError, Message: a.Message}

	case NoticeDismissed:
		s.Notice = Notice{}
	}
	return s
}

func release(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

// adjust returns a copy of m with key moved by delta; zero counts are
// removed so an empty map means nothing is in flight.
func adjust(m map[string]int, key string, delta int) map[string]int {
	out := make(map[string]int, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	n := out[key] + delta
	if n <= 0 {
		delete(out, key)
	} else {
		out[key] = n
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cloneProducts(in []shop.Product) []shop.Product {
	if in == nil {
		return []shop.Product{}
	}
	out := make([]shop.Product, len(in))
	copy(out, in)
	return out
}
