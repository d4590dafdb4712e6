package httpapi

import (
	"storefront/pkg/shop"
	"storefront/pkg/state"
)

// productRow is one line of the catalog table.
type productRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ImageURL    string `json:"image_url"`
	Price       string `json:"price"`
	OriginPrice string `json:"origin_price"`
	Adding      bool   `json:"adding"`
}

// cartRow is one line of the cart table.
type cartRow struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Qty          int    `json:"qty"`
	Unit         string `json:"unit"`
	Price        string `json:"price"`
	CanDecrement bool   `json:"can_decrement"`
}

// detailView is the open detail panel.
type detailView struct {
	ProductID   string `json:"product_id"`
	Title       string `json:"title"`
	ImageURL    string `json:"image_url"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Price       string `json:"price"`
	OriginPrice string `json:"origin_price"`
	Qty         int    `json:"qty"`
	Adding      bool   `json:"adding"`
}

type noticeView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// pageView is rendered by the template and served by /api/state.
type pageView struct {
	Products      []productRow     `json:"products"`
	AddDisabled   bool             `json:"add_disabled"`
	Cart          []cartRow        `json:"cart"`
	FinalTotal    string           `json:"final_total"`
	Detail        *detailView      `json:"detail,omitempty"`
	QtyOptions    []int            `json:"-"`
	Form          shop.OrderForm   `json:"form"`
	FieldErrors   shop.FieldErrors `json:"field_errors,omitempty"`
	Notice        *noticeView      `json:"notice,omitempty"`
	ScreenLoading bool             `json:"screen_loading"`
}

func newPageView(st state.State) pageView {
	view := pageView{
		Products:      make([]productRow, 0, len(st.Catalog)),
		AddDisabled:   st.AnyAdding(),
		Cart:          make([]cartRow, 0, len(st.Cart.Lines)),
		FinalTotal:    st.Cart.FinalTotal.String(),
		Form:          st.Form,
		FieldErrors:   st.FieldErrors,
		ScreenLoading: st.ScreenLoading(),
	}
	for _, p := range st.Catalog {
		view.Products = append(view.Products, productRow{
			ID:          p.ID,
			Title:       p.Title,
			ImageURL:    p.ImageURL,
			Price:       p.Price.String(),
			OriginPrice: p.OriginPrice.String(),
			Adding:      st.Adding(p.ID),
		})
	}
	for _, line := range st.Cart.Lines {
		view.Cart = append(view.Cart, cartRow{
			ID:           line.ID,
			Title:        line.Product.Title,
			Qty:          line.Qty,
			Unit:         line.Product.Unit,
			Price:        line.Product.Price.String(),
			CanDecrement: line.Qty > state.MinQty,
		})
	}
	if st.Detail.Open {
		p := st.Detail.Product
		view.Detail = &detailView{
			ProductID:   p.ID,
			Title:       p.Title,
			ImageURL:    p.ImageURL,
			Content:     p.Content,
			Description: p.Description,
			Price:       p.Price.String(),
			OriginPrice: p.OriginPrice.String(),
			Qty:         st.Detail.Qty,
			Adding:      st.Adding(p.ID),
		}
		for q := state.MinQty; q <= state.MaxQty; q++ {
			view.QtyOptions = append(view.QtyOptions, q)
		}
	}
	if st.Notice.Kind != state.NoticeNone {
		view.Notice = &noticeView{Kind: st.Notice.Kind.String(), Message: st.Notice.Message}
	}
	return view
}
