package models

// CartItem is a shopper's selection before checkout. It is keyed by ID and
// never stored server side.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

type CartQuoteRequest struct {
	Items          []CartItem     `json:"items" binding:"required,min=1,dive"`
	ShippingMethod ShippingMethod `json:"shippingMethod"`
}

type CartQuote struct {
	ItemCount      int            `json:"itemCount"`
	Subtotal       float64        `json:"subtotal"`
	ShippingMethod ShippingMethod `json:"shippingMethod"`
	Shipping       float64        `json:"shipping"`
	Tax            float64        `json:"tax"`
	Total          float64        `json:"total"`
}
