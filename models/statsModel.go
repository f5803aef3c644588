package models

type ProductStats struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Inactive   int64 `json:"inactive"`
	OutOfStock int64 `json:"outOfStock"`
	LowStock   int64 `json:"lowStock"`
	Featured   int64 `json:"featured"`
}

// OrderStats exposes two revenue figures. Revenue covers every non-cancelled
// order; DeliveredRevenue only delivered ones.
type OrderStats struct {
	Total            int64   `json:"total"`
	Pending          int64   `json:"pending"`
	Processing       int64   `json:"processing"`
	Shipped          int64   `json:"shipped"`
	Delivered        int64   `json:"delivered"`
	Cancelled        int64   `json:"cancelled"`
	Revenue          float64 `json:"revenue"`
	DeliveredRevenue float64 `json:"deliveredRevenue"`
}

type DashboardStats struct {
	Products ProductStats `json:"products"`
	Orders   OrderStats   `json:"orders"`
}
