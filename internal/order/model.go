package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the slice of a catalog entry the workbench needs when a
// line selects it: identity, display cache, and the price ceiling.
type Product struct {
	ID      string          `json:"id"`
	Barcode string          `json:"barcode"`
	Name    string          `json:"name"`
	MRP     decimal.Decimal `json:"mrp"`
}

// Item is a persisted order line as returned by the backend.
type Item struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	Barcode     string          `json:"barcode"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	MRP         decimal.Decimal `json:"mrp"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// UnfulfillableItem reports a shortfall for one product when the
// backend returns an UNFULFILLABLE order.
type UnfulfillableItem struct {
	ProductID         string `json:"productId"`
	ProductName       string `json:"productName"`
	RequestedQuantity int    `json:"requestedQuantity"`
	AvailableQuantity int    `json:"availableQuantity"`
}

// Order is the server-owned order record. Items may be absent until a
// detail fetch; the list endpoint returns only the aggregates.
type Order struct {
	ID                 string              `json:"id"`
	OrderID            string              `json:"orderId"`
	CreatedAt          time.Time           `json:"createdAt"`
	Status             string              `json:"status"`
	TotalItems         int                 `json:"totalItems"`
	TotalAmount        decimal.Decimal     `json:"totalAmount"`
	HasInvoice         bool                `json:"hasInvoice"`
	Items              []Item              `json:"items,omitempty"`
	Fulfillable        *bool               `json:"fulfillable,omitempty"`
	UnfulfillableItems []UnfulfillableItem `json:"unfulfillableItems,omitempty"`
}

// SearchFilters narrows the paginated order list. Zero values mean
// "no filter" and are omitted from the request.
type SearchFilters struct {
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
	Status   string `json:"status,omitempty"`
	OrderID  string `json:"orderId,omitempty"`
}

// Page is one page of the paginated order list.
type Page struct {
	Content       []Order `json:"content"`
	TotalPages    int     `json:"totalPages"`
	TotalElements int     `json:"totalElements"`
}
