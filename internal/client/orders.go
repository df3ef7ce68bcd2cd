package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/abhishake-droid/pos-console/internal/order"
)

// OrderLinePayload is one line of a create/update/retry request. The
// mrp field carries the selling price, matching the backend form.
type OrderLinePayload struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	MRP       decimal.Decimal `json:"mrp"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderPayload is the request body shared by create, update, and retry.
type OrderPayload struct {
	Lines []OrderLinePayload `json:"lines"`
}

// NewOrderPayload converts draft lines to the wire shape.
func NewOrderPayload(lines []order.Line) OrderPayload {
	p := OrderPayload{Lines: make([]OrderLinePayload, 0, len(lines))}
	for _, l := range lines {
		p.Lines = append(p.Lines, OrderLinePayload{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			MRP:       l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return p
}

// listOrdersRequest is the paginated list body. Filters ride alongside
// page and size, zero values omitted.
type listOrdersRequest struct {
	Page     int    `json:"page"`
	Size     int    `json:"size"`
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
	Status   string `json:"status,omitempty"`
	OrderID  string `json:"orderId,omitempty"`
}

// CreateOrder submits a new order. The returned status is PLACED or
// UNFULFILLABLE; the backend decides based on inventory.
func (c *Client) CreateOrder(ctx context.Context, payload OrderPayload) (*order.Order, error) {
	c.logger.WithField("lines", len(payload.Lines)).Info("Creating order")
	var o order.Order
	if err := c.doJSON(ctx, http.MethodPost, "/order/create", payload, &o); err != nil {
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{
		"order_id": o.OrderID,
		"status":   o.Status,
	}).Info("Order created")
	return &o, nil
}

// UpdateOrder replaces the lines of a PLACED order.
func (c *Client) UpdateOrder(ctx context.Context, orderID string, payload OrderPayload) (*order.Order, error) {
	c.logger.WithField("order_id", orderID).Info("Updating order")
	var o order.Order
	if err := c.doJSON(ctx, http.MethodPut, "/order/update/"+orderID, payload, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// RetryOrder re-submits an UNFULFILLABLE order. The payload is optional;
// nil retries the stored lines unchanged.
func (c *Client) RetryOrder(ctx context.Context, orderID string, payload *OrderPayload) (*order.Order, error) {
	c.logger.WithField("order_id", orderID).Info("Retrying order")
	var body any
	if payload != nil {
		body = payload
	}
	var o order.Order
	if err := c.doJSON(ctx, http.MethodPost, "/order/retry/"+orderID, body, &o); err != nil {
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{
		"order_id": o.OrderID,
		"status":   o.Status,
	}).Info("Retry result received")
	return &o, nil
}

// CancelOrder cancels a PLACED order. Irreversible.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*order.Order, error) {
	c.logger.WithField("order_id", orderID).Info("Cancelling order")
	var o order.Order
	if err := c.doJSON(ctx, http.MethodPost, "/order/cancel/"+orderID, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrder fetches one order with its items.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	var o order.Order
	if err := c.doJSON(ctx, http.MethodGet, "/order/get-by-id/"+orderID, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders fetches one page of the order list, optionally filtered.
func (c *Client) ListOrders(ctx context.Context, page, size int, filters order.SearchFilters) (*order.Page, error) {
	req := listOrdersRequest{
		Page:     page,
		Size:     size,
		FromDate: filters.FromDate,
		ToDate:   filters.ToDate,
		Status:   filters.Status,
		OrderID:  filters.OrderID,
	}
	var p order.Page
	if err := c.doJSON(ctx, http.MethodPost, "/order/get-all-paginated", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GenerateInvoice creates the invoice artifact for a PLACED order and
// returns the order with hasInvoice set.
func (c *Client) GenerateInvoice(ctx context.Context, orderID string) (*order.Order, error) {
	c.logger.WithField("order_id", orderID).Info("Generating invoice")
	var o order.Order
	if err := c.doJSON(ctx, http.MethodPost, "/invoice/generate/"+orderID, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// DownloadInvoice streams the stored invoice PDF into w.
func (c *Client) DownloadInvoice(ctx context.Context, orderID string, w io.Writer) error {
	c.logger.WithField("order_id", orderID).Info("Downloading invoice")
	return c.download(ctx, "/invoice/download/"+orderID, w)
}

// InvoiceFileName names a downloaded invoice, e.g. "invoice-ORD123.pdf".
func InvoiceFileName(orderID string) string {
	return fmt.Sprintf("invoice-%s.pdf", orderID)
}
