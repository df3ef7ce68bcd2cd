package client

import (
	"context"
	"net/http"

	"github.com/abhishake-droid/pos-console/internal/order"
)

// ProductPage is one page of the paginated product list.
type ProductPage struct {
	Content       []order.Product `json:"content"`
	TotalPages    int             `json:"totalPages"`
	TotalElements int             `json:"totalElements"`
}

// pageRequest is the plain page/size body used by list endpoints that
// take no filters.
type pageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// GetProductByBarcode looks up a single product for the workbench
// autocomplete.
func (c *Client) GetProductByBarcode(ctx context.Context, barcode string) (*order.Product, error) {
	var p order.Product
	if err := c.doJSON(ctx, http.MethodGet, "/product/get-by-barcode/"+barcode, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts fetches one page of the product catalog.
func (c *Client) ListProducts(ctx context.Context, page, size int) (*ProductPage, error) {
	var p ProductPage
	if err := c.doJSON(ctx, http.MethodPost, "/product/get-all-paginated", pageRequest{Page: page, Size: size}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProducts asks the backend for a server-side filtered product
// query. Backends that predate the search endpoint answer 404, which
// classifies as ErrUnavailable so callers can fall back to a full scan.
func (c *Client) SearchProducts(ctx context.Context, query string, page, size int) (*ProductPage, error) {
	body := struct {
		Page  int    `json:"page"`
		Size  int    `json:"size"`
		Query string `json:"query"`
	}{Page: page, Size: size, Query: query}

	var p ProductPage
	if err := c.doJSON(ctx, http.MethodPost, "/product/search-paginated", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UploadProductsTSV posts a base64-wrapped products TSV and returns the
// base64-wrapped result TSV.
func (c *Client) UploadProductsTSV(ctx context.Context, base64Content string) (string, error) {
	c.logger.WithField("bytes", len(base64Content)).Info("Uploading products TSV")
	return c.doText(ctx, http.MethodPost, "/product/upload-products-with-results", base64Content)
}

// UploadInventoryTSV posts a base64-wrapped inventory TSV and returns
// the base64-wrapped result TSV.
func (c *Client) UploadInventoryTSV(ctx context.Context, base64Content string) (string, error) {
	c.logger.WithField("bytes", len(base64Content)).Info("Uploading inventory TSV")
	return c.doText(ctx, http.MethodPost, "/inventory/upload-with-results", base64Content)
}
