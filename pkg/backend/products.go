package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

// ListProducts fetches one page of the catalog.
func (c *Client) ListProducts(ctx context.Context, page, size int) (*ProductList, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var list ProductList
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/", query: query}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	trimmed := strings.TrimSpace(productID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}

	var product Product
	path := fmt.Sprintf("/products/%s", url.PathEscape(trimmed))
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductPhotos fetches all photos attached to a product.
func (c *Client) ListProductPhotos(ctx context.Context, productID string) ([]ProductPhoto, error) {
	trimmed := strings.TrimSpace(productID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}

	var photos []ProductPhoto
	path := fmt.Sprintf("/photos/product/%s", url.PathEscape(trimmed))
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// ListSliderPhotos fetches the hero-slider image set.
func (c *Client) ListSliderPhotos(ctx context.Context) (*SliderList, error) {
	var list SliderList
	if err := c.do(ctx, request{method: http.MethodGet, path: "/slider/"}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
