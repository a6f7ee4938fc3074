package products

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Spart911/southclub-storefront/pkg/backend"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

const defaultCacheTTL = 5 * time.Minute

type catalogClient interface {
	ListProducts(ctx context.Context, page, size int) (*backend.ProductList, error)
	GetProduct(ctx context.Context, productID string) (*backend.Product, error)
	ListProductPhotos(ctx context.Context, productID string) ([]backend.ProductPhoto, error)
	ListSliderPhotos(ctx context.Context) (*backend.SliderList, error)
}

// cache is the subset of the Redis client the catalog uses. Cache
// reads and writes are fail-open; any error counts as a miss.
type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// View is a catalog product shaped for the storefront: sizes as
// labels, price in minor units, photos ordered by priority.
type View struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	SKU             string                 `json:"sku,omitempty"`
	Soon            bool                   `json:"soon,omitempty"`
	Color           string                 `json:"color,omitempty"`
	Composition     string                 `json:"composition,omitempty"`
	PrintTechnology string                 `json:"print_technology,omitempty"`
	Sizes           []enums.SizeLabel      `json:"sizes"`
	PriceCents      int64                  `json:"price_cents"`
	Photos          []backend.ProductPhoto `json:"photos"`
}

// ListView is one catalog page.
type ListView struct {
	Products []View `json:"products"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	Size     int    `json:"size"`
}

// Service proxies the upstream catalog with a short-TTL cache.
type Service interface {
	List(ctx context.Context, page, size int) (*ListView, error)
	Get(ctx context.Context, productID string) (*View, error)
	Photos(ctx context.Context, productID string) ([]backend.ProductPhoto, error)
	Slider(ctx context.Context) (*backend.SliderList, error)
}

type service struct {
	client catalogClient
	cache  cache
	logg   *logger.Logger
	ttl    time.Duration
}

// NewService builds the catalog proxy. cache may be nil, which
// disables caching entirely.
func NewService(client catalogClient, cache cache, logg *logger.Logger, ttl time.Duration) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &service{client: client, cache: cache, logg: logg, ttl: ttl}, nil
}

func (s *service) cached(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (s *service) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("catalog cache write failed: %v", err))
	}
}

func toView(product backend.Product) View {
	sizes := make([]enums.SizeLabel, 0, len(product.Sizes))
	for _, index := range product.Sizes {
		label, err := enums.SizeLabelFromIndex(index)
		if err != nil {
			continue
		}
		sizes = append(sizes, label)
	}

	photos := make([]backend.ProductPhoto, len(product.Photos))
	copy(photos, product.Photos)
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].Priority < photos[j].Priority
	})

	return View{
		ID:              product.ID,
		Name:            product.Name,
		SKU:             product.SKU,
		Soon:            product.Soon,
		Color:           product.Color,
		Composition:     product.Composition,
		PrintTechnology: product.PrintTechnology,
		Sizes:           sizes,
		PriceCents:      product.PriceCents(),
		Photos:          photos,
	}
}

// List returns one catalog page, served from cache when fresh.
func (s *service) List(ctx context.Context, page, size int) (*ListView, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	var key string
	if s.cache != nil {
		key = s.cache.CacheKey("products", fmt.Sprintf("%d", page), fmt.Sprintf("%d", size))
		var view ListView
		if s.cached(ctx, key, &view) {
			return &view, nil
		}
	}

	list, err := s.client.ListProducts(ctx, page, size)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(list.Products))
	for _, product := range list.Products {
		views = append(views, toView(product))
	}
	view := &ListView{Products: views, Total: list.Total, Page: list.Page, Size: list.Size}

	if key != "" {
		s.store(ctx, key, view)
	}
	return view, nil
}

// Get fetches a single product. Detail reads are not cached; the
// upstream record changes more often than list pages.
func (s *service) Get(ctx context.Context, productID string) (*View, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}
	product, err := s.client.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	view := toView(*product)
	return &view, nil
}

// Photos returns the product photo set ordered by priority, served
// from cache when fresh.
func (s *service) Photos(ctx context.Context, productID string) ([]backend.ProductPhoto, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}

	var key string
	if s.cache != nil {
		key = s.cache.CacheKey("product_photos", productID)
		var photos []backend.ProductPhoto
		if s.cached(ctx, key, &photos) {
			return photos, nil
		}
	}

	photos, err := s.client.ListProductPhotos(ctx, productID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].Priority < photos[j].Priority
	})

	if key != "" {
		s.store(ctx, key, photos)
	}
	return photos, nil
}

// Slider returns the hero-slider set ordered for display, served from
// cache when fresh.
func (s *service) Slider(ctx context.Context) (*backend.SliderList, error) {
	var key string
	if s.cache != nil {
		key = s.cache.CacheKey("slider_photos")
		var list backend.SliderList
		if s.cached(ctx, key, &list) {
			return &list, nil
		}
	}

	list, err := s.client.ListSliderPhotos(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list.Photos, func(i, j int) bool {
		return list.Photos[i].OrderNumber < list.Photos[j].OrderNumber
	})

	if key != "" {
		s.store(ctx, key, list)
	}
	return list, nil
}
