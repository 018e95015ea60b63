package console

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/piwi3910/lumispec/internal/api"
	"github.com/piwi3910/lumispec/internal/model"
	"github.com/piwi3910/lumispec/internal/store"
)

const (
	msgProductCreated      = "Product created."
	msgProductParamsFailed = "Product created, but parameter creation failed."
	msgProductCreateFailed = "Failed to create product."
	msgProductUpdated      = "Product updated."
	msgProductUpdateFailed = "Failed to update the product."
	msgProductDeleted      = "Product deleted."
	msgProductDeleteFailed = "Failed to delete the product."
	msgProductsFetchFailed = "Failed to load products."
)

// PerPageOptions are the page sizes the product list offers.
var PerPageOptions = []int{5, 10, 25}

// ProductList is the controller of the product list screen.
type ProductList struct {
	hub      *store.Hub
	notifier Notifier
	logger   *zap.Logger
}

// NewProductList creates the controller. A nil notifier discards notices.
func NewProductList(hub *store.Hub, notifier Notifier, logger *zap.Logger) *ProductList {
	if notifier == nil {
		notifier = discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductList{hub: hub, notifier: notifier, logger: logger}
}

// Items returns the products last fetched.
func (l *ProductList) Items() []model.Product {
	return l.hub.Products.Snapshot().Items
}

// Refresh fetches every product.
func (l *ProductList) Refresh(ctx context.Context) ([]model.Product, error) {
	items, err := l.hub.ListProducts(ctx)
	if err != nil {
		failure(l.notifier, msgProductsFetchFailed)
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return items, nil
}

// Create adds a product and its full parameter catalog. The product is
// returned even when the parameters fail, so the caller can still open it.
func (l *ProductList) Create(ctx context.Context, in model.ProductInput) (model.Product, error) {
	p, err := l.hub.CreateProduct(ctx, in)
	if err != nil {
		msg := api.Message(err)
		if msg == "" {
			msg = msgProductCreateFailed
		}
		failure(l.notifier, msg)
		return model.Product{}, fmt.Errorf("creating product: %w", err)
	}

	res := l.hub.CreateProductParameters(ctx, p.ID)
	if !res.OK() {
		failure(l.notifier, msgProductParamsFailed)
		l.logger.Warn("product parameters failed",
			zap.String("product", p.ID),
			zap.Error(res.Err))
		return p, fmt.Errorf("creating parameters of product %s: %w", p.ID, res.Err)
	}
	success(l.notifier, msgProductCreated)
	_, _ = l.hub.ListProducts(ctx)
	return p, nil
}

// Update edits a product's name, type and reference.
func (l *ProductList) Update(ctx context.Context, id string, in model.ProductInput) error {
	if _, err := l.hub.UpdateProduct(ctx, id, in); err != nil {
		failure(l.notifier, msgProductUpdateFailed)
		return fmt.Errorf("updating product %s: %w", id, err)
	}
	success(l.notifier, msgProductUpdated)
	_, _ = l.hub.ListProducts(ctx)
	return nil
}

// Delete removes a product.
func (l *ProductList) Delete(ctx context.Context, id string) error {
	if err := l.hub.DeleteProduct(ctx, id); err != nil {
		failure(l.notifier, msgProductDeleteFailed)
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	success(l.notifier, msgProductDeleted)
	_, _ = l.hub.ListProducts(ctx)
	return nil
}

// SortColumn is a sortable column of the product list.
type SortColumn string

const (
	SortByName        SortColumn = "nome"
	SortByReference   SortColumn = "referencia"
	SortByType        SortColumn = "tipo"
	SortByMeasurement SortColumn = "medicao"
	SortByCreated     SortColumn = "criadoEm"
)

// FilterProducts keeps the products whose name contains name, ignoring case.
func FilterProducts(items []model.Product, name string) []model.Product {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return append([]model.Product(nil), items...)
	}
	var out []model.Product
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), name) {
			out = append(out, p)
		}
	}
	return out
}

// SortProducts returns items ordered by column. Ties keep their order.
func SortProducts(items []model.Product, column SortColumn, desc bool) []model.Product {
	out := append([]model.Product(nil), items...)
	less := func(a, b model.Product) bool {
		switch column {
		case SortByReference:
			return a.Reference < b.Reference
		case SortByType:
			return a.Type < b.Type
		case SortByMeasurement:
			return MeasurementSummary(a) < MeasurementSummary(b)
		case SortByCreated:
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Page returns page (zero-based) of items. Out of range pages are empty.
func Page(items []model.Product, page, perPage int) []model.Product {
	if perPage <= 0 || page < 0 {
		return nil
	}
	start := page * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageCount is the number of pages needed for n items.
func PageCount(n, perPage int) int {
	if perPage <= 0 || n == 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// MeasurementSummary lists the distinct measurement types recorded for a
// product, or "-" when there are none.
func MeasurementSummary(p model.Product) string {
	seen := make(map[string]bool)
	var names []string
	for _, pj := range p.Projects {
		for _, t := range pj.MeasurementTypes() {
			name := t.ShortLabel()
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, " / ")
}
