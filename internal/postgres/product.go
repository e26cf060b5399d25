package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portomercado/porto/internal/domain"
)

// CatalogService implements domain.CatalogService using PostgreSQL.
type CatalogService struct {
	pool *pgxpool.Pool
}

// Compile-time check that CatalogService implements domain.CatalogService.
var _ domain.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new PostgreSQL-backed catalog service.
func NewCatalogService(pool *pgxpool.Pool) *CatalogService {
	return &CatalogService{pool: pool}
}

// ListProducts returns all enabled products, name ascending.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sku, name, price_cents, enabled, created_at, updated_at
		FROM products
		WHERE enabled
		ORDER BY name ASC`)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to list products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.PriceCents, &p.Enabled, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.Internal(err, "catalog.list", "failed to scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to read products")
	}
	return products, nil
}

// ResolvePrices fetches the given SKUs in one batch. Only enabled products
// resolve; the first SKU that does not is reported by name so the customer
// knows which cart line is stale.
func (s *CatalogService) ResolvePrices(ctx context.Context, skus []string) (map[string]domain.Product, error) {
	if len(skus) == 0 {
		return map[string]domain.Product{}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, sku, name, price_cents, enabled, created_at, updated_at
		FROM products
		WHERE enabled AND sku = ANY($1)`, skus)
	if err != nil {
		return nil, domain.Internal(err, "catalog.resolve_prices", "failed to resolve prices")
	}
	defer rows.Close()

	resolved := make(map[string]domain.Product, len(skus))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.PriceCents, &p.Enabled, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.Internal(err, "catalog.resolve_prices", "failed to scan product")
		}
		resolved[p.SKU] = p
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.resolve_prices", "failed to read products")
	}

	for _, sku := range skus {
		if _, ok := resolved[sku]; !ok {
			return nil, domain.Errorf(domain.EINVALID, "catalog.resolve_prices",
				"product no longer available: %s", sku)
		}
	}
	return resolved, nil
}
