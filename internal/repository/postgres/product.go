package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

const productColumns = "id, name, description, price, stock, image_url, category_id, is_active, created_at"

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a ProductRepository backed by Postgres.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(row interface{ Scan(...any) error }) (entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CategoryID, &p.IsActive, &p.CreatedAt)
	return p, err
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) FindActive(ctx context.Context) ([]entity.Product, error) {
	return r.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_active = TRUE ORDER BY created_at DESC")
}

func (r *productRepository) FindAll(ctx context.Context) ([]entity.Product, error) {
	return r.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC")
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO products (id, name, description, price, stock, image_url, category_id, is_active, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.CategoryID, p.IsActive, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET name = $2, description = $3, price = $4, stock = $5, image_url = $6, category_id = $7, is_active = $8 WHERE id = $1",
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.CategoryID, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *productRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET is_active = FALSE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *productRepository) Categories(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, icon FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CheckStock validates a cart against current stock without reserving
// anything. The actual decrement happens transactionally at order creation,
// so this is advisory only.
func (r *productRepository) CheckStock(ctx context.Context, items []entity.OrderItem) ([]entity.StockCheck, error) {
	results := make([]entity.StockCheck, 0, len(items))
	for _, item := range items {
		var name string
		var stock int
		err := r.db.QueryRowContext(ctx,
			"SELECT name, stock FROM products WHERE id = $1 AND is_active = TRUE",
			item.ProductID,
		).Scan(&name, &stock)
		if err == sql.ErrNoRows {
			// Unknown or deactivated products count as unavailable.
			results = append(results, entity.StockCheck{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Requested:   item.Quantity,
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check stock for %s: %w", item.ProductID, err)
		}
		results = append(results, entity.StockCheck{
			ProductID:   item.ProductID,
			ProductName: name,
			Requested:   item.Quantity,
			Available:   stock,
			IsAvailable: stock >= item.Quantity,
		})
	}
	return results, nil
}

func (r *productRepository) LowStock(ctx context.Context, threshold, limit int) ([]entity.Product, error) {
	return r.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_active = TRUE AND stock <= $1 ORDER BY stock ASC LIMIT $2",
		threshold, limit)
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *productRepository) Seed(ctx context.Context, categories []entity.Category, products []entity.Product) error {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil // already seeded
	}

	for _, c := range categories {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO categories (id, name, icon) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING",
			c.ID, c.Name, c.Icon,
		)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.ID, err)
		}
	}

	for _, p := range products {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO products (id, name, description, price, stock, image_url, category_id, is_active, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())",
			p.ID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.CategoryID, p.IsActive,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
