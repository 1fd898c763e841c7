package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:embed schema.sql
var schemaSQL string

const productColumns = `id, name, category, description, price, discount, image_url, seller_id`

const (
	listProductsSQL  = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id`
	findProductSQL   = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	insertProductSQL = `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	deleteProductSQL = `DELETE FROM products WHERE id = $1 AND seller_id = $2`
	seedProductSQL   = `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository returns a Repository backed by the products table.
// The ownership check of Update and Delete lives in the WHERE clause.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// EnsureSchema creates the products table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}

// SeedPostgres inserts products whose id is not present yet.
func SeedPostgres(ctx context.Context, db *sql.DB, products []Product) error {
	for _, p := range products {
		if _, err := db.ExecContext(ctx, seedProductSQL, productArgs(p)...); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return nil
}

func productArgs(p Product) []interface{} {
	var discount interface{}
	if p.Discount != nil {
		discount = int64(*p.Discount)
	}
	var seller interface{}
	if p.SellerID != "" {
		seller = p.SellerID
	}
	return []interface{}{p.ID, p.Name, p.Category, p.Description, p.Price, discount, p.ImageURL, seller}
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var discount sql.NullInt64
	var seller sql.NullString
	if err := scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Price,
		&discount, &p.ImageURL, &seller); err != nil {
		return nil, err
	}
	if discount.Valid {
		d := int(discount.Int64)
		p.Discount = &d
	}
	p.SellerID = seller.String
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) FindByID(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, findProductSQL, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *postgresRepo) Add(ctx context.Context, data ProductData, sellerID string) (*Product, error) {
	p := Product{
		ID:          uuid.NewString(),
		Name:        data.Name,
		Category:    data.Category,
		Description: data.Description,
		Price:       data.Price,
		Discount:    data.Discount,
		ImageURL:    data.ImageURL,
		SellerID:    sellerID,
	}
	if p.ImageURL == "" {
		p.ImageURL = DefaultImageURL
	}
	if _, err := r.db.ExecContext(ctx, insertProductSQL, productArgs(p)...); err != nil {
		return nil, err
	}
	c := p.Clone()
	return &c, nil
}

// updateQuery builds the UPDATE for the fields set in patch. The id and
// seller placeholders always come last.
func updateQuery(patch ProductPatch, id, sellerID string) (string, []interface{}) {
	var sets []string
	var args []interface{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	switch {
	case patch.RemoveDiscount:
		add("discount", nil)
	case patch.Discount != nil:
		add("discount", int64(*patch.Discount))
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id, sellerID)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d AND seller_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), productColumns)
	return query, args
}

func (r *postgresRepo) Update(ctx context.Context, id string, patch ProductPatch, sellerID string) (*Product, error) {
	query, args := updateQuery(patch, id, sellerID)
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *postgresRepo) Delete(ctx context.Context, id, sellerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteProductSQL, id, sellerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
