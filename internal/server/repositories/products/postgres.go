// Package products provides the PostgreSQL-backed product listings store.
package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/dbx"
	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PostgresRepository) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	var (
		conds []string
		args  []any
	)

	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("p.name LIKE $%d", len(args)))
	}
	if filter.UserName != "" {
		args = append(args, filter.UserName)
		conds = append(conds, fmt.Sprintf("u.username = $%d", len(args)))
	}

	query :=
		`SELECT p.id, p.name, p.price::text, p.quantity, p.status, p.preview_image_url, p.created_at
		 FROM products p
		 JOIN users u ON u.id = p.user_id`
	if len(conds) > 0 {
		query += "\n\t\t WHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\t ORDER BY p.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Product, 0)
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Status, &p.PreviewImageURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT p.id, p.user_id, p.name, p.description, p.price::text, p.quantity, p.location,
		        p.status, p.preview_image_url, p.created_at, p.updated_at, u.username, u.created_at
		 FROM products p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1
		 `

	p := &models.Product{Owner: &models.ProductOwner{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.Location,
		&p.Status, &p.PreviewImageURL, &p.CreatedAt, &p.UpdatedAt, &p.Owner.UserName, &p.Owner.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, fields models.ProductFields, previewImage string) (*models.Product, error) {
	query :=
		`INSERT INTO products (user_id, name, description, price, quantity, location, status, preview_image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, price::text, created_at, updated_at
		 `

	p := &models.Product{
		UserID:          userID,
		Name:            fields.Name,
		Description:     fields.Description,
		Quantity:        fields.Quantity,
		Location:        fields.Location,
		Status:          fields.Status,
		PreviewImageURL: previewImage,
	}

	err := r.db.QueryRowContext(ctx, query,
		userID, fields.Name, fields.Description, fields.Price, fields.Quantity, fields.Location, fields.Status, previewImage).
		Scan(&p.ID, &p.Price, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, userID string, fields models.ProductFields, previewImage *string) error {
	query :=
		`UPDATE products
		 SET name = $3, description = $4, price = $5, quantity = $6, location = $7, status = $8,
		     preview_image_url = COALESCE($9, preview_image_url), updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 `

	var image any
	if previewImage != nil {
		image = *previewImage
	}

	res, err := r.db.ExecContext(ctx, query,
		id, userID, fields.Name, fields.Description, fields.Price, fields.Quantity, fields.Location, fields.Status, image)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query :=
		`DELETE FROM products
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
