package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, promo *model.Promotion) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin promotion tx")
	}
	defer tx.Rollback()

	query := `
        INSERT INTO promotions (
            id, product_id, discount_percent, start_date, end_date, active, created_at
        )
        VALUES (
            :id, :product_id, :discount_percent, :start_date, :end_date, :active, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, promo); err != nil {
		return errors.Wrap(err, "insert promotion")
	}

	return errors.Wrap(tx.Commit(), "commit promotion")
}

func (r *PGRepository) FindActiveByProduct(ctx context.Context, productID string) (*model.Promotion, error) {
	var promo model.Promotion
	query := `
        SELECT * FROM promotions
        WHERE product_id = $1 AND active = true
        ORDER BY created_at DESC
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &promo, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select active promotion")
	}
	return &promo, nil
}

func (r *PGRepository) FindActiveByProducts(ctx context.Context, productIDs []string) (map[string]*model.Promotion, error) {
	result := make(map[string]*model.Promotion, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
        SELECT DISTINCT ON (product_id) *
        FROM promotions
        WHERE active = true AND product_id IN (?)
        ORDER BY product_id, created_at DESC
    `, productIDs)
	if err != nil {
		return nil, errors.Wrap(err, "build promotion batch query")
	}

	var promos []model.Promotion
	if err := r.DB.SelectContext(ctx, &promos, r.DB.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "select active promotions")
	}

	for i := range promos {
		result[promos[i].ProductID] = &promos[i]
	}
	return result, nil
}
