package promorepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"coursemart/internal/domain"
	"coursemart/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

const promoColumns = `id, code, discount_percent, max_activations, activations, expires_at, created_at`

func scanPromocode(row pgx.Row) (*domain.Promocode, error) {
	var p domain.Promocode
	err := row.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.MaxActivations, &p.Activations, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't scan promocode", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Promocode, error) {
	return scanPromocode(r.db.QueryRow(ctx, `SELECT `+promoColumns+` FROM promocodes WHERE code = $1`, code))
}

func (r *Repository) Create(ctx context.Context, promo *domain.Promocode) (*domain.Promocode, error) {
	query := `
		INSERT INTO promocodes (code, discount_percent, max_activations, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, activations, created_at
	`
	err := r.db.QueryRow(ctx, query, promo.Code, promo.DiscountPercent, promo.MaxActivations, promo.ExpiresAt).
		Scan(&promo.ID, &promo.Activations, &promo.CreatedAt)
	if err != nil {
		zap.L().Error("can't save promocode", zap.Error(err))
		return nil, err
	}
	return promo, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Promocode, error) {
	rows, err := r.db.Query(ctx, `SELECT `+promoColumns+` FROM promocodes ORDER BY created_at DESC`)
	if err != nil {
		zap.L().Error("failed to fetch promocodes", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var promos []domain.Promocode
	for rows.Next() {
		var p domain.Promocode
		err := rows.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.MaxActivations, &p.Activations, &p.ExpiresAt, &p.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan promocode row", zap.Error(err))
			return nil, err
		}
		promos = append(promos, p)
	}

	return promos, nil
}

// ConsumeActivation bumps the activation counter with the limit guard in the
// statement itself, so concurrent redemptions cannot push past the cap.
// Returns pgx.ErrNoRows when the code is exhausted.
func (r *Repository) ConsumeActivation(ctx context.Context, promocodeID int64) (*domain.Promocode, error) {
	query := `
		UPDATE promocodes
		SET activations = activations + 1
		WHERE id = $1 AND activations < max_activations
		RETURNING ` + promoColumns
	row := r.db.QueryRow(ctx, query, promocodeID)
	var p domain.Promocode
	err := row.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.MaxActivations, &p.Activations, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		if err != pgx.ErrNoRows {
			zap.L().Error("failed to consume promocode activation", zap.Error(err))
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreateUserActivation(ctx context.Context, userID, promocodeID int64) error {
	query := `
		INSERT INTO user_promocodes (user_id, promocode_id)
		VALUES ($1, $2)
	`
	if _, err := r.db.Exec(ctx, query, userID, promocodeID); err != nil {
		zap.L().Error("can't save promocode activation", zap.Error(err))
		return err
	}
	return nil
}

// GetUserActivation returns the user's redemption record for the code, or nil
// when they have not used it yet.
func (r *Repository) GetUserActivation(ctx context.Context, userID, promocodeID int64) (*domain.UserPromocode, error) {
	query := `
		SELECT id, user_id, promocode_id, activated_at
		FROM user_promocodes
		WHERE user_id = $1 AND promocode_id = $2
	`
	var ua domain.UserPromocode
	err := r.db.QueryRow(ctx, query, userID, promocodeID).Scan(&ua.ID, &ua.UserID, &ua.PromocodeID, &ua.ActivatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to check promocode activation", zap.Error(err))
		return nil, err
	}
	return &ua, nil
}
