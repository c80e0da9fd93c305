package userrepo

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

const userColumns = `id, email, phone, telegram_id, vk_id, name, password_hash, is_admin, is_partner, commission_percent, referred_by, created_at`

func (r *Repository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Phone, &user.TelegramID, &user.VKID,
		&user.Name, &user.PasswordHash, &user.IsAdmin, &user.IsPartner,
		&user.CommissionPercent, &user.ReferredBy, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't scan user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *Repository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
}

func (r *Repository) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID))
}

func (r *Repository) FindByVKID(ctx context.Context, vkID int64) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE vk_id = $1`, vkID))
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, phone, telegram_id, vk_id, name, password_hash, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Email, user.Phone, user.TelegramID, user.VKID, user.Name, user.PasswordHash, user.ReferredBy,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, userID int64, name string, email *string) (*domain.User, error) {
	query := `
		UPDATE users
		SET name = $1, email = COALESCE($2, email)
		WHERE id = $3
		RETURNING ` + userColumns
	return r.scanUser(r.db.QueryRow(ctx, query, name, email, userID))
}

func (r *Repository) SetPartner(ctx context.Context, userID int64, isPartner bool, commissionPercent int) (*domain.User, error) {
	query := `
		UPDATE users
		SET is_partner = $1, commission_percent = $2
		WHERE id = $3
		RETURNING ` + userColumns
	return r.scanUser(r.db.QueryRow(ctx, query, isPartner, commissionPercent, userID))
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		zap.L().Error("failed to fetch users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID, &user.Email, &user.Phone, &user.TelegramID, &user.VKID,
			&user.Name, &user.PasswordHash, &user.IsAdmin, &user.IsPartner,
			&user.CommissionPercent, &user.ReferredBy, &user.CreatedAt,
		)
		if err != nil {
			zap.L().Error("failed to scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}
