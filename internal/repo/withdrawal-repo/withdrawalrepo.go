package withdrawalrepo

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

const withdrawalColumns = `id, user_id, amount, card_number, status, created_at, updated_at`

func scanWithdrawal(row pgx.Row) (*domain.WithdrawalRequest, error) {
	var wd domain.WithdrawalRequest
	err := row.Scan(&wd.ID, &wd.UserID, &wd.Amount, &wd.CardNumber, &wd.Status, &wd.CreatedAt, &wd.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't scan withdrawal request", zap.Error(err))
		return nil, err
	}
	return &wd, nil
}

func (r *Repository) Create(ctx context.Context, wd *domain.WithdrawalRequest) (*domain.WithdrawalRequest, error) {
	query := `
		INSERT INTO withdrawal_requests (user_id, amount, card_number, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, wd.UserID, wd.Amount, wd.CardNumber, wd.Status).
		Scan(&wd.ID, &wd.CreatedAt, &wd.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save withdrawal request", zap.Error(err))
		return nil, err
	}
	return wd, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error) {
	return scanWithdrawal(r.db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1`, id))
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error) {
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawal_requests
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawal requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

// ListByStatus returns all requests, or only those in status when it is
// non-empty. Used by the admin back-office.
func (r *Repository) ListByStatus(ctx context.Context, status string) ([]domain.WithdrawalRequest, error) {
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawal_requests
        WHERE ($1 = '' OR status = $1)
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		zap.L().Error("failed to fetch withdrawal requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

// UpdateStatus flips the status only while the row is still in expected.
// Returns nil when the row is gone or another transition won the race, so a
// terminal status can never be overwritten.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, expected, target domain.WithdrawalStatus) (*domain.WithdrawalRequest, error) {
	query := `
		UPDATE withdrawal_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + withdrawalColumns
	return scanWithdrawal(r.db.QueryRow(ctx, query, target, id, expected))
}

func collectWithdrawals(rows pgx.Rows) ([]domain.WithdrawalRequest, error) {
	var withdrawals []domain.WithdrawalRequest
	for rows.Next() {
		var wd domain.WithdrawalRequest
		err := rows.Scan(&wd.ID, &wd.UserID, &wd.Amount, &wd.CardNumber, &wd.Status, &wd.CreatedAt, &wd.UpdatedAt)
		if err != nil {
			zap.L().Error("failed to scan withdrawal row", zap.Error(err))
			return nil, err
		}
		withdrawals = append(withdrawals, wd)
	}
	return withdrawals, nil
}
