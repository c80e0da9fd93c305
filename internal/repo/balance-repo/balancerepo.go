package balancerepo

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

func (r *Repository) GetUserBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	query := `
        SELECT id, user_id, current_balance, total_earned, total_withdrawn
        FROM balances
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.CurrentBalance, &balance.TotalEarned, &balance.TotalWithdrawn)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

func (r *Repository) CreateUserBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	query := `
        INSERT INTO balances (user_id, current_balance, total_earned, total_withdrawn)
        VALUES ($1, 0, 0, 0)
        RETURNING id, user_id, current_balance, total_earned, total_withdrawn
    `
	row := r.db.QueryRow(ctx, query, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.CurrentBalance, &balance.TotalEarned, &balance.TotalWithdrawn)
	if err != nil {
		zap.L().Error("failed to create user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

// Credit atomically adds amount to the balance and to total_earned.
func (r *Repository) Credit(ctx context.Context, userID int64, amount int64) (*domain.Balance, error) {
	query := `
		UPDATE balances
		SET current_balance = current_balance + $1, total_earned = total_earned + $1
		WHERE user_id = $2
		RETURNING id, user_id, current_balance, total_earned, total_withdrawn
	`
	row := r.db.QueryRow(ctx, query, amount, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.CurrentBalance, &balance.TotalEarned, &balance.TotalWithdrawn)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to credit balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

// Debit atomically moves amount from the balance into total_withdrawn.
// Returns pgx.ErrNoRows when the balance does not cover amount.
func (r *Repository) Debit(ctx context.Context, userID int64, amount int64) (*domain.Balance, error) {
	query := `
		UPDATE balances
		SET current_balance = current_balance - $1, total_withdrawn = total_withdrawn + $1
		WHERE user_id = $2 AND current_balance >= $1
		RETURNING id, user_id, current_balance, total_earned, total_withdrawn
	`
	row := r.db.QueryRow(ctx, query, amount, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.CurrentBalance, &balance.TotalEarned, &balance.TotalWithdrawn)
	if err != nil {
		if err != pgx.ErrNoRows {
			zap.L().Error("failed to debit balance", zap.Error(err))
		}
		return nil, err
	}
	return &balance, nil
}

// RefundWithdrawn re-credits a reversed withdrawal, clamping total_withdrawn
// at zero.
func (r *Repository) RefundWithdrawn(ctx context.Context, userID int64, amount int64) (*domain.Balance, error) {
	query := `
		UPDATE balances
		SET current_balance = current_balance + $1, total_withdrawn = GREATEST(total_withdrawn - $1, 0)
		WHERE user_id = $2
		RETURNING id, user_id, current_balance, total_earned, total_withdrawn
	`
	row := r.db.QueryRow(ctx, query, amount, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.CurrentBalance, &balance.TotalEarned, &balance.TotalWithdrawn)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to refund balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, type, amount, reference_type, reference_id, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, tx.UserID, tx.Type, tx.Amount, tx.ReferenceType, tx.ReferenceID, tx.Comment).
		Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return tx, nil
}

func (r *Repository) GetTransactionsByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	query := `
        SELECT id, user_id, type, amount, reference_type, reference_id, comment, created_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.ReferenceType, &tx.ReferenceID, &tx.Comment, &tx.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, nil
}
