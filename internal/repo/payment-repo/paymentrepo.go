package paymentrepo

import (
	"context"
	"time"

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

const paymentColumns = `id, user_id, course_id, amount, status, gateway_payment_id, description, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Amount, &p.Status, &p.GatewayPaymentID, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't scan payment", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	query := `
		INSERT INTO payments (user_id, course_id, amount, status, gateway_payment_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		payment.UserID, payment.CourseID, payment.Amount, payment.Status, payment.GatewayPaymentID, payment.Description,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save payment", zap.Error(err))
		return nil, err
	}
	return payment, nil
}

func (r *Repository) GetByGatewayID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_payment_id = $1`
	return scanPayment(r.db.QueryRow(ctx, query, gatewayPaymentID))
}

func (r *Repository) GetLatestByUserAndCourse(ctx context.Context, userID, courseID int64) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1 AND course_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanPayment(r.db.QueryRow(ctx, query, userID, courseID))
}

func (r *Repository) UpdateStatus(ctx context.Context, gatewayPaymentID string, status domain.PaymentStatus) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE gateway_payment_id = $2
		RETURNING ` + paymentColumns
	return scanPayment(r.db.QueryRow(ctx, query, status, gatewayPaymentID))
}

// FindUnsettled returns payments still pending or processing whose last
// update is older than age. The reconciler polls the gateway for them.
func (r *Repository) FindUnsettled(ctx context.Context, age time.Duration, limit int) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status IN ('pending', 'processing') AND updated_at < NOW() - $1::interval
		ORDER BY updated_at
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, age, limit)
	if err != nil {
		zap.L().Error("failed to fetch unsettled payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Amount, &p.Status, &p.GatewayPaymentID, &p.Description, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			zap.L().Error("failed to scan payment row", zap.Error(err))
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, nil
}
