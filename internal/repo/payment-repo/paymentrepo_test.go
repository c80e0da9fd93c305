package paymentrepo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"coursemart/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

var paymentRows = []string{"id", "user_id", "course_id", "amount", "status", "gateway_payment_id", "description", "created_at", "updated_at"}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments (user_id, course_id, amount, status, gateway_payment_id, description)`)).
		WithArgs(int64(1), int64(3), int64(499000), domain.PaymentPending, "2d6b1f", "Marathon").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(9), now, now))

	payment, err := repo.Create(context.Background(), &domain.Payment{
		UserID:           1,
		CourseID:         3,
		Amount:           499000,
		Status:           domain.PaymentPending,
		GatewayPaymentID: "2d6b1f",
		Description:      "Marathon",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByGatewayID(t *testing.T) {
	repo, mock := NewMock(t)

	now := time.Now()

	t.Run("Existing payment", func(t *testing.T) {
		rows := pgxmock.NewRows(paymentRows).
			AddRow(int64(9), int64(1), int64(3), int64(499000), domain.PaymentPending, "2d6b1f", "Marathon", now, now)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM payments WHERE gateway_payment_id = $1`)).
			WithArgs("2d6b1f").
			WillReturnRows(rows)

		payment, err := repo.GetByGatewayID(context.Background(), "2d6b1f")
		assert.NoError(t, err)
		assert.Equal(t, int64(9), payment.ID)
		assert.Equal(t, domain.PaymentPending, payment.Status)
	})

	t.Run("Unknown gateway id returns nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM payments WHERE gateway_payment_id = $1`)).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		payment, err := repo.GetByGatewayID(context.Background(), "missing")
		assert.NoError(t, err)
		assert.Nil(t, payment)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	now := time.Now()
	rows := pgxmock.NewRows(paymentRows).
		AddRow(int64(9), int64(1), int64(3), int64(499000), domain.PaymentCompleted, "2d6b1f", "Marathon", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SET status = $1, updated_at = NOW()`)).
		WithArgs(domain.PaymentCompleted, "2d6b1f").
		WillReturnRows(rows)

	payment, err := repo.UpdateStatus(context.Background(), "2d6b1f", domain.PaymentCompleted)
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindUnsettled(t *testing.T) {
	repo, mock := NewMock(t)

	now := time.Now()
	rows := pgxmock.NewRows(paymentRows).
		AddRow(int64(9), int64(1), int64(3), int64(499000), domain.PaymentPending, "2d6b1f", "Marathon", now, now).
		AddRow(int64(10), int64(2), int64(3), int64(499000), domain.PaymentProcessing, "7a01cc", "Marathon", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status IN ('pending', 'processing') AND updated_at < NOW() - $1::interval`)).
		WithArgs(10*time.Minute, 100).
		WillReturnRows(rows)

	payments, err := repo.FindUnsettled(context.Background(), 10*time.Minute, 100)
	assert.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Equal(t, "7a01cc", payments[1].GatewayPaymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
