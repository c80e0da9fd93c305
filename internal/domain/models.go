package domain

import "time"

// Monetary amounts are stored in minor currency units (kopecks).

type User struct {
	ID                int64     `db:"id"`
	Email             *string   `db:"email"`
	Phone             *string   `db:"phone"`
	TelegramID        *int64    `db:"telegram_id"`
	VKID              *int64    `db:"vk_id"`
	Name              string    `db:"name"`
	PasswordHash      *string   `db:"password_hash"`
	IsAdmin           bool      `db:"is_admin"`
	IsPartner         bool      `db:"is_partner"`
	CommissionPercent int       `db:"commission_percent"`
	ReferredBy        *int64    `db:"referred_by"`
	CreatedAt         time.Time `db:"created_at"`
}

type Balance struct {
	ID             int64 `db:"id"`
	UserID         int64 `db:"user_id"`
	CurrentBalance int64 `db:"current_balance"`
	TotalEarned    int64 `db:"total_earned"`
	TotalWithdrawn int64 `db:"total_withdrawn"`
}

type TransactionType string

const (
	TransactionEarned    TransactionType = "earned"
	TransactionWithdrawn TransactionType = "withdrawn"
	TransactionSpent     TransactionType = "spent"
	TransactionRefund    TransactionType = "refund"
)

type Transaction struct {
	ID            int64           `db:"id"`
	UserID        int64           `db:"user_id"`
	Type          TransactionType `db:"type"`
	Amount        int64           `db:"amount"`
	ReferenceType *string         `db:"reference_type"`
	ReferenceID   *int64          `db:"reference_id"`
	Comment       string          `db:"comment"`
	CreatedAt     time.Time       `db:"created_at"`
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCanceled   PaymentStatus = "canceled"
	PaymentRefunded   PaymentStatus = "refunded"
)

type Payment struct {
	ID               int64         `db:"id"`
	UserID           int64         `db:"user_id"`
	CourseID         int64         `db:"course_id"`
	Amount           int64         `db:"amount"`
	Status           PaymentStatus `db:"status"`
	GatewayPaymentID string        `db:"gateway_payment_id"`
	Description      string        `db:"description"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}

type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalFailed     WithdrawalStatus = "failed"
	WithdrawalCancelled  WithdrawalStatus = "cancelled"
)

type WithdrawalRequest struct {
	ID         int64            `db:"id"`
	UserID     int64            `db:"user_id"`
	Amount     int64            `db:"amount"`
	CardNumber string           `db:"card_number"`
	Status     WithdrawalStatus `db:"status"`
	CreatedAt  time.Time        `db:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at"`
}

type Course struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	Price       int64     `db:"price"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
}

type Enrollment struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	CourseID  int64     `db:"course_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Promocode struct {
	ID              int64      `db:"id"`
	Code            string     `db:"code"`
	DiscountPercent int        `db:"discount_percent"`
	MaxActivations  int        `db:"max_activations"`
	Activations     int        `db:"activations"`
	ExpiresAt       *time.Time `db:"expires_at"`
	CreatedAt       time.Time  `db:"created_at"`
}

type UserPromocode struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	PromocodeID int64     `db:"promocode_id"`
	ActivatedAt time.Time `db:"activated_at"`
}

type Review struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	CourseID   int64     `db:"course_id"`
	Rating     int       `db:"rating"`
	Text       string    `db:"text"`
	IsApproved bool      `db:"is_approved"`
	CreatedAt  time.Time `db:"created_at"`
}
