package paymentservice

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"coursemart/internal/domain"
	"coursemart/internal/gateway/yookassa"
	"coursemart/pkg/money"
)

type PaymentRepo interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByGatewayID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error)
	GetLatestByUserAndCourse(ctx context.Context, userID, courseID int64) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, gatewayPaymentID string, status domain.PaymentStatus) (*domain.Payment, error)
}

type CourseRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Course, error)
	CreateEnrollment(ctx context.Context, userID, courseID int64) (*domain.Enrollment, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// Ledger credits referral commissions.
type Ledger interface {
	AddFunds(ctx context.Context, userID int64, amount int64, comment string, referenceType *string, referenceID *int64) (*domain.Balance, error)
}

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrAmountTooSmall  = errors.New("amount is below the minimum payment")
	ErrPaymentNotFound = errors.New("payment not found")
)

// VerifyResult is the tri-state outcome of a client-side status poll.
type VerifyResult string

const (
	VerifyVerified VerifyResult = "verified"
	VerifyPending  VerifyResult = "pending"
	VerifyFailed   VerifyResult = "failed"
)

type Service struct {
	paymentRepo PaymentRepo
	courseRepo  CourseRepo
	userRepo    UserRepo
	ledger      Ledger
	gateway     yookassa.ClientI
	minAmount   int64
}

func New(paymentRepo PaymentRepo, courseRepo CourseRepo, userRepo UserRepo, ledger Ledger, gateway yookassa.ClientI, minAmountMajor float64) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		courseRepo:  courseRepo,
		userRepo:    userRepo,
		ledger:      ledger,
		gateway:     gateway,
		minAmount:   money.ToMinor(minAmountMajor),
	}
}

// Initiate charges the gateway synchronously and persists a pending payment
// row keyed by the gateway id. A persistence failure after a successful
// gateway call is logged and surfaced; the charge itself is not rolled back.
func (s *Service) Initiate(ctx context.Context, userID, courseID int64, amountMajor float64, description, returnURL string) (string, *domain.Payment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return "", nil, err
	}
	if course == nil || !course.IsPublished {
		return "", nil, ErrCourseNotFound
	}

	amount := money.ToMinor(amountMajor)
	if amount < s.minAmount {
		return "", nil, ErrAmountTooSmall
	}
	if description == "" {
		description = course.Title
	}

	gwPayment, err := s.gateway.CreatePayment(ctx, amount, description, returnURL, map[string]string{
		"user_id":   strconv.FormatInt(userID, 10),
		"course_id": strconv.FormatInt(courseID, 10),
	})
	if err != nil {
		zap.L().Error("gateway payment creation failed", zap.Error(err))
		return "", nil, err
	}

	payment, err := s.paymentRepo.Create(ctx, &domain.Payment{
		UserID:           userID,
		CourseID:         courseID,
		Amount:           amount,
		Status:           domain.PaymentPending,
		GatewayPaymentID: gwPayment.ID,
		Description:      description,
	})
	if err != nil {
		// The gateway charge already exists; the local row does not. Nothing
		// to roll back, the reconciler cannot recover it either.
		zap.L().Error("payment persisted nowhere but charged at gateway",
			zap.String("gateway_payment_id", gwPayment.ID), zap.Error(err))
		return "", nil, err
	}

	return gwPayment.Confirmation.ConfirmationURL, payment, nil
}

// HandleWebhook dispatches a gateway callback by event name. Unknown events
// are acknowledged without effect.
func (s *Service) HandleWebhook(ctx context.Context, notification *yookassa.WebhookNotification) error {
	switch notification.Event {
	case yookassa.EventPaymentSucceeded:
		return s.settle(ctx, notification.Object.ID)
	case yookassa.EventPaymentCanceled:
		return s.applyStatus(ctx, notification.Object.ID, domain.PaymentFailed)
	case yookassa.EventPaymentWaitingCapture:
		return s.applyStatus(ctx, notification.Object.ID, domain.PaymentProcessing)
	case yookassa.EventRefundSucceeded:
		return s.applyStatus(ctx, notification.Object.ID, domain.PaymentRefunded)
	default:
		zap.L().Info("ignoring webhook event", zap.String("event", notification.Event))
		return nil
	}
}

// Verify reports the stored status of a payment, looked up either by gateway
// id or by the caller's latest attempt for a course. It never contacts the
// gateway; the webhook and the reconciler keep the row current.
func (s *Service) Verify(ctx context.Context, gatewayPaymentID string, userID, courseID int64) (VerifyResult, error) {
	var payment *domain.Payment
	var err error
	if gatewayPaymentID != "" {
		payment, err = s.paymentRepo.GetByGatewayID(ctx, gatewayPaymentID)
	} else {
		payment, err = s.paymentRepo.GetLatestByUserAndCourse(ctx, userID, courseID)
	}
	if err != nil {
		return "", err
	}
	if payment == nil {
		return "", ErrPaymentNotFound
	}

	switch payment.Status {
	case domain.PaymentCompleted:
		return VerifyVerified, nil
	case domain.PaymentPending, domain.PaymentProcessing:
		return VerifyPending, nil
	default:
		return VerifyFailed, nil
	}
}

// ApplyGatewayStatus maps a polled gateway status onto the same transitions
// the webhook performs. Used by the reconciler for stuck payments.
func (s *Service) ApplyGatewayStatus(ctx context.Context, gatewayPaymentID, gatewayStatus string) error {
	switch gatewayStatus {
	case yookassa.StatusSucceeded:
		return s.settle(ctx, gatewayPaymentID)
	case yookassa.StatusCanceled:
		return s.applyStatus(ctx, gatewayPaymentID, domain.PaymentFailed)
	case yookassa.StatusWaitingForCapture:
		return s.applyStatus(ctx, gatewayPaymentID, domain.PaymentProcessing)
	case yookassa.StatusPending:
		return nil
	default:
		zap.L().Info("ignoring gateway status", zap.String("status", gatewayStatus))
		return nil
	}
}

// settle marks the payment completed, grants the enrollment and credits the
// referral commission. Safe to call repeatedly for the same payment.
func (s *Service) settle(ctx context.Context, gatewayPaymentID string) error {
	payment, err := s.paymentRepo.GetByGatewayID(ctx, gatewayPaymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}

	alreadyCompleted := payment.Status == domain.PaymentCompleted
	if !alreadyCompleted {
		if _, err := s.paymentRepo.UpdateStatus(ctx, gatewayPaymentID, domain.PaymentCompleted); err != nil {
			return err
		}
	}

	enrollment, err := s.courseRepo.CreateEnrollment(ctx, payment.UserID, payment.CourseID)
	if err != nil {
		return err
	}

	if alreadyCompleted {
		return nil
	}
	zap.L().Info("payment settled",
		zap.String("gateway_payment_id", gatewayPaymentID),
		zap.Int64("enrollment_id", enrollment.ID))
	return s.creditReferrer(ctx, payment)
}

func (s *Service) applyStatus(ctx context.Context, gatewayPaymentID string, status domain.PaymentStatus) error {
	payment, err := s.paymentRepo.UpdateStatus(ctx, gatewayPaymentID, status)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}
	return nil
}

func (s *Service) creditReferrer(ctx context.Context, payment *domain.Payment) error {
	buyer, err := s.userRepo.FindByID(ctx, payment.UserID)
	if err != nil {
		return err
	}
	if buyer == nil || buyer.ReferredBy == nil {
		return nil
	}

	referrer, err := s.userRepo.FindByID(ctx, *buyer.ReferredBy)
	if err != nil {
		return err
	}
	if referrer == nil || !referrer.IsPartner || referrer.CommissionPercent <= 0 {
		return nil
	}

	commission := payment.Amount * int64(referrer.CommissionPercent) / 100
	if commission <= 0 {
		return nil
	}

	refType := "payment"
	_, err = s.ledger.AddFunds(ctx, referrer.ID, commission, "referral commission", &refType, &payment.ID)
	if err != nil {
		zap.L().Error("failed to credit referral commission",
			zap.Int64("referrer_id", referrer.ID), zap.Int64("payment_id", payment.ID), zap.Error(err))
		return err
	}
	return nil
}
