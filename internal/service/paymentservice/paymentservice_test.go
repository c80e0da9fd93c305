package paymentservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"coursemart/internal/domain"
	"coursemart/internal/gateway/yookassa"
)

func NewMock(t *testing.T) (*Service, *MockPaymentRepo, *MockCourseRepo, *MockUserRepo, *MockLedger, *yookassa.MockClientI) {
	ctrl := gomock.NewController(t)
	paymentRepo := NewMockPaymentRepo(ctrl)
	courseRepo := NewMockCourseRepo(ctrl)
	userRepo := NewMockUserRepo(ctrl)
	ledger := NewMockLedger(ctrl)
	gateway := yookassa.NewMockClientI(ctrl)
	service := New(paymentRepo, courseRepo, userRepo, ledger, gateway, 100)
	defer ctrl.Finish()
	return service, paymentRepo, courseRepo, userRepo, ledger, gateway
}

func TestInitiate(t *testing.T) {
	service, paymentRepo, courseRepo, _, _, gateway := NewMock(t)

	course := &domain.Course{ID: 3, Title: "Marathon", Price: 499000, IsPublished: true}

	tests := []struct {
		name          string
		amount        float64
		prepareMock   func()
		expectedURL   string
		expectedError error
	}{
		{
			name:   "Gateway payment created and persisted pending",
			amount: 4990,
			prepareMock: func() {
				courseRepo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(course, nil)
				gateway.EXPECT().CreatePayment(gomock.Any(), int64(499000), "Marathon", "https://shop.example/return", map[string]string{
					"user_id":   "1",
					"course_id": "3",
				}).Return(&yookassa.Payment{
					ID:     "2d6b1f",
					Status: yookassa.StatusPending,
					Confirmation: yookassa.Confirmation{
						Type:            "redirect",
						ConfirmationURL: "https://yookassa.ru/checkout/2d6b1f",
					},
				}, nil)
				paymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
						assert.Equal(t, domain.PaymentPending, payment.Status)
						assert.Equal(t, "2d6b1f", payment.GatewayPaymentID)
						payment.ID = 9
						return payment, nil
					},
				)
			},
			expectedURL: "https://yookassa.ru/checkout/2d6b1f",
		},
		{
			name:   "Amount below minimum",
			amount: 50,
			prepareMock: func() {
				courseRepo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(course, nil)
			},
			expectedError: ErrAmountTooSmall,
		},
		{
			name:   "Unpublished course is not for sale",
			amount: 4990,
			prepareMock: func() {
				courseRepo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&domain.Course{ID: 3, IsPublished: false}, nil)
			},
			expectedError: ErrCourseNotFound,
		},
		{
			name:   "Persistence failure after a successful charge is surfaced",
			amount: 4990,
			prepareMock: func() {
				courseRepo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(course, nil)
				gateway.EXPECT().CreatePayment(gomock.Any(), int64(499000), "Marathon", "https://shop.example/return", gomock.Any()).
					Return(&yookassa.Payment{ID: "2d6b1f"}, nil)
				paymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("insert failed"))
			},
			expectedError: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			url, payment, err := service.Initiate(context.Background(), 1, 3, tt.amount, "", "https://shop.example/return")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, payment)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedURL, url)
				assert.Equal(t, int64(9), payment.ID)
			}
		})
	}
}

func TestHandleWebhookSucceeded(t *testing.T) {
	notification := &yookassa.WebhookNotification{
		Type:  "notification",
		Event: yookassa.EventPaymentSucceeded,
		Object: yookassa.WebhookObject{
			ID:     "2d6b1f",
			Status: yookassa.StatusSucceeded,
		},
	}

	t.Run("First settle grants enrollment and commission", func(t *testing.T) {
		service, paymentRepo, courseRepo, userRepo, ledger, _ := NewMock(t)
		referredBy := int64(2)

		paymentRepo.EXPECT().GetByGatewayID(gomock.Any(), "2d6b1f").Return(&domain.Payment{
			ID: 9, UserID: 1, CourseID: 3, Amount: 499000, Status: domain.PaymentPending, GatewayPaymentID: "2d6b1f",
		}, nil)
		paymentRepo.EXPECT().UpdateStatus(gomock.Any(), "2d6b1f", domain.PaymentCompleted).Return(&domain.Payment{Status: domain.PaymentCompleted}, nil)
		courseRepo.EXPECT().CreateEnrollment(gomock.Any(), int64(1), int64(3)).Return(&domain.Enrollment{ID: 6, UserID: 1, CourseID: 3}, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&domain.User{ID: 1, ReferredBy: &referredBy}, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), int64(2)).Return(&domain.User{ID: 2, IsPartner: true, CommissionPercent: 15}, nil)
		ledger.EXPECT().AddFunds(gomock.Any(), int64(2), int64(74850), "referral commission", gomock.Any(), gomock.Any()).Return(&domain.Balance{}, nil)

		err := service.HandleWebhook(context.Background(), notification)
		assert.NoError(t, err)
	})

	t.Run("Duplicate delivery does not double-credit", func(t *testing.T) {
		service, paymentRepo, courseRepo, _, _, _ := NewMock(t)

		paymentRepo.EXPECT().GetByGatewayID(gomock.Any(), "2d6b1f").Return(&domain.Payment{
			ID: 9, UserID: 1, CourseID: 3, Amount: 499000, Status: domain.PaymentCompleted, GatewayPaymentID: "2d6b1f",
		}, nil)
		courseRepo.EXPECT().CreateEnrollment(gomock.Any(), int64(1), int64(3)).Return(&domain.Enrollment{ID: 6, UserID: 1, CourseID: 3}, nil)

		err := service.HandleWebhook(context.Background(), notification)
		assert.NoError(t, err)
	})

	t.Run("Buyer without referrer settles without commission", func(t *testing.T) {
		service, paymentRepo, courseRepo, userRepo, _, _ := NewMock(t)

		paymentRepo.EXPECT().GetByGatewayID(gomock.Any(), "2d6b1f").Return(&domain.Payment{
			ID: 9, UserID: 1, CourseID: 3, Amount: 499000, Status: domain.PaymentPending, GatewayPaymentID: "2d6b1f",
		}, nil)
		paymentRepo.EXPECT().UpdateStatus(gomock.Any(), "2d6b1f", domain.PaymentCompleted).Return(&domain.Payment{Status: domain.PaymentCompleted}, nil)
		courseRepo.EXPECT().CreateEnrollment(gomock.Any(), int64(1), int64(3)).Return(&domain.Enrollment{ID: 6, UserID: 1, CourseID: 3}, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&domain.User{ID: 1}, nil)

		err := service.HandleWebhook(context.Background(), notification)
		assert.NoError(t, err)
	})

	t.Run("Unknown payment", func(t *testing.T) {
		service, paymentRepo, _, _, _, _ := NewMock(t)

		paymentRepo.EXPECT().GetByGatewayID(gomock.Any(), "2d6b1f").Return(nil, nil)

		err := service.HandleWebhook(context.Background(), notification)
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestHandleWebhookOtherEvents(t *testing.T) {
	tests := []struct {
		name           string
		event          string
		expectedStatus domain.PaymentStatus
	}{
		{name: "Canceled maps to failed", event: yookassa.EventPaymentCanceled, expectedStatus: domain.PaymentFailed},
		{name: "Waiting for capture maps to processing", event: yookassa.EventPaymentWaitingCapture, expectedStatus: domain.PaymentProcessing},
		{name: "Refund succeeded maps to refunded", event: yookassa.EventRefundSucceeded, expectedStatus: domain.PaymentRefunded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, paymentRepo, _, _, _, _ := NewMock(t)

			paymentRepo.EXPECT().UpdateStatus(gomock.Any(), "2d6b1f", tt.expectedStatus).Return(&domain.Payment{Status: tt.expectedStatus}, nil)

			err := service.HandleWebhook(context.Background(), &yookassa.WebhookNotification{
				Event:  tt.event,
				Object: yookassa.WebhookObject{ID: "2d6b1f"},
			})
			assert.NoError(t, err)
		})
	}

	t.Run("Unknown event is acknowledged without effect", func(t *testing.T) {
		service, _, _, _, _, _ := NewMock(t)

		err := service.HandleWebhook(context.Background(), &yookassa.WebhookNotification{
			Event:  "deal.closed",
			Object: yookassa.WebhookObject{ID: "2d6b1f"},
		})
		assert.NoError(t, err)
	})
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name           string
		status         domain.PaymentStatus
		expectedResult VerifyResult
	}{
		{name: "Completed verifies", status: domain.PaymentCompleted, expectedResult: VerifyVerified},
		{name: "Pending stays pending", status: domain.PaymentPending, expectedResult: VerifyPending},
		{name: "Processing stays pending", status: domain.PaymentProcessing, expectedResult: VerifyPending},
		{name: "Failed reports failed", status: domain.PaymentFailed, expectedResult: VerifyFailed},
		{name: "Refunded reports failed", status: domain.PaymentRefunded, expectedResult: VerifyFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, paymentRepo, _, _, _, _ := NewMock(t)

			paymentRepo.EXPECT().GetByGatewayID(gomock.Any(), "2d6b1f").Return(&domain.Payment{Status: tt.status}, nil)

			result, err := service.Verify(context.Background(), "2d6b1f", 0, 0)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedResult, result)
		})
	}

	t.Run("Lookup by user and course", func(t *testing.T) {
		service, paymentRepo, _, _, _, _ := NewMock(t)

		paymentRepo.EXPECT().GetLatestByUserAndCourse(gomock.Any(), int64(1), int64(3)).Return(&domain.Payment{Status: domain.PaymentCompleted}, nil)

		result, err := service.Verify(context.Background(), "", 1, 3)
		assert.NoError(t, err)
		assert.Equal(t, VerifyVerified, result)
	})

	t.Run("Unknown payment", func(t *testing.T) {
		service, paymentRepo, _, _, _, _ := NewMock(t)

		paymentRepo.EXPECT().GetByGatewayID(gomock.Any(), "missing").Return(nil, nil)

		_, err := service.Verify(context.Background(), "missing", 0, 0)
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestApplyGatewayStatus(t *testing.T) {
	t.Run("Pending is left alone", func(t *testing.T) {
		service, _, _, _, _, _ := NewMock(t)

		err := service.ApplyGatewayStatus(context.Background(), "2d6b1f", yookassa.StatusPending)
		assert.NoError(t, err)
	})

	t.Run("Canceled maps to failed", func(t *testing.T) {
		service, paymentRepo, _, _, _, _ := NewMock(t)

		paymentRepo.EXPECT().UpdateStatus(gomock.Any(), "2d6b1f", domain.PaymentFailed).Return(&domain.Payment{Status: domain.PaymentFailed}, nil)

		err := service.ApplyGatewayStatus(context.Background(), "2d6b1f", yookassa.StatusCanceled)
		assert.NoError(t, err)
	})
}
