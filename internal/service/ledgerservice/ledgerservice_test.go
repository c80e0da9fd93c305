package ledgerservice

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"coursemart/internal/domain"
	"coursemart/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockBalanceRepo, *MockWithdrawalRepo) {
	ctrl := gomock.NewController(t)
	balanceRepo := NewMockBalanceRepo(ctrl)
	withdrawalRepo := NewMockWithdrawalRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()
	service := New(balanceRepo, withdrawalRepo, txManager)
	defer ctrl.Finish()
	return service, balanceRepo, withdrawalRepo
}

func TestGetBalance(t *testing.T) {
	service, balanceRepo, _ := NewMock(t)
	tests := []struct {
		name            string
		userID          int64
		prepareMock     func()
		expectedBalance *domain.Balance
		expectedError   error
	}{
		{
			name:   "Retrieve balance successfully",
			userID: 1,
			prepareMock: func() {
				balanceRepo.EXPECT().GetUserBalance(gomock.Any(), int64(1)).Return(&domain.Balance{
					UserID:         1,
					CurrentBalance: 150050,
					TotalEarned:    420000,
					TotalWithdrawn: 269950,
				}, nil)
			},
			expectedBalance: &domain.Balance{
				UserID:         1,
				CurrentBalance: 150050,
				TotalEarned:    420000,
				TotalWithdrawn: 269950,
			},
			expectedError: nil,
		},
		{
			name:   "Balance row missing",
			userID: 2,
			prepareMock: func() {
				balanceRepo.EXPECT().GetUserBalance(gomock.Any(), int64(2)).Return(nil, nil)
			},
			expectedBalance: nil,
			expectedError:   ErrBalanceNotFound,
		},
		{
			name:   "Error retrieving balance",
			userID: 1,
			prepareMock: func() {
				balanceRepo.EXPECT().GetUserBalance(gomock.Any(), int64(1)).Return(nil, errors.New("db error"))
			},
			expectedBalance: nil,
			expectedError:   errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			balance, err := service.GetBalance(context.Background(), tt.userID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, balance)
			}
		})
	}
}

func TestAddFunds(t *testing.T) {
	service, balanceRepo, _ := NewMock(t)
	refType := "payment"
	refID := int64(7)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Credit lands together with its transaction",
			prepareMock: func() {
				balanceRepo.EXPECT().Credit(gomock.Any(), int64(1), int64(50000)).Return(&domain.Balance{
					UserID:         1,
					CurrentBalance: 50000,
					TotalEarned:    50000,
				}, nil)
				balanceRepo.EXPECT().CreateTransaction(gomock.Any(), &domain.Transaction{
					UserID:        1,
					Type:          domain.TransactionEarned,
					Amount:        50000,
					ReferenceType: &refType,
					ReferenceID:   &refID,
					Comment:       "referral commission",
				}).Return(&domain.Transaction{ID: 10}, nil)
			},
			expectedError: nil,
		},
		{
			name: "No balance row to credit",
			prepareMock: func() {
				balanceRepo.EXPECT().Credit(gomock.Any(), int64(1), int64(50000)).Return(nil, nil)
			},
			expectedError: ErrBalanceNotFound,
		},
		{
			name: "Transaction insert failure aborts the credit",
			prepareMock: func() {
				balanceRepo.EXPECT().Credit(gomock.Any(), int64(1), int64(50000)).Return(&domain.Balance{UserID: 1}, nil)
				balanceRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil, errors.New("insert failed"))
			},
			expectedError: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			balance, err := service.AddFunds(context.Background(), 1, 50000, "referral commission", &refType, &refID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, balance)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, balance)
			}
		})
	}
}

func TestCreateWithdrawal(t *testing.T) {
	service, balanceRepo, withdrawalRepo := NewMock(t)

	tests := []struct {
		name          string
		amount        int64
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Debit, request and ledger entry commit together",
			amount: 100000,
			prepareMock: func() {
				balanceRepo.EXPECT().Debit(gomock.Any(), int64(1), int64(100000)).Return(&domain.Balance{UserID: 1}, nil)
				withdrawalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, wd *domain.WithdrawalRequest) (*domain.WithdrawalRequest, error) {
						assert.Equal(t, domain.WithdrawalPending, wd.Status)
						wd.ID = 5
						return wd, nil
					},
				)
				balanceRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(&domain.Transaction{ID: 11}, nil)
			},
			expectedError: nil,
		},
		{
			name:   "Insufficient balance",
			amount: 100000,
			prepareMock: func() {
				balanceRepo.EXPECT().Debit(gomock.Any(), int64(1), int64(100000)).Return(nil, pgx.ErrNoRows)
			},
			expectedError: ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			wd, err := service.CreateWithdrawal(context.Background(), 1, tt.amount, "4561261212345467")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, wd)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(5), wd.ID)
			}
		})
	}
}

func TestTransitionWithdrawal(t *testing.T) {
	service, balanceRepo, withdrawalRepo := NewMock(t)

	tests := []struct {
		name          string
		target        domain.WithdrawalStatus
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Pending moves to processing without refund",
			target: domain.WithdrawalProcessing,
			prepareMock: func() {
				withdrawalRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&domain.WithdrawalRequest{
					ID: 5, UserID: 1, Amount: 100000, Status: domain.WithdrawalPending,
				}, nil)
				withdrawalRepo.EXPECT().UpdateStatus(gomock.Any(), int64(5), domain.WithdrawalPending, domain.WithdrawalProcessing).Return(&domain.WithdrawalRequest{
					ID: 5, UserID: 1, Amount: 100000, Status: domain.WithdrawalProcessing,
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:   "Failing a processing request refunds the reserve",
			target: domain.WithdrawalFailed,
			prepareMock: func() {
				withdrawalRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&domain.WithdrawalRequest{
					ID: 5, UserID: 1, Amount: 100000, Status: domain.WithdrawalProcessing,
				}, nil)
				withdrawalRepo.EXPECT().UpdateStatus(gomock.Any(), int64(5), domain.WithdrawalProcessing, domain.WithdrawalFailed).Return(&domain.WithdrawalRequest{
					ID: 5, UserID: 1, Amount: 100000, Status: domain.WithdrawalFailed,
				}, nil)
				balanceRepo.EXPECT().RefundWithdrawn(gomock.Any(), int64(1), int64(100000)).Return(&domain.Balance{UserID: 1}, nil)
				balanceRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
						assert.Equal(t, domain.TransactionRefund, tx.Type)
						assert.Equal(t, int64(100000), tx.Amount)
						return tx, nil
					},
				)
			},
			expectedError: nil,
		},
		{
			name:   "Completed is terminal",
			target: domain.WithdrawalProcessing,
			prepareMock: func() {
				withdrawalRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&domain.WithdrawalRequest{
					ID: 5, UserID: 1, Amount: 100000, Status: domain.WithdrawalCompleted,
				}, nil)
			},
			expectedError: ErrInvalidTransition,
		},
		{
			name:   "Unknown withdrawal",
			target: domain.WithdrawalProcessing,
			prepareMock: func() {
				withdrawalRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(nil, nil)
			},
			expectedError: ErrWithdrawalNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			wd, err := service.TransitionWithdrawal(context.Background(), 5, tt.target)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, wd)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.target, wd.Status)
			}
		})
	}
}

// Two admins acting on the same pending request both read it as pending; only
// the one whose status swap lands gets to refund. The loser's update matches
// no row and the refund branch never runs a second time.
func TestTransitionWithdrawalConcurrentLoser(t *testing.T) {
	service, balanceRepo, withdrawalRepo := NewMock(t)
	pending := &domain.WithdrawalRequest{ID: 5, UserID: 1, Amount: 100000, Status: domain.WithdrawalPending}

	withdrawalRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(pending, nil)
	withdrawalRepo.EXPECT().UpdateStatus(gomock.Any(), int64(5), domain.WithdrawalPending, domain.WithdrawalFailed).Return(&domain.WithdrawalRequest{
		ID: 5, UserID: 1, Amount: 100000, Status: domain.WithdrawalFailed,
	}, nil)
	balanceRepo.EXPECT().RefundWithdrawn(gomock.Any(), int64(1), int64(100000)).Return(&domain.Balance{UserID: 1}, nil).Times(1)
	balanceRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(&domain.Transaction{ID: 12}, nil).Times(1)

	wd, err := service.TransitionWithdrawal(context.Background(), 5, domain.WithdrawalFailed)
	assert.NoError(t, err)
	assert.Equal(t, domain.WithdrawalFailed, wd.Status)

	// Second transition read the same pending snapshot but loses the swap.
	withdrawalRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(pending, nil)
	withdrawalRepo.EXPECT().UpdateStatus(gomock.Any(), int64(5), domain.WithdrawalPending, domain.WithdrawalCancelled).Return(nil, nil)

	wd, err = service.TransitionWithdrawal(context.Background(), 5, domain.WithdrawalCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, wd)
}

func TestTransitionWithdrawalUnknownStatus(t *testing.T) {
	service, _, _ := NewMock(t)

	wd, err := service.TransitionWithdrawal(context.Background(), 5, domain.WithdrawalStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Nil(t, wd)
}

func TestListWithdrawals(t *testing.T) {
	service, _, withdrawalRepo := NewMock(t)

	withdrawalRepo.EXPECT().ListByStatus(gomock.Any(), "pending").Return([]domain.WithdrawalRequest{{ID: 1}}, nil)
	withdrawals, err := service.ListWithdrawals(context.Background(), "pending")
	assert.NoError(t, err)
	assert.Len(t, withdrawals, 1)

	_, err = service.ListWithdrawals(context.Background(), "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
