// Package ledgerservice owns every balance mutation. Balance rows are only
// touched through atomic increments, and each mutation lands together with
// its transaction-log entry inside one database transaction.
package ledgerservice

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"coursemart/internal/domain"
	"coursemart/internal/pg"
)

type BalanceRepo interface {
	GetUserBalance(ctx context.Context, userID int64) (*domain.Balance, error)
	CreateUserBalance(ctx context.Context, userID int64) (*domain.Balance, error)
	Credit(ctx context.Context, userID int64, amount int64) (*domain.Balance, error)
	Debit(ctx context.Context, userID int64, amount int64) (*domain.Balance, error)
	RefundWithdrawn(ctx context.Context, userID int64, amount int64) (*domain.Balance, error)
	CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	GetTransactionsByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error)
}

type WithdrawalRepo interface {
	Create(ctx context.Context, wd *domain.WithdrawalRequest) (*domain.WithdrawalRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error)
	ListByStatus(ctx context.Context, status string) ([]domain.WithdrawalRequest, error)
	UpdateStatus(ctx context.Context, id int64, expected, target domain.WithdrawalStatus) (*domain.WithdrawalRequest, error)
}

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceNotFound     = errors.New("balance not found")
	ErrWithdrawalNotFound  = errors.New("withdrawal request not found")
	ErrInvalidStatus       = errors.New("unknown withdrawal status")
	ErrInvalidTransition   = errors.New("withdrawal status transition not allowed")
)

// pending -> processing -> completed; failed and cancelled are reachable from
// any active status and trigger a refund. Terminal states have no way out.
var allowedTransitions = map[domain.WithdrawalStatus]map[domain.WithdrawalStatus]bool{
	domain.WithdrawalPending: {
		domain.WithdrawalProcessing: true,
		domain.WithdrawalFailed:     true,
		domain.WithdrawalCancelled:  true,
	},
	domain.WithdrawalProcessing: {
		domain.WithdrawalCompleted: true,
		domain.WithdrawalFailed:    true,
		domain.WithdrawalCancelled: true,
	},
}

var knownStatuses = map[domain.WithdrawalStatus]bool{
	domain.WithdrawalPending:    true,
	domain.WithdrawalProcessing: true,
	domain.WithdrawalCompleted:  true,
	domain.WithdrawalFailed:     true,
	domain.WithdrawalCancelled:  true,
}

type Service struct {
	balanceRepo    BalanceRepo
	withdrawalRepo WithdrawalRepo
	txManager      pg.TXManager
}

func New(balanceRepo BalanceRepo, withdrawalRepo WithdrawalRepo, txManager pg.TXManager) *Service {
	return &Service{
		balanceRepo:    balanceRepo,
		withdrawalRepo: withdrawalRepo,
		txManager:      txManager,
	}
}

func (s *Service) GetBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	balance, err := s.balanceRepo.GetUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return nil, err
	}
	if balance == nil {
		return nil, ErrBalanceNotFound
	}
	return balance, nil
}

func (s *Service) CreateBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	balance, err := s.balanceRepo.CreateUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to create balance", zap.Error(err))
		return nil, err
	}
	return balance, nil
}

func (s *Service) GetTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	transactions, err := s.balanceRepo.GetTransactionsByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

// AddFunds credits amount to the user's balance and total_earned and appends
// an earned transaction. Used by the admin credit tool and by referral
// commission payouts.
func (s *Service) AddFunds(ctx context.Context, userID int64, amount int64, comment string, referenceType *string, referenceID *int64) (*domain.Balance, error) {
	var result *domain.Balance
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		balance, err := s.balanceRepo.Credit(ctx, userID, amount)
		if err != nil {
			return err
		}
		if balance == nil {
			return ErrBalanceNotFound
		}

		_, err = s.balanceRepo.CreateTransaction(ctx, &domain.Transaction{
			UserID:        userID,
			Type:          domain.TransactionEarned,
			Amount:        amount,
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
			Comment:       comment,
		})
		if err != nil {
			return err
		}

		result = balance
		return nil
	})
	if err != nil {
		zap.L().Error("failed to add funds", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// CreateWithdrawal reserves amount from the balance and opens a pending
// payout request. The debit, the request and the ledger entry commit
// together.
func (s *Service) CreateWithdrawal(ctx context.Context, userID int64, amount int64, cardNumber string) (*domain.WithdrawalRequest, error) {
	var result *domain.WithdrawalRequest
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := s.balanceRepo.Debit(ctx, userID, amount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInsufficientBalance
			}
			return err
		}

		wd, err := s.withdrawalRepo.Create(ctx, &domain.WithdrawalRequest{
			UserID:     userID,
			Amount:     amount,
			CardNumber: cardNumber,
			Status:     domain.WithdrawalPending,
		})
		if err != nil {
			return err
		}

		refType := "withdrawal"
		_, err = s.balanceRepo.CreateTransaction(ctx, &domain.Transaction{
			UserID:        userID,
			Type:          domain.TransactionWithdrawn,
			Amount:        amount,
			ReferenceType: &refType,
			ReferenceID:   &wd.ID,
			Comment:       "withdrawal request",
		})
		if err != nil {
			return err
		}

		result = wd
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientBalance) {
			zap.L().Error("failed to create withdrawal request", zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil, err
	}
	return result, nil
}

func (s *Service) GetWithdrawals(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error) {
	withdrawals, err := s.withdrawalRepo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Error(err))
		return nil, err
	}
	return withdrawals, nil
}

func (s *Service) ListWithdrawals(ctx context.Context, status string) ([]domain.WithdrawalRequest, error) {
	if status != "" && !knownStatuses[domain.WithdrawalStatus(status)] {
		return nil, ErrInvalidStatus
	}
	withdrawals, err := s.withdrawalRepo.ListByStatus(ctx, status)
	if err != nil {
		zap.L().Error("failed to list withdrawals", zap.Error(err))
		return nil, err
	}
	return withdrawals, nil
}

// TransitionWithdrawal moves a request through its state machine. Moving an
// active request into failed or cancelled refunds the reserved amount:
// balance += amount, total_withdrawn -= amount (clamped at zero), plus a
// refund transaction.
func (s *Service) TransitionWithdrawal(ctx context.Context, id int64, target domain.WithdrawalStatus) (*domain.WithdrawalRequest, error) {
	if !knownStatuses[target] {
		return nil, ErrInvalidStatus
	}

	var result *domain.WithdrawalRequest
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		wd, err := s.withdrawalRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if wd == nil {
			return ErrWithdrawalNotFound
		}
		if !allowedTransitions[wd.Status][target] {
			return ErrInvalidTransition
		}

		// Compare-and-swap on the status read above. A concurrent transition
		// that commits in between leaves us with no row, not a double refund.
		updated, err := s.withdrawalRepo.UpdateStatus(ctx, id, wd.Status, target)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrInvalidTransition
		}

		if target == domain.WithdrawalFailed || target == domain.WithdrawalCancelled {
			if _, err := s.balanceRepo.RefundWithdrawn(ctx, wd.UserID, wd.Amount); err != nil {
				return err
			}
			refType := "withdrawal"
			_, err = s.balanceRepo.CreateTransaction(ctx, &domain.Transaction{
				UserID:        wd.UserID,
				Type:          domain.TransactionRefund,
				Amount:        wd.Amount,
				ReferenceType: &refType,
				ReferenceID:   &wd.ID,
				Comment:       "withdrawal " + string(target),
			})
			if err != nil {
				return err
			}
		}

		result = updated
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrWithdrawalNotFound) && !errors.Is(err, ErrInvalidTransition) {
			zap.L().Error("failed to transition withdrawal", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return result, nil
}
