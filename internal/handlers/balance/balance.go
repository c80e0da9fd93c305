package balance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"coursemart/internal/domain"
	"coursemart/internal/dto"
	"coursemart/internal/service/ledgerservice"
	"coursemart/pkg/auth"
	"coursemart/pkg/money"
	"coursemart/pkg/utils"
	"coursemart/pkg/validate"
)

type Service interface {
	GetBalance(ctx context.Context, userID int64) (*domain.Balance, error)
	GetTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error)
	CreateWithdrawal(ctx context.Context, userID int64, amount int64, cardNumber string) (*domain.WithdrawalRequest, error)
	GetWithdrawals(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error)
}

type BalanceHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *BalanceHandler {
	return &BalanceHandler{
		ledgerService: ledgerService,
	}
}

// GetBalance godoc
//
//	@Summary	Get the authenticated user's balance
//	@Tags		Balance
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	dto.BalanceResponseDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/user/balance [get]
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	balance, err := h.ledgerService.GetBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ledgerservice.ErrBalanceNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Current:   money.ToMajor(balance.CurrentBalance),
		Earned:    money.ToMajor(balance.TotalEarned),
		Withdrawn: money.ToMajor(balance.TotalWithdrawn),
	})
}

// GetTransactions godoc
//
//	@Summary	List the authenticated user's ledger entries
//	@Tags		Balance
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		dto.TransactionResponseDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Router		/api/user/transactions [get]
func (h *BalanceHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	transactions, err := h.ledgerService.GetTransactions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.TransactionResponseDTO, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, dto.TransactionResponseDTO{
			ID:            tx.ID,
			Type:          string(tx.Type),
			Amount:        money.ToMajor(tx.Amount),
			ReferenceType: tx.ReferenceType,
			ReferenceID:   tx.ReferenceID,
			Comment:       tx.Comment,
			CreatedAt:     tx.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// CreateWithdrawal godoc
//
//	@Summary		Request a payout to a card
//	@Description	Partner-only. The amount is reserved from the balance immediately; a failed or cancelled payout refunds it.
//	@Tags			Balance
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WithdrawalCreateRequestDTO	true	"Amount and card number"
//	@Success		201		{object}	dto.WithdrawalResponseDTO
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		422		{object}	utils.Response	"Invalid card number"
//	@Router			/api/user/withdrawals [post]
func (h *BalanceHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	var req dto.WithdrawalCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if !validate.IsLuhn(req.CardNumber) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid card number")
		return
	}

	wd, err := h.ledgerService.CreateWithdrawal(r.Context(), userID, money.ToMinor(req.Amount), req.CardNumber)
	if err != nil {
		if errors.Is(err, ledgerservice.ErrInsufficientBalance) {
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, withdrawalDTO(wd))
}

// GetWithdrawals godoc
//
//	@Summary	List the authenticated user's payout requests
//	@Tags		Balance
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		dto.WithdrawalResponseDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Router		/api/user/withdrawals [get]
func (h *BalanceHandler) GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	withdrawals, err := h.ledgerService.GetWithdrawals(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.WithdrawalResponseDTO, 0, len(withdrawals))
	for _, wd := range withdrawals {
		response = append(response, withdrawalDTO(&wd))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func withdrawalDTO(wd *domain.WithdrawalRequest) dto.WithdrawalResponseDTO {
	return dto.WithdrawalResponseDTO{
		ID:        wd.ID,
		Amount:    money.ToMajor(wd.Amount),
		Status:    string(wd.Status),
		CreatedAt: wd.CreatedAt,
	}
}
