package dto

import "time"

type BalanceResponseDTO struct {
	Current   float64 `json:"current" example:"1500.50"`
	Earned    float64 `json:"earned" example:"4200"`
	Withdrawn float64 `json:"withdrawn" example:"2699.50"`
}

type TransactionResponseDTO struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type" example:"earned"`
	Amount        float64   `json:"amount" example:"500"`
	ReferenceType *string   `json:"reference_type,omitempty"`
	ReferenceID   *int64    `json:"reference_id,omitempty"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

type WithdrawalCreateRequestDTO struct {
	Amount     float64 `json:"amount" example:"1000"`
	CardNumber string  `json:"card_number" example:"4561261212345467"`
}

type WithdrawalResponseDTO struct {
	ID        int64     `json:"id"`
	Amount    float64   `json:"amount" example:"1000"`
	Status    string    `json:"status" example:"pending"`
	CreatedAt time.Time `json:"created_at"`
}
