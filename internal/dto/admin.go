package dto

type BalanceAddRequestDTO struct {
	UserID  *int64  `json:"user_id,omitempty" example:"1"`
	Email   *string `json:"email,omitempty" example:"user@example.com"`
	Amount  float64 `json:"amount" example:"500"`
	Comment string  `json:"comment,omitempty" example:"manual correction"`
}

type WithdrawalStatusRequestDTO struct {
	Status string `json:"status" example:"processing"`
}

type SetPartnerRequestDTO struct {
	IsPartner         bool `json:"is_partner" example:"true"`
	CommissionPercent int  `json:"commission_percent" example:"15"`
}

type ReviewModerateRequestDTO struct {
	Approved bool `json:"approved" example:"true"`
}
