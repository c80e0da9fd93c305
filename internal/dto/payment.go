package dto

type PaymentInitiateRequestDTO struct {
	CourseID    int64   `json:"course_id" example:"1"`
	Amount      float64 `json:"amount" example:"4990"`
	Description string  `json:"description,omitempty" example:"Marathon: dry in 30 days"`
	ReturnURL   string  `json:"return_url" example:"https://coursemart.ru/payment/return"`
}

type PaymentInitiateResponseDTO struct {
	PaymentID       string `json:"payment_id"`
	ConfirmationURL string `json:"confirmation_url"`
}

type PaymentVerifyResponseDTO struct {
	Status string `json:"status" example:"verified"`
}
