package dto

type RegisterRequestDTO struct {
	Email        string `json:"email" example:"user@example.com"`
	Password     string `json:"password" example:"secret"`
	Name         string `json:"name" example:"Anna"`
	ReferralCode *int64 `json:"referral_code,omitempty" example:"42"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"secret"`
}

type AuthResponseDTO struct {
	Token string `json:"token"`
}

type OTPRequestDTO struct {
	Phone string `json:"phone" example:"+79001234567"`
}

type OTPVerifyRequestDTO struct {
	Phone string `json:"phone" example:"+79001234567"`
	Code  string `json:"code" example:"123456"`
}

type ProfileResponseDTO struct {
	ID                int64   `json:"id"`
	Email             *string `json:"email,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	TelegramID        *int64  `json:"telegram_id,omitempty"`
	VKID              *int64  `json:"vk_id,omitempty"`
	Name              string  `json:"name"`
	IsAdmin           bool    `json:"is_admin"`
	IsPartner         bool    `json:"is_partner"`
	CommissionPercent int     `json:"commission_percent"`
}

type ProfileUpdateRequestDTO struct {
	Name  string  `json:"name" example:"Anna"`
	Email *string `json:"email,omitempty" example:"new@example.com"`
}
