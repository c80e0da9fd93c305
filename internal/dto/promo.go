package dto

import "time"

type PromoActivateRequestDTO struct {
	Code string `json:"code" example:"SPRING20"`
}

type PromoCreateRequestDTO struct {
	Code            string     `json:"code" example:"SPRING20"`
	DiscountPercent int        `json:"discount_percent" example:"20"`
	MaxActivations  int        `json:"max_activations" example:"100"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

type PromoResponseDTO struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discount_percent"`
	MaxActivations  int        `json:"max_activations"`
	Activations     int        `json:"activations"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}
