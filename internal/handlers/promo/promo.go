package promo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"coursemart/internal/domain"
	"coursemart/internal/dto"
	"coursemart/internal/service/promoservice"
	"coursemart/pkg/auth"
	"coursemart/pkg/utils"
)

type Service interface {
	Activate(ctx context.Context, userID int64, code string) (*domain.Promocode, error)
}

type PromoHandler struct {
	promoService Service
}

func New(promoService Service) *PromoHandler {
	return &PromoHandler{
		promoService: promoService,
	}
}

// Activate godoc
//
//	@Summary		Redeem a promocode
//	@Description	Each code may be used once per user and has a global activation limit.
//	@Tags			Promocodes
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PromoActivateRequestDTO	true	"Promocode"
//	@Success		200		{object}	dto.PromoResponseDTO
//	@Failure		404		{object}	utils.Response	"Promocode not found"
//	@Failure		409		{object}	utils.Response	"Already used"
//	@Failure		410		{object}	utils.Response	"Expired or exhausted"
//	@Router			/api/promocodes/activate [post]
func (h *PromoHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	var req dto.PromoActivateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	promo, err := h.promoService.Activate(r.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, promoservice.ErrPromoNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, promoservice.ErrPromoAlreadyUsed):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, promoservice.ErrPromoExpired), errors.Is(err, promoservice.ErrPromoExhausted):
			utils.RespondWithError(w, http.StatusGone, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, PromoDTO(promo))
}

// PromoDTO maps a promocode to its response shape. Shared with the admin
// handler.
func PromoDTO(promo *domain.Promocode) dto.PromoResponseDTO {
	return dto.PromoResponseDTO{
		ID:              promo.ID,
		Code:            promo.Code,
		DiscountPercent: promo.DiscountPercent,
		MaxActivations:  promo.MaxActivations,
		Activations:     promo.Activations,
		ExpiresAt:       promo.ExpiresAt,
	}
}
