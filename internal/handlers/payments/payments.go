package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"coursemart/internal/domain"
	"coursemart/internal/dto"
	"coursemart/internal/gateway/yookassa"
	"coursemart/internal/service/paymentservice"
	"coursemart/pkg/auth"
	"coursemart/pkg/utils"
)

type Service interface {
	Initiate(ctx context.Context, userID, courseID int64, amountMajor float64, description, returnURL string) (string, *domain.Payment, error)
	HandleWebhook(ctx context.Context, notification *yookassa.WebhookNotification) error
	Verify(ctx context.Context, gatewayPaymentID string, userID, courseID int64) (paymentservice.VerifyResult, error)
}

type PaymentHandler struct {
	paymentService Service
}

func New(paymentService Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Initiate godoc
//
//	@Summary		Start a course purchase
//	@Description	Create a gateway payment and return the confirmation redirect URL. The payment stays pending until the gateway confirms it.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PaymentInitiateRequestDTO	true	"Payment request"
//	@Success		200		{object}	dto.PaymentInitiateResponseDTO
//	@Failure		400		{object}	utils.Response	"Missing field or amount below minimum"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Course not found"
//	@Failure		500		{object}	utils.Response	"Gateway or server error"
//	@Router			/api/payments [post]
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	var req dto.PaymentInitiateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CourseID == 0 || req.Amount == 0 || req.ReturnURL == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "course_id, amount and return_url are required")
		return
	}

	confirmationURL, payment, err := h.paymentService.Initiate(r.Context(), userID, req.CourseID, req.Amount, req.Description, req.ReturnURL)
	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrCourseNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, paymentservice.ErrAmountTooSmall):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, yookassa.ErrNotConfigured):
			utils.RespondWithError(w, http.StatusInternalServerError, "Payment gateway is not configured")
		default:
			// Gateway rejections are surfaced as-is so the client can show
			// the gateway's reason.
			utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.PaymentInitiateResponseDTO{
		PaymentID:       payment.GatewayPaymentID,
		ConfirmationURL: confirmationURL,
	})
}

// Webhook godoc
//
//	@Summary		Gateway callback receiver
//	@Description	Accepts asynchronous YooKassa status notifications. Callers outside the gateway's address ranges are rejected upstream.
//	@Tags			Payments
//	@Accept			json
//	@Success		200	{string}	string	"Acknowledged"
//	@Failure		400	{object}	utils.Response	"Malformed notification"
//	@Router			/api/payments/webhook [post]
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var notification yookassa.WebhookNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification body")
		return
	}

	if err := h.paymentService.HandleWebhook(r.Context(), &notification); err != nil {
		// A non-2xx reply makes the gateway redeliver the notification.
		zap.L().Error("webhook processing failed",
			zap.String("event", notification.Event),
			zap.String("gateway_payment_id", notification.Object.ID),
			zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Verify godoc
//
//	@Summary		Check a payment's stored status
//	@Description	Poll endpoint for the client after returning from the gateway. Accepts either a gateway payment id or a course id; the course id form requires authentication.
//	@Tags			Payments
//	@Produce		json
//	@Param			payment_id	query		string	false	"Gateway payment id"
//	@Param			course_id	query		int		false	"Course id"
//	@Success		200			{object}	dto.PaymentVerifyResponseDTO
//	@Failure		400			{object}	utils.Response	"Neither payment_id nor course_id given"
//	@Failure		401			{object}	utils.Response	"course_id lookup requires authentication"
//	@Failure		404			{object}	utils.Response	"Payment not found"
//	@Router			/api/payments/verify [get]
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("payment_id")
	courseIDParam := r.URL.Query().Get("course_id")

	var userID, courseID int64
	if paymentID == "" {
		if courseIDParam == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "payment_id or course_id is required")
			return
		}
		var err error
		courseID, err = strconv.ParseInt(courseIDParam, 10, 64)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid course_id")
			return
		}
		uid, ok := r.Context().Value(auth.UserIDKey).(int64)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		userID = uid
	}

	result, err := h.paymentService.Verify(r.Context(), paymentID, userID, courseID)
	if err != nil {
		if errors.Is(err, paymentservice.ErrPaymentNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.PaymentVerifyResponseDTO{Status: string(result)})
}
