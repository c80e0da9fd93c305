package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"coursemart/internal/domain"
	"coursemart/internal/dto"
	"coursemart/internal/otp"
	"coursemart/internal/service/authservice"
	pkgauth "coursemart/pkg/auth"
	"coursemart/pkg/utils"
)

type Service interface {
	Register(ctx context.Context, email, password, name string, referredBy *int64) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	RequestOTP(ctx context.Context, phone string) (string, error)
	VerifyOTP(ctx context.Context, phone, code string) (*domain.User, error)
	TelegramLogin(ctx context.Context, fields map[string]string) (*domain.User, error)
	VKLogin(ctx context.Context, fields map[string]string) (*domain.User, error)
	GenerateToken(user *domain.User) (string, error)
	GetProfile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, name string, email *string) (*domain.User, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create an account with email and password. An optional referral code links the account to a partner.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		200		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		409		{object}	utils.Response	"User already exists"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name, req.ReferralCode)
	if err != nil {
		if errors.Is(err, authservice.ErrUserExists) {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.respondWithToken(w, user)
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Log in with email and password and get a JWT token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	h.respondWithToken(w, user)
}

// RequestOTP godoc
//
//	@Summary		Request a phone login code
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.OTPRequestDTO	true	"Phone number"
//	@Success		200		{object}	utils.Response	"Code sent"
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		429		{object}	utils.Response	"Requested too recently"
//	@Router			/api/auth/otp/request [post]
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.OTPRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The code goes to the SMS provider; it never appears in the response.
	_, err := h.authService.RequestOTP(r.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, otp.ErrRateLimited) {
			utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Code sent"})
}

// VerifyOTP godoc
//
//	@Summary		Log in with a phone code
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.OTPVerifyRequestDTO	true	"Phone and code"
//	@Success		200		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid or expired code"
//	@Failure		429		{object}	utils.Response	"Too many attempts"
//	@Router			/api/auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.OTPVerifyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.VerifyOTP(r.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrTooManyAttempts):
			utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, otp.ErrCodeExpired), errors.Is(err, otp.ErrCodeMismatch):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	h.respondWithToken(w, user)
}

// TelegramLogin godoc
//
//	@Summary		Log in with a Telegram Login Widget payload
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	dto.AuthResponseDTO
//	@Failure		401	{object}	utils.Response	"Invalid signature"
//	@Router			/api/auth/telegram [post]
func (h *AuthHandler) TelegramLogin(w http.ResponseWriter, r *http.Request) {
	h.socialLogin(w, r, h.authService.TelegramLogin)
}

// VKLogin godoc
//
//	@Summary		Log in with signed VK launch params
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	dto.AuthResponseDTO
//	@Failure		401	{object}	utils.Response	"Invalid signature"
//	@Router			/api/auth/vk [post]
func (h *AuthHandler) VKLogin(w http.ResponseWriter, r *http.Request) {
	h.socialLogin(w, r, h.authService.VKLogin)
}

func (h *AuthHandler) socialLogin(w http.ResponseWriter, r *http.Request, login func(context.Context, map[string]string) (*domain.User, error)) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := login(r.Context(), fields)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidSignature) || errors.Is(err, authservice.ErrStalePayload) {
			utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.respondWithToken(w, user)
}

// GetProfile godoc
//
//	@Summary	Get the authenticated user's profile
//	@Tags		Profile
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	dto.ProfileResponseDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Router		/api/user/profile [get]
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(pkgauth.UserIDKey).(int64)

	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profileDTO(user))
}

// UpdateProfile godoc
//
//	@Summary	Update the authenticated user's profile
//	@Tags		Profile
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.ProfileUpdateRequestDTO	true	"Profile fields"
//	@Success	200		{object}	dto.ProfileResponseDTO
//	@Failure	409		{object}	utils.Response	"Email already taken"
//	@Router		/api/user/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(pkgauth.UserIDKey).(int64)

	var req dto.ProfileUpdateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), userID, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, authservice.ErrUserExists) {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profileDTO(user))
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user *domain.User) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.AuthResponseDTO{Token: token})
}

func profileDTO(user *domain.User) dto.ProfileResponseDTO {
	return dto.ProfileResponseDTO{
		ID:                user.ID,
		Email:             user.Email,
		Phone:             user.Phone,
		TelegramID:        user.TelegramID,
		VKID:              user.VKID,
		Name:              user.Name,
		IsAdmin:           user.IsAdmin,
		IsPartner:         user.IsPartner,
		CommissionPercent: user.CommissionPercent,
	}
}
