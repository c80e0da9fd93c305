package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"coursemart/internal/domain"
	"coursemart/internal/dto"
	"coursemart/internal/handlers/promo"
	"coursemart/internal/service/authservice"
	"coursemart/internal/service/courseservice"
	"coursemart/internal/service/ledgerservice"
	"coursemart/internal/service/promoservice"
	"coursemart/internal/service/reviewservice"
	"coursemart/pkg/money"
	"coursemart/pkg/utils"
)

type UserService interface {
	ResolveUser(ctx context.Context, userID *int64, email *string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	SetPartner(ctx context.Context, userID int64, isPartner bool, commissionPercent int) (*domain.User, error)
}

type LedgerService interface {
	AddFunds(ctx context.Context, userID int64, amount int64, comment string, referenceType *string, referenceID *int64) (*domain.Balance, error)
	ListWithdrawals(ctx context.Context, status string) ([]domain.WithdrawalRequest, error)
	TransitionWithdrawal(ctx context.Context, id int64, target domain.WithdrawalStatus) (*domain.WithdrawalRequest, error)
}

type CourseService interface {
	Get(ctx context.Context, id int64) (*domain.Course, error)
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	Update(ctx context.Context, course *domain.Course) (*domain.Course, error)
}

type ReviewService interface {
	ListPending(ctx context.Context) ([]domain.Review, error)
	Moderate(ctx context.Context, id int64, approved bool) (*domain.Review, error)
}

type PromoService interface {
	Create(ctx context.Context, p *domain.Promocode) (*domain.Promocode, error)
	List(ctx context.Context) ([]domain.Promocode, error)
}

type AdminHandler struct {
	userService   UserService
	ledgerService LedgerService
	courseService CourseService
	reviewService ReviewService
	promoService  PromoService
}

func New(userService UserService, ledgerService LedgerService, courseService CourseService, reviewService ReviewService, promoService PromoService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		ledgerService: ledgerService,
		courseService: courseService,
		reviewService: reviewService,
		promoService:  promoService,
	}
}

// AddBalance godoc
//
//	@Summary		Credit a user's balance
//	@Description	Manual credit tool. The target user is found by id or email; the credit lands as an earned transaction.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.BalanceAddRequestDTO	true	"Target and amount"
//	@Success		200		{object}	dto.BalanceResponseDTO
//	@Failure		400		{object}	utils.Response	"Amount not positive"
//	@Failure		403		{object}	utils.Response	"Admin only"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Router			/api/admin/balance/add [post]
func (h *AdminHandler) AddBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.BalanceAddRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	user, err := h.userService.ResolveUser(r.Context(), req.UserID, req.Email)
	if err != nil {
		if errors.Is(err, authservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	comment := req.Comment
	if comment == "" {
		comment = "manual balance credit"
	}
	balance, err := h.ledgerService.AddFunds(r.Context(), user.ID, money.ToMinor(req.Amount), comment, nil, nil)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Current:   money.ToMajor(balance.CurrentBalance),
		Earned:    money.ToMajor(balance.TotalEarned),
		Withdrawn: money.ToMajor(balance.TotalWithdrawn),
	})
}

// ListWithdrawals godoc
//
//	@Summary	List payout requests
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		status	query		string	false	"Filter by status"
//	@Success	200		{array}		dto.WithdrawalResponseDTO
//	@Failure	400		{object}	utils.Response	"Unknown status"
//	@Router		/api/admin/withdrawals [get]
func (h *AdminHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.ledgerService.ListWithdrawals(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, ledgerservice.ErrInvalidStatus) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.WithdrawalResponseDTO, 0, len(withdrawals))
	for _, wd := range withdrawals {
		response = append(response, dto.WithdrawalResponseDTO{
			ID:        wd.ID,
			Amount:    money.ToMajor(wd.Amount),
			Status:    string(wd.Status),
			CreatedAt: wd.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// TransitionWithdrawal godoc
//
//	@Summary		Move a payout request to a new status
//	@Description	Marking a request failed or cancelled returns the reserved amount to the user's balance.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int								true	"Withdrawal id"
//	@Param			request	body		dto.WithdrawalStatusRequestDTO	true	"Target status"
//	@Success		200		{object}	dto.WithdrawalResponseDTO
//	@Failure		404		{object}	utils.Response	"Withdrawal not found"
//	@Failure		409		{object}	utils.Response	"Transition not allowed"
//	@Router			/api/admin/withdrawals/{id}/status [put]
func (h *AdminHandler) TransitionWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	var req dto.WithdrawalStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wd, err := h.ledgerService.TransitionWithdrawal(r.Context(), id, domain.WithdrawalStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrInvalidStatus):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledgerservice.ErrWithdrawalNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ledgerservice.ErrInvalidTransition):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.WithdrawalResponseDTO{
		ID:        wd.ID,
		Amount:    money.ToMajor(wd.Amount),
		Status:    string(wd.Status),
		CreatedAt: wd.CreatedAt,
	})
}

// ListUsers godoc
//
//	@Summary	List users
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		limit	query		int	false	"Page size, max 100"
//	@Param		offset	query		int	false	"Page offset"
//	@Success	200		{array}		dto.ProfileResponseDTO
//	@Router		/api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.userService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.ProfileResponseDTO, 0, len(users))
	for _, user := range users {
		response = append(response, userDTO(&user))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// SetPartner godoc
//
//	@Summary		Grant or revoke partner status
//	@Description	Partners may request payouts and earn referral commission at the given percent.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"User id"
//	@Param			request	body		dto.SetPartnerRequestDTO	true	"Partner flag and commission"
//	@Success		200		{object}	dto.ProfileResponseDTO
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Router			/api/admin/users/{id}/partner [put]
func (h *AdminHandler) SetPartner(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req dto.SetPartnerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.SetPartner(r.Context(), id, req.IsPartner, req.CommissionPercent)
	if err != nil {
		if errors.Is(err, authservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, userDTO(user))
}

// CreateCourse godoc
//
//	@Summary	Create a course
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.CourseUpsertRequestDTO	true	"Course fields"
//	@Success	201		{object}	dto.CourseResponseDTO
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Router		/api/admin/courses [post]
func (h *AdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req dto.CourseUpsertRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Slug == "" || req.Price < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "title, slug and a non-negative price are required")
		return
	}

	course, err := h.courseService.Create(r.Context(), courseFromDTO(0, &req))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, courseDTO(course))
}

// UpdateCourse godoc
//
//	@Summary	Update a course
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int							true	"Course id"
//	@Param		request	body		dto.CourseUpsertRequestDTO	true	"Course fields"
//	@Success	200		{object}	dto.CourseResponseDTO
//	@Failure	404		{object}	utils.Response	"Course not found"
//	@Router		/api/admin/courses/{id} [put]
func (h *AdminHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	var req dto.CourseUpsertRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	course, err := h.courseService.Update(r.Context(), courseFromDTO(id, &req))
	if err != nil {
		if errors.Is(err, courseservice.ErrCourseNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, courseDTO(course))
}

// ListPendingReviews godoc
//
//	@Summary	List reviews awaiting moderation
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	dto.ReviewResponseDTO
//	@Router		/api/admin/reviews [get]
func (h *AdminHandler) ListPendingReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.ListPending(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.ReviewResponseDTO, 0, len(reviews))
	for _, review := range reviews {
		response = append(response, dto.ReviewResponseDTO{
			ID:        review.ID,
			UserID:    review.UserID,
			CourseID:  review.CourseID,
			Rating:    review.Rating,
			Text:      review.Text,
			CreatedAt: review.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// ModerateReview godoc
//
//	@Summary	Approve or reject a review
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int							true	"Review id"
//	@Param		request	body		dto.ReviewModerateRequestDTO	true	"Verdict"
//	@Success	200		{object}	utils.Response
//	@Failure	404		{object}	utils.Response	"Review not found"
//	@Router		/api/admin/reviews/{id} [put]
func (h *AdminHandler) ModerateReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	var req dto.ReviewModerateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.reviewService.Moderate(r.Context(), id, req.Approved); err != nil {
		if errors.Is(err, reviewservice.ErrReviewNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Review updated"})
}

// CreatePromo godoc
//
//	@Summary	Create a promocode
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.PromoCreateRequestDTO	true	"Promocode fields"
//	@Success	201		{object}	dto.PromoResponseDTO
//	@Failure	409		{object}	utils.Response	"Code already exists"
//	@Router		/api/admin/promocodes [post]
func (h *AdminHandler) CreatePromo(w http.ResponseWriter, r *http.Request) {
	var req dto.PromoCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" || req.DiscountPercent < 1 || req.DiscountPercent > 100 || req.MaxActivations < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "code, discount_percent in 1..100 and max_activations >= 1 are required")
		return
	}

	created, err := h.promoService.Create(r.Context(), &domain.Promocode{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		MaxActivations:  req.MaxActivations,
		ExpiresAt:       req.ExpiresAt,
	})
	if err != nil {
		if errors.Is(err, promoservice.ErrPromoExists) {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, promo.PromoDTO(created))
}

// ListPromos godoc
//
//	@Summary	List promocodes
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	dto.PromoResponseDTO
//	@Router		/api/admin/promocodes [get]
func (h *AdminHandler) ListPromos(w http.ResponseWriter, r *http.Request) {
	promos, err := h.promoService.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.PromoResponseDTO, 0, len(promos))
	for _, p := range promos {
		response = append(response, promo.PromoDTO(&p))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func userDTO(user *domain.User) dto.ProfileResponseDTO {
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

func courseDTO(course *domain.Course) dto.CourseResponseDTO {
	return dto.CourseResponseDTO{
		ID:          course.ID,
		Title:       course.Title,
		Slug:        course.Slug,
		Description: course.Description,
		Category:    course.Category,
		Price:       money.ToMajor(course.Price),
	}
}

func courseFromDTO(id int64, req *dto.CourseUpsertRequestDTO) *domain.Course {
	return &domain.Course{
		ID:          id,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Category:    req.Category,
		Price:       money.ToMinor(req.Price),
		IsPublished: req.IsPublished,
	}
}
