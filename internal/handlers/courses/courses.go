package courses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"coursemart/internal/domain"
	"coursemart/internal/dto"
	"coursemart/internal/service/courseservice"
	"coursemart/internal/service/reviewservice"
	"coursemart/pkg/auth"
	"coursemart/pkg/money"
	"coursemart/pkg/utils"
)

type CourseService interface {
	List(ctx context.Context, category string) ([]domain.Course, error)
	GetPublished(ctx context.Context, id int64) (*domain.Course, error)
	GetEnrollments(ctx context.Context, userID int64) ([]domain.Course, error)
}

type ReviewService interface {
	Create(ctx context.Context, userID, courseID int64, rating int, text string) (*domain.Review, error)
	ListApproved(ctx context.Context, courseID int64) ([]domain.Review, error)
}

type CourseHandler struct {
	courseService CourseService
	reviewService ReviewService
}

func New(courseService CourseService, reviewService ReviewService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		reviewService: reviewService,
	}
}

// List godoc
//
//	@Summary	List published courses
//	@Tags		Courses
//	@Produce	json
//	@Param		category	query		string	false	"Filter by category"
//	@Success	200			{array}		dto.CourseResponseDTO
//	@Failure	500			{object}	utils.Response	"Internal server error"
//	@Router		/api/courses [get]
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.CourseResponseDTO, 0, len(courses))
	for _, course := range courses {
		response = append(response, courseDTO(&course))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Get godoc
//
//	@Summary	Get a published course
//	@Tags		Courses
//	@Produce	json
//	@Param		id	path		int	true	"Course id"
//	@Success	200	{object}	dto.CourseResponseDTO
//	@Failure	404	{object}	utils.Response	"Course not found"
//	@Router		/api/courses/{id} [get]
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	course, err := h.courseService.GetPublished(r.Context(), courseID)
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

// ListReviews godoc
//
//	@Summary	List approved reviews for a course
//	@Tags		Courses
//	@Produce	json
//	@Param		id	path		int	true	"Course id"
//	@Success	200	{array}		dto.ReviewResponseDTO
//	@Failure	400	{object}	utils.Response	"Invalid course id"
//	@Router		/api/courses/{id}/reviews [get]
func (h *CourseHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	reviews, err := h.reviewService.ListApproved(r.Context(), courseID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.ReviewResponseDTO, 0, len(reviews))
	for _, review := range reviews {
		response = append(response, reviewDTO(&review))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// CreateReview godoc
//
//	@Summary		Leave a review on a purchased course
//	@Description	Only enrolled users may review, one review per course. New reviews wait for moderation.
//	@Tags			Courses
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Course id"
//	@Param			request	body		dto.ReviewCreateRequestDTO	true	"Review"
//	@Success		201		{object}	dto.ReviewResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid rating"
//	@Failure		403		{object}	utils.Response	"Not enrolled"
//	@Failure		409		{object}	utils.Response	"Already reviewed"
//	@Router			/api/courses/{id}/reviews [post]
func (h *CourseHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	courseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	var req dto.ReviewCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviewService.Create(r.Context(), userID, courseID, req.Rating, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, reviewservice.ErrInvalidRating):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, reviewservice.ErrNotEnrolled):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, reviewservice.ErrAlreadyReviewed):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, reviewDTO(review))
}

// Enrollments godoc
//
//	@Summary	List the authenticated user's purchased courses
//	@Tags		Courses
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		dto.CourseResponseDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Router		/api/user/courses [get]
func (h *CourseHandler) Enrollments(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	courses, err := h.courseService.GetEnrollments(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.CourseResponseDTO, 0, len(courses))
	for _, course := range courses {
		response = append(response, courseDTO(&course))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
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

func reviewDTO(review *domain.Review) dto.ReviewResponseDTO {
	return dto.ReviewResponseDTO{
		ID:        review.ID,
		UserID:    review.UserID,
		CourseID:  review.CourseID,
		Rating:    review.Rating,
		Text:      review.Text,
		CreatedAt: review.CreatedAt,
	}
}
