package reviewservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"coursemart/internal/domain"
)

type Repo interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	GetApprovedByCourseID(ctx context.Context, courseID int64) ([]domain.Review, error)
	GetPending(ctx context.Context) ([]domain.Review, error)
	SetApproved(ctx context.Context, id int64, approved bool) (*domain.Review, error)
	HasUserReview(ctx context.Context, userID, courseID int64) (bool, error)
}

type EnrollmentChecker interface {
	HasEnrollment(ctx context.Context, userID, courseID int64) (bool, error)
}

var (
	ErrNotEnrolled     = errors.New("user is not enrolled in the course")
	ErrAlreadyReviewed = errors.New("user already reviewed the course")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrReviewNotFound  = errors.New("review not found")
)

type Service struct {
	reviewRepo  Repo
	enrollments EnrollmentChecker
}

func New(reviewRepo Repo, enrollments EnrollmentChecker) *Service {
	return &Service{
		reviewRepo:  reviewRepo,
		enrollments: enrollments,
	}
}

// Create accepts a review from an enrolled user. It stays hidden until an
// admin approves it.
func (s *Service) Create(ctx context.Context, userID, courseID int64, rating int, text string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	enrolled, err := s.enrollments.HasEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	reviewed, err := s.reviewRepo.HasUserReview(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, ErrAlreadyReviewed
	}

	review, err := s.reviewRepo.Create(ctx, &domain.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Text:     text,
	})
	if err != nil {
		zap.L().Error("failed to create review", zap.Error(err))
		return nil, err
	}
	return review, nil
}

func (s *Service) ListApproved(ctx context.Context, courseID int64) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.GetApprovedByCourseID(ctx, courseID)
	if err != nil {
		zap.L().Error("failed to fetch reviews", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

func (s *Service) ListPending(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.GetPending(ctx)
	if err != nil {
		zap.L().Error("failed to fetch pending reviews", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

func (s *Service) Moderate(ctx context.Context, id int64, approved bool) (*domain.Review, error) {
	review, err := s.reviewRepo.SetApproved(ctx, id, approved)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}
