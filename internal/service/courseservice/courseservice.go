package courseservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"coursemart/internal/domain"
)

type Repo interface {
	GetByID(ctx context.Context, id int64) (*domain.Course, error)
	List(ctx context.Context, category string) ([]domain.Course, error)
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	Update(ctx context.Context, course *domain.Course) (*domain.Course, error)
	GetEnrollmentsByUserID(ctx context.Context, userID int64) ([]domain.Course, error)
	HasEnrollment(ctx context.Context, userID, courseID int64) (bool, error)
}

var ErrCourseNotFound = errors.New("course not found")

type Service struct {
	courseRepo Repo
}

func New(courseRepo Repo) *Service {
	return &Service{
		courseRepo: courseRepo,
	}
}

func (s *Service) List(ctx context.Context, category string) ([]domain.Course, error) {
	courses, err := s.courseRepo.List(ctx, category)
	if err != nil {
		zap.L().Error("failed to list courses", zap.Error(err))
		return nil, err
	}
	return courses, nil
}

// GetPublished returns a course visible to anonymous callers.
func (s *Service) GetPublished(ctx context.Context, id int64) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil || !course.IsPublished {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *Service) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	created, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		zap.L().Error("failed to create course", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	updated, err := s.courseRepo.Update(ctx, course)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCourseNotFound
	}
	return updated, nil
}

func (s *Service) GetEnrollments(ctx context.Context, userID int64) ([]domain.Course, error) {
	courses, err := s.courseRepo.GetEnrollmentsByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch enrollments", zap.Error(err))
		return nil, err
	}
	return courses, nil
}

func (s *Service) HasEnrollment(ctx context.Context, userID, courseID int64) (bool, error) {
	return s.courseRepo.HasEnrollment(ctx, userID, courseID)
}
