package courserepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"coursemart/internal/domain"
	"coursemart/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

const courseColumns = `id, title, slug, description, category, price, is_published, created_at`

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var c domain.Course
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.Category, &c.Price, &c.IsPublished, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't scan course", zap.Error(err))
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	return scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

// List returns published courses, optionally filtered by category.
func (r *Repository) List(ctx context.Context, category string) ([]domain.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE is_published AND ($1 = '' OR category = $1)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		zap.L().Error("failed to fetch courses", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectCourses(rows)
}

func (r *Repository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	query := `
		INSERT INTO courses (title, slug, description, category, price, is_published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		course.Title, course.Slug, course.Description, course.Category, course.Price, course.IsPublished,
	).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		zap.L().Error("can't save course", zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (r *Repository) Update(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	query := `
		UPDATE courses
		SET title = $1, slug = $2, description = $3, category = $4, price = $5, is_published = $6
		WHERE id = $7
		RETURNING ` + courseColumns
	return scanCourse(r.db.QueryRow(ctx, query,
		course.Title, course.Slug, course.Description, course.Category, course.Price, course.IsPublished, course.ID,
	))
}

// CreateEnrollment grants course access idempotently: a duplicate grant for
// the same (user, course) pair returns the existing row.
func (r *Repository) CreateEnrollment(ctx context.Context, userID, courseID int64) (*domain.Enrollment, error) {
	query := `
		INSERT INTO enrollments (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO UPDATE SET course_id = EXCLUDED.course_id
		RETURNING id, user_id, course_id, created_at
	`
	var e domain.Enrollment
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(&e.ID, &e.UserID, &e.CourseID, &e.CreatedAt)
	if err != nil {
		zap.L().Error("can't save enrollment", zap.Error(err))
		return nil, err
	}
	return &e, nil
}

func (r *Repository) GetEnrollmentsByUserID(ctx context.Context, userID int64) ([]domain.Course, error) {
	query := `
		SELECT c.id, c.title, c.slug, c.description, c.category, c.price, c.is_published, c.created_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch enrollments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectCourses(rows)
}

func (r *Repository) HasEnrollment(ctx context.Context, userID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`, userID, courseID).Scan(&exists)
	if err != nil {
		zap.L().Error("failed to check enrollment", zap.Error(err))
		return false, err
	}
	return exists, nil
}

func collectCourses(rows pgx.Rows) ([]domain.Course, error) {
	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.Category, &c.Price, &c.IsPublished, &c.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan course row", zap.Error(err))
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}
