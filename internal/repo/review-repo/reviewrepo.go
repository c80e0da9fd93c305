package reviewrepo

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

const reviewColumns = `id, user_id, course_id, rating, text, is_approved, created_at`

func (r *Repository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO reviews (user_id, course_id, rating, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_approved, created_at
	`
	err := r.db.QueryRow(ctx, query, review.UserID, review.CourseID, review.Rating, review.Text).
		Scan(&review.ID, &review.IsApproved, &review.CreatedAt)
	if err != nil {
		zap.L().Error("can't save review", zap.Error(err))
		return nil, err
	}
	return review, nil
}

func (r *Repository) GetApprovedByCourseID(ctx context.Context, courseID int64) ([]domain.Review, error) {
	query := `
        SELECT ` + reviewColumns + `
        FROM reviews
        WHERE course_id = $1 AND is_approved
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		zap.L().Error("failed to fetch reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *Repository) GetPending(ctx context.Context) ([]domain.Review, error) {
	query := `
        SELECT ` + reviewColumns + `
        FROM reviews
        WHERE NOT is_approved
        ORDER BY created_at
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("failed to fetch pending reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *Repository) SetApproved(ctx context.Context, id int64, approved bool) (*domain.Review, error) {
	query := `
		UPDATE reviews
		SET is_approved = $1
		WHERE id = $2
		RETURNING ` + reviewColumns
	row := r.db.QueryRow(ctx, query, approved, id)
	var review domain.Review
	err := row.Scan(&review.ID, &review.UserID, &review.CourseID, &review.Rating, &review.Text, &review.IsApproved, &review.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to update review", zap.Error(err))
		return nil, err
	}
	return &review, nil
}

func (r *Repository) HasUserReview(ctx context.Context, userID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND course_id = $2)`, userID, courseID).Scan(&exists)
	if err != nil {
		zap.L().Error("failed to check review", zap.Error(err))
		return false, err
	}
	return exists, nil
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		err := rows.Scan(&review.ID, &review.UserID, &review.CourseID, &review.Rating, &review.Text, &review.IsApproved, &review.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan review row", zap.Error(err))
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}
