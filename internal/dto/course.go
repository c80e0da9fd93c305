package dto

import "time"

type CourseResponseDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title" example:"Marathon: dry in 30 days"`
	Slug        string  `json:"slug" example:"dry-in-30-days"`
	Description string  `json:"description"`
	Category    string  `json:"category" example:"fitness"`
	Price       float64 `json:"price" example:"4990"`
}

type CourseUpsertRequestDTO struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	IsPublished bool    `json:"is_published"`
}

type ReviewCreateRequestDTO struct {
	Rating int    `json:"rating" example:"5"`
	Text   string `json:"text" example:"Lost 5kg, thank you!"`
}

type ReviewResponseDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CourseID  int64     `json:"course_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
