package dto

import (
	"time"

	"github.com/google/uuid"
)

// AddUsedCarRequest arrives as multipart form fields alongside 1-10 image
// file parts under the "images" key.
type AddUsedCarRequest struct {
	Name             string  `form:"name" validate:"required,min=2,max=200"`
	Price            float64 `form:"price" validate:"required,gt=0"`
	Description      string  `form:"description" validate:"required,max=1000"`
	City             string  `form:"city" validate:"required,max=100"`
	BuyerPhoneNumber string  `form:"buyer_phone_number" validate:"required,max=20"`
	CreatedAtYear    int     `form:"created_at_year"`
}

type UsedCarResponse struct {
	Id               uuid.UUID `json:"id"`
	UserId           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	Images           []string  `json:"images"`
	Price            float64   `json:"price"`
	Description      string    `json:"description"`
	City             string    `json:"city"`
	BuyerPhoneNumber string    `json:"buyer_phone_number"`
	CreatedAtYear    int       `json:"created_at_year"`
	CreatedAt        time.Time `json:"created_at"`
}

type PaginationQuery struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// Normalize clamps page size into [1, 100] and defaults to page 1, size 10.
func (q *PaginationQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
}

type PagedUsedCarsResponse struct {
	Items      []UsedCarResponse `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}
