package contract

import (
	"context"

	"carfinder-be/internal/entity"
)

type UsedCarRepository interface {
	Create(ctx context.Context, car *entity.UsedCar) error
	// FindPage returns one page ordered newest first plus the total row count.
	FindPage(ctx context.Context, page, pageSize int) ([]*entity.UsedCar, int64, error)
}
