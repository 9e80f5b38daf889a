package entity

import (
	"time"

	"github.com/google/uuid"
)

type UsedCar struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	Name             string
	Images           []string
	Price            float64
	Description      string
	City             string
	BuyerPhoneNumber string
	CreatedAtYear    int
	CreatedAt        time.Time
}
