package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UsedCar struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name             string         `gorm:"type:varchar(200);not null"`
	Images           datatypes.JSON `gorm:"not null"`
	Price            float64        `gorm:"type:numeric(12,2);not null"`
	Description      string         `gorm:"type:varchar(1000);not null"`
	City             string         `gorm:"type:varchar(100);not null"`
	BuyerPhoneNumber string         `gorm:"type:varchar(20);not null"`
	CreatedAtYear    int
	CreatedAt        time.Time `gorm:"autoCreateTime;index:idx_used_cars_created_at,sort:desc"`
}

func (UsedCar) TableName() string {
	return "used_cars"
}
