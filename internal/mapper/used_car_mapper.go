package mapper

import (
	"encoding/json"

	"carfinder-be/internal/entity"
	"carfinder-be/internal/model"

	"gorm.io/datatypes"
)

type UsedCarMapper struct{}

func NewUsedCarMapper() *UsedCarMapper {
	return &UsedCarMapper{}
}

func (m *UsedCarMapper) ToEntity(c *model.UsedCar) *entity.UsedCar {
	if c == nil {
		return nil
	}
	var images []string
	if len(c.Images) > 0 {
		// Images column is a JSON array of relative paths. A corrupt row
		// degrades to an empty list rather than failing the whole query.
		_ = json.Unmarshal(c.Images, &images)
	}
	return &entity.UsedCar{
		Id:               c.Id,
		UserId:           c.UserId,
		Name:             c.Name,
		Images:           images,
		Price:            c.Price,
		Description:      c.Description,
		City:             c.City,
		BuyerPhoneNumber: c.BuyerPhoneNumber,
		CreatedAtYear:    c.CreatedAtYear,
		CreatedAt:        c.CreatedAt,
	}
}

func (m *UsedCarMapper) ToModel(c *entity.UsedCar) *model.UsedCar {
	if c == nil {
		return nil
	}
	images := c.Images
	if images == nil {
		images = []string{}
	}
	raw, _ := json.Marshal(images)
	return &model.UsedCar{
		Id:               c.Id,
		UserId:           c.UserId,
		Name:             c.Name,
		Images:           datatypes.JSON(raw),
		Price:            c.Price,
		Description:      c.Description,
		City:             c.City,
		BuyerPhoneNumber: c.BuyerPhoneNumber,
		CreatedAtYear:    c.CreatedAtYear,
		CreatedAt:        c.CreatedAt,
	}
}

func (m *UsedCarMapper) ToEntities(cars []*model.UsedCar) []*entity.UsedCar {
	entities := make([]*entity.UsedCar, len(cars))
	for i, c := range cars {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
