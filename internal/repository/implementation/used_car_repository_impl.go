package implementation

import (
	"context"

	"carfinder-be/internal/entity"
	"carfinder-be/internal/mapper"
	"carfinder-be/internal/model"
	"carfinder-be/internal/repository/contract"

	"gorm.io/gorm"
)

type UsedCarRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsedCarMapper
}

func NewUsedCarRepository(db *gorm.DB) contract.UsedCarRepository {
	return &UsedCarRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsedCarMapper(),
	}
}

func (r *UsedCarRepositoryImpl) Create(ctx context.Context, car *entity.UsedCar) error {
	m := r.mapper.ToModel(car)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*car = *r.mapper.ToEntity(m)
	return nil
}

func (r *UsedCarRepositoryImpl) FindPage(ctx context.Context, page, pageSize int) ([]*entity.UsedCar, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.UsedCar{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.UsedCar
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	return r.mapper.ToEntities(models), total, nil
}
