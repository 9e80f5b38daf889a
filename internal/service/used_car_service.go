package service

import (
	"context"
	"io"
	"math"
	"time"

	"carfinder-be/internal/dto"
	"carfinder-be/internal/entity"
	"carfinder-be/internal/pkg/apperror"
	"carfinder-be/internal/pkg/logger"
	"carfinder-be/internal/pkg/storage"
	"carfinder-be/internal/repository/memory"
	"carfinder-be/internal/repository/unitofwork"
	"carfinder-be/pkg/events"
	pktNats "carfinder-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	minListingImages = 1
	maxListingImages = 10
	minListingYear   = 1900
)

type ListingImageUpload struct {
	Reader   io.Reader
	Size     int64
	FileName string
}

type IUsedCarService interface {
	AddUsedCar(ctx context.Context, userId uuid.UUID, req *dto.AddUsedCarRequest, images []ListingImageUpload) (*dto.UsedCarResponse, error)
	GetAllUsedCars(ctx context.Context, query *dto.PaginationQuery) (*dto.PagedUsedCarsResponse, error)
}

type usedCarService struct {
	uowFactory     unitofwork.RepositoryFactory
	fileService    storage.IFileService
	listingCache   *memory.ListingCache
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewUsedCarService(
	uowFactory unitofwork.RepositoryFactory,
	fileService storage.IFileService,
	listingCache *memory.ListingCache,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IUsedCarService {
	return &usedCarService{
		uowFactory:     uowFactory,
		fileService:    fileService,
		listingCache:   listingCache,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *usedCarService) AddUsedCar(ctx context.Context, userId uuid.UUID, req *dto.AddUsedCarRequest, images []ListingImageUpload) (*dto.UsedCarResponse, error) {
	if len(images) < minListingImages {
		return nil, apperror.New(apperror.KindValidationFailed, "At least one image is required")
	}
	if len(images) > maxListingImages {
		return nil, apperror.New(apperror.KindValidationFailed, "A listing can have at most 10 images")
	}

	// Implausible model years quietly fall back to the current year rather
	// than rejecting the listing.
	year := req.CreatedAtYear
	currentYear := time.Now().Year()
	if year < minListingYear || year > currentYear+1 {
		year = currentYear
	}

	savedPaths := make([]string, 0, len(images))
	for _, img := range images {
		path, err := s.fileService.SaveListingImage(img.Reader, img.Size, img.FileName)
		if err != nil {
			s.cleanupImages(savedPaths)
			return nil, err
		}
		savedPaths = append(savedPaths, path)
	}

	car := &entity.UsedCar{
		Id:               uuid.New(),
		UserId:           userId,
		Name:             req.Name,
		Images:           savedPaths,
		Price:            req.Price,
		Description:      req.Description,
		City:             req.City,
		BuyerPhoneNumber: req.BuyerPhoneNumber,
		CreatedAtYear:    year,
		CreatedAt:        time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UsedCarRepository().Create(ctx, car); err != nil {
		s.cleanupImages(savedPaths)
		return nil, err
	}

	s.listingCache.Invalidate()

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "LISTING_CREATED",
			Data: map[string]interface{}{
				"listing_id": car.Id,
				"user_id":    userId,
				"city":       car.City,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("UsedCarService", "Failed to publish event", map[string]interface{}{
				"event": "LISTING_CREATED",
				"error": err.Error(),
			})
		}
	}

	resp := toUsedCarResponse(car)
	return &resp, nil
}

func (s *usedCarService) GetAllUsedCars(ctx context.Context, query *dto.PaginationQuery) (*dto.PagedUsedCarsResponse, error) {
	query.Normalize()

	if cached, found := s.listingCache.Get(query.Page, query.PageSize); found {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	cars, total, err := uow.UsedCarRepository().FindPage(ctx, query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UsedCarResponse, len(cars))
	for i, c := range cars {
		items[i] = toUsedCarResponse(c)
	}

	result := &dto.PagedUsedCarsResponse{
		Items:      items,
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(query.PageSize))),
	}

	s.listingCache.Save(query.Page, query.PageSize, result)
	return result, nil
}

func (s *usedCarService) cleanupImages(paths []string) {
	for _, p := range paths {
		if err := s.fileService.Delete(p); err != nil {
			s.log.Warn("UsedCarService", "Failed to clean up image", map[string]interface{}{
				"path":  p,
				"error": err.Error(),
			})
		}
	}
}

func toUsedCarResponse(c *entity.UsedCar) dto.UsedCarResponse {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return dto.UsedCarResponse{
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
