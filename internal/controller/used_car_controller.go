package controller

import (
	"strconv"

	"carfinder-be/internal/dto"
	"carfinder-be/internal/pkg/apperror"
	"carfinder-be/internal/pkg/serverutils"
	"carfinder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUsedCarController interface {
	RegisterRoutes(r fiber.Router)
	AddUsedCar(ctx *fiber.Ctx) error
	GetAllUsedCars(ctx *fiber.Ctx) error
}

type usedCarController struct {
	service service.IUsedCarService
	jwt     fiber.Handler
}

func NewUsedCarController(usedCarService service.IUsedCarService, jwtMiddleware fiber.Handler) IUsedCarController {
	return &usedCarController{
		service: usedCarService,
		jwt:     jwtMiddleware,
	}
}

func (c *usedCarController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/used-cars")
	h.Post("/", c.jwt, c.AddUsedCar)
	h.Get("/", c.GetAllUsedCars) // public listing feed
}

func (c *usedCarController) AddUsedCar(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}

	price, _ := strconv.ParseFloat(ctx.FormValue("price"), 64)
	year, _ := strconv.Atoi(ctx.FormValue("created_at_year"))

	req := dto.AddUsedCarRequest{
		Name:             ctx.FormValue("name"),
		Price:            price,
		Description:      ctx.FormValue("description"),
		City:             ctx.FormValue("city"),
		BuyerPhoneNumber: ctx.FormValue("buyer_phone_number"),
		CreatedAtYear:    year,
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Multipart form is required", err)
	}

	fileHeaders := form.File["images"]
	images := make([]service.ListingImageUpload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			return apperror.Wrap(apperror.KindValidationFailed, "Failed to read uploaded file", err)
		}
		defer f.Close()
		images = append(images, service.ListingImageUpload{
			Reader:   f,
			Size:     fh.Size,
			FileName: fh.Filename,
		})
	}

	res, err := c.service.AddUsedCar(ctx.Context(), userId, &req, images)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Listing created", res))
}

func (c *usedCarController) GetAllUsedCars(ctx *fiber.Ctx) error {
	var query dto.PaginationQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid query parameters", err)
	}

	res, err := c.service.GetAllUsedCars(ctx.Context(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Listings retrieved", res))
}
