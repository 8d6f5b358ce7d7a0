package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"storefront-console/internal/core/logger"
	"storefront-console/internal/features/catalog/domain"
	"storefront-console/internal/features/catalog/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CatalogHandler handles HTTP requests related to the product catalog.
type CatalogHandler struct {
	// service is the CatalogService instance.
	service *service.CatalogService
}

// NewCatalogHandler creates a new instance of CatalogHandler.
func NewCatalogHandler(s *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: s,
	}
}

// ProductView is a product plus its computed stock badge.
type ProductView struct {
	domain.Product
	// StockLevel is the classification used for the list badge.
	StockLevel domain.StockLevel `json:"stock_level"`
}

// ListProducts handles the request to list a seller's products.
// @Summary List seller products
// @Description Returns the seller's catalog with stock classification per product.
// @Tags Catalog
// @Produce json
// @Param sellerID path string true "Seller ID"
// @Success 200 {array} ProductView
// @Failure 502 {object} ErrorResponse
// @Router /sellers/{sellerID}/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	sellerID := c.Params("sellerID")
	rayID := rayIDFrom(c)

	products, err := h.service.ListProducts(c.Context(), sellerID)
	if err != nil {
		logger.Get().Error("Failed to fetch products",
			zap.String("seller_id", sellerID),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "Could not load products",
			RayID:   rayID,
		})
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{Product: p, StockLevel: p.StockLevel()})
	}

	return c.Status(http.StatusOK).JSON(views)
}

// CreateProduct handles the multipart request to publish a new product.
// @Summary Create a product
// @Description Publishes a product; expects a "product" JSON form field and at least 3 "images" files.
// @Tags Catalog
// @Accept mpfd
// @Produce json
// @Param sellerID path string true "Seller ID"
// @Success 201 {object} domain.Product
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sellers/{sellerID}/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	sellerID := c.Params("sellerID")
	rayID := rayIDFrom(c)

	product, files, errResp := h.parseProductForm(c, rayID)
	if errResp != nil {
		return errResp
	}

	created, err := h.service.CreateProduct(c.Context(), sellerID, *product, files)
	if err != nil {
		return h.failMutation(c, rayID, sellerID, err)
	}

	return c.Status(http.StatusCreated).JSON(created)
}

// UpdateProduct handles the multipart request to update a product.
// @Summary Update a product
// @Description Updates product metadata; when images are attached they replace the existing set (minimum 3).
// @Tags Catalog
// @Accept mpfd
// @Produce json
// @Param sellerID path string true "Seller ID"
// @Param productID path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sellers/{sellerID}/products/{productID} [put]
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	sellerID := c.Params("sellerID")
	productID := c.Params("productID")
	rayID := rayIDFrom(c)

	product, files, errResp := h.parseProductForm(c, rayID)
	if errResp != nil {
		return errResp
	}

	updated, err := h.service.UpdateProduct(c.Context(), sellerID, productID, *product, files)
	if err != nil {
		return h.failMutation(c, rayID, sellerID, err)
	}

	return c.Status(http.StatusOK).JSON(updated)
}

// DeleteProduct handles the request to remove a product.
// @Summary Delete a product
// @Tags Catalog
// @Produce json
// @Param sellerID path string true "Seller ID"
// @Param productID path string true "Product ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sellers/{sellerID}/products/{productID} [delete]
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	sellerID := c.Params("sellerID")
	productID := c.Params("productID")
	rayID := rayIDFrom(c)

	if err := h.service.DeleteProduct(c.Context(), sellerID, productID); err != nil {
		logger.Get().Error("Failed to delete product",
			zap.String("seller_id", sellerID),
			zap.String("product_id", productID),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "Product not found",
				RayID:   rayID,
			})
		}
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "Could not delete the product",
			RayID:   rayID,
		})
	}

	return c.SendStatus(http.StatusNoContent)
}

// parseProductForm extracts the product JSON field and image files from a
// multipart form. Returns a ready error response on malformed input.
func (h *CatalogHandler) parseProductForm(c *fiber.Ctx, rayID string) (*domain.Product, []service.ImageFile, error) {
	raw := c.FormValue("product")
	if raw == "" {
		return nil, nil, c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Product details are required",
			RayID:   rayID,
		})
	}

	var product domain.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil, nil, c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid product details",
			RayID:   rayID,
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid form data",
			RayID:   rayID,
		})
	}

	files, err := openImages(form.File["images"])
	if err != nil {
		return nil, nil, c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Could not read attached images",
			RayID:   rayID,
		})
	}

	return &product, files, nil
}

// openImages opens every attached file header as an ImageFile.
func openImages(headers []*multipart.FileHeader) ([]service.ImageFile, error) {
	files := make([]service.ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		files = append(files, service.ImageFile{Name: fh.Filename, Content: f})
	}
	return files, nil
}

// failMutation maps catalog mutation errors onto HTTP responses.
func (h *CatalogHandler) failMutation(c *fiber.Ctx, rayID, sellerID string, err error) error {
	logger.Get().Error("Catalog mutation failed",
		zap.String("seller_id", sellerID),
		zap.String("ray_id", rayID),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	msg := "Internal Server Error"

	switch {
	case errors.Is(err, domain.ErrInsufficientImages):
		status = http.StatusBadRequest
		msg = "At least 3 product images are required"
	case errors.Is(err, service.ErrImageUploadFailed):
		status = http.StatusBadGateway
		msg = "Could not upload the product images, nothing was saved"
	case errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
		msg = "Product not found"
	default:
		status = http.StatusBadGateway
		msg = "Could not save the product"
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID,
	})
}

// rayIDFrom extracts the request id set by the middleware.
func rayIDFrom(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
