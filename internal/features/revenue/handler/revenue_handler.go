package handler

import (
	"errors"
	"net/http"
	"time"

	"storefront-console/internal/core/logger"
	"storefront-console/internal/features/revenue/domain"
	"storefront-console/internal/features/revenue/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RevenueHandler handles HTTP requests for revenue reporting.
type RevenueHandler struct {
	// service is the RevenueService instance.
	service *service.RevenueService
	// now supplies the current time; injectable for tests.
	now func() time.Time
}

// NewRevenueHandler creates a new instance of RevenueHandler.
func NewRevenueHandler(s *service.RevenueService) *RevenueHandler {
	return &RevenueHandler{
		service: s,
		now:     time.Now,
	}
}

// GetOverview handles the request for a seller's revenue overview.
// @Summary Revenue overview
// @Description Returns totals, status breakdown, daily chart series and the day-over-day growth indicator.
// @Tags Revenue
// @Produce json
// @Param sellerID path string true "Seller ID"
// @Param range query string false "Time range: today, 7d, 30d or month" default(30d)
// @Success 200 {object} service.Overview
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sellers/{sellerID}/revenue [get]
func (h *RevenueHandler) GetOverview(c *fiber.Ctx) error {
	sellerID := c.Params("sellerID")
	rayID := rayIDFrom(c)

	rng, err := domain.ParseRange(c.Query("range", string(domain.RangeMonth30)))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Range must be one of: today, 7d, 30d, month",
			RayID:   rayID,
		})
	}

	overview, err := h.service.GetOverview(c.Context(), sellerID, rng, h.now())
	if err != nil {
		logger.Get().Error("Failed to build revenue overview",
			zap.String("seller_id", sellerID),
			zap.String("range", string(rng)),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)

		status := http.StatusInternalServerError
		msg := "Internal Server Error"
		if errors.Is(err, service.ErrFetchFailed) {
			status = http.StatusBadGateway
			msg = "Could not load orders for the report"
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(overview)
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
