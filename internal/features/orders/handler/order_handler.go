package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront-console/internal/core/logger"
	"storefront-console/internal/features/orders/domain"
	"storefront-console/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service is the OrderService instance.
	service *service.OrderService
	// onStatusChanged, when set, runs after a successful status change so
	// dependent read models (cached revenue reports) can be invalidated.
	onStatusChanged func(ctx context.Context, sellerID string)
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// OnStatusChanged registers the post-change hook.
func (h *OrderHandler) OnStatusChanged(fn func(ctx context.Context, sellerID string)) {
	h.onStatusChanged = fn
}

// ChangeStatusRequest represents the request body for a status change.
type ChangeStatusRequest struct {
	// Status is the requested lifecycle stage.
	Status string `json:"status"`
	// Confirm must be true; it carries the caller's explicit confirmation.
	Confirm bool `json:"confirm"`
}

// ListOrders handles the request to list a seller's orders.
// @Summary List seller orders
// @Description Returns the seller's order snapshot, refreshing it from the order store when needed.
// @Tags Orders
// @Produce json
// @Param sellerID path string true "Seller ID"
// @Param refresh query bool false "Force a refetch from the order store"
// @Success 200 {array} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sellers/{sellerID}/orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	sellerID := c.Params("sellerID")
	rayID := rayIDFrom(c)

	if sellerID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Seller ID is required",
			RayID:   rayID,
		})
	}

	ctx := c.Context()

	if c.QueryBool("refresh") {
		if err := h.service.Refresh(ctx, sellerID); err != nil {
			return h.fail(c, rayID, sellerID, err)
		}
	}

	orders, err := h.service.List(ctx, sellerID)
	if err != nil {
		return h.fail(c, rayID, sellerID, err)
	}

	return c.Status(http.StatusOK).JSON(orders)
}

// ChangeStatus handles the request to move an order to a new status.
// @Summary Change order status
// @Description Applies a confirmed status transition and returns the authoritative updated order.
// @Tags Orders
// @Accept json
// @Produce json
// @Param sellerID path string true "Seller ID"
// @Param orderID path string true "Order ID"
// @Param body body ChangeStatusRequest true "New status and confirmation"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sellers/{sellerID}/orders/{orderID}/status [put]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	sellerID := c.Params("sellerID")
	orderID := c.Params("orderID")
	rayID := rayIDFrom(c)

	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	if req.Status == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Status is required",
			RayID:   rayID,
		})
	}

	order, err := h.service.ChangeStatus(c.Context(), sellerID, orderID, domain.Status(req.Status), req.Confirm)
	if err != nil {
		logger.Get().Error("Failed to change order status",
			zap.String("seller_id", sellerID),
			zap.String("order_id", orderID),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)

		status := http.StatusInternalServerError
		msg := "Internal Server Error"

		switch {
		case errors.Is(err, service.ErrMissingIdentifier):
			status = http.StatusBadRequest
			msg = "Order has no identifier"
		case errors.Is(err, service.ErrNotConfirmed):
			status = http.StatusBadRequest
			msg = "Status change requires confirmation"
		case errors.Is(err, service.ErrOrderNotFound):
			status = http.StatusNotFound
			msg = "Order not found"
		case errors.Is(err, service.ErrUpdateInFlight):
			status = http.StatusConflict
			msg = "A status update for this order is already in progress"
		case errors.Is(err, service.ErrStatusUpdateFailed):
			status = http.StatusBadGateway
			msg = "Could not update the order status, the change was reverted"
		case errors.Is(err, service.ErrFetchFailed):
			status = http.StatusBadGateway
			msg = "Could not load orders"
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	if h.onStatusChanged != nil {
		h.onStatusChanged(c.Context(), sellerID)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// fail maps read-path errors onto HTTP responses.
func (h *OrderHandler) fail(c *fiber.Ctx, rayID, sellerID string, err error) error {
	logger.Get().Error("Failed to fetch orders",
		zap.String("seller_id", sellerID),
		zap.String("ray_id", rayID),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	msg := "Internal Server Error"
	if errors.Is(err, service.ErrFetchFailed) {
		status = http.StatusBadGateway
		msg = "Could not load orders"
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
