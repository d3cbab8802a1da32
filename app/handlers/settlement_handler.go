// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Susanoo/app/dto"
	"github.com/amirphl/Susanoo/app/middleware"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SettlementHandlerInterface defines the contract for settlement handlers
type SettlementHandlerInterface interface {
	SettleItem(c fiber.Ctx) error
	ListSettlements(c fiber.Ctx) error
	ExportSettlements(c fiber.Ctx) error
}

// SettlementHandler handles settlement HTTP requests
type SettlementHandler struct {
	settlementFlow businessflow.SettlementFlow
	validator      *validator.Validate
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(settlementFlow businessflow.SettlementFlow) *SettlementHandler {
	return &SettlementHandler{
		settlementFlow: settlementFlow,
		validator:      validator.New(),
	}
}

func (h *SettlementHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SettlementHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SettleItem settles one delivered order item
func (h *SettlementHandler) SettleItem(c fiber.Ctx) error {
	var req dto.SettleItemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	ctx, cancel := h.createRequestContext(c, "/api/v1/settlements")
	defer cancel()

	result, err := h.settlementFlow.SettleItemSale(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsVendorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vendor not found", dto.ErrorVendorNotFound, nil)
		}
		if businessflow.IsVendorInactive(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Vendor is inactive", dto.ErrorVendorInactive, nil)
		}
		if businessflow.IsAlreadySettled(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Order item already settled", dto.ErrorAlreadySettled, nil)
		}
		if businessflow.IsInvalidAmount(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid item total", dto.ErrorInvalidAmount, nil)
		}
		if businessflow.IsVendorWalletNotFound(err) || businessflow.IsPlatformWalletMissing(err) {
			log.Println("Settlement wallet missing", err)
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed", "SETTLEMENT_FAILED", nil)
		}

		log.Println("Settlement failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Settlement failed", "SETTLEMENT_FAILED", nil)
	}

	middleware.SettlementsTotal.Inc()

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"settlement": result.Settlement,
	})
}

// ListSettlements returns a page of settlements
func (h *SettlementHandler) ListSettlements(c fiber.Ctx) error {
	req, err := h.bindListRequest(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/settlements")
	defer cancel()

	result, err := h.settlementFlow.ListSettlements(ctx, req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", dto.ErrorInvalidFilter, nil)
		}
		if businessflow.IsVendorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vendor not found", dto.ErrorVendorNotFound, nil)
		}

		log.Println("Settlement listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list settlements", "SETTLEMENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"settlements": result.Settlements,
		"total":       result.Total,
		"page":        result.Page,
		"page_size":   result.PageSize,
	})
}

// ExportSettlements streams the matching settlements as an xlsx workbook
func (h *SettlementHandler) ExportSettlements(c fiber.Ctx) error {
	req, err := h.bindListRequest(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/settlements/export")
	defer cancel()

	filename, content, err := h.settlementFlow.ExportSettlementsExcel(ctx, req)
	if err != nil {
		if businessflow.IsVendorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vendor not found", dto.ErrorVendorNotFound, nil)
		}

		log.Println("Settlement export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export settlements", "SETTLEMENT_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	return c.Send(content)
}

func (h *SettlementHandler) bindListRequest(c fiber.Ctx) (*dto.ListSettlementsRequest, error) {
	var req dto.ListSettlementsRequest
	if err := c.Bind().Query(&req); err != nil {
		return nil, err
	}

	if err := h.validator.Struct(&req); err != nil {
		return nil, err
	}

	return &req, nil
}

// createRequestContext creates a context with timeout and request-scoped
// values. The caller must cancel once the flow returns so the timer is
// released immediately instead of at the deadline.
func (h *SettlementHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, "request_id", c.Get(businessflow.RequestIDKey))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)

	return ctx, cancel
}
