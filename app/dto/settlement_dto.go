// Package dto contains Data Transfer Objects for API request and response structures
package dto

// SettleItemRequest represents the request to settle one delivered order item.
// ItemTotal is supplied by the order system in paise; the commission rate is
// never part of the request.
type SettleItemRequest struct {
	OrderItemUUID string `json:"order_item_uuid" validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
	VendorUUID    string `json:"vendor_uuid" validate:"required,uuid4" example:"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`
	ItemTotal     int64  `json:"item_total" validate:"gte=0" example:"10000"`
}

// SettlementInfo represents one settled order item in API responses
type SettlementInfo struct {
	UUID              string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CorrelationID     string `json:"correlation_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	OrderItemUUID     string `json:"order_item_uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	VendorUUID        string `json:"vendor_uuid" example:"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`
	VendorName        string `json:"vendor_name,omitempty" example:"Acme Traders"`
	ItemTotal         uint64 `json:"item_total" example:"10000"`
	Commission        uint64 `json:"commission" example:"1000"`
	VendorAmount      uint64 `json:"vendor_amount" example:"9000"`
	CommissionPercent int    `json:"commission_percent" example:"10"`
	Currency          string `json:"currency" example:"INR"`
	CreatedAt         string `json:"created_at" example:"2024-01-15T16:30:00Z"`
}

// SettleItemResponse represents the response after settling an order item
type SettleItemResponse struct {
	Message    string         `json:"message" example:"Order item settled."`
	Settlement SettlementInfo `json:"settlement"`
}

// ListSettlementsRequest represents the paginated settlement listing query
type ListSettlementsRequest struct {
	Page       int    `json:"page" query:"page" example:"1"`
	PageSize   int    `json:"page_size" query:"page_size" example:"20"`
	VendorUUID string `json:"vendor_uuid,omitempty" query:"vendor_uuid" validate:"omitempty,uuid4"`
	StartDate  string `json:"start_date,omitempty" query:"start_date" example:"2024-01-01"`
	EndDate    string `json:"end_date,omitempty" query:"end_date" example:"2024-01-31"`
}

// ListSettlementsResponse represents a page of settlements
type ListSettlementsResponse struct {
	Message     string           `json:"message" example:"Settlements retrieved."`
	Settlements []SettlementInfo `json:"settlements"`
	Total       int64            `json:"total" example:"42"`
	Page        int              `json:"page" example:"1"`
	PageSize    int              `json:"page_size" example:"20"`
}

// Common error codes for settlement operations
const (
	ErrorVendorNotFound = "VENDOR_NOT_FOUND"
	ErrorVendorInactive = "VENDOR_INACTIVE"
	ErrorAlreadySettled = "ALREADY_SETTLED"
	ErrorInvalidAmount  = "INVALID_AMOUNT"
	ErrorInvalidFilter  = "INVALID_FILTER"
)
