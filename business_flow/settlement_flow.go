// Package businessflow contains the core business logic and use cases for the marketplace core
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/amirphl/Susanoo/app/dto"
	"github.com/amirphl/Susanoo/config"
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// SettlementFlow handles commission settlement of sold order items
type SettlementFlow interface {
	SettleItemSale(ctx context.Context, req *dto.SettleItemRequest, metadata *ClientMetadata) (*dto.SettleItemResponse, error)
	ListSettlements(ctx context.Context, req *dto.ListSettlementsRequest) (*dto.ListSettlementsResponse, error)
	ExportSettlementsExcel(ctx context.Context, req *dto.ListSettlementsRequest) (string, []byte, error)
}

// SettlementFlowImpl implements the settlement business flow
type SettlementFlowImpl struct {
	settlementRepo  repository.ItemSettlementRepository
	vendorRepo      repository.VendorRepository
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository

	// Percent is resolved once at startup; nothing in a request can change it
	commissionPercent int

	db *gorm.DB
}

// NewSettlementFlow creates a new settlement flow instance
func NewSettlementFlow(
	settlementRepo repository.ItemSettlementRepository,
	vendorRepo repository.VendorRepository,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	commissionConfig *config.CommissionConfig,
	db *gorm.DB,
) SettlementFlow {
	percent := utils.DefaultCommissionPercent
	if commissionConfig != nil {
		percent = commissionConfig.Percent
	}

	return &SettlementFlowImpl{
		settlementRepo:    settlementRepo,
		vendorRepo:        vendorRepo,
		walletRepo:        walletRepo,
		transactionRepo:   transactionRepo,
		commissionPercent: percent,
		db:                db,
	}
}

// SettleItemSale computes the commission split for one delivered order item and
// records it atomically: one settlement row plus two ledger legs (platform
// commission, vendor payout) sharing a correlation ID. Settling the same order
// item twice is rejected before any money moves.
func (f *SettlementFlowImpl) SettleItemSale(ctx context.Context, req *dto.SettleItemRequest, metadata *ClientMetadata) (*dto.SettleItemResponse, error) {
	orderItemUUID, err := uuid.Parse(req.OrderItemUUID)
	if err != nil {
		return nil, NewBusinessError("SETTLEMENT_VALIDATION_FAILED", "Invalid order item identifier", err)
	}
	vendorUUID, err := uuid.Parse(req.VendorUUID)
	if err != nil {
		return nil, NewBusinessError("SETTLEMENT_VALIDATION_FAILED", "Invalid vendor identifier", err)
	}

	split, err := ComputeSplit(req.ItemTotal, f.commissionPercent)
	if err != nil {
		return nil, NewBusinessError("SETTLEMENT_VALIDATION_FAILED", "Invalid item total", err)
	}

	var settlement *models.ItemSettlement
	var vendor *models.Vendor

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		vendor, err = f.vendorRepo.ByUUID(txCtx, vendorUUID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return ErrVendorNotFound
		}
		if !utils.IsTrue(vendor.IsActive) {
			return ErrVendorInactive
		}

		existing, err := f.settlementRepo.ByOrderItemUUID(txCtx, orderItemUUID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadySettled
		}

		platformWallet, err := f.walletRepo.PlatformWallet(txCtx)
		if err != nil {
			return err
		}
		if platformWallet == nil {
			return ErrPlatformWalletMissing
		}

		vendorWallet, err := f.walletRepo.ByVendorID(txCtx, vendor.ID)
		if err != nil {
			return err
		}
		if vendorWallet == nil {
			return ErrVendorWalletNotFound
		}

		correlationID := uuid.New()

		settlement = &models.ItemSettlement{
			UUID:              uuid.New(),
			CorrelationID:     correlationID,
			OrderItemUUID:     orderItemUUID,
			VendorID:          vendor.ID,
			ItemTotal:         split.ItemTotal,
			Commission:        split.Commission,
			VendorAmount:      split.VendorAmount,
			CommissionPercent: f.commissionPercent,
		}
		if err := f.settlementRepo.Save(txCtx, settlement); err != nil {
			return err
		}

		legMetadata := fmt.Appendf(nil, `{"order_item_uuid": %q, "vendor_uuid": %q}`, orderItemUUID.String(), vendorUUID.String())

		legs := []*models.Transaction{
			{
				UUID:          uuid.New(),
				CorrelationID: correlationID,
				Type:          models.TransactionTypeCommission,
				Status:        models.TransactionStatusCompleted,
				Amount:        split.Commission,
				Currency:      utils.PaiseCurrency,
				WalletID:      platformWallet.ID,
				Description:   fmt.Sprintf("Commission for order item %s", orderItemUUID),
				Metadata:      legMetadata,
			},
			{
				UUID:          uuid.New(),
				CorrelationID: correlationID,
				Type:          models.TransactionTypeVendorPayout,
				Status:        models.TransactionStatusCompleted,
				Amount:        split.VendorAmount,
				Currency:      utils.PaiseCurrency,
				WalletID:      vendorWallet.ID,
				Description:   fmt.Sprintf("Vendor payout for order item %s", orderItemUUID),
				Metadata:      legMetadata,
			},
		}

		return f.transactionRepo.SaveBatch(txCtx, legs)
	})
	if err != nil {
		return nil, NewBusinessError("SETTLEMENT_FAILED", "Settlement failed", err)
	}

	return &dto.SettleItemResponse{
		Message:    "Order item settled.",
		Settlement: f.toSettlementInfo(settlement, vendor),
	}, nil
}

// ListSettlements returns a page of settlements matching the filter
func (f *SettlementFlowImpl) ListSettlements(ctx context.Context, req *dto.ListSettlementsRequest) (*dto.ListSettlementsResponse, error) {
	page, pageSize, filter, err := f.buildFilter(ctx, req)
	if err != nil {
		return nil, NewBusinessError("SETTLEMENT_LIST_VALIDATION_FAILED", "Invalid settlement filter", err)
	}

	total, err := f.settlementRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("SETTLEMENT_LIST_FAILED", "Failed to list settlements", err)
	}

	settlements, err := f.settlementRepo.ByFilter(ctx, filter, "id DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("SETTLEMENT_LIST_FAILED", "Failed to list settlements", err)
	}

	infos, err := f.toSettlementInfos(ctx, settlements)
	if err != nil {
		return nil, NewBusinessError("SETTLEMENT_LIST_FAILED", "Failed to list settlements", err)
	}

	return &dto.ListSettlementsResponse{
		Message:     "Settlements retrieved.",
		Settlements: infos,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

// ExportSettlementsExcel builds an xlsx workbook of the settlements matching
// the filter. Pagination is ignored; the export covers the full match.
func (f *SettlementFlowImpl) ExportSettlementsExcel(ctx context.Context, req *dto.ListSettlementsRequest) (string, []byte, error) {
	_, _, filter, err := f.buildFilter(ctx, req)
	if err != nil {
		return "", nil, NewBusinessError("SETTLEMENT_EXPORT_VALIDATION_FAILED", "Invalid settlement filter", err)
	}

	settlements, err := f.settlementRepo.ByFilter(ctx, filter, "id ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("SETTLEMENT_EXPORT_FAILED", "Failed to load settlements", err)
	}

	infos, err := f.toSettlementInfos(ctx, settlements)
	if err != nil {
		return "", nil, NewBusinessError("SETTLEMENT_EXPORT_FAILED", "Failed to load settlements", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "settlements"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []any{"uuid", "order_item_uuid", "vendor_uuid", "vendor_name", "item_total", "commission", "vendor_amount", "commission_percent", "currency", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for i, info := range infos {
		record := []any{
			info.UUID,
			info.OrderItemUUID,
			info.VendorUUID,
			info.VendorName,
			strconv.FormatUint(info.ItemTotal, 10),
			strconv.FormatUint(info.Commission, 10),
			strconv.FormatUint(info.VendorAmount, 10),
			strconv.Itoa(info.CommissionPercent),
			info.Currency,
			info.CreatedAt,
		}
		cellRef := fmt.Sprintf("A%d", i+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("item_settlements_%s.xlsx", utils.UTCNow().Format("20060102_150405"))
	return filename, buf.Bytes(), nil
}

// buildFilter validates pagination and resolves the optional vendor and date
// constraints into a repository filter
func (f *SettlementFlowImpl) buildFilter(ctx context.Context, req *dto.ListSettlementsRequest) (int, int, models.ItemSettlementFilter, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, models.ItemSettlementFilter{}, ErrInvalidPage
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = utils.DefaultPageSize
	}
	if pageSize < 1 || pageSize > utils.MaxPageSize {
		return 0, 0, models.ItemSettlementFilter{}, ErrInvalidPageSize
	}

	filter := models.ItemSettlementFilter{}

	if req.VendorUUID != "" {
		vendorUUID, err := uuid.Parse(req.VendorUUID)
		if err != nil {
			return 0, 0, models.ItemSettlementFilter{}, err
		}
		vendor, err := f.vendorRepo.ByUUID(ctx, vendorUUID)
		if err != nil {
			return 0, 0, models.ItemSettlementFilter{}, err
		}
		if vendor == nil {
			return 0, 0, models.ItemSettlementFilter{}, ErrVendorNotFound
		}
		filter.VendorID = &vendor.ID
	}

	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return 0, 0, models.ItemSettlementFilter{}, err
		}
		filter.CreatedAfter = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return 0, 0, models.ItemSettlementFilter{}, err
		}
		endOfDay := end.Add(24*time.Hour - time.Nanosecond)
		filter.CreatedBefore = &endOfDay
	}

	return page, pageSize, filter, nil
}

func (f *SettlementFlowImpl) toSettlementInfo(s *models.ItemSettlement, vendor *models.Vendor) dto.SettlementInfo {
	info := dto.SettlementInfo{
		UUID:              s.UUID.String(),
		CorrelationID:     s.CorrelationID.String(),
		OrderItemUUID:     s.OrderItemUUID.String(),
		ItemTotal:         s.ItemTotal,
		Commission:        s.Commission,
		VendorAmount:      s.VendorAmount,
		CommissionPercent: s.CommissionPercent,
		Currency:          utils.PaiseCurrency,
		CreatedAt:         s.CreatedAt.Format(time.RFC3339),
	}
	if vendor != nil {
		info.VendorUUID = vendor.UUID.String()
		info.VendorName = vendor.Name
	}
	return info
}

func (f *SettlementFlowImpl) toSettlementInfos(ctx context.Context, settlements []*models.ItemSettlement) ([]dto.SettlementInfo, error) {
	vendorsByID := make(map[uint]*models.Vendor)
	infos := make([]dto.SettlementInfo, 0, len(settlements))

	for _, s := range settlements {
		vendor, ok := vendorsByID[s.VendorID]
		if !ok {
			var err error
			vendor, err = f.vendorRepo.ByID(ctx, s.VendorID)
			if err != nil {
				return nil, err
			}
			vendorsByID[s.VendorID] = vendor
		}
		infos = append(infos, f.toSettlementInfo(s, vendor))
	}

	return infos, nil
}
