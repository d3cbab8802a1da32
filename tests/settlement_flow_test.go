// Package tests contains integration tests for the commission settlement flow
package tests

import (
	"context"
	"testing"

	"github.com/amirphl/Susanoo/app/dto"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/amirphl/Susanoo/config"
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	testingutil "github.com/amirphl/Susanoo/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettlementFlow(testDB *testingutil.TestDB, percent int) businessflow.SettlementFlow {
	return businessflow.NewSettlementFlow(
		repository.NewItemSettlementRepository(testDB.DB),
		repository.NewVendorRepository(testDB.DB),
		repository.NewWalletRepository(testDB.DB),
		repository.NewTransactionRepository(testDB.DB),
		&config.CommissionConfig{Percent: percent},
		testDB.DB,
	)
}

func TestSettlementFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		transactionRepo := repository.NewTransactionRepository(testDB.DB)
		settlementRepo := repository.NewItemSettlementRepository(testDB.DB)

		_, err := fixtures.CreatePlatformWallet()
		require.NoError(t, err)

		platformWallet, err := repository.NewWalletRepository(testDB.DB).PlatformWallet(context.Background())
		require.NoError(t, err)
		require.NotNil(t, platformWallet)

		settlementFlow := newTestSettlementFlow(testDB, 10)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := context.Background()

		t.Run("SplitIsExactAndBothLegsRecorded", func(t *testing.T) {
			vendor, vendorWallet, err := fixtures.CreateTestVendor()
			require.NoError(t, err)

			req := &dto.SettleItemRequest{
				OrderItemUUID: uuid.New().String(),
				VendorUUID:    vendor.UUID.String(),
				ItemTotal:     10000,
			}

			result, err := settlementFlow.SettleItemSale(ctx, req, metadata)
			require.NoError(t, err)

			assert.Equal(t, uint64(10000), result.Settlement.ItemTotal)
			assert.Equal(t, uint64(1000), result.Settlement.Commission)
			assert.Equal(t, uint64(9000), result.Settlement.VendorAmount)
			assert.Equal(t, 10, result.Settlement.CommissionPercent)
			assert.Equal(t, "INR", result.Settlement.Currency)

			correlationID := uuid.MustParse(result.Settlement.CorrelationID)
			legs, err := transactionRepo.ByCorrelationID(ctx, correlationID)
			require.NoError(t, err)
			require.Len(t, legs, 2)

			var commissionLeg, payoutLeg *models.Transaction
			for _, leg := range legs {
				switch leg.Type {
				case models.TransactionTypeCommission:
					commissionLeg = leg
				case models.TransactionTypeVendorPayout:
					payoutLeg = leg
				}
			}
			require.NotNil(t, commissionLeg)
			require.NotNil(t, payoutLeg)

			assert.Equal(t, uint64(1000), commissionLeg.Amount)
			assert.Equal(t, platformWallet.ID, commissionLeg.WalletID)
			assert.Equal(t, uint64(9000), payoutLeg.Amount)
			assert.Equal(t, vendorWallet.ID, payoutLeg.WalletID)
			assert.Equal(t, models.TransactionStatusCompleted, commissionLeg.Status)
			assert.Equal(t, models.TransactionStatusCompleted, payoutLeg.Status)

			// No paise created or destroyed
			assert.Equal(t, uint64(10000), commissionLeg.Amount+payoutLeg.Amount)
		})

		t.Run("RoundingRemainderStaysWithVendor", func(t *testing.T) {
			vendor, _, err := fixtures.CreateTestVendor()
			require.NoError(t, err)

			req := &dto.SettleItemRequest{
				OrderItemUUID: uuid.New().String(),
				VendorUUID:    vendor.UUID.String(),
				ItemTotal:     999,
			}

			result, err := settlementFlow.SettleItemSale(ctx, req, metadata)
			require.NoError(t, err)

			assert.Equal(t, uint64(100), result.Settlement.Commission)
			assert.Equal(t, uint64(899), result.Settlement.VendorAmount)
		})

		t.Run("SettlingTwiceIsRejected", func(t *testing.T) {
			vendor, _, err := fixtures.CreateTestVendor()
			require.NoError(t, err)

			orderItemUUID := uuid.New().String()
			req := &dto.SettleItemRequest{
				OrderItemUUID: orderItemUUID,
				VendorUUID:    vendor.UUID.String(),
				ItemTotal:     5000,
			}

			_, err = settlementFlow.SettleItemSale(ctx, req, metadata)
			require.NoError(t, err)

			_, err = settlementFlow.SettleItemSale(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAlreadySettled(err))

			// Exactly one settlement row and two legs exist for the item
			settlement, err := settlementRepo.ByOrderItemUUID(ctx, uuid.MustParse(orderItemUUID))
			require.NoError(t, err)
			require.NotNil(t, settlement)

			legs, err := transactionRepo.ByCorrelationID(ctx, settlement.CorrelationID)
			require.NoError(t, err)
			assert.Len(t, legs, 2)
		})

		t.Run("UnknownVendorIsRejected", func(t *testing.T) {
			req := &dto.SettleItemRequest{
				OrderItemUUID: uuid.New().String(),
				VendorUUID:    uuid.New().String(),
				ItemTotal:     5000,
			}

			_, err := settlementFlow.SettleItemSale(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsVendorNotFound(err))
		})

		t.Run("InactiveVendorIsRejected", func(t *testing.T) {
			vendor, _, err := fixtures.CreateInactiveVendor()
			require.NoError(t, err)

			req := &dto.SettleItemRequest{
				OrderItemUUID: uuid.New().String(),
				VendorUUID:    vendor.UUID.String(),
				ItemTotal:     5000,
			}

			_, err = settlementFlow.SettleItemSale(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsVendorInactive(err))
		})

		t.Run("NegativeTotalIsRejected", func(t *testing.T) {
			vendor, _, err := fixtures.CreateTestVendor()
			require.NoError(t, err)

			req := &dto.SettleItemRequest{
				OrderItemUUID: uuid.New().String(),
				VendorUUID:    vendor.UUID.String(),
				ItemTotal:     -1,
			}

			_, err = settlementFlow.SettleItemSale(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidAmount(err))
		})

		t.Run("ZeroPercentSendsEverythingToVendor", func(t *testing.T) {
			zeroFlow := newTestSettlementFlow(testDB, 0)

			vendor, _, err := fixtures.CreateTestVendor()
			require.NoError(t, err)

			req := &dto.SettleItemRequest{
				OrderItemUUID: uuid.New().String(),
				VendorUUID:    vendor.UUID.String(),
				ItemTotal:     7777,
			}

			result, err := zeroFlow.SettleItemSale(ctx, req, metadata)
			require.NoError(t, err)

			assert.Equal(t, uint64(0), result.Settlement.Commission)
			assert.Equal(t, uint64(7777), result.Settlement.VendorAmount)
		})

		t.Run("ListSettlementsPaginatesAndFilters", func(t *testing.T) {
			vendor, _, err := fixtures.CreateTestVendor()
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				req := &dto.SettleItemRequest{
					OrderItemUUID: uuid.New().String(),
					VendorUUID:    vendor.UUID.String(),
					ItemTotal:     int64(1000 * (i + 1)),
				}
				_, err := settlementFlow.SettleItemSale(ctx, req, metadata)
				require.NoError(t, err)
			}

			listResult, err := settlementFlow.ListSettlements(ctx, &dto.ListSettlementsRequest{
				Page:       1,
				PageSize:   2,
				VendorUUID: vendor.UUID.String(),
			})
			require.NoError(t, err)

			assert.Equal(t, int64(3), listResult.Total)
			assert.Len(t, listResult.Settlements, 2)
			assert.Equal(t, 1, listResult.Page)
			assert.Equal(t, 2, listResult.PageSize)
			for _, info := range listResult.Settlements {
				assert.Equal(t, vendor.UUID.String(), info.VendorUUID)
				assert.Equal(t, info.ItemTotal, info.Commission+info.VendorAmount)
			}

			// Out-of-range pagination is rejected
			_, err = settlementFlow.ListSettlements(ctx, &dto.ListSettlementsRequest{Page: -1})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPage(err))

			_, err = settlementFlow.ListSettlements(ctx, &dto.ListSettlementsRequest{Page: 1, PageSize: 500})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPageSize(err))
		})

		t.Run("ExportProducesWorkbook", func(t *testing.T) {
			vendor, _, err := fixtures.CreateTestVendor()
			require.NoError(t, err)

			req := &dto.SettleItemRequest{
				OrderItemUUID: uuid.New().String(),
				VendorUUID:    vendor.UUID.String(),
				ItemTotal:     2500,
			}
			_, err = settlementFlow.SettleItemSale(ctx, req, metadata)
			require.NoError(t, err)

			filename, content, err := settlementFlow.ExportSettlementsExcel(ctx, &dto.ListSettlementsRequest{
				VendorUUID: vendor.UUID.String(),
			})
			require.NoError(t, err)

			assert.Contains(t, filename, "item_settlements_")
			assert.Contains(t, filename, ".xlsx")
			assert.NotEmpty(t, content)
			// xlsx files are zip archives
			assert.Equal(t, byte('P'), content[0])
			assert.Equal(t, byte('K'), content[1])
		})

		return nil
	})
	require.NoError(t, err)
}
