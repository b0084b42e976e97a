package businessflow_test

import (
	"testing"

	"github.com/carbridge/shipping-pricing/app/dto"
	businessflow "github.com/carbridge/shipping-pricing/business_flow"
	"github.com/carbridge/shipping-pricing/models"
	"github.com/carbridge/shipping-pricing/repository"
	testingutil "github.com/carbridge/shipping-pricing/testing"
	"github.com/carbridge/shipping-pricing/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPricingFlow(testDB *testingutil.TestDB) businessflow.PricingFlow {
	return businessflow.NewPricingFlow(
		repository.NewCityPriceRepository(testDB.DB),
		repository.NewUserCategoryAdjustmentRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		testDB.DB,
		nil,
		nil,
	)
}

func TestAdjustPriceFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newPricingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		userID := testingutil.RandomUserID()
		adminID := testingutil.RandomUserID()
		user := businessflow.Actor{UserID: userID.String()}
		admin := businessflow.Actor{UserID: adminID.String(), IsAdmin: true}

		t.Run("UserWritesOwnComponent", func(t *testing.T) {
			resp, err := flow.AdjustPrice(ctx, &dto.AdjustPriceRequest{
				Category:         models.CategoryCopart,
				AdjustmentAmount: 50,
			}, user)
			require.NoError(t, err)
			assert.Equal(t, userID.String(), resp.Adjustment.User)
			assert.Equal(t, 50.0, resp.Adjustment.UserAdjustmentAmount)
			assert.Zero(t, resp.Adjustment.AdminAdjustmentAmount)
			assert.Equal(t, utils.ToPtr(models.AdjustedByUser), resp.Adjustment.AdjustedBy)
		})

		t.Run("AdminWritesTargetAdminComponent", func(t *testing.T) {
			resp, err := flow.AdjustPrice(ctx, &dto.AdjustPriceRequest{
				Category:         models.CategoryCopart,
				AdjustmentAmount: 20,
				UserID:           utils.ToPtr(userID.String()),
			}, admin)
			require.NoError(t, err)
			assert.Equal(t, userID.String(), resp.Adjustment.User)
			assert.Equal(t, 50.0, resp.Adjustment.UserAdjustmentAmount)
			assert.Equal(t, 20.0, resp.Adjustment.AdminAdjustmentAmount)
			assert.Equal(t, 70.0, resp.Adjustment.TotalAdjustmentAmount)
			assert.Equal(t, utils.ToPtr(models.AdjustedByAdmin), resp.Adjustment.AdjustedBy)
		})

		t.Run("AdminWithoutTargetAdjustsOwnUserComponent", func(t *testing.T) {
			resp, err := flow.AdjustPrice(ctx, &dto.AdjustPriceRequest{
				Category:         models.CategoryIAAI,
				AdjustmentAmount: -15,
			}, admin)
			require.NoError(t, err)
			assert.Equal(t, adminID.String(), resp.Adjustment.User)
			assert.Equal(t, -15.0, resp.Adjustment.UserAdjustmentAmount)
			assert.Equal(t, utils.ToPtr(models.AdjustedByUser), resp.Adjustment.AdjustedBy)
		})

		t.Run("InvalidCategoryRejected", func(t *testing.T) {
			_, err := flow.AdjustPrice(ctx, &dto.AdjustPriceRequest{
				Category:         "ebay",
				AdjustmentAmount: 10,
			}, user)
			require.Error(t, err)
		})

		t.Run("MalformedTargetRejected", func(t *testing.T) {
			_, err := flow.AdjustPrice(ctx, &dto.AdjustPriceRequest{
				Category:         models.CategoryCopart,
				AdjustmentAmount: 10,
				UserID:           utils.ToPtr("not-a-uuid"),
			}, admin)
			require.Error(t, err)
			assert.True(t, businessflow.IsTargetUserInvalid(err))
		})

		t.Run("AdjustmentWritesAreAudited", func(t *testing.T) {
			auditRepo := repository.NewAuditLogRepository(testDB.DB)
			logs, err := auditRepo.ListByAction(ctx, models.AuditActionPriceAdjusted, 0, 0)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(logs), 3)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGetAdjustmentFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newPricingFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		userID := testingutil.RandomUserID()
		user := businessflow.Actor{UserID: userID.String()}

		t.Run("MissingRowReadsAsZero", func(t *testing.T) {
			resp, err := flow.GetAdjustment(ctx, &dto.GetAdjustmentRequest{
				Category: models.CategoryCopart,
			}, user)
			require.NoError(t, err)
			assert.Equal(t, userID.String(), resp.Adjustment.User)
			assert.Zero(t, resp.Adjustment.UserAdjustmentAmount)
			assert.Zero(t, resp.Adjustment.AdminAdjustmentAmount)
			assert.Zero(t, resp.Adjustment.TotalAdjustmentAmount)
			assert.Nil(t, resp.Adjustment.AdjustedBy)
		})

		t.Run("ExistingRowReturned", func(t *testing.T) {
			_, err := fixtures.CreateTestAdjustment(userID, models.CategoryIAAI, 40, 10, models.AdjustedByAdmin)
			require.NoError(t, err)

			resp, err := flow.GetAdjustment(ctx, &dto.GetAdjustmentRequest{
				Category: models.CategoryIAAI,
			}, user)
			require.NoError(t, err)
			assert.Equal(t, 40.0, resp.Adjustment.UserAdjustmentAmount)
			assert.Equal(t, 10.0, resp.Adjustment.AdminAdjustmentAmount)
			assert.Equal(t, 50.0, resp.Adjustment.TotalAdjustmentAmount)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGetAllAdjustmentsFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newPricingFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		firstID := testingutil.RandomUserID()
		secondID := testingutil.RandomUserID()
		adminID := testingutil.RandomUserID()

		_, err := fixtures.CreateTestAdjustment(firstID, models.CategoryCopart, 10, 0, models.AdjustedByUser)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAdjustment(firstID, models.CategoryIAAI, 0, 5, models.AdjustedByAdmin)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAdjustment(secondID, models.CategoryCopart, 25, 0, models.AdjustedByUser)
		require.NoError(t, err)

		t.Run("AdminSeesAllUsers", func(t *testing.T) {
			resp, err := flow.GetAllAdjustments(ctx, &dto.ListAdjustmentsRequest{},
				businessflow.Actor{UserID: adminID.String(), IsAdmin: true})
			require.NoError(t, err)
			assert.Len(t, resp.Items, 3)
		})

		t.Run("AdminNarrowsByCategory", func(t *testing.T) {
			resp, err := flow.GetAllAdjustments(ctx, &dto.ListAdjustmentsRequest{
				Category: utils.ToPtr(models.CategoryCopart),
			}, businessflow.Actor{UserID: adminID.String(), IsAdmin: true})
			require.NoError(t, err)
			assert.Len(t, resp.Items, 2)
		})

		t.Run("AdminNarrowsByTargetUser", func(t *testing.T) {
			resp, err := flow.GetAllAdjustments(ctx, &dto.ListAdjustmentsRequest{
				UserID: utils.ToPtr(firstID.String()),
			}, businessflow.Actor{UserID: adminID.String(), IsAdmin: true})
			require.NoError(t, err)
			assert.Len(t, resp.Items, 2)
		})

		t.Run("UserOnlySeesOwnRows", func(t *testing.T) {
			resp, err := flow.GetAllAdjustments(ctx, &dto.ListAdjustmentsRequest{
				UserID: utils.ToPtr(secondID.String()),
			}, businessflow.Actor{UserID: firstID.String()})
			require.NoError(t, err)
			require.Len(t, resp.Items, 2)
			for _, item := range resp.Items {
				assert.Equal(t, firstID.String(), item.User)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGetPricesFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newPricingFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		userID := testingutil.RandomUserID()
		user := businessflow.Actor{UserID: userID.String()}

		_, err := fixtures.CreateTestCityPrice("Los Angeles", models.CategoryCopart, 300)
		require.NoError(t, err)
		_, err = fixtures.CreateTestCityPrice("Miami", models.CategoryCopart, 250)
		require.NoError(t, err)
		_, err = fixtures.CreateTestCityPrice("Dallas", models.CategoryIAAI, 180)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAdjustment(userID, models.CategoryCopart, 50, 20, models.AdjustedByAdmin)
		require.NoError(t, err)

		t.Run("AdjustmentAppliesAcrossCategory", func(t *testing.T) {
			resp, err := flow.GetPrices(ctx, &dto.GetPricesRequest{}, user)
			require.NoError(t, err)
			require.Len(t, resp.Items, 3)

			byCity := make(map[string]dto.EffectivePriceItem, len(resp.Items))
			for _, item := range resp.Items {
				byCity[item.City] = item
			}
			assert.Equal(t, 370.0, byCity["Los Angeles"].EffectivePrice)
			assert.Equal(t, 320.0, byCity["Miami"].EffectivePrice)
			assert.Equal(t, 180.0, byCity["Dallas"].EffectivePrice)
		})

		t.Run("CategoryFilter", func(t *testing.T) {
			resp, err := flow.GetPrices(ctx, &dto.GetPricesRequest{
				Category: utils.ToPtr(models.CategoryIAAI),
			}, user)
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "Dallas", resp.Items[0].City)
		})

		t.Run("CityFilter", func(t *testing.T) {
			resp, err := flow.GetPrices(ctx, &dto.GetPricesRequest{
				City: utils.ToPtr("miami"),
			}, user)
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, 320.0, resp.Items[0].EffectivePrice)
		})

		t.Run("AdminViewsTargetUserPrices", func(t *testing.T) {
			admin := businessflow.Actor{UserID: testingutil.RandomUserID().String(), IsAdmin: true}
			resp, err := flow.GetPrices(ctx, &dto.GetPricesRequest{
				Category: utils.ToPtr(models.CategoryCopart),
				UserID:   utils.ToPtr(userID.String()),
			}, admin)
			require.NoError(t, err)
			require.Len(t, resp.Items, 2)
			for _, item := range resp.Items {
				assert.Equal(t, 70.0, item.TotalAdjustmentAmount)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGetEffectivePriceFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newPricingFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		userID := testingutil.RandomUserID()
		user := businessflow.Actor{UserID: userID.String()}

		_, err := fixtures.CreateTestCityPrice("Los Angeles", models.CategoryCopart, 300)
		require.NoError(t, err)

		t.Run("ComposesBaseAndAdjustment", func(t *testing.T) {
			_, err := fixtures.CreateTestAdjustment(userID, models.CategoryCopart, 50, 20, models.AdjustedByAdmin)
			require.NoError(t, err)

			resp, err := flow.GetEffectivePrice(ctx, &dto.GetEffectivePriceRequest{
				City:     "los angeles",
				Category: models.CategoryCopart,
			}, user)
			require.NoError(t, err)
			assert.Equal(t, 300.0, resp.Price.BasePrice)
			assert.Equal(t, 70.0, resp.Price.TotalAdjustmentAmount)
			assert.Equal(t, 370.0, resp.Price.EffectivePrice)
		})

		t.Run("MissingAdjustmentReadsAsZero", func(t *testing.T) {
			other := businessflow.Actor{UserID: testingutil.RandomUserID().String()}
			resp, err := flow.GetEffectivePrice(ctx, &dto.GetEffectivePriceRequest{
				City:     "Los Angeles",
				Category: models.CategoryCopart,
			}, other)
			require.NoError(t, err)
			assert.Equal(t, 300.0, resp.Price.EffectivePrice)
			assert.Nil(t, resp.Price.AdjustedBy)
		})

		t.Run("MissingCityPriceIsAnError", func(t *testing.T) {
			_, err := flow.GetEffectivePrice(ctx, &dto.GetEffectivePriceRequest{
				City:     "Atlantis",
				Category: models.CategoryCopart,
			}, user)
			require.Error(t, err)
			assert.True(t, businessflow.IsCityPriceNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
