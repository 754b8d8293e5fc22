package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchconsole/internal/common"
	"merchconsole/internal/models"
	"merchconsole/testhelpers"
)

func TestAssembleRestock_Single(t *testing.T) {
	set, err := BuildRestockSkeleton([]*models.Product{variantP2()})
	require.NoError(t, err)
	set, err = SetStock(set, "P2", models.VariantSizePath("V1", "S1"), "8")
	require.NoError(t, err)

	sub, err := AssembleRestock(set)
	require.NoError(t, err)
	require.NotNil(t, sub.Single)
	assert.Nil(t, sub.Many)

	data, err := json.Marshal(sub.Single)
	require.NoError(t, err)
	assert.JSONEq(t, `{"productId": "P2", "productData": {"V1": {"S1": {"stock": 8}}}}`, string(data))
}

func TestAssembleRestock_SingleFlat(t *testing.T) {
	set, err := BuildRestockSkeleton([]*models.Product{flatP1()})
	require.NoError(t, err)
	set, err = SetStock(set, "P1", models.FlatPath(), "0")
	require.NoError(t, err)

	sub, err := AssembleRestock(set)
	require.NoError(t, err)
	require.NotNil(t, sub.Single)
	require.NotNil(t, sub.Single.UpdatedStock)
	assert.Equal(t, 0, *sub.Single.UpdatedStock)
	assert.Nil(t, sub.Single.ProductData)
}

func TestAssembleRestock_Many(t *testing.T) {
	p3 := testhelpers.FlatProduct("P3", "Bowl", "c-kitchen", "4", 2, time.Now())
	set, err := BuildRestockSkeleton([]*models.Product{variantP2(), flatP1(), p3})
	require.NoError(t, err)
	set, err = SetStock(set, "P1", models.FlatPath(), "11")
	require.NoError(t, err)
	set, err = SetStock(set, "P2", models.VariantSizePath("V1", "S2"), "3")
	require.NoError(t, err)

	sub, err := AssembleRestock(set)
	require.NoError(t, err)
	assert.Nil(t, sub.Single)

	data, err := json.Marshal(sub.Many)
	require.NoError(t, err)
	// P3 was left empty and is not sent
	assert.JSONEq(t, `[
		{"P1": {"stock": 11}},
		{"P2": {"V1": {"S2": {"stock": 3}}}}
	]`, string(data))
}

func TestAssembleRestock_Failures(t *testing.T) {
	_, err := AssembleRestock(models.SkeletonSet{})
	assert.ErrorIs(t, err, common.ErrEmptySelection)

	set, err := BuildRestockSkeleton([]*models.Product{flatP1(), variantP2()})
	require.NoError(t, err)
	_, err = AssembleRestock(set)
	assert.ErrorIs(t, err, common.ErrNothingToSubmit)

	set, err = SetStock(set, "P2", models.VariantSizePath("V1", "S1"), "-4")
	require.NoError(t, err)
	_, err = AssembleRestock(set)
	var leafErrs common.LeafErrors
	require.ErrorAs(t, err, &leafErrs)
	require.Len(t, leafErrs, 1)
	assert.Equal(t, "P2", leafErrs[0].ProductID)
	assert.Equal(t, models.VariantSizePath("V1", "S1"), leafErrs[0].Path)
	assert.ErrorIs(t, err, common.ErrInvalidStock)
}

func TestAssembleRevisedRate_SingleFlat(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)

	set, err := BuildRevisedRateSkeleton([]*models.Product{flatP1()})
	require.NoError(t, err)
	set, err = ApplyRateEdits(set, []models.RateEdit{{
		ProductID:     "P1",
		DiscountPrice: "8.5",
		Discount:      models.WindowDraft{StartAt: &start, EndAt: &end, RevertOnExpiry: testhelpers.Ptr(true)},
		BulkTiers:     []models.TierDraft{tier("20", "8", "7"), tier("10", "9", "8")},
	}})
	require.NoError(t, err)

	price := testhelpers.Dec("12")
	sub, err := AssembleRevisedRate(set, &price)
	require.NoError(t, err)
	require.NotNil(t, sub.Single)

	single := sub.Single
	assert.Equal(t, "P1", single.ProductID)
	assert.True(t, single.UpdatedPrice.Equal(price))
	assert.True(t, single.DiscountPrice.Equal(testhelpers.Dec("8.5")))
	assert.Equal(t, start, *single.DiscountStartDate)
	assert.Equal(t, end, *single.DiscountEndDate)
	assert.True(t, *single.RevertOnExpiry)
	require.Len(t, single.BulkTiers, 2)
	assert.Equal(t, 10, single.BulkTiers[0].ThresholdQuantity)
	assert.Nil(t, single.ProductData)
}

func TestAssembleRevisedRate_OnlyUpdatedPrice(t *testing.T) {
	set, err := BuildRevisedRateSkeleton([]*models.Product{flatP1()})
	require.NoError(t, err)

	_, err = AssembleRevisedRate(set, nil)
	assert.ErrorIs(t, err, common.ErrNothingToSubmit)

	price := testhelpers.Dec("3")
	sub, err := AssembleRevisedRate(set, &price)
	require.NoError(t, err)
	require.NotNil(t, sub.Single)
	assert.True(t, sub.Single.UpdatedPrice.Equal(price))
}

func TestAssembleRevisedRate_UpdatedPriceRules(t *testing.T) {
	price := testhelpers.Dec("3")

	variantSet, err := BuildRevisedRateSkeleton([]*models.Product{variantP2()})
	require.NoError(t, err)
	_, err = AssembleRevisedRate(variantSet, &price)
	assert.ErrorIs(t, err, common.ErrPriceNotApplicable)
	assert.NotErrorIs(t, err, common.ErrShapeMismatch)

	manySet, err := BuildRevisedRateSkeleton([]*models.Product{variantP2(), flatP1()})
	require.NoError(t, err)
	_, err = AssembleRevisedRate(manySet, &price)
	assert.ErrorIs(t, err, common.ErrPriceNotApplicable)
	assert.NotErrorIs(t, err, common.ErrShapeMismatch)
	var leafErrs common.LeafErrors
	require.ErrorAs(t, err, &leafErrs)
	assert.Equal(t, map[string]string{
		"P1": common.ErrPriceNotApplicable.Error(),
		"P2": common.ErrPriceNotApplicable.Error(),
	}, leafErrs.Details())

	flatSet, err := BuildRevisedRateSkeleton([]*models.Product{flatP1()})
	require.NoError(t, err)
	negative := testhelpers.Dec("-1")
	_, err = AssembleRevisedRate(flatSet, &negative)
	assert.ErrorIs(t, err, common.ErrInvalidPrice)
}

func TestAssembleRevisedRate_Many(t *testing.T) {
	set, err := BuildRevisedRateSkeleton([]*models.Product{flatP1(), variantP2()})
	require.NoError(t, err)
	set, err = SetDiscountPrice(set, "P2", models.VariantSizePath("V1", "S2"), "1.25")
	require.NoError(t, err)
	set, err = SetDiscountPrice(set, "P1", models.FlatPath(), "6")
	require.NoError(t, err)

	sub, err := AssembleRevisedRate(set, nil)
	require.NoError(t, err)
	assert.Nil(t, sub.Single)

	data, err := json.Marshal(sub.Many)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"P1": {"discountPrice": "6"},
		"P2": {"V1": {"S2": {"discountPrice": "1.25"}}}
	}`, string(data))
}

func TestAssembleRevisedRate_ReportsEveryLeaf(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	set, err := BuildRevisedRateSkeleton([]*models.Product{flatP1(), variantP2()})
	require.NoError(t, err)
	set, err = ApplyRateEdits(set, []models.RateEdit{
		{ProductID: "P1", BulkTiers: []models.TierDraft{tier("5", "1", "1"), tier("5", "2", "2")}},
		{ProductID: "P2", VariantID: "V1", SizeDetailID: "S1", Discount: models.WindowDraft{StartAt: &start, EndAt: &start}},
	})
	require.NoError(t, err)

	_, err = AssembleRevisedRate(set, nil)
	var leafErrs common.LeafErrors
	require.ErrorAs(t, err, &leafErrs)
	require.Len(t, leafErrs, 2)

	details := leafErrs.Details()
	assert.Contains(t, details, "P1/tiers[1]")
	assert.Contains(t, details, "P2/V1/S1")
	assert.ErrorIs(t, err, common.ErrDuplicateThreshold)
	assert.ErrorIs(t, err, common.ErrInvertedWindow)
}
