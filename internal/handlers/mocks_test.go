package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"merchconsole/internal/models"
	"merchconsole/internal/services"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Query(ctx context.Context, tenantID uuid.UUID, query models.ProductQuery) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductService) StartRestock(ctx context.Context, tenantID uuid.UUID, productIDs []string) (models.SkeletonSet, error) {
	args := m.Called(ctx, tenantID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.SkeletonSet), args.Error(1)
}

func (m *MockProductService) StartRevisedRate(ctx context.Context, tenantID uuid.UUID, productIDs []string) (models.SkeletonSet, error) {
	args := m.Called(ctx, tenantID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.SkeletonSet), args.Error(1)
}

func (m *MockProductService) SubmitRestock(ctx context.Context, tenantID uuid.UUID, set models.SkeletonSet) (*models.SubmitResponse, error) {
	args := m.Called(ctx, tenantID, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

func (m *MockProductService) SubmitRevisedRate(ctx context.Context, tenantID uuid.UUID, set models.SkeletonSet, updatedPrice *decimal.Decimal) (*models.SubmitResponse, error) {
	args := m.Called(ctx, tenantID, set, updatedPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

func (m *MockProductService) SubmitStockEdits(ctx context.Context, tenantID uuid.UUID, edits []models.StockEdit) (*models.SubmitResponse, error) {
	args := m.Called(ctx, tenantID, edits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

func (m *MockProductService) SubmitRateEdits(ctx context.Context, tenantID uuid.UUID, edits []models.RateEdit, updatedPrice *decimal.Decimal) (*models.SubmitResponse, error) {
	args := m.Called(ctx, tenantID, edits, updatedPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

func (m *MockProductService) ReconcileUpload(ctx context.Context, prior *models.CombinedResult, result *models.BulkUploadResult) (*models.ReconcileOutcome, error) {
	args := m.Called(ctx, prior, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcileOutcome), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Tree(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryService) Index(ctx context.Context, tenantID uuid.UUID) (*services.CategoryTreeIndex, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CategoryTreeIndex), args.Error(1)
}

func (m *MockCategoryService) Refresh(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
