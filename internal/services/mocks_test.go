package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"merchconsole/internal/models"
)

// Mock repositories and services
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []string) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

type MockBulkEditRepository struct {
	mock.Mock
}

func (m *MockBulkEditRepository) RestockSingle(ctx context.Context, tenantID uuid.UUID, payload *models.RestockSingle) (*models.SubmitResponse, error) {
	args := m.Called(ctx, tenantID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

func (m *MockBulkEditRepository) RestockMany(ctx context.Context, tenantID uuid.UUID, payload models.RestockMany) (*models.SubmitResponse, error) {
	args := m.Called(ctx, tenantID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

func (m *MockBulkEditRepository) ReviseRateSingle(ctx context.Context, tenantID uuid.UUID, payload *models.ReviseRateSingle) (*models.SubmitResponse, error) {
	args := m.Called(ctx, tenantID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

func (m *MockBulkEditRepository) ReviseRateMany(ctx context.Context, tenantID uuid.UUID, payload models.ReviseRateMany) (*models.SubmitResponse, error) {
	args := m.Called(ctx, tenantID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListRows(ctx context.Context, tenantID uuid.UUID) ([]models.CategoryRow, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryRow), args.Error(1)
}

func (m *MockCategoryRepository) GetCategoryTree(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetCategoryTree(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCacheService) SetCategoryTree(ctx context.Context, tenantID uuid.UUID, tree []*models.Category, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, tree, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
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

func (m *MockCategoryService) Index(ctx context.Context, tenantID uuid.UUID) (*CategoryTreeIndex, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CategoryTreeIndex), args.Error(1)
}

func (m *MockCategoryService) Refresh(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}
