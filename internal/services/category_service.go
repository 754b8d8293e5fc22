package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"merchconsole/internal/caching"
	"merchconsole/internal/models"
	"merchconsole/internal/repositories"
)

type CategoryService interface {
	Tree(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error)
	Index(ctx context.Context, tenantID uuid.UUID) (*CategoryTreeIndex, error)
	Refresh(ctx context.Context, tenantID uuid.UUID) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	cacheService caching.CacheService
	cacheTTL     time.Duration
	separator    string
	log          zerolog.Logger
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, cacheService caching.CacheService, cacheTTL time.Duration, separator string, log zerolog.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cacheService: cacheService,
		cacheTTL:     cacheTTL,
		separator:    separator,
		log:          log,
	}
}

// Tree returns the tenant's category forest, from cache when possible.
// Cache errors are logged and never fail the call.
func (s *categoryService) Tree(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error) {
	if s.cacheService != nil {
		cached, err := s.cacheService.GetCategoryTree(ctx, tenantID)
		if err != nil {
			s.log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("category tree cache read failed")
		} else if cached != nil {
			return cached, nil
		}
		s.log.Debug().Str("tenant_id", tenantID.String()).Msg("category tree cache miss")
	}
	return s.load(ctx, tenantID)
}

func (s *categoryService) load(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error) {
	tree, err := s.categoryRepo.GetCategoryTree(ctx, tenantID)
	if err != nil {
		s.log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("failed to load category tree")
		return nil, err
	}
	if s.cacheService != nil {
		if cacheErr := s.cacheService.SetCategoryTree(ctx, tenantID, tree, s.cacheTTL); cacheErr != nil {
			s.log.Warn().Err(cacheErr).Str("tenant_id", tenantID.String()).Msg("failed to cache category tree")
		}
	}
	return tree, nil
}

func (s *categoryService) Index(ctx context.Context, tenantID uuid.UUID) (*CategoryTreeIndex, error) {
	tree, err := s.Tree(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return NewCategoryTreeIndex(tree, s.separator), nil
}

// Refresh reloads the tree from the store and overwrites the cached copy
func (s *categoryService) Refresh(ctx context.Context, tenantID uuid.UUID) error {
	_, err := s.load(ctx, tenantID)
	return err
}
