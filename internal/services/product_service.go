package services

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"merchconsole/internal/common"
	"merchconsole/internal/models"
	"merchconsole/internal/repositories"
)

type ProductService interface {
	Query(ctx context.Context, tenantID uuid.UUID, query models.ProductQuery) ([]*models.Product, error)

	// Bulk edit sessions
	StartRestock(ctx context.Context, tenantID uuid.UUID, productIDs []string) (models.SkeletonSet, error)
	StartRevisedRate(ctx context.Context, tenantID uuid.UUID, productIDs []string) (models.SkeletonSet, error)
	SubmitRestock(ctx context.Context, tenantID uuid.UUID, set models.SkeletonSet) (*models.SubmitResponse, error)
	SubmitRevisedRate(ctx context.Context, tenantID uuid.UUID, set models.SkeletonSet, updatedPrice *decimal.Decimal) (*models.SubmitResponse, error)
	SubmitStockEdits(ctx context.Context, tenantID uuid.UUID, edits []models.StockEdit) (*models.SubmitResponse, error)
	SubmitRateEdits(ctx context.Context, tenantID uuid.UUID, edits []models.RateEdit, updatedPrice *decimal.Decimal) (*models.SubmitResponse, error)

	// Bulk upload reconciliation
	ReconcileUpload(ctx context.Context, prior *models.CombinedResult, result *models.BulkUploadResult) (*models.ReconcileOutcome, error)
}

// ProductServiceOptions carries the console settings the product service needs
type ProductServiceOptions struct {
	Clock          clockwork.Clock
	Location       *time.Location
	SortPolicy     VariantSortPolicy
	ImageURLExpiry time.Duration
}

type productService struct {
	productRepo  repositories.ProductRepository
	bulkEditRepo repositories.BulkEditRepository
	categorySvc  CategoryService
	minioService MinioService
	opts         ProductServiceOptions
	log          zerolog.Logger
}

func NewProductService(productRepo repositories.ProductRepository, bulkEditRepo repositories.BulkEditRepository, categorySvc CategoryService, minioService MinioService, opts ProductServiceOptions, log zerolog.Logger) ProductService {
	if opts.ImageURLExpiry <= 0 {
		opts.ImageURLExpiry = 15 * time.Minute
	}
	return &productService{
		productRepo:  productRepo,
		bulkEditRepo: bulkEditRepo,
		categorySvc:  categorySvc,
		minioService: minioService,
		opts:         opts,
		log:          log,
	}
}

// Query filters the tenant's products and optionally sorts them
func (s *productService) Query(ctx context.Context, tenantID uuid.UUID, query models.ProductQuery) ([]*models.Product, error) {
	products, err := s.productRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	index, err := s.categorySvc.Index(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	engine := NewFilterSortEngine(index, s.opts.Clock, s.opts.Location, s.opts.SortPolicy)
	filtered := engine.Filter(products, query.Filter)
	if query.SortBy == "" {
		return filtered, nil
	}
	return engine.Sort(filtered, query.SortBy, models.SortDirection(common.ValidateSortOrder(string(query.SortOrder)))), nil
}

func (s *productService) selection(ctx context.Context, tenantID uuid.UUID, productIDs []string) ([]*models.Product, error) {
	if len(productIDs) == 0 {
		return nil, common.ErrEmptySelection
	}
	products, err := s.productRepo.GetByIDs(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) < len(productIDs) {
		s.log.Warn().Int("requested", len(productIDs)).Int("found", len(products)).Msg("some selected products were not found")
	}
	return products, nil
}

func (s *productService) StartRestock(ctx context.Context, tenantID uuid.UUID, productIDs []string) (models.SkeletonSet, error) {
	products, err := s.selection(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	return BuildRestockSkeleton(products)
}

func (s *productService) StartRevisedRate(ctx context.Context, tenantID uuid.UUID, productIDs []string) (models.SkeletonSet, error) {
	products, err := s.selection(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	return BuildRevisedRateSkeleton(products)
}

// verifyShapes compares the session against the products' current shapes.
// A product that disappeared is reported at its flat path.
func (s *productService) verifyShapes(ctx context.Context, tenantID uuid.UUID, set models.SkeletonSet) error {
	ids := slices.Sorted(maps.Keys(set))
	products, err := s.productRepo.GetByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var errs common.LeafErrors
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			errs = append(errs, common.NewLeafError(id, models.FlatPath(), common.ErrShapeMismatch))
			continue
		}
		if err := CheckSkeleton(set[id], product); err != nil {
			var leafErrs common.LeafErrors
			if errors.As(err, &leafErrs) {
				errs = append(errs, leafErrs...)
			}
		}
	}
	return errs.OrNil()
}

// SubmitRestock validates the session locally, checks it is not stale and
// sends it to the store. Store errors are returned unchanged.
func (s *productService) SubmitRestock(ctx context.Context, tenantID uuid.UUID, set models.SkeletonSet) (*models.SubmitResponse, error) {
	submission, err := AssembleRestock(set)
	if err != nil {
		return nil, err
	}
	if err := s.verifyShapes(ctx, tenantID, set); err != nil {
		return nil, err
	}

	if submission.Single != nil {
		return s.bulkEditRepo.RestockSingle(ctx, tenantID, submission.Single)
	}
	s.log.Info().Int("products", len(submission.Many)).Str("tenant_id", tenantID.String()).Msg("submitting bulk restock")
	return s.bulkEditRepo.RestockMany(ctx, tenantID, submission.Many)
}

func (s *productService) SubmitRevisedRate(ctx context.Context, tenantID uuid.UUID, set models.SkeletonSet, updatedPrice *decimal.Decimal) (*models.SubmitResponse, error) {
	submission, err := AssembleRevisedRate(set, updatedPrice)
	if err != nil {
		return nil, err
	}
	if err := s.verifyShapes(ctx, tenantID, set); err != nil {
		return nil, err
	}

	if submission.Single != nil {
		return s.bulkEditRepo.ReviseRateSingle(ctx, tenantID, submission.Single)
	}
	s.log.Info().Int("products", len(submission.Many)).Str("tenant_id", tenantID.String()).Msg("submitting bulk price revision")
	return s.bulkEditRepo.ReviseRateMany(ctx, tenantID, submission.Many)
}

// SubmitStockEdits opens a restock session over the edited products, fills it
// and submits it
func (s *productService) SubmitStockEdits(ctx context.Context, tenantID uuid.UUID, edits []models.StockEdit) (*models.SubmitResponse, error) {
	ids := make([]string, 0, len(edits))
	for _, e := range edits {
		ids = append(ids, e.ProductID)
	}
	set, err := s.StartRestock(ctx, tenantID, distinct(ids))
	if err != nil {
		return nil, err
	}
	if set, err = ApplyStockEdits(set, edits); err != nil {
		return nil, err
	}
	return s.SubmitRestock(ctx, tenantID, set)
}

func (s *productService) SubmitRateEdits(ctx context.Context, tenantID uuid.UUID, edits []models.RateEdit, updatedPrice *decimal.Decimal) (*models.SubmitResponse, error) {
	ids := make([]string, 0, len(edits))
	for _, e := range edits {
		ids = append(ids, e.ProductID)
	}
	set, err := s.StartRevisedRate(ctx, tenantID, distinct(ids))
	if err != nil {
		return nil, err
	}
	if set, err = ApplyRateEdits(set, edits); err != nil {
		return nil, err
	}
	return s.SubmitRevisedRate(ctx, tenantID, set, updatedPrice)
}

// distinct keeps the first occurrence of every ID
func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ReconcileUpload folds one upload pass into the running counts and resolves
// preview URLs for products awaiting an override decision.
func (s *productService) ReconcileUpload(ctx context.Context, prior *models.CombinedResult, result *models.BulkUploadResult) (*models.ReconcileOutcome, error) {
	if result == nil {
		return nil, errors.New("upload result is required")
	}
	outcome := &models.ReconcileOutcome{
		Combined:         MergeResults(prior, result.Results),
		RequiresOverride: result.RequiresOverride(),
	}
	if !outcome.RequiresOverride {
		return outcome, nil
	}

	outcome.ExistingProducts = make([]models.ExistingProduct, len(result.ExistingProducts))
	for i, existing := range result.ExistingProducts {
		if existing.Image != nil && *existing.Image != "" && s.minioService != nil {
			url, err := s.minioService.GetPresignedURL(ctx, *existing.Image, s.opts.ImageURLExpiry)
			if err != nil {
				// Keep the raw key; a missing preview must not block the override decision
				s.log.Warn().Err(err).Str("product_id", existing.ProductID).Msg("failed to presign existing product image")
			} else {
				existing.Image = &url
			}
		}
		outcome.ExistingProducts[i] = existing
	}
	return outcome, nil
}
