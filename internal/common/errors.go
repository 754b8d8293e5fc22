package common

import (
	"errors"
	"fmt"
	"strings"

	"merchconsole/internal/models"
)

var (
	ErrShapeMismatch      = errors.New("skeleton leaf does not match product shape")
	ErrIncompleteTier     = errors.New("bulk tier is incomplete")
	ErrDuplicateThreshold = errors.New("bulk tier threshold quantity is duplicated")
	ErrInvalidTierValue   = errors.New("bulk tier value is invalid")
	ErrInvertedWindow     = errors.New("discount window ends before it starts")
	ErrDraftWindow        = errors.New("discount window is only partially set")
	ErrInvalidPrice       = errors.New("price is invalid")
	ErrInvalidStock       = errors.New("stock is invalid")
	ErrEmptySelection     = errors.New("no products selected")
	ErrNothingToSubmit    = errors.New("no slot was filled")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrLeafNotFound       = errors.New("leaf not found")
	ErrPriceNotApplicable = errors.New("updated price only applies to a single flat product")
)

// LeafError attributes a failure to one leaf of one product
type LeafError struct {
	ProductID string
	Path      models.LeafPath
	Index     int // Tier index when the failure concerns one tier, -1 otherwise
	Err       error
}

func (e *LeafError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("product %s leaf %s tier %d: %v", e.ProductID, e.Path, e.Index, e.Err)
	}
	return fmt.Sprintf("product %s leaf %s: %v", e.ProductID, e.Path, e.Err)
}

func (e *LeafError) Unwrap() error { return e.Err }

// NewLeafError builds a LeafError not tied to a tier
func NewLeafError(productID string, path models.LeafPath, err error) *LeafError {
	return &LeafError{ProductID: productID, Path: path, Index: -1, Err: err}
}

// LeafErrors collects every leaf failure of one operation
type LeafErrors []*LeafError

func (e LeafErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, le := range e {
		msgs = append(msgs, le.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e LeafErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, le := range e {
		errs = append(errs, le)
	}
	return errs
}

// OrNil returns nil when no leaf failed
func (e LeafErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Details flattens the failures into a field -> message map for responses
func (e LeafErrors) Details() map[string]string {
	details := make(map[string]string, len(e))
	for _, le := range e {
		key := le.ProductID
		if !le.Path.IsFlat() {
			key += "/" + le.Path.String()
		}
		if le.Index >= 0 {
			key = fmt.Sprintf("%s/tiers[%d]", key, le.Index)
		}
		details[key] = le.Err.Error()
	}
	return details
}
