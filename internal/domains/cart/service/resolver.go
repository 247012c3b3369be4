package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"coursestore-backend/internal/domains/cart/model"
	catalog "coursestore-backend/internal/domains/catalog/model"
)

// CatalogReader is the slice of the catalog the cart needs. Rows are
// returned regardless of published state.
type CatalogReader interface {
	GetCourseByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error)
	GetBundleByID(ctx context.Context, id uuid.UUID) (*catalog.Bundle, error)
}

// ResolvedItem is a cart item priced from the catalog together with what
// checkout and fulfilment need to sell it.
type ResolvedItem struct {
	model.CartItem
	StripePriceID string
	// CourseIDs holds the course itself, or the bundle's members in order.
	CourseIDs []uuid.UUID
}

type Resolver struct {
	catalog CatalogReader
}

func NewResolver(catalog CatalogReader) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve prices every ref. When any item is missing, unpublished or has
// no processor price, the whole call fails with an error listing them all.
func (r *Resolver) Resolve(ctx context.Context, refs []model.ItemRef) ([]ResolvedItem, error) {
	resolved := make([]ResolvedItem, 0, len(refs))
	var failed []model.ItemError

	for _, ref := range refs {
		item, reason, err := r.resolveOne(ctx, ref)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			failed = append(failed, model.ItemError{Type: ref.Type, ID: ref.ID, Reason: reason})
			continue
		}
		resolved = append(resolved, *item)
	}

	if len(failed) > 0 {
		return nil, model.UnavailableError(failed)
	}
	return resolved, nil
}

func (r *Resolver) resolveOne(ctx context.Context, ref model.ItemRef) (*ResolvedItem, model.UnavailableReason, error) {
	switch ref.Type {
	case model.ItemTypeCourse:
		course, err := r.catalog.GetCourseByID(ctx, ref.ID)
		if errors.Is(err, catalog.ErrCourseNotFound) {
			return nil, model.ReasonNotFound, nil
		}
		if err != nil {
			return nil, "", err
		}
		if reason := unavailable(course.Published, course.StripePriceID); reason != "" {
			return nil, reason, nil
		}
		return &ResolvedItem{
			CartItem: model.CartItem{
				Type:     model.ItemTypeCourse,
				ID:       course.ID,
				Title:    course.Title,
				Price:    course.Price,
				ImageURL: deref(course.ImageURL),
			},
			StripePriceID: *course.StripePriceID,
			CourseIDs:     []uuid.UUID{course.ID},
		}, "", nil

	case model.ItemTypeBundle:
		bundle, err := r.catalog.GetBundleByID(ctx, ref.ID)
		if errors.Is(err, catalog.ErrBundleNotFound) {
			return nil, model.ReasonNotFound, nil
		}
		if err != nil {
			return nil, "", err
		}
		if reason := unavailable(bundle.Published, bundle.StripePriceID); reason != "" {
			return nil, reason, nil
		}
		return &ResolvedItem{
			CartItem: model.CartItem{
				Type:     model.ItemTypeBundle,
				ID:       bundle.ID,
				Title:    bundle.Name,
				Price:    bundle.Price,
				ImageURL: deref(bundle.ImageURL),
			},
			StripePriceID: *bundle.StripePriceID,
			CourseIDs:     append([]uuid.UUID(nil), bundle.CourseIDs...),
		}, "", nil
	}
	return nil, model.ReasonNotFound, nil
}

func unavailable(published bool, priceID *string) model.UnavailableReason {
	if !published {
		return model.ReasonUnpublished
	}
	if priceID == nil || *priceID == "" {
		return model.ReasonUnpriced
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Duplicates returns the refs that repeat an earlier (type, id).
func Duplicates(refs []model.ItemRef) []model.ItemRef {
	seen := make(map[model.ItemRef]struct{}, len(refs))
	var dups []model.ItemRef
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			dups = append(dups, ref)
			continue
		}
		seen[ref] = struct{}{}
	}
	return dups
}
