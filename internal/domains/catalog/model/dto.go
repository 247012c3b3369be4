package model

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coursestore-backend/internal/shared/utils"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var slugRule = validation.Match(slugPattern).Error("must be lower-case letters, digits and dashes")

type CreateCourseRequest struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    *string         `json:"image_url"`
	Published   bool            `json:"published"`
}

func (r *CreateCourseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Slug, slugRule, validation.Length(0, 200)),
		validation.Field(&r.Price, utils.NonNegativeDecimal),
		validation.Field(&r.Category, validation.Length(0, 100)),
		validation.Field(&r.ImageURL, is.URL),
	)
}

func (r *CreateCourseRequest) ToCourse() *Course {
	slug := strings.TrimSpace(r.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(r.Title)
	}
	return &Course{
		Slug:        slug,
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Price:       r.Price.Round(2),
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		Published:   r.Published,
	}
}

// UpdateCourseRequest is a partial update.
type UpdateCourseRequest struct {
	Title           *string          `json:"title"`
	Slug            *string          `json:"slug"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Category        *string          `json:"category"`
	ImageURL        *string          `json:"image_url"`
	PreviewLessonID *uuid.UUID       `json:"preview_lesson_id"`
}

func (r *UpdateCourseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, slugRule),
		validation.Field(&r.Price, utils.NonNegativeDecimal),
		validation.Field(&r.ImageURL, is.URL),
		validation.Field(&r.PreviewLessonID, utils.NotNilUUID),
	)
}

// ApplyTo reports whether the price changed.
func (r *UpdateCourseRequest) ApplyTo(c *Course) (priceChanged bool) {
	if r.Title != nil {
		c.Title = strings.TrimSpace(*r.Title)
	}
	if r.Slug != nil {
		c.Slug = *r.Slug
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	if r.Price != nil && !r.Price.Round(2).Equal(c.Price) {
		c.Price = r.Price.Round(2)
		priceChanged = true
	}
	if r.Category != nil {
		c.Category = *r.Category
	}
	if r.ImageURL != nil {
		c.ImageURL = r.ImageURL
	}
	if r.PreviewLessonID != nil {
		c.PreviewLessonID = r.PreviewLessonID
	}
	return priceChanged
}

type CreateBundleRequest struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CourseIDs   []uuid.UUID     `json:"course_ids"`
	ImageURL    *string         `json:"image_url"`
	Published   bool            `json:"published"`
}

func (r *CreateBundleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Slug, slugRule),
		validation.Field(&r.Price, utils.NonNegativeDecimal),
		validation.Field(&r.CourseIDs, validation.Required, validation.Length(1, 50), validation.Each(utils.NotNilUUID)),
		validation.Field(&r.ImageURL, is.URL),
	)
}

func (r *CreateBundleRequest) ToBundle() *Bundle {
	slug := strings.TrimSpace(r.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(r.Name)
	}
	return &Bundle{
		Name:        strings.TrimSpace(r.Name),
		Slug:        slug,
		Description: r.Description,
		Price:       r.Price.Round(2),
		CourseIDs:   DedupeIDs(r.CourseIDs),
		ImageURL:    r.ImageURL,
		Published:   r.Published,
	}
}

type UpdateBundleRequest struct {
	Name        *string          `json:"name"`
	Slug        *string          `json:"slug"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CourseIDs   []uuid.UUID      `json:"course_ids"`
	ImageURL    *string          `json:"image_url"`
}

func (r *UpdateBundleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.NilOrNotEmpty),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, slugRule),
		validation.Field(&r.Price, utils.NonNegativeDecimal),
		validation.Field(&r.CourseIDs, validation.Length(0, 50), validation.Each(utils.NotNilUUID)),
		validation.Field(&r.ImageURL, is.URL),
	)
}

func (r *UpdateBundleRequest) ApplyTo(b *Bundle) (priceChanged bool) {
	if r.Name != nil {
		b.Name = strings.TrimSpace(*r.Name)
	}
	if r.Slug != nil {
		b.Slug = *r.Slug
	}
	if r.Description != nil {
		b.Description = *r.Description
	}
	if r.Price != nil && !r.Price.Round(2).Equal(b.Price) {
		b.Price = r.Price.Round(2)
		priceChanged = true
	}
	if len(r.CourseIDs) > 0 {
		b.CourseIDs = DedupeIDs(r.CourseIDs)
	}
	if r.ImageURL != nil {
		b.ImageURL = r.ImageURL
	}
	return priceChanged
}

type SetPublishedRequest struct {
	Published *bool `json:"published"`
}

func (r SetPublishedRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Published, validation.NotNil),
	)
}

type ModuleRequest struct {
	Title    string `json:"title"`
	Position *int   `json:"position"`
}

func (r *ModuleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Position, validation.Min(0)),
	)
}

type LessonRequest struct {
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Position        *int    `json:"position"`
	Content         string  `json:"content"`
	VideoURL        *string `json:"video_url"`
	DurationMinutes int     `json:"duration_minutes"`
	IsPreview       bool    `json:"is_preview"`
}

func (r *LessonRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Slug, slugRule),
		validation.Field(&r.Position, validation.Min(0)),
		validation.Field(&r.VideoURL, is.URL),
		validation.Field(&r.DurationMinutes, validation.Min(0)),
	)
}

func (r *LessonRequest) ApplyTo(l *Lesson) {
	l.Title = strings.TrimSpace(r.Title)
	l.Slug = strings.TrimSpace(r.Slug)
	if l.Slug == "" {
		l.Slug = utils.GenerateSlug(r.Title)
	}
	if r.Position != nil {
		l.Position = *r.Position
	}
	l.Content = r.Content
	l.VideoURL = r.VideoURL
	l.DurationMinutes = r.DurationMinutes
	l.IsPreview = r.IsPreview
}

// StripeLink is the result of provisioning a product and price.
type StripeLink struct {
	ProductID string `json:"stripe_product_id"`
	PriceID   string `json:"stripe_price_id"`
}

// DedupeIDs keeps the first occurrence of each id, preserving order.
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
