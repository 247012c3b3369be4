package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Course is never hard-deleted; Published is its soft state.
type Course struct {
	ID              uuid.UUID       `json:"id"`
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Published       bool            `json:"published"`
	StripeProductID *string         `json:"stripe_product_id,omitempty"`
	StripePriceID   *string         `json:"stripe_price_id,omitempty"`
	Category        string          `json:"category"`
	PreviewLessonID *uuid.UUID      `json:"preview_lesson_id,omitempty"`
	ImageURL        *string         `json:"image_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Purchasable reports whether checkout can sell the course.
func (c *Course) Purchasable() bool {
	return c.Published && c.StripePriceID != nil && *c.StripePriceID != ""
}

// Bundle maps to course_bundles. Its price is set independently of its courses.
type Bundle struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	CourseIDs       []uuid.UUID     `json:"course_ids"`
	StripeProductID *string         `json:"stripe_product_id,omitempty"`
	StripePriceID   *string         `json:"stripe_price_id,omitempty"`
	Published       bool            `json:"published"`
	ImageURL        *string         `json:"image_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (b *Bundle) Purchasable() bool {
	return b.Published && b.StripePriceID != nil && *b.StripePriceID != ""
}

// BundleView is a bundle with its member courses in bundle order.
type BundleView struct {
	*Bundle
	Courses       []*Course       `json:"courses"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Savings       decimal.Decimal `json:"savings"`
}

// NewBundleView orders courses by bundle.CourseIDs and derives savings,
// clamped at zero when the bundle costs more than its parts.
func NewBundleView(b *Bundle, courses []*Course) *BundleView {
	byID := make(map[uuid.UUID]*Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	ordered := make([]*Course, 0, len(b.CourseIDs))
	original := decimal.Zero
	for _, id := range b.CourseIDs {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
			original = original.Add(c.Price)
		}
	}

	savings := original.Sub(b.Price)
	if savings.IsNegative() {
		savings = decimal.Zero
	}

	return &BundleView{Bundle: b, Courses: ordered, OriginalPrice: original, Savings: savings}
}

type Module struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Lesson struct {
	ID              uuid.UUID `json:"id"`
	ModuleID        uuid.UUID `json:"module_id"`
	CourseID        uuid.UUID `json:"course_id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Position        int       `json:"position"`
	Content         string    `json:"content,omitempty"`
	VideoURL        *string   `json:"video_url,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	IsPreview       bool      `json:"is_preview"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LessonSummary is the public outline entry; it never carries content.
type LessonSummary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Position        int       `json:"position"`
	DurationMinutes int       `json:"duration_minutes"`
	IsPreview       bool      `json:"is_preview"`
}

type ModuleOutline struct {
	Module
	Lessons []LessonSummary `json:"lessons"`
}

type Curriculum struct {
	CourseID uuid.UUID       `json:"course_id"`
	Modules  []ModuleOutline `json:"modules"`
}

// BuildCurriculum groups lessons under their modules, both in position order
// as returned by the repository.
func BuildCurriculum(course *Course, modules []*Module, lessons []*Lesson) *Curriculum {
	byModule := make(map[uuid.UUID][]LessonSummary, len(modules))
	for _, l := range lessons {
		preview := l.IsPreview || (course.PreviewLessonID != nil && *course.PreviewLessonID == l.ID)
		byModule[l.ModuleID] = append(byModule[l.ModuleID], LessonSummary{
			ID:              l.ID,
			Title:           l.Title,
			Slug:            l.Slug,
			Position:        l.Position,
			DurationMinutes: l.DurationMinutes,
			IsPreview:       preview,
		})
	}

	out := &Curriculum{CourseID: course.ID, Modules: make([]ModuleOutline, 0, len(modules))}
	for _, m := range modules {
		lessons := byModule[m.ID]
		if lessons == nil {
			lessons = []LessonSummary{}
		}
		out.Modules = append(out.Modules, ModuleOutline{Module: *m, Lessons: lessons})
	}
	return out
}

type CourseFilter struct {
	Category      string
	PublishedOnly bool
	Search        string
	Page          int
	Limit         int
}
