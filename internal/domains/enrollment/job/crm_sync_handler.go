package job

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	catalog "coursestore-backend/internal/domains/catalog/model"
	"coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/internal/infrastructure/crm"
	"coursestore-backend/internal/shared"
)

const PurchaseTag = "course-purchase"

// ContactUpserter is the CRM surface the sync needs.
type ContactUpserter interface {
	UpsertContact(ctx context.Context, in crm.UpsertContactInput) (*crm.Contact, bool, error)
	AddTags(ctx context.Context, contactID string, tags []string) error
	LocationID() string
}

type CRMLinker interface {
	LinkCRMContact(ctx context.Context, id uuid.UUID, contactID, locationID string) error
}

type EnrollmentLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.EnrollmentView, error)
}

type CourseFinder interface {
	FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Course, error)
}

// CRMSyncHandler mirrors a buyer's enrollments onto their CRM contact.
type CRMSyncHandler struct {
	crm         ContactUpserter
	users       CRMLinker
	enrollments EnrollmentLister
	courses     CourseFinder
	// coursesFieldID is the custom field listing enrolled course slugs.
	coursesFieldID string
}

func NewCRMSyncHandler(
	client ContactUpserter,
	users CRMLinker,
	enrollments EnrollmentLister,
	courses CourseFinder,
	coursesFieldID string,
) *CRMSyncHandler {
	return &CRMSyncHandler{
		crm:            client,
		users:          users,
		enrollments:    enrollments,
		courses:        courses,
		coursesFieldID: coursesFieldID,
	}
}

func (h *CRMSyncHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.CRMSyncEnrollmentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal CRM sync payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	slugs, err := h.courseSlugs(ctx, payload)
	if err != nil {
		return err
	}

	in := crm.UpsertContactInput{
		Email:  payload.Email,
		Name:   payload.FullName,
		Source: "course checkout",
		Tags:   []string{PurchaseTag},
	}
	if h.coursesFieldID != "" && len(slugs) > 0 {
		in.CustomFields = map[string]string{h.coursesFieldID: strings.Join(slugs, ",")}
	}

	contact, created, err := h.crm.UpsertContact(ctx, in)
	if err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("CRM contact upsert failed")
		return fmt.Errorf("upsert contact: %w", err)
	}

	// Upsert merges tags on new contacts only.
	if !created {
		if err := h.crm.AddTags(ctx, contact.ID, []string{PurchaseTag}); err != nil {
			return fmt.Errorf("add tags: %w", err)
		}
	}

	if err := h.users.LinkCRMContact(ctx, payload.UserID, contact.ID, h.crm.LocationID()); err != nil {
		return fmt.Errorf("link contact: %w", err)
	}

	log.Info().
		Str("user_id", payload.UserID.String()).
		Str("contact_id", contact.ID).
		Int("courses", len(slugs)).
		Msg("CRM contact synced")
	return nil
}

// courseSlugs lists every course the user is enrolled in, plus the ones in
// this payload in case the enrollment read lags.
func (h *CRMSyncHandler) courseSlugs(ctx context.Context, payload shared.CRMSyncEnrollmentPayload) ([]string, error) {
	set := map[string]struct{}{}

	views, err := h.enrollments.ListForUser(ctx, payload.UserID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	for _, v := range views {
		set[v.CourseSlug] = struct{}{}
	}

	if len(payload.CourseIDs) > 0 {
		courses, err := h.courses.FindCoursesByIDs(ctx, payload.CourseIDs)
		if err != nil {
			return nil, fmt.Errorf("find courses: %w", err)
		}
		for _, c := range courses {
			set[c.Slug] = struct{}{}
		}
	}

	slugs := make([]string, 0, len(set))
	for s := range set {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs, nil
}
