package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "coursestore-backend/internal/domains/catalog/model"
	"coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/internal/infrastructure/crm"
	"coursestore-backend/internal/shared"
)

type fakeCRM struct {
	upserted  *crm.UpsertContactInput
	created   bool
	tagged    []string
	upsertErr error
}

func (f *fakeCRM) UpsertContact(_ context.Context, in crm.UpsertContactInput) (*crm.Contact, bool, error) {
	if f.upsertErr != nil {
		return nil, false, f.upsertErr
	}
	f.upserted = &in
	return &crm.Contact{ID: "contact_1"}, f.created, nil
}

func (f *fakeCRM) AddTags(_ context.Context, _ string, tags []string) error {
	f.tagged = append(f.tagged, tags...)
	return nil
}

func (f *fakeCRM) LocationID() string { return "loc_1" }

type linkRecorder struct {
	userID    uuid.UUID
	contactID string
	location  string
}

func (l *linkRecorder) LinkCRMContact(_ context.Context, id uuid.UUID, contactID, locationID string) error {
	l.userID, l.contactID, l.location = id, contactID, locationID
	return nil
}

type listerFunc func(ctx context.Context, userID uuid.UUID) ([]*model.EnrollmentView, error)

func (f listerFunc) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.EnrollmentView, error) {
	return f(ctx, userID)
}

type finderFunc func(ctx context.Context, ids []uuid.UUID) ([]*catalog.Course, error)

func (f finderFunc) FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Course, error) {
	return f(ctx, ids)
}

func task(t *testing.T, p shared.CRMSyncEnrollmentPayload) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeCRMSyncEnrollment, body)
}

func TestCRMSync_UpsertsAndLinks(t *testing.T) {
	client := &fakeCRM{}
	links := &linkRecorder{}
	lister := listerFunc(func(context.Context, uuid.UUID) ([]*model.EnrollmentView, error) {
		return []*model.EnrollmentView{{CourseSlug: "sql"}}, nil
	})
	finder := finderFunc(func(context.Context, []uuid.UUID) ([]*catalog.Course, error) {
		return []*catalog.Course{{Slug: "go"}, {Slug: "sql"}}, nil
	})
	h := NewCRMSyncHandler(client, links, lister, finder, "field_courses")

	userID := uuid.New()
	err := h.ProcessTask(context.Background(), task(t, shared.CRMSyncEnrollmentPayload{
		UserID: userID, Email: "buyer@example.com", CourseIDs: []uuid.UUID{uuid.New()},
	}))
	require.NoError(t, err)

	require.NotNil(t, client.upserted)
	assert.Equal(t, "go,sql", client.upserted.CustomFields["field_courses"])
	assert.Equal(t, []string{PurchaseTag}, client.tagged, "existing contacts get the tag explicitly")
	assert.Equal(t, userID, links.userID)
	assert.Equal(t, "contact_1", links.contactID)
	assert.Equal(t, "loc_1", links.location)
}

func TestCRMSync_NewContactSkipsAddTags(t *testing.T) {
	client := &fakeCRM{created: true}
	lister := listerFunc(func(context.Context, uuid.UUID) ([]*model.EnrollmentView, error) { return nil, nil })
	h := NewCRMSyncHandler(client, &linkRecorder{}, lister, finderFunc(nil), "")

	require.NoError(t, h.ProcessTask(context.Background(), task(t, shared.CRMSyncEnrollmentPayload{UserID: uuid.New(), Email: "a@b.co"})))
	assert.Empty(t, client.tagged)
	assert.Nil(t, client.upserted.CustomFields)
}

func TestCRMSync_UpstreamErrorRetries(t *testing.T) {
	client := &fakeCRM{upsertErr: errors.New("503")}
	lister := listerFunc(func(context.Context, uuid.UUID) ([]*model.EnrollmentView, error) { return nil, nil })
	h := NewCRMSyncHandler(client, &linkRecorder{}, lister, finderFunc(nil), "")

	err := h.ProcessTask(context.Background(), task(t, shared.CRMSyncEnrollmentPayload{UserID: uuid.New(), Email: "a@b.co"}))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestCRMSync_BadPayloadSkipsRetry(t *testing.T) {
	h := NewCRMSyncHandler(&fakeCRM{}, &linkRecorder{}, nil, nil, "")
	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeCRMSyncEnrollment, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
