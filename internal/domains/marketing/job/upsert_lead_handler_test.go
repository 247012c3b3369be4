package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursestore-backend/internal/infrastructure/crm"
	"coursestore-backend/internal/shared"
)

type fakeCRM struct {
	created bool
	err     error
	in      crm.UpsertContactInput
	tagged  []string
}

func (f *fakeCRM) UpsertContact(_ context.Context, in crm.UpsertContactInput) (*crm.Contact, bool, error) {
	f.in = in
	if f.err != nil {
		return nil, false, f.err
	}
	return &crm.Contact{ID: "c_1"}, f.created, nil
}

func (f *fakeCRM) AddTags(_ context.Context, _ string, tags []string) error {
	f.tagged = tags
	return nil
}

func leadTask(t *testing.T, p shared.CRMUpsertLeadPayload) *asynq.Task {
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeCRMUpsertLead, raw)
}

func TestUpsertLead_ExistingContactGetsTagged(t *testing.T) {
	client := &fakeCRM{}
	task := leadTask(t, shared.CRMUpsertLeadPayload{Name: "Ada", Email: "ada@example.com", Website: "https://ada.dev", Tags: []string{"audit-request"}})

	require.NoError(t, NewUpsertLeadHandler(client).ProcessTask(context.Background(), task))

	assert.Equal(t, "https://ada.dev", client.in.Website)
	assert.Equal(t, []string{"audit-request"}, client.tagged)
}

func TestUpsertLead_NewContactSkipsAddTags(t *testing.T) {
	client := &fakeCRM{created: true}
	task := leadTask(t, shared.CRMUpsertLeadPayload{Email: "ada@example.com", Tags: []string{"audit-request"}})

	require.NoError(t, NewUpsertLeadHandler(client).ProcessTask(context.Background(), task))
	assert.Nil(t, client.tagged)
}

func TestUpsertLead_Errors(t *testing.T) {
	bad := asynq.NewTask(shared.TypeCRMUpsertLead, []byte("{"))
	err := NewUpsertLeadHandler(&fakeCRM{}).ProcessTask(context.Background(), bad)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	failing := &fakeCRM{err: errors.New("502")}
	err = NewUpsertLeadHandler(failing).ProcessTask(context.Background(), leadTask(t, shared.CRMUpsertLeadPayload{Email: "a@b.io"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
