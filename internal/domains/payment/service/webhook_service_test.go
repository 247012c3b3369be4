package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "coursestore-backend/internal/domains/catalog/model"
	checkout "coursestore-backend/internal/domains/checkout/model"
	coupon "coursestore-backend/internal/domains/coupon/model"
	enrollment "coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/internal/domains/payment/gateway"
	"coursestore-backend/internal/domains/payment/model"
	user "coursestore-backend/internal/domains/user/model"
	"coursestore-backend/internal/shared"
	"coursestore-backend/internal/shared/apperr"
	"coursestore-backend/pkg/database"
)

// -------------------------------------------------------------------
// FAKES
// -------------------------------------------------------------------

type fakeVerifier struct {
	events map[string]*gateway.Event
}

func (v *fakeVerifier) Verify(payload []byte, signature string) (*gateway.Event, error) {
	if signature != "valid" {
		return nil, errors.New("signature mismatch")
	}
	evt, ok := v.events[string(payload)]
	if !ok {
		return nil, errors.New("unknown payload")
	}
	return evt, nil
}

type memEvents struct {
	processed map[string]bool
	failures  map[string]string
	notes     map[string]string
}

func newMemEvents() *memEvents {
	return &memEvents{processed: map[string]bool{}, failures: map[string]string{}, notes: map[string]string{}}
}

func (m *memEvents) Record(_ context.Context, id, _ string) (bool, error) {
	done, ok := m.processed[id]
	if !ok {
		m.processed[id] = false
	}
	return done, nil
}

func (m *memEvents) MarkProcessed(_ context.Context, id string, note *string) error {
	m.processed[id] = true
	if note != nil {
		m.notes[id] = *note
	}
	return nil
}

func (m *memEvents) MarkFailed(_ context.Context, id, reason string) error {
	m.failures[id] = reason
	return nil
}

// memPurchases applies the same status rules as the SQL: completed rows
// never change, and only pending rows can fail.
type memPurchases struct {
	rows map[string]*model.StripePurchase
}

func (m *memPurchases) Upsert(_ context.Context, _ database.Querier, p *model.StripePurchase) (bool, error) {
	key := p.CheckoutSessionID + "|" + p.CourseID.String()
	existing, exists := m.rows[key]
	if exists && existing.Status == model.PurchaseCompleted {
		return false, nil
	}
	row := *p
	if exists && row.PaymentIntentID == nil {
		row.PaymentIntentID = existing.PaymentIntentID
	}
	m.rows[key] = &row
	return !exists, nil
}

func (m *memPurchases) markFailed(match func(*model.StripePurchase) bool) int64 {
	var n int64
	for _, r := range m.rows {
		if r.Status == model.PurchasePending && match(r) {
			r.Status = model.PurchaseFailed
			n++
		}
	}
	return n
}

func (m *memPurchases) MarkFailedByPaymentIntent(_ context.Context, id string) (int64, error) {
	return m.markFailed(func(r *model.StripePurchase) bool {
		return r.PaymentIntentID != nil && *r.PaymentIntentID == id
	}), nil
}

func (m *memPurchases) MarkFailedBySession(_ context.Context, sid string) (int64, error) {
	return m.markFailed(func(r *model.StripePurchase) bool { return r.CheckoutSessionID == sid }), nil
}

func (m *memPurchases) List(context.Context, *model.PurchaseFilter) ([]*model.PurchaseView, int, error) {
	return nil, 0, nil
}

type memPending struct {
	rows    map[string]*checkout.PendingCheckout
	expired []string
}

func (m *memPending) Create(_ context.Context, p *checkout.PendingCheckout) error {
	m.rows[p.SessionID] = p
	return nil
}

func (m *memPending) FindBySessionID(_ context.Context, sid string) (*checkout.PendingCheckout, error) {
	p, ok := m.rows[sid]
	if !ok {
		return nil, checkout.ErrPendingNotFound
	}
	return p, nil
}

func (m *memPending) MarkCompleted(_ context.Context, _ database.Querier, sid string) error {
	if p, ok := m.rows[sid]; ok {
		p.Status = checkout.StatusCompleted
	}
	return nil
}

func (m *memPending) MarkExpired(_ context.Context, sid string) (bool, error) {
	m.expired = append(m.expired, sid)
	return true, nil
}

func (m *memPending) ExpireStale(context.Context, time.Time) (int64, error) { return 0, nil }

type fixedUsers struct {
	u      *user.User
	emails []string
}

func (f *fixedUsers) ResolveOrCreateByEmail(_ context.Context, email, _ string) (*user.User, error) {
	f.emails = append(f.emails, email)
	return f.u, nil
}

type fakeCatalog struct {
	courses map[uuid.UUID]*catalog.Course
	bundles map[uuid.UUID]*catalog.Bundle
}

func (f *fakeCatalog) GetBundleByID(_ context.Context, id uuid.UUID) (*catalog.Bundle, error) {
	b, ok := f.bundles[id]
	if !ok {
		return nil, catalog.ErrBundleNotFound
	}
	return b, nil
}

func (f *fakeCatalog) FindCoursesByIDs(_ context.Context, ids []uuid.UUID) ([]*catalog.Course, error) {
	var out []*catalog.Course
	for _, id := range ids {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type memEnroller struct {
	grants  map[uuid.UUID]int
	failFor map[uuid.UUID]bool
}

func (m *memEnroller) Enroll(_ context.Context, _ database.Querier, _, courseID uuid.UUID, origin enrollment.Origin) (bool, error) {
	if m.failFor[courseID] {
		return false, errors.New("connection reset")
	}
	if origin != enrollment.OriginPurchase {
		return false, errors.New("unexpected origin")
	}
	m.grants[courseID]++
	return m.grants[courseID] == 1, nil
}

type memCoupons struct {
	redemptions map[string]*coupon.RedeemInput
}

func (m *memCoupons) Redeem(_ context.Context, _ database.Querier, in *coupon.RedeemInput) (bool, error) {
	key := in.CouponID.String() + "|" + in.CheckoutSessionID
	if _, ok := m.redemptions[key]; ok {
		return false, nil
	}
	m.redemptions[key] = in
	return true, nil
}

type directTx struct{}

func (directTx) WithTransaction(_ context.Context, fn database.TxFunc) error { return fn(nil) }

type recordingQueue struct {
	mu    sync.Mutex
	tasks []string
	last  map[string]interface{}
}

func (q *recordingQueue) Enqueue(_ context.Context, taskType string, payload interface{}, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, taskType)
	if q.last == nil {
		q.last = map[string]interface{}{}
	}
	q.last[taskType] = payload
	return nil
}

// -------------------------------------------------------------------
// FIXTURE
// -------------------------------------------------------------------

type fixture struct {
	svc       WebhookServiceInterface
	verifier  *fakeVerifier
	events    *memEvents
	purchases *memPurchases
	pending   *memPending
	users     *fixedUsers
	catalog   *fakeCatalog
	enroller  *memEnroller
	coupons   *memCoupons
	queue     *recordingQueue
	buyer     *user.User
}

func newFixture() *fixture {
	name := "Ada"
	f := &fixture{
		verifier:  &fakeVerifier{events: map[string]*gateway.Event{}},
		events:    newMemEvents(),
		purchases: &memPurchases{rows: map[string]*model.StripePurchase{}},
		pending:   &memPending{rows: map[string]*checkout.PendingCheckout{}},
		catalog:   &fakeCatalog{courses: map[uuid.UUID]*catalog.Course{}, bundles: map[uuid.UUID]*catalog.Bundle{}},
		enroller:  &memEnroller{grants: map[uuid.UUID]int{}, failFor: map[uuid.UUID]bool{}},
		coupons:   &memCoupons{redemptions: map[string]*coupon.RedeemInput{}},
		queue:     &recordingQueue{},
		buyer:     &user.User{ID: uuid.New(), Email: "ada@example.com", FullName: &name, Status: user.StatusActive},
	}
	f.users = &fixedUsers{u: f.buyer}
	f.svc = NewWebhookService(WebhookDeps{
		Verifier:    f.verifier,
		Events:      f.events,
		Purchases:   f.purchases,
		Pending:     f.pending,
		Users:       f.users,
		Catalog:     f.catalog,
		Enrollments: f.enroller,
		Coupons:     f.coupons,
		Tx:          directTx{},
		Queue:       f.queue,
		PortalURL:   "https://learn.example.com/portal",
	})
	return f
}

func (f *fixture) course(price string) *catalog.Course {
	id := uuid.New()
	c := &catalog.Course{ID: id, Slug: "course-" + id.String()[:8], Title: "Course " + id.String()[:4], Price: decimal.RequireFromString(price)}
	f.catalog.courses[id] = c
	return c
}

func (f *fixture) deliver(payload string, evt *gateway.Event) error {
	f.verifier.events[payload] = evt
	return f.svc.HandleWebhook(context.Background(), []byte(payload), "valid")
}

func completed(eventID string, sess *gateway.Session) *gateway.Event {
	return &gateway.Event{ID: eventID, Type: gateway.EventCheckoutCompleted, Session: sess}
}

func paidSession(id, amount string, meta map[string]string) *gateway.Session {
	return &gateway.Session{
		ID:              id,
		Email:           "Ada@Example.com",
		PaymentStatus:   gateway.PaymentStatusPaid,
		PaymentIntentID: "pi_" + id,
		Currency:        "usd",
		AmountTotal:     decimal.RequireFromString(amount),
		Metadata:        meta,
	}
}

// -------------------------------------------------------------------
// TESTS
// -------------------------------------------------------------------

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	f := newFixture()

	err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "forged")

	assert.True(t, apperr.HasCode(err, model.ErrCodeInvalidSignature))
	assert.Empty(t, f.events.processed)
}

func TestHandleWebhook_CompletedFromPendingCheckout(t *testing.T) {
	f := newFixture()
	a := f.course("60.00")
	b := f.course("40.00")
	f.pending.rows["cs_1"] = &checkout.PendingCheckout{
		SessionID: "cs_1",
		Email:     "ada@example.com",
		Items: []checkout.PendingItem{
			{ID: a.ID, Price: a.Price, CourseIDs: []uuid.UUID{a.ID}},
			{ID: b.ID, Price: b.Price, CourseIDs: []uuid.UUID{b.ID}},
		},
		Status: checkout.StatusOpen,
	}

	err := f.deliver("evt_1", completed("evt_1", paidSession("cs_1", "100.00", nil)))
	require.NoError(t, err)

	assert.Equal(t, 1, f.enroller.grants[a.ID])
	assert.Equal(t, 1, f.enroller.grants[b.ID])
	require.Len(t, f.purchases.rows, 2)
	assert.True(t, f.purchases.rows["cs_1|"+a.ID.String()].Amount.Equal(decimal.RequireFromString("60")))
	assert.True(t, f.purchases.rows["cs_1|"+b.ID.String()].Amount.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, "pi_cs_1", *f.purchases.rows["cs_1|"+a.ID.String()].PaymentIntentID)
	assert.Equal(t, []string{"ada@example.com"}, f.users.emails)
	assert.Equal(t, checkout.StatusCompleted, f.pending.rows["cs_1"].Status)
	assert.True(t, f.events.processed["evt_1"])
	assert.ElementsMatch(t, []string{shared.TypeCRMSyncEnrollment, shared.TypeSendEmail}, f.queue.tasks)

	crmTask := f.queue.last[shared.TypeCRMSyncEnrollment].(shared.CRMSyncEnrollmentPayload)
	assert.Equal(t, f.buyer.ID, crmTask.UserID)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, crmTask.CourseIDs)

	mail := f.queue.last[shared.TypeSendEmail].(shared.SendEmailPayload)
	assert.Equal(t, []string{"ada@example.com"}, mail.To)
	assert.Contains(t, mail.HTML, a.Title)
}

func TestHandleWebhook_RedeliveryIsIdempotent(t *testing.T) {
	f := newFixture()
	c := f.course("50.00")
	meta := map[string]string{checkout.MetaCourseIDs: c.ID.String()}

	require.NoError(t, f.deliver("evt_1", completed("evt_1", paidSession("cs_2", "50.00", meta))))
	require.NoError(t, f.deliver("evt_1", completed("evt_1", paidSession("cs_2", "50.00", meta))))

	assert.Equal(t, 1, f.enroller.grants[c.ID])
	assert.Len(t, f.purchases.rows, 1)
	assert.Len(t, f.queue.tasks, 2)
}

func TestHandleWebhook_AsyncSuccessAfterCompletedDoesNotDoubleGrant(t *testing.T) {
	f := newFixture()
	c := f.course("50.00")
	pct := uuid.New()
	meta := map[string]string{
		checkout.MetaCourseIDs:      c.ID.String(),
		checkout.MetaCouponID:       pct.String(),
		checkout.MetaCouponCode:     "SAVE10",
		checkout.MetaDiscountAmount: "5.00",
	}

	require.NoError(t, f.deliver("evt_a", completed("evt_a", paidSession("cs_3", "45.00", meta))))
	second := &gateway.Event{ID: "evt_b", Type: gateway.EventCheckoutAsyncSucceeded, Session: paidSession("cs_3", "45.00", meta)}
	require.NoError(t, f.deliver("evt_b", second))

	assert.Equal(t, 2, f.enroller.grants[c.ID], "enroll is called twice but the row is idempotent")
	assert.Len(t, f.purchases.rows, 1)
	require.Len(t, f.coupons.redemptions, 1)
	r := f.coupons.redemptions[pct.String()+"|cs_3"]
	assert.True(t, r.DiscountAmount.Equal(decimal.RequireFromString("5")))
	assert.Equal(t, &f.buyer.ID, r.UserID)
}

func TestHandleWebhook_BundleFromMetadata(t *testing.T) {
	f := newFixture()
	a := f.course("60.00")
	b := f.course("40.00")
	bundle := &catalog.Bundle{ID: uuid.New(), Price: decimal.RequireFromString("90.00"), CourseIDs: []uuid.UUID{a.ID, b.ID}}
	f.catalog.bundles[bundle.ID] = bundle

	meta := map[string]string{checkout.MetaBundleIDs: bundle.ID.String()}
	require.NoError(t, f.deliver("evt_1", completed("evt_1", paidSession("cs_4", "90.00", meta))))

	require.Len(t, f.purchases.rows, 2)
	assert.True(t, f.purchases.rows["cs_4|"+a.ID.String()].Amount.Equal(decimal.RequireFromString("54")))
	assert.True(t, f.purchases.rows["cs_4|"+b.ID.String()].Amount.Equal(decimal.RequireFromString("36")))
}

func TestHandleWebhook_LegacyCourseMetadata(t *testing.T) {
	f := newFixture()
	c := f.course("25.00")

	meta := map[string]string{checkout.MetaLegacyCourseID: c.ID.String()}
	require.NoError(t, f.deliver("evt_1", completed("evt_1", paidSession("cs_5", "25.00", meta))))

	assert.Equal(t, 1, f.enroller.grants[c.ID])
}

func TestHandleWebhook_MissingEmailIsAcknowledged(t *testing.T) {
	f := newFixture()
	c := f.course("25.00")
	sess := paidSession("cs_6", "25.00", map[string]string{checkout.MetaCourseIDs: c.ID.String()})
	sess.Email = ""

	require.NoError(t, f.deliver("evt_1", completed("evt_1", sess)))

	assert.Empty(t, f.enroller.grants)
	assert.True(t, f.events.processed["evt_1"])
	assert.Equal(t, "missing customer email", f.events.notes["evt_1"])
}

func unpaidSession(id, amount string, meta map[string]string) *gateway.Session {
	sess := paidSession(id, amount, meta)
	sess.PaymentStatus = gateway.PaymentStatusUnpaid
	return sess
}

func TestHandleWebhook_UnpaidSessionRecordsPendingPurchase(t *testing.T) {
	f := newFixture()
	c := f.course("25.00")
	meta := map[string]string{checkout.MetaCourseIDs: c.ID.String()}

	require.NoError(t, f.deliver("evt_1", completed("evt_1", unpaidSession("cs_7", "25.00", meta))))

	assert.Empty(t, f.enroller.grants)
	assert.Empty(t, f.queue.tasks)
	assert.Equal(t, "awaiting async payment", f.events.notes["evt_1"])
	row := f.purchases.rows["cs_7|"+c.ID.String()]
	require.NotNil(t, row)
	assert.Equal(t, model.PurchasePending, row.Status)
	assert.Equal(t, "pi_cs_7", *row.PaymentIntentID)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("25")))
}

func TestHandleWebhook_AsyncSuccessCompletesPendingPurchase(t *testing.T) {
	f := newFixture()
	c := f.course("25.00")
	meta := map[string]string{checkout.MetaCourseIDs: c.ID.String()}

	require.NoError(t, f.deliver("evt_1", completed("evt_1", unpaidSession("cs_7", "25.00", meta))))
	ok := &gateway.Event{ID: "evt_2", Type: gateway.EventCheckoutAsyncSucceeded, Session: paidSession("cs_7", "25.00", meta)}
	require.NoError(t, f.deliver("evt_2", ok))

	assert.Equal(t, 1, f.enroller.grants[c.ID])
	require.Len(t, f.purchases.rows, 1)
	assert.Equal(t, model.PurchaseCompleted, f.purchases.rows["cs_7|"+c.ID.String()].Status)
	assert.ElementsMatch(t, []string{shared.TypeCRMSyncEnrollment, shared.TypeSendEmail}, f.queue.tasks)
}

func TestHandleWebhook_LateUnpaidDeliveryKeepsCompletedRow(t *testing.T) {
	f := newFixture()
	c := f.course("25.00")
	meta := map[string]string{checkout.MetaCourseIDs: c.ID.String()}

	ok := &gateway.Event{ID: "evt_2", Type: gateway.EventCheckoutAsyncSucceeded, Session: paidSession("cs_7", "25.00", meta)}
	require.NoError(t, f.deliver("evt_2", ok))
	require.NoError(t, f.deliver("evt_1", completed("evt_1", unpaidSession("cs_7", "25.00", meta))))

	assert.Equal(t, model.PurchaseCompleted, f.purchases.rows["cs_7|"+c.ID.String()].Status)
}

func TestHandleWebhook_PartialFailureIsRetried(t *testing.T) {
	f := newFixture()
	a := f.course("30.00")
	b := f.course("20.00")
	meta := map[string]string{checkout.MetaCourseIDs: a.ID.String() + "," + b.ID.String()}
	f.enroller.failFor[b.ID] = true

	err := f.deliver("evt_1", completed("evt_1", paidSession("cs_8", "50.00", meta)))

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, model.ErrCodeWebhookFailed))
	assert.False(t, f.events.processed["evt_1"])
	assert.Contains(t, f.events.failures["evt_1"], b.ID.String())
	assert.Equal(t, 1, f.enroller.grants[a.ID])
	assert.Empty(t, f.queue.tasks)

	delete(f.enroller.failFor, b.ID)
	require.NoError(t, f.deliver("evt_1", completed("evt_1", paidSession("cs_8", "50.00", meta))))

	assert.Equal(t, 1, f.enroller.grants[b.ID])
	assert.Len(t, f.purchases.rows, 2)
	assert.True(t, f.events.processed["evt_1"])
}

func TestHandleWebhook_PaymentFailedMarksPendingRows(t *testing.T) {
	f := newFixture()
	a := f.course("30.00")
	b := f.course("20.00")
	meta := map[string]string{checkout.MetaCourseIDs: a.ID.String() + "," + b.ID.String()}

	require.NoError(t, f.deliver("evt_1", completed("evt_1", unpaidSession("cs_9", "50.00", meta))))
	evt := &gateway.Event{ID: "evt_f", Type: gateway.EventPaymentIntentPaymentFailed, PaymentIntentID: "pi_cs_9"}
	require.NoError(t, f.deliver("evt_f", evt))

	assert.Equal(t, model.PurchaseFailed, f.purchases.rows["cs_9|"+a.ID.String()].Status)
	assert.Equal(t, model.PurchaseFailed, f.purchases.rows["cs_9|"+b.ID.String()].Status)
	assert.Empty(t, f.enroller.grants)
	assert.True(t, f.events.processed["evt_f"])
}

func TestHandleWebhook_PaymentFailedLeavesCompletedRows(t *testing.T) {
	f := newFixture()
	c := f.course("25.00")
	meta := map[string]string{checkout.MetaCourseIDs: c.ID.String()}

	require.NoError(t, f.deliver("evt_1", completed("evt_1", paidSession("cs_10", "25.00", meta))))
	evt := &gateway.Event{ID: "evt_f", Type: gateway.EventPaymentIntentPaymentFailed, PaymentIntentID: "pi_cs_10"}
	require.NoError(t, f.deliver("evt_f", evt))

	assert.Equal(t, model.PurchaseCompleted, f.purchases.rows["cs_10|"+c.ID.String()].Status)
}

func TestHandleWebhook_AsyncPaymentFailed(t *testing.T) {
	f := newFixture()
	c := f.course("25.00")
	meta := map[string]string{checkout.MetaCourseIDs: c.ID.String()}

	require.NoError(t, f.deliver("evt_1", completed("evt_1", unpaidSession("cs_11", "25.00", meta))))
	evt := &gateway.Event{ID: "evt_af", Type: gateway.EventCheckoutAsyncFailed, Session: unpaidSession("cs_11", "25.00", meta)}
	require.NoError(t, f.deliver("evt_af", evt))

	assert.Equal(t, model.PurchaseFailed, f.purchases.rows["cs_11|"+c.ID.String()].Status)
	assert.Equal(t, []string{"cs_11"}, f.pending.expired)
	assert.Empty(t, f.enroller.grants)
	assert.Empty(t, f.events.notes["evt_af"])
}

func TestHandleWebhook_SessionExpired(t *testing.T) {
	f := newFixture()

	evt := &gateway.Event{ID: "evt_x", Type: gateway.EventCheckoutExpired, Session: &gateway.Session{ID: "cs_9"}}
	require.NoError(t, f.deliver("evt_x", evt))

	assert.Equal(t, []string{"cs_9"}, f.pending.expired)
}

func TestHandleWebhook_UnknownTypeIgnored(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.deliver("evt_u", &gateway.Event{ID: "evt_u", Type: "customer.created"}))

	assert.True(t, f.events.processed["evt_u"])
	assert.Equal(t, "ignored", f.events.notes["evt_u"])
}
