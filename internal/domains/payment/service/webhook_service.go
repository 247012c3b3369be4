package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	catalog "coursestore-backend/internal/domains/catalog/model"
	checkout "coursestore-backend/internal/domains/checkout/model"
	checkoutrepo "coursestore-backend/internal/domains/checkout/repository"
	coupon "coursestore-backend/internal/domains/coupon/model"
	enrollment "coursestore-backend/internal/domains/enrollment/model"
	"coursestore-backend/internal/domains/payment/gateway"
	"coursestore-backend/internal/domains/payment/model"
	"coursestore-backend/internal/domains/payment/repository"
	"coursestore-backend/internal/infrastructure/email"
	"coursestore-backend/internal/infrastructure/queue"
	"coursestore-backend/internal/shared"
	"coursestore-backend/internal/shared/metrics"
	"coursestore-backend/internal/shared/utils"
	"coursestore-backend/pkg/database"
)

// =====================================================
// WEBHOOK SERVICE
// =====================================================

type WebhookDeps struct {
	Verifier    gateway.WebhookVerifier
	Events      repository.WebhookEventRepository
	Purchases   repository.PurchaseRepository
	Pending     checkoutrepo.PendingCheckoutRepository
	Users       UserResolver
	Catalog     CatalogReader
	Enrollments Enroller
	Coupons     CouponRedeemer
	Tx          database.TxManager
	Queue       queue.Enqueuer
	PortalURL   string
}

type webhookService struct {
	WebhookDeps
}

func NewWebhookService(deps WebhookDeps) WebhookServiceInterface {
	return &webhookService{WebhookDeps: deps}
}

// HandleWebhook processes a processor delivery.
//
// Business Logic Flow:
// 1. Verify signature (invalid -> 400, nothing recorded)
// 2. Record the event; an already processed id is acknowledged as is
// 3. Dispatch by type
// 4. Close the event, or leave it open and return 500 for redelivery
func (s *webhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	evt, err := s.Verifier.Verify(payload, signature)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected webhook with invalid signature")
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "invalid_signature").Inc()
		return model.ErrInvalidSignature.Wrap(err)
	}

	processed, err := s.Events.Record(ctx, evt.ID, evt.Type)
	if err != nil {
		return model.ErrWebhookFailed.Wrap(err)
	}
	if processed {
		log.Info().Str("event_id", evt.ID).Str("type", evt.Type).Msg("Webhook already processed")
		metrics.WebhookEventsTotal.WithLabelValues(evt.Type, "duplicate").Inc()
		return nil
	}

	note, err := s.dispatch(ctx, evt)
	if err != nil {
		log.Error().Err(err).Str("event_id", evt.ID).Str("type", evt.Type).Msg("Webhook processing failed")
		if markErr := s.Events.MarkFailed(ctx, evt.ID, err.Error()); markErr != nil {
			log.Error().Err(markErr).Str("event_id", evt.ID).Msg("Failed to record webhook failure")
		}
		metrics.WebhookEventsTotal.WithLabelValues(evt.Type, "error").Inc()
		return model.ErrWebhookFailed.Wrap(err)
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}
	if err := s.Events.MarkProcessed(ctx, evt.ID, notePtr); err != nil {
		// Work is done and idempotent; a redelivery repeats nothing.
		log.Error().Err(err).Str("event_id", evt.ID).Msg("Failed to mark webhook processed")
	}

	metrics.WebhookEventsTotal.WithLabelValues(evt.Type, "processed").Inc()
	return nil
}

// dispatch returns a note for events acknowledged without fulfilment.
func (s *webhookService) dispatch(ctx context.Context, evt *gateway.Event) (string, error) {
	switch evt.Type {
	case gateway.EventCheckoutCompleted, gateway.EventCheckoutAsyncSucceeded:
		return s.handleCompleted(ctx, evt)

	case gateway.EventCheckoutExpired:
		if evt.Session == nil {
			return "missing session", nil
		}
		if _, err := s.Pending.MarkExpired(ctx, evt.Session.ID); err != nil {
			return "", err
		}
		return "", nil

	case gateway.EventCheckoutAsyncFailed:
		if evt.Session == nil {
			return "missing session", nil
		}
		n, err := s.Purchases.MarkFailedBySession(ctx, evt.Session.ID)
		if err != nil {
			return "", err
		}
		if _, err := s.Pending.MarkExpired(ctx, evt.Session.ID); err != nil {
			return "", err
		}
		log.Info().Str("session_id", evt.Session.ID).Int64("purchases", n).Msg("Async payment failed")
		return "", nil

	case gateway.EventPaymentIntentPaymentFailed:
		if evt.PaymentIntentID == "" {
			return "missing payment intent", nil
		}
		n, err := s.Purchases.MarkFailedByPaymentIntent(ctx, evt.PaymentIntentID)
		if err != nil {
			return "", err
		}
		log.Info().Str("payment_intent", evt.PaymentIntentID).Int64("purchases", n).Msg("Payment failed")
		return "", nil
	}

	return "ignored", nil
}

// =====================================================
// CHECKOUT COMPLETED
// =====================================================

type purchasePlan struct {
	items      []AllocationItem
	couponID   *uuid.UUID
	couponCode string
	discount   decimal.Decimal
	email      string
	total      decimal.Decimal
}

func (s *webhookService) handleCompleted(ctx context.Context, evt *gateway.Event) (string, error) {
	sess := evt.Session
	if sess == nil {
		return "missing session", nil
	}
	logger := log.With().Str("event_id", evt.ID).Str("session_id", sess.ID).Logger()

	pending, err := s.Pending.FindBySessionID(ctx, sess.ID)
	if err != nil && !errors.Is(err, checkout.ErrPendingNotFound) {
		return "", fmt.Errorf("load pending checkout: %w", err)
	}

	plan, err := s.buildPlan(ctx, sess, pending)
	if err != nil {
		return "", err
	}

	if plan.email == "" {
		logger.Error().Msg("Checkout session has no customer email")
		return "missing customer email", nil
	}
	if len(plan.items) == 0 {
		logger.Error().Msg("Checkout session has no purchasable items")
		return "no items", nil
	}

	buyer, err := s.Users.ResolveOrCreateByEmail(ctx, plan.email, "")
	if err != nil {
		return "", fmt.Errorf("resolve buyer: %w", err)
	}

	courses, err := s.memberCourses(ctx, plan.items)
	if err != nil {
		return "", err
	}
	prices := make(map[uuid.UUID]decimal.Decimal, len(courses))
	for _, c := range courses {
		prices[c.ID] = c.Price
	}

	shares := Allocate(plan.total, plan.items, prices)

	if sess.PaymentStatus == gateway.PaymentStatusUnpaid {
		if err := s.recordPending(ctx, buyer.ID, sess, shares); err != nil {
			return "", err
		}
		logger.Info().Int("courses", len(shares)).Msg("Checkout completed before payment, waiting for async success")
		return "awaiting async payment", nil
	}

	var (
		errs     []error
		enrolled []uuid.UUID
	)
	for _, share := range shares {
		if err := s.fulfil(ctx, buyer.ID, sess, share); err != nil {
			logger.Error().Err(err).Str("course_id", share.CourseID.String()).Msg("Failed to fulfil course")
			errs = append(errs, fmt.Errorf("course %s: %w", share.CourseID, err))
			continue
		}
		enrolled = append(enrolled, share.CourseID)
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}

	err = s.Tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		if plan.couponID != nil {
			redeemed, err := s.Coupons.Redeem(ctx, tx, &coupon.RedeemInput{
				CouponID:          *plan.couponID,
				CheckoutSessionID: sess.ID,
				UserID:            &buyer.ID,
				Email:             plan.email,
				DiscountAmount:    plan.discount,
			})
			if err != nil {
				return fmt.Errorf("redeem coupon: %w", err)
			}
			if redeemed {
				logger.Info().Str("coupon", plan.couponCode).Msg("Coupon redeemed")
			}
		}
		return s.Pending.MarkCompleted(ctx, tx, sess.ID)
	})
	if err != nil {
		return "", err
	}

	logger.Info().
		Str("user_id", buyer.ID.String()).
		Int("courses", len(enrolled)).
		Str("amount", plan.total.StringFixed(2)).
		Msg("Checkout fulfilled")

	s.notify(ctx, buyer.ID, plan, sess, enrolled, courses, buyer.Name())
	return "", nil
}

// fulfil grants one course and records its purchase row atomically.
func (s *webhookService) fulfil(ctx context.Context, userID uuid.UUID, sess *gateway.Session, share CourseShare) error {
	return s.Tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.Enrollments.Enroll(ctx, tx, userID, share.CourseID, enrollment.OriginPurchase); err != nil {
			return fmt.Errorf("enroll: %w", err)
		}
		if _, err := s.Purchases.Upsert(ctx, tx, purchaseRow(userID, sess, share, model.PurchaseCompleted)); err != nil {
			return fmt.Errorf("record purchase: %w", err)
		}
		return nil
	})
}

// recordPending stores unpaid purchase rows without granting access. Async
// success later completes them, a payment failure marks them failed.
func (s *webhookService) recordPending(ctx context.Context, userID uuid.UUID, sess *gateway.Session, shares []CourseShare) error {
	return s.Tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, share := range shares {
			if _, err := s.Purchases.Upsert(ctx, tx, purchaseRow(userID, sess, share, model.PurchasePending)); err != nil {
				return fmt.Errorf("record pending purchase %s: %w", share.CourseID, err)
			}
		}
		return nil
	})
}

func purchaseRow(userID uuid.UUID, sess *gateway.Session, share CourseShare, status model.PurchaseStatus) *model.StripePurchase {
	var intent *string
	if sess.PaymentIntentID != "" {
		intent = &sess.PaymentIntentID
	}
	return &model.StripePurchase{
		ID:                uuid.New(),
		UserID:            userID,
		CourseID:          share.CourseID,
		CheckoutSessionID: sess.ID,
		PaymentIntentID:   intent,
		Amount:            share.Amount,
		Currency:          strings.ToLower(sess.Currency),
		Status:            status,
	}
}

// buildPlan prefers the pending checkout snapshot, then session metadata.
func (s *webhookService) buildPlan(ctx context.Context, sess *gateway.Session, pending *checkout.PendingCheckout) (*purchasePlan, error) {
	plan := &purchasePlan{
		email: utils.NormalizeEmail(sess.Email),
		total: sess.AmountTotal,
	}

	if pending != nil {
		if plan.email == "" {
			plan.email = utils.NormalizeEmail(pending.Email)
		}
		plan.couponID = pending.CouponID
		plan.couponCode = pending.CouponCode
		plan.discount = pending.Discount
		for _, it := range pending.Items {
			plan.items = append(plan.items, AllocationItem{Price: it.Price, CourseIDs: it.CourseIDs})
		}
		return plan, nil
	}

	meta := checkout.ParseMetadata(sess.Metadata)
	plan.couponID = meta.CouponID
	plan.couponCode = meta.CouponCode
	plan.discount = meta.Discount

	if len(meta.CourseIDs) > 0 {
		courses, err := s.Catalog.FindCoursesByIDs(ctx, meta.CourseIDs)
		if err != nil {
			return nil, fmt.Errorf("load courses: %w", err)
		}
		byID := make(map[uuid.UUID]*catalog.Course, len(courses))
		for _, c := range courses {
			byID[c.ID] = c
		}
		for _, id := range meta.CourseIDs {
			c, ok := byID[id]
			if !ok {
				log.Warn().Str("course_id", id.String()).Str("session_id", sess.ID).Msg("Paid course no longer exists")
				continue
			}
			plan.items = append(plan.items, AllocationItem{Price: c.Price, CourseIDs: []uuid.UUID{c.ID}})
		}
	}

	for _, id := range meta.BundleIDs {
		b, err := s.Catalog.GetBundleByID(ctx, id)
		if errors.Is(err, catalog.ErrBundleNotFound) {
			log.Warn().Str("bundle_id", id.String()).Str("session_id", sess.ID).Msg("Paid bundle no longer exists")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load bundle: %w", err)
		}
		plan.items = append(plan.items, AllocationItem{Price: b.Price, CourseIDs: b.CourseIDs})
	}

	return plan, nil
}

func (s *webhookService) memberCourses(ctx context.Context, items []AllocationItem) ([]*catalog.Course, error) {
	var ids []uuid.UUID
	for _, it := range items {
		ids = append(ids, it.CourseIDs...)
	}
	ids = catalog.DedupeIDs(ids)

	courses, err := s.Catalog.FindCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	return courses, nil
}

// =====================================================
// NOTIFICATIONS
// =====================================================

// notify queues the CRM sync and the confirmation email. Failures are
// logged only; the purchase is already complete.
func (s *webhookService) notify(
	ctx context.Context,
	userID uuid.UUID,
	plan *purchasePlan,
	sess *gateway.Session,
	enrolled []uuid.UUID,
	courses []*catalog.Course,
	name string,
) {
	if s.Queue == nil {
		return
	}

	err := s.Queue.Enqueue(ctx, shared.TypeCRMSyncEnrollment, shared.CRMSyncEnrollmentPayload{
		UserID:    userID,
		Email:     plan.email,
		FullName:  name,
		CourseIDs: enrolled,
		SessionID: sess.ID,
	}, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(8))
	if err != nil {
		log.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to queue CRM sync")
	}

	byID := make(map[uuid.UUID]*catalog.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	links := make([]email.CourseLink, 0, len(enrolled))
	for _, id := range enrolled {
		if c, ok := byID[id]; ok {
			links = append(links, email.CourseLink{Title: c.Title, Slug: c.Slug})
		}
	}

	subject, html, err := email.RenderPurchaseConfirmation(email.PurchaseConfirmationData{
		Name:      name,
		Courses:   links,
		Amount:    plan.total.StringFixed(2),
		Currency:  strings.ToUpper(sess.Currency),
		PortalURL: s.PortalURL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to render purchase confirmation")
		return
	}

	err = s.Queue.Enqueue(ctx, shared.TypeSendEmail, shared.SendEmailPayload{
		To:       []string{plan.email},
		Subject:  subject,
		HTML:     html,
		Category: "purchase_confirmation",
	}, asynq.Queue(shared.QueueCritical), asynq.MaxRetry(5))
	if err != nil {
		log.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to queue purchase confirmation")
	}
}
