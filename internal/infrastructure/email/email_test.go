package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAuditRequest_EscapesInput(t *testing.T) {
	subject, html, err := RenderAuditRequest(AuditRequestData{
		Name:    "Jo",
		Email:   "jo@example.com",
		Message: "<script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Audit request from Jo", subject)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderPurchaseConfirmation_ListsCourses(t *testing.T) {
	_, html, err := RenderPurchaseConfirmation(PurchaseConfirmationData{
		Courses:   []CourseLink{{Title: "SEO Basics", Slug: "seo-basics"}, {Title: "Ads 101", Slug: "ads-101"}},
		Amount:    "120.00",
		Currency:  "USD",
		PortalURL: "https://courses.example.com",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "https://courses.example.com/learn/seo-basics")
	assert.Contains(t, html, "Ads 101")
	assert.Contains(t, html, "120.00 USD")
}

func TestSMTPService_BuildsMessage(t *testing.T) {
	var gotFrom string
	var gotTo []string
	var gotBody string

	svc := &smtpEmailService{
		smtpAddr: "localhost:1025",
		smtpFrom: "Course Store <noreply@coursestore.dev>",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotFrom, gotTo, gotBody = from, to, string(msg)
			return nil
		},
	}

	err := svc.Send(context.Background(), &Message{To: []string{"a@example.com"}, Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)

	assert.Equal(t, "noreply@coursestore.dev", gotFrom)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Contains(t, gotBody, "Subject: Hi\r\n")
	assert.Contains(t, gotBody, "<p>x</p>")
}

func TestSend_RejectsEmptyRecipients(t *testing.T) {
	svc := NewDevEmailService("localhost", "1025", "")
	assert.Error(t, svc.Send(context.Background(), &Message{Subject: "x"}))
}

type fakeResend struct {
	req *resend.SendEmailRequest
	err error
}

func (f *fakeResend) SendWithContext(_ context.Context, req *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "msg_1"}, nil
}

func TestResendService_Send(t *testing.T) {
	fake := &fakeResend{}
	svc := &resendEmailService{emails: fake, from: "Course Store <hi@example.com>"}

	err := svc.Send(context.Background(), &Message{To: []string{"b@example.com"}, Subject: "S", HTML: "<b>h</b>", ReplyTo: "lead@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "Course Store <hi@example.com>", fake.req.From)
	assert.Equal(t, []string{"b@example.com"}, fake.req.To)
	assert.Equal(t, "<b>h</b>", fake.req.Html)
	assert.Equal(t, "lead@example.com", fake.req.ReplyTo)

	fake.err = errors.New("rate limited")
	assert.ErrorContains(t, svc.Send(context.Background(), &Message{To: []string{"b@example.com"}, Subject: "S"}), "rate limited")
}

func TestNewEmailService_UnknownProvider(t *testing.T) {
	_, err := NewEmailService(Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}
