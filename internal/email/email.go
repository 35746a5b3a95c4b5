// Package email delivers transactional mail for the site: testimonial
// invitations to past participants and inquiry notifications to the admin.
package email

import (
	"context"
	"time"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte
	FileName string
	MIMEType string
}

// Sender is the outbound mail interface. The tokens module consumes
// SendTestimonialInvite as its notifier.
type Sender interface {
	SendTestimonialInvite(ctx context.Context, toEmail, participantName, retreatTitle, token string, expiresAt time.Time) error
	SendLeadNotification(ctx context.Context, toEmail, leadName, leadEmail, retreatTitle, interest string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender is used when no SMTP server is configured; every send succeeds
// silently so token generation still works in development.
type NoopSender struct{}

func (NoopSender) SendTestimonialInvite(ctx context.Context, toEmail, participantName, retreatTitle, token string, expiresAt time.Time) error {
	return nil
}

func (NoopSender) SendLeadNotification(ctx context.Context, toEmail, leadName, leadEmail, retreatTitle, interest string) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}
