package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	gomail "github.com/wneessen/go-mail"

	"retiros_backend/platform/config"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host            string
	port            int
	username        string
	password        string
	fromName        string
	fromEmail       string
	frontendBaseURL string
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:            cfg.GetSMTPHost(),
		port:            cfg.GetSMTPPort(),
		username:        cfg.GetSMTPUsername(),
		password:        cfg.GetSMTPPassword(),
		fromName:        cfg.GetEmailFromName(),
		fromEmail:       cfg.GetEmailFromAddress(),
		frontendBaseURL: strings.TrimRight(cfg.GetFrontendBaseURL(), "/"),
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendTestimonialInvite mails a participant their single-use testimonial
// link, with a QR code of the same URL attached for phone users.
func (s *SMTPSender) SendTestimonialInvite(ctx context.Context, toEmail, participantName, retreatTitle, token string, expiresAt time.Time) error {
	submitURL := fmt.Sprintf("%s/testimonios?token=%s", s.frontendBaseURL, url.QueryEscape(token))

	content, err := renderEmailTemplate("testimonial_invite.html", testimonialInviteEmailData{
		baseEmailData: baseEmailData{
			Title:    "Compartí tu experiencia",
			Heading:  "Compartí tu experiencia",
			CTALabel: "Dejar mi testimonio",
			CTAURL:   submitURL,
		},
		ParticipantName: participantName,
		RetreatTitle:    retreatTitle,
		ExpiresAt:       expiresAt.Format("02/01/2006"),
	})
	if err != nil {
		return err
	}

	var attachments []Attachment
	if qr, err := qrcode.Encode(submitURL, qrcode.Medium, 256); err == nil {
		attachments = append(attachments, Attachment{
			Content:  qr,
			FileName: "testimonio-qr.png",
			MIMEType: "image/png",
		})
	}

	subject := fmt.Sprintf(subjectTestimonialInviteFmt, retreatTitle)
	return s.send(ctx, toEmail, subject, content, attachments...)
}

// SendLeadNotification informs the admin about a new inquiry.
func (s *SMTPSender) SendLeadNotification(ctx context.Context, toEmail, leadName, leadEmail, retreatTitle, interest string) error {
	content, err := renderEmailTemplate("lead_notification.html", leadNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Nueva consulta",
			Heading: "Nueva consulta",
		},
		LeadName:     leadName,
		LeadEmail:    leadEmail,
		RetreatTitle: retreatTitle,
		Interest:     interest,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf(subjectLeadNotificationFmt, retreatTitle)
	return s.send(ctx, toEmail, subject, content)
}

// SendCustomEmail delivers an ad-hoc HTML message.
func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
