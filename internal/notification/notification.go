// Package notification subscribes to domain events and turns them into
// outbound mail. It inverts the dependency: the leads module publishes
// events without knowing anything about email providers or templates.
package notification

import (
	"context"

	"retiros_backend/internal/email"
	"retiros_backend/internal/events"
	"retiros_backend/platform/config"
	"retiros_backend/platform/logger"
)

// Module wires domain events to the outbound mail sender. It is not
// HTTP-facing and registers no routes.
type Module struct {
	sender email.Sender
	cfg    config.NotificationConfig
	log    *logger.Logger
}

// New creates the notification module.
func New(sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{sender: sender, cfg: cfg, log: log}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(m.handleLeadCreated))
	bus.Subscribe(events.TokensGenerated{}.EventName(), events.HandlerFunc(m.handleTokensGenerated))
}

func (m *Module) handleLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok {
		return nil
	}

	recipient := m.cfg.GetAdminNotifyEmail()
	if recipient == "" {
		m.log.Warn("no admin notification inbox configured, skipping lead notification", "leadId", e.LeadID)
		return nil
	}

	if err := m.sender.SendLeadNotification(ctx, recipient, e.Name, e.Email, e.RetreatTitle, e.Interest); err != nil {
		return err
	}
	m.log.Info("lead notification sent", "leadId", e.LeadID, "retreat", e.RetreatTitle)
	return nil
}

// handleTokensGenerated only records the batch outcome; the per-recipient
// invites were already sent synchronously by the tokens service so that
// delivery failures can be reported back to the admin.
func (m *Module) handleTokensGenerated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.TokensGenerated)
	if !ok {
		return nil
	}
	m.log.Info("testimonial token batch generated",
		"retreat", e.RetreatTitle,
		"count", e.Count,
		"emailsSent", e.EmailsSent,
		"emailsFailed", e.EmailsFailed,
	)
	return nil
}
