package notification

import (
	"context"
	"testing"
	"time"

	"retiros_backend/internal/events"
	"retiros_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct {
	adminEmail string
}

func (c testNotificationConfig) GetAdminNotifyEmail() string { return c.adminEmail }

type testSender struct {
	leadNotificationCalls int
	lastRecipient         string
	lastLeadName          string
	lastRetreatTitle      string
}

func (s *testSender) SendTestimonialInvite(context.Context, string, string, string, string, time.Time) error {
	return nil
}

func (s *testSender) SendLeadNotification(_ context.Context, toEmail, leadName, _, retreatTitle, _ string) error {
	s.leadNotificationCalls++
	s.lastRecipient = toEmail
	s.lastLeadName = leadName
	s.lastRetreatTitle = retreatTitle
	return nil
}

func (s *testSender) SendCustomEmail(context.Context, string, string, string) error { return nil }

func TestLeadCreatedSendsAdminNotification(t *testing.T) {
	sender := &testSender{}
	module := New(sender, testNotificationConfig{adminEmail: "admin@example.com"}, logger.New("test"))

	bus := events.NewInMemoryBus(logger.New("test"))
	module.RegisterHandlers(bus)

	event := events.LeadCreated{
		LeadID:       uuid.New(),
		RetreatID:    uuid.New(),
		RetreatTitle: "Retiro de Yoga",
		Name:         "Ana",
		Email:        "ana@example.com",
		Interest:     "reservar",
	}
	if err := bus.PublishSync(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if sender.leadNotificationCalls != 1 {
		t.Fatalf("expected 1 notification, got %d", sender.leadNotificationCalls)
	}
	if sender.lastRecipient != "admin@example.com" {
		t.Fatalf("unexpected recipient %q", sender.lastRecipient)
	}
	if sender.lastLeadName != "Ana" || sender.lastRetreatTitle != "Retiro de Yoga" {
		t.Fatalf("unexpected notification payload: %q / %q", sender.lastLeadName, sender.lastRetreatTitle)
	}
}

func TestLeadCreatedSkipsWithoutRecipient(t *testing.T) {
	sender := &testSender{}
	module := New(sender, testNotificationConfig{}, logger.New("test"))

	bus := events.NewInMemoryBus(logger.New("test"))
	module.RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), events.LeadCreated{Name: "Ana"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if sender.leadNotificationCalls != 0 {
		t.Fatalf("expected no notification, got %d", sender.leadNotificationCalls)
	}
}
