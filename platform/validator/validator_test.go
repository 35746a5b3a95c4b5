package validator

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name   string `validate:"required"`
	Email  string `validate:"required,email"`
	Status string `validate:"omitempty,leadstatus"`
}

func TestStructValid(t *testing.T) {
	val := New()
	err := val.Struct(sampleRequest{Name: "Ana", Email: "ana@example.com", Status: "nuevo"})
	if err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
}

func TestFieldMessages(t *testing.T) {
	val := New()
	err := val.Struct(sampleRequest{Email: "not-an-email", Status: "bogus"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msgs := val.FieldMessages(err)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d: %v", len(msgs), msgs)
	}
	joined := strings.Join(msgs, "; ")
	if !strings.Contains(joined, "Name is required") {
		t.Errorf("missing required message: %v", msgs)
	}
	if !strings.Contains(joined, "Email must be a valid email address") {
		t.Errorf("missing email message: %v", msgs)
	}
	if !strings.Contains(joined, "Status must be one of:") {
		t.Errorf("missing enum message: %v", msgs)
	}
}

func TestFieldMessagesNonValidationError(t *testing.T) {
	val := New()
	msgs := val.FieldMessages(errPlain{})
	if len(msgs) != 1 || msgs[0] != "plain failure" {
		t.Fatalf("expected passthrough message, got %v", msgs)
	}
}

type errPlain struct{}

func (errPlain) Error() string { return "plain failure" }
