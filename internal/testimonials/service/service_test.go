package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/events"
	"retiros_backend/internal/testimonials/repository"
	"retiros_backend/internal/testimonials/transport"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
)

var testNow = time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

type fakeToken struct {
	email     string
	name      string
	retreatID uuid.UUID
	isUsed    bool
	expiresAt time.Time
}

type fakeRepo struct {
	mu           sync.Mutex
	tokens       map[string]*fakeToken
	testimonials map[uuid.UUID]repository.Testimonial
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tokens:       make(map[string]*fakeToken),
		testimonials: make(map[uuid.UUID]repository.Testimonial),
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.testimonials[id]
	if !ok {
		return repository.Testimonial{}, apperr.NotFound("testimonial not found")
	}
	return t, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Testimonial, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.Testimonial, 0, len(f.testimonials))
	for _, t := range f.testimonials {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListApproved(_ context.Context, retreatID *uuid.UUID) ([]repository.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Testimonial
	for _, t := range f.testimonials {
		if !t.IsApproved {
			continue
		}
		if retreatID != nil && (t.RetreatID == nil || *t.RetreatID != *retreatID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRepo) ListFeatured(_ context.Context, limit int) ([]repository.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Testimonial
	for _, t := range f.testimonials {
		if t.IsApproved && t.IsFeatured && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := repository.Testimonial{
		ID:         uuid.New(),
		Name:       params.Name,
		Email:      params.Email,
		Photo:      params.Photo,
		RetreatID:  params.RetreatID,
		Rating:     params.Rating,
		Comment:    params.Comment,
		IsApproved: params.IsApproved,
		IsFeatured: params.IsFeatured,
		ApprovedAt: params.ApprovedAt,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
	f.testimonials[t.ID] = t
	return t, nil
}

func (f *fakeRepo) CreateFromToken(_ context.Context, token string, now time.Time, params repository.SubmitParams) (repository.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok, ok := f.tokens[token]
	if !ok || tok.isUsed || !tok.expiresAt.After(now) {
		return repository.Testimonial{}, apperr.NotFound("token not found or expired")
	}
	tok.isUsed = true

	retreatID := tok.retreatID
	t := repository.Testimonial{
		ID:        uuid.New(),
		Name:      tok.name,
		Email:     tok.email,
		Photo:     params.Photo,
		RetreatID: &retreatID,
		Rating:    params.Rating,
		Comment:   params.Comment,
		Token:     token,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	f.testimonials[t.ID] = t
	return t, nil
}

func (f *fakeRepo) Update(_ context.Context, t repository.Testimonial) (repository.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.testimonials[t.ID]; !ok {
		return repository.Testimonial{}, apperr.NotFound("testimonial not found")
	}
	f.testimonials[t.ID] = t
	return t, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.testimonials[id]; !ok {
		return apperr.NotFound("testimonial not found")
	}
	delete(f.testimonials, id)
	return nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService(repo *fakeRepo) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := New(repo, clock.Fixed{Instant: testNow}, bus, logger.New("test"))
	return svc, bus
}

func seedToken(repo *fakeRepo, tokenStr string) uuid.UUID {
	retreatID := uuid.New()
	repo.tokens[tokenStr] = &fakeToken{
		email:     "ana@example.com",
		name:      "Ana",
		retreatID: retreatID,
		expiresAt: testNow.Add(time.Hour),
	}
	return retreatID
}

func TestSubmitUsesTokenIdentity(t *testing.T) {
	repo := newFakeRepo()
	retreatID := seedToken(repo, "valid-token")
	svc, bus := newTestService(repo)

	result, err := svc.Submit(context.Background(), transport.SubmitTestimonialRequest{
		Token:   "valid-token",
		Rating:  5,
		Comment: "  Una experiencia transformadora.  ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Name != "Ana" {
		t.Fatalf("expected identity from token, got %q", result.Name)
	}
	if result.RetreatID == nil || *result.RetreatID != retreatID {
		t.Fatalf("expected retreat binding from token, got %v", result.RetreatID)
	}
	if result.Comment != "Una experiencia transformadora." {
		t.Fatalf("expected trimmed comment, got %q", result.Comment)
	}
	if result.IsApproved {
		t.Fatal("redeemed testimonials must await moderation")
	}
	if len(bus.events) != 1 || bus.events[0].EventName() != "testimonials.submitted" {
		t.Fatalf("expected one testimonials.submitted event, got %v", bus.events)
	}
}

func TestSubmitRedeemsExactlyOnce(t *testing.T) {
	repo := newFakeRepo()
	seedToken(repo, "valid-token")
	svc, _ := newTestService(repo)

	req := transport.SubmitTestimonialRequest{Token: "valid-token", Rating: 4, Comment: "Hermoso lugar."}
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(context.Background(), req)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected second redemption to fail, got %v", err)
	}
	if len(repo.testimonials) != 1 {
		t.Fatalf("expected exactly one testimonial, got %d", len(repo.testimonials))
	}
}

func TestSubmitRejectsExpiredToken(t *testing.T) {
	repo := newFakeRepo()
	seedToken(repo, "stale-token")
	repo.tokens["stale-token"].expiresAt = testNow.Add(-time.Minute)
	svc, _ := newTestService(repo)

	_, err := svc.Submit(context.Background(), transport.SubmitTestimonialRequest{
		Token: "stale-token", Rating: 5, Comment: "Tarde pero seguro.",
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound for expired token, got %v", err)
	}
}

func TestCreatePreApprovedStampsApprovedAt(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	result, err := svc.Create(context.Background(), transport.CreateTestimonialRequest{
		Name: "Bruno", Rating: 5, Comment: "Excelente.", IsApproved: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.ApprovedAt == nil || !result.ApprovedAt.Equal(testNow) {
		t.Fatalf("expected approvedAt stamped at %v, got %v", testNow, result.ApprovedAt)
	}
}

func TestUpdateStampsApprovedAtOnce(t *testing.T) {
	repo := newFakeRepo()
	seedToken(repo, "valid-token")
	svc, _ := newTestService(repo)

	created, err := svc.Submit(context.Background(), transport.SubmitTestimonialRequest{
		Token: "valid-token", Rating: 5, Comment: "Genial.",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	approve := true
	first, err := svc.Update(context.Background(), created.ID, transport.UpdateTestimonialRequest{IsApproved: &approve})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if first.ApprovedAt == nil || !first.ApprovedAt.Equal(testNow) {
		t.Fatalf("expected approvedAt stamped, got %v", first.ApprovedAt)
	}

	// Unapprove then reapprove: the original stamp survives.
	unapprove := false
	if _, err := svc.Update(context.Background(), created.ID, transport.UpdateTestimonialRequest{IsApproved: &unapprove}); err != nil {
		t.Fatalf("unapprove: %v", err)
	}
	again, err := svc.Update(context.Background(), created.ID, transport.UpdateTestimonialRequest{IsApproved: &approve})
	if err != nil {
		t.Fatalf("reapprove: %v", err)
	}
	if again.ApprovedAt == nil || !again.ApprovedAt.Equal(*first.ApprovedAt) {
		t.Fatalf("expected original approvedAt preserved, got %v", again.ApprovedAt)
	}
}
