package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/events"
	retreatdomain "retiros_backend/internal/retreats/domain"
	"retiros_backend/internal/tokens/repository"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
)

var testNow = time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]repository.Token
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tokens: make(map[uuid.UUID]repository.Token)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok, ok := f.tokens[id]
	if !ok {
		return repository.Token{}, apperr.NotFound("token not found")
	}
	return tok, nil
}

func (f *fakeRepo) GetValidByToken(_ context.Context, tokenStr string, now time.Time) (repository.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tok := range f.tokens {
		if tok.Token == tokenStr && tok.IsValid(now) {
			return tok, nil
		}
	}
	return repository.Token{}, apperr.NotFound("token not found or expired")
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Token, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.Token, 0, len(f.tokens))
	for _, tok := range f.tokens {
		out = append(out, tok)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListEmailsByRetreat(_ context.Context, retreatID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var emails []string
	for _, tok := range f.tokens {
		if tok.RetreatID == retreatID {
			emails = append(emails, tok.Email)
		}
	}
	return emails, nil
}

func (f *fakeRepo) Stats(_ context.Context, now time.Time) (repository.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats repository.Stats
	for _, tok := range f.tokens {
		stats.Total++
		switch {
		case tok.IsUsed:
			stats.Used++
		case tok.IsExpired(now):
			stats.Expired++
		default:
			stats.Active++
		}
	}
	return stats, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tok := range f.tokens {
		if tok.Email == params.Email && tok.RetreatID == params.RetreatID {
			return repository.Token{}, apperr.Conflict("a token already exists for this participant and retreat")
		}
	}
	tok := repository.Token{
		ID:              uuid.New(),
		Token:           params.Token,
		Email:           params.Email,
		ParticipantName: params.ParticipantName,
		RetreatID:       params.RetreatID,
		ExpiresAt:       params.ExpiresAt,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	f.tokens[tok.ID] = tok
	return tok, nil
}

func (f *fakeRepo) Replace(ctx context.Context, oldID uuid.UUID, params repository.CreateParams) (repository.Token, error) {
	f.mu.Lock()
	if _, ok := f.tokens[oldID]; !ok {
		f.mu.Unlock()
		return repository.Token{}, apperr.NotFound("token not found")
	}
	delete(f.tokens, oldID)
	f.mu.Unlock()
	return f.Create(ctx, params)
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[id]; !ok {
		return apperr.NotFound("token not found")
	}
	delete(f.tokens, id)
	return nil
}

func (f *fakeRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, tok := range f.tokens {
		if !tok.IsUsed && tok.IsExpired(now) {
			delete(f.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeRepo) markUsed(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok := f.tokens[id]
	tok.IsUsed = true
	usedAt := testNow
	tok.UsedAt = &usedAt
	f.tokens[id] = tok
}

type fakeRetreats struct {
	info RetreatInfo
}

func (f *fakeRetreats) Info(_ context.Context, id uuid.UUID) (RetreatInfo, error) {
	info := f.info
	info.ID = id
	return info, nil
}

type fakeParticipants struct {
	participants []Participant
}

func (f *fakeParticipants) ListConfirmed(_ context.Context, _ uuid.UUID) ([]Participant, error) {
	return f.participants, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (f *fakeNotifier) SendTestimonialInvite(_ context.Context, email, _, _, _ string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[email] {
		return errors.New("smtp connection refused")
	}
	f.sent = append(f.sent, email)
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

type seqGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("token-%04d", g.n), nil
}

func newTestService(repo *fakeRepo, retreats *fakeRetreats, participants *fakeParticipants, notifier *fakeNotifier) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := New(repo, retreats, participants, notifier, &seqGenerator{}, clock.Fixed{Instant: testNow}, bus, logger.New("test"))
	return svc, bus
}

func completedRetreat() *fakeRetreats {
	return &fakeRetreats{info: RetreatInfo{Title: "Retiro de Otoño", Status: retreatdomain.StatusCompleted}}
}

func TestGenerateRejectsNonCompletedRetreat(t *testing.T) {
	retreats := &fakeRetreats{info: RetreatInfo{Title: "Retiro Activo", Status: retreatdomain.StatusActive}}
	svc, _ := newTestService(newFakeRepo(), retreats, &fakeParticipants{}, &fakeNotifier{})

	_, err := svc.Generate(context.Background(), uuid.New())
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestGenerateRejectsWithoutConfirmedParticipants(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(), completedRetreat(), &fakeParticipants{}, &fakeNotifier{})

	_, err := svc.Generate(context.Background(), uuid.New())
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestGenerateCreatesTokenPerParticipant(t *testing.T) {
	participants := &fakeParticipants{participants: []Participant{
		{Name: "Ana", Email: "ana@example.com"},
		{Name: "Bruno", Email: "bruno@example.com"},
	}}
	notifier := &fakeNotifier{}
	svc, bus := newTestService(newFakeRepo(), completedRetreat(), participants, notifier)

	result, err := svc.Generate(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.TokensGenerated != 2 {
		t.Fatalf("expected 2 tokens, got %d", result.TokensGenerated)
	}
	if result.EmailsSent != 2 || result.EmailsFailed != 0 {
		t.Fatalf("expected 2 sent / 0 failed, got %d / %d", result.EmailsSent, result.EmailsFailed)
	}
	for _, tok := range result.Tokens {
		if !tok.ExpiresAt.Equal(testNow.Add(TokenTTL)) {
			t.Fatalf("expected expiry %v, got %v", testNow.Add(TokenTTL), tok.ExpiresAt)
		}
	}
	if len(bus.events) != 1 || bus.events[0].EventName() != "tokens.batch.generated" {
		t.Fatalf("expected one tokens.batch.generated event, got %v", bus.events)
	}
}

func TestGenerateSkipsParticipantsWithTokens(t *testing.T) {
	repo := newFakeRepo()
	participants := &fakeParticipants{participants: []Participant{
		{Name: "Ana", Email: "ana@example.com"},
	}}
	svc, _ := newTestService(repo, completedRetreat(), participants, &fakeNotifier{})
	retreatID := uuid.New()

	if _, err := svc.Generate(context.Background(), retreatID); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	_, err := svc.Generate(context.Background(), retreatID)
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("expected rejection when all participants are covered, got %v", err)
	}

	participants.participants = append(participants.participants, Participant{Name: "Bruno", Email: "bruno@example.com"})
	result, err := svc.Generate(context.Background(), retreatID)
	if err != nil {
		t.Fatalf("generate after new confirmation: %v", err)
	}
	if result.TokensGenerated != 1 {
		t.Fatalf("expected only the new participant to get a token, got %d", result.TokensGenerated)
	}
	if result.Tokens[0].Email != "bruno@example.com" {
		t.Fatalf("expected token for bruno, got %s", result.Tokens[0].Email)
	}
}

func TestGenerateReportsEmailFailuresPerRecipient(t *testing.T) {
	participants := &fakeParticipants{participants: []Participant{
		{Name: "Ana", Email: "ana@example.com"},
		{Name: "Bruno", Email: "bruno@example.com"},
	}}
	notifier := &fakeNotifier{failFor: map[string]bool{"bruno@example.com": true}}
	svc, _ := newTestService(newFakeRepo(), completedRetreat(), participants, notifier)

	result, err := svc.Generate(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.TokensGenerated != 2 {
		t.Fatalf("email failure must not roll back tokens, got %d", result.TokensGenerated)
	}
	if result.EmailsSent != 1 || result.EmailsFailed != 1 {
		t.Fatalf("expected 1 sent / 1 failed, got %d / %d", result.EmailsSent, result.EmailsFailed)
	}
	if len(result.EmailResults.Failed) != 1 || result.EmailResults.Failed[0].Email != "bruno@example.com" {
		t.Fatalf("expected failure recorded for bruno, got %+v", result.EmailResults.Failed)
	}
	if result.EmailResults.Failed[0].Error == "" {
		t.Fatal("expected failure reason to be recorded")
	}
}

func TestValidateCollapsesUsedAndExpiredToNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, completedRetreat(), &fakeParticipants{}, &fakeNotifier{})
	retreatID := uuid.New()

	valid, _ := repo.Create(context.Background(), repository.CreateParams{
		Token: "valid-token", Email: "ana@example.com", ParticipantName: "Ana",
		RetreatID: retreatID, ExpiresAt: testNow.Add(time.Hour),
	})
	used, _ := repo.Create(context.Background(), repository.CreateParams{
		Token: "used-token", Email: "bruno@example.com", ParticipantName: "Bruno",
		RetreatID: retreatID, ExpiresAt: testNow.Add(time.Hour),
	})
	repo.markUsed(used.ID)
	repo.Create(context.Background(), repository.CreateParams{
		Token: "expired-token", Email: "carla@example.com", ParticipantName: "Carla",
		RetreatID: retreatID, ExpiresAt: testNow.Add(-time.Hour),
	})

	result, err := svc.Validate(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("validate valid token: %v", err)
	}
	if result.ParticipantName != "Ana" || result.RetreatTitle != "Retiro de Otoño" {
		t.Fatalf("unexpected validate response: %+v", result)
	}
	if result.Token != valid.Token {
		t.Fatalf("expected token string echoed back, got %s", result.Token)
	}

	for _, tokenStr := range []string{"used-token", "expired-token", "unknown-token"} {
		_, err := svc.Validate(context.Background(), tokenStr)
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Fatalf("expected NotFound for %s, got %v", tokenStr, err)
		}
	}
}

func TestRegenerateRejectsUsedToken(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, completedRetreat(), &fakeParticipants{}, &fakeNotifier{})

	tok, _ := repo.Create(context.Background(), repository.CreateParams{
		Token: "used-token", Email: "ana@example.com", ParticipantName: "Ana",
		RetreatID: uuid.New(), ExpiresAt: testNow.Add(time.Hour),
	})
	repo.markUsed(tok.ID)

	_, err := svc.Regenerate(context.Background(), tok.ID)
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("expected BadRequest for used token, got %v", err)
	}
}

func TestRegenerateIssuesFreshTokenAndExpiry(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, completedRetreat(), &fakeParticipants{}, &fakeNotifier{})

	tok, _ := repo.Create(context.Background(), repository.CreateParams{
		Token: "stale-token", Email: "ana@example.com", ParticipantName: "Ana",
		RetreatID: uuid.New(), ExpiresAt: testNow.Add(-time.Hour),
	})

	result, err := svc.Regenerate(context.Background(), tok.ID)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if result.Token == "stale-token" {
		t.Fatal("expected a fresh token string")
	}
	if !result.ExpiresAt.Equal(testNow.Add(TokenTTL)) {
		t.Fatalf("expected expiry %v, got %v", testNow.Add(TokenTTL), result.ExpiresAt)
	}
	if result.Email != "ana@example.com" || result.ParticipantName != "Ana" {
		t.Fatalf("expected participant binding preserved, got %+v", result)
	}
	if _, err := repo.GetByID(context.Background(), tok.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected old token removed, got %v", err)
	}
}

func TestPurgeExpiredLeavesUsedAndActiveTokens(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, completedRetreat(), &fakeParticipants{}, &fakeNotifier{})
	retreatID := uuid.New()

	repo.Create(context.Background(), repository.CreateParams{
		Token: "expired-token", Email: "ana@example.com", ParticipantName: "Ana",
		RetreatID: retreatID, ExpiresAt: testNow.Add(-time.Hour),
	})
	repo.Create(context.Background(), repository.CreateParams{
		Token: "active-token", Email: "bruno@example.com", ParticipantName: "Bruno",
		RetreatID: retreatID, ExpiresAt: testNow.Add(time.Hour),
	})
	used, _ := repo.Create(context.Background(), repository.CreateParams{
		Token: "used-token", Email: "carla@example.com", ParticipantName: "Carla",
		RetreatID: retreatID, ExpiresAt: testNow.Add(-time.Hour),
	})
	repo.markUsed(used.ID)

	deleted, err := svc.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("purge expired: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 purged token, got %d", deleted)
	}

	stats, _ := repo.Stats(context.Background(), testNow)
	if stats.Total != 2 || stats.Used != 1 || stats.Active != 1 {
		t.Fatalf("unexpected stats after purge: %+v", stats)
	}
}
