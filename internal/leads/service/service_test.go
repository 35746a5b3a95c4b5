package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"retiros_backend/internal/events"
	"retiros_backend/internal/leads/domain"
	"retiros_backend/internal/leads/repository"
	"retiros_backend/internal/leads/transport"
	retreatdomain "retiros_backend/internal/retreats/domain"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
)

var testNow = time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)

type fakeRepo struct {
	mu    sync.Mutex
	leads map[uuid.UUID]repository.Lead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[uuid.UUID]repository.Lead)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Lead, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Lead
	for _, l := range f.leads {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ExistsByEmailAndRetreat(_ context.Context, email string, retreatID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leads {
		if l.Email == email && l.RetreatID == retreatID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListByStatus(_ context.Context, retreatID uuid.UUID, status domain.Status) ([]repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Lead
	for _, l := range f.leads {
		if l.RetreatID == retreatID && l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountConfirmed(_ context.Context, retreatID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, l := range f.leads {
		if l.RetreatID == retreatID && l.IsFullyConfirmed() {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CountConfirmedBatch(ctx context.Context, retreatIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for _, id := range retreatIDs {
		count, _ := f.CountConfirmed(ctx, id)
		out[id] = count
	}
	return out, nil
}

func (f *fakeRepo) Stats(_ context.Context, _ time.Time) (repository.Stats, error) {
	return repository.Stats{ByStatus: map[string]int{}}, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leads {
		if l.Email == params.Email && l.RetreatID == params.RetreatID {
			return repository.Lead{}, apperr.Conflict("an inquiry with this email already exists for this retreat")
		}
	}
	lead := repository.Lead{
		ID:            uuid.New(),
		Name:          params.Name,
		Email:         params.Email,
		Phone:         params.Phone,
		Message:       params.Message,
		Interest:      params.Interest,
		Status:        domain.StatusNuevo,
		PaymentStatus: domain.PaymentPendiente,
		RetreatID:     params.RetreatID,
		Source:        params.Source,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, lead repository.Lead) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leads[lead.ID]; !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leads[id]; !ok {
		return apperr.NotFound("lead not found")
	}
	delete(f.leads, id)
	return nil
}

type fakeRetreats struct {
	info RetreatInfo
	err  error
}

func (f *fakeRetreats) Info(_ context.Context, id uuid.UUID) (RetreatInfo, error) {
	if f.err != nil {
		return RetreatInfo{}, f.err
	}
	info := f.info
	info.ID = id
	return info, nil
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

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.EventName()
	}
	return out
}

func newTestService(repo *fakeRepo, retreats *fakeRetreats) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := New(repo, retreats, clock.Fixed{Instant: testNow}, bus, logger.New("test"))
	return svc, bus
}

func activeRetreat(max int) *fakeRetreats {
	return &fakeRetreats{info: RetreatInfo{Title: "Retiro de Prueba", Status: retreatdomain.StatusActive, MaxParticipants: max}}
}

func createRequest(retreatID uuid.UUID, email string) transport.CreateLeadRequest {
	return transport.CreateLeadRequest{
		Name:      "Ana",
		Email:     email,
		Phone:     "+5491155556666",
		RetreatID: retreatID,
	}
}

func confirmLead(t *testing.T, svc *Service, id uuid.UUID) {
	t.Helper()
	status := string(domain.StatusConfirmado)
	payment := string(domain.PaymentCompleto)
	if _, err := svc.Update(context.Background(), id, transport.UpdateLeadRequest{Status: &status, PaymentStatus: &payment}); err != nil {
		t.Fatalf("confirm lead: %v", err)
	}
}

func TestCreateRejectsInactiveRetreat(t *testing.T) {
	retreats := &fakeRetreats{info: RetreatInfo{Status: retreatdomain.StatusDraft, MaxParticipants: 10}}
	svc, _ := newTestService(newFakeRepo(), retreats)

	_, err := svc.Create(context.Background(), createRequest(uuid.New(), "ana@example.com"))
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestCreateRejectsFullRetreat(t *testing.T) {
	repo := newFakeRepo()
	retreatID := uuid.New()
	svc, _ := newTestService(repo, activeRetreat(2))

	first, err := svc.Create(context.Background(), createRequest(retreatID, "uno@example.com"))
	if err != nil {
		t.Fatalf("create first lead: %v", err)
	}
	second, err := svc.Create(context.Background(), createRequest(retreatID, "dos@example.com"))
	if err != nil {
		t.Fatalf("create second lead: %v", err)
	}

	confirmLead(t, svc, first.ID)
	confirmLead(t, svc, second.ID)

	_, err = svc.Create(context.Background(), createRequest(retreatID, "tres@example.com"))
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("expected capacity error, got %v", err)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	retreatID := uuid.New()
	svc, _ := newTestService(repo, activeRetreat(10))

	if _, err := svc.Create(context.Background(), createRequest(retreatID, "ana@example.com")); err != nil {
		t.Fatalf("create lead: %v", err)
	}
	_, err := svc.Create(context.Background(), createRequest(retreatID, "ANA@example.com"))
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestCreateDefaultsAndNormalizes(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo, activeRetreat(10))

	lead, err := svc.Create(context.Background(), createRequest(uuid.New(), "  Ana@Example.COM "))
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if lead.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", lead.Email)
	}
	if lead.Interest != domain.InterestConsulta || lead.Source != domain.SourceLanding {
		t.Fatalf("defaults not applied: interest=%q source=%q", lead.Interest, lead.Source)
	}
	if names := bus.names(); len(names) != 1 || names[0] != "leads.lead.created" {
		t.Fatalf("expected leads.lead.created event, got %v", names)
	}
}

func TestUpdateStampsContactedAtOnce(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, activeRetreat(10))

	lead, err := svc.Create(context.Background(), createRequest(uuid.New(), "ana@example.com"))
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}

	status := string(domain.StatusContactado)
	first, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{Status: &status})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.Lead.ContactedAt == nil || !first.Lead.ContactedAt.Equal(testNow) {
		t.Fatalf("contactedAt not stamped: %v", first.Lead.ContactedAt)
	}

	// Same status again must not restamp.
	stored := repo.leads[lead.ID]
	earlier := testNow.Add(-48 * time.Hour)
	stored.ContactedAt = &earlier
	repo.leads[lead.ID] = stored

	second, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{Status: &status})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if !second.Lead.ContactedAt.Equal(earlier) {
		t.Fatalf("contactedAt restamped: %v", second.Lead.ContactedAt)
	}
}

func TestUpdateAvailabilityChangedFlipsOnTransition(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo, activeRetreat(10))

	lead, err := svc.Create(context.Background(), createRequest(uuid.New(), "ana@example.com"))
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}

	status := string(domain.StatusConfirmado)
	payment := string(domain.PaymentCompleto)

	// Confirming status alone does not count against capacity.
	partial, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{Status: &status})
	if err != nil {
		t.Fatalf("status update: %v", err)
	}
	if partial.AvailabilityChanged {
		t.Fatal("availabilityChanged on status-only update")
	}
	if partial.Lead.ConfirmedAt != nil {
		t.Fatal("confirmedAt stamped before payment completed")
	}

	// Completing payment crosses into fully confirmed.
	full, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{PaymentStatus: &payment})
	if err != nil {
		t.Fatalf("payment update: %v", err)
	}
	if !full.AvailabilityChanged {
		t.Fatal("availabilityChanged not reported on confirmation")
	}
	if full.Lead.ConfirmedAt == nil {
		t.Fatal("confirmedAt not stamped on confirmation")
	}

	// Repeating the same patch is a no-op for availability.
	repeat, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{PaymentStatus: &payment})
	if err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	if repeat.AvailabilityChanged {
		t.Fatal("availabilityChanged on idempotent update")
	}
	if !repeat.Lead.ConfirmedAt.Equal(*full.Lead.ConfirmedAt) {
		t.Fatal("confirmedAt restamped")
	}

	// Dropping out flips back.
	discarded := string(domain.StatusDescartado)
	out, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{Status: &discarded})
	if err != nil {
		t.Fatalf("discard update: %v", err)
	}
	if !out.AvailabilityChanged {
		t.Fatal("availabilityChanged not reported when dropping confirmation")
	}

	confirmedEvents := 0
	for _, name := range bus.names() {
		if name == "leads.lead.confirmed" {
			confirmedEvents++
		}
	}
	if confirmedEvents != 1 {
		t.Fatalf("expected exactly one leads.lead.confirmed event, got %d", confirmedEvents)
	}
}

func TestDeleteReportsConfirmedParticipant(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, activeRetreat(10))

	lead, err := svc.Create(context.Background(), createRequest(uuid.New(), "ana@example.com"))
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	confirmLead(t, svc, lead.ID)

	result, err := svc.Delete(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("delete lead: %v", err)
	}
	if !result.AvailabilityChanged {
		t.Fatal("deleting a confirmed participant must report availabilityChanged")
	}

	other, err := svc.Create(context.Background(), createRequest(uuid.New(), "otro@example.com"))
	if err != nil {
		t.Fatalf("create unconfirmed lead: %v", err)
	}
	result, err = svc.Delete(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("delete lead: %v", err)
	}
	if result.AvailabilityChanged {
		t.Fatal("deleting an unconfirmed lead must not report availabilityChanged")
	}
}
