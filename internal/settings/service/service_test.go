package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"retiros_backend/internal/settings/repository"
	"retiros_backend/internal/settings/transport"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/cache"
	"retiros_backend/platform/logger"
)

type fakeRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]repository.Settings
	creates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[uuid.UUID]repository.Settings)}
}

func (f *fakeRepo) GetActive(_ context.Context) (repository.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if s.IsActive {
			return s, nil
		}
	}
	return repository.Settings{}, apperr.NotFound("settings not found")
}

func (f *fakeRepo) Create(_ context.Context, s repository.Settings) (repository.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.IsActive {
		for _, existing := range f.rows {
			if existing.IsActive {
				return repository.Settings{}, apperr.Conflict("active settings already exist")
			}
		}
	}
	s.ID = uuid.New()
	s.UpdatedAt = time.Now()
	f.rows[s.ID] = s
	f.creates++
	return s, nil
}

func (f *fakeRepo) Update(_ context.Context, s repository.Settings) (repository.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[s.ID]; !ok {
		return repository.Settings{}, apperr.NotFound("settings not found")
	}
	f.rows[s.ID] = s
	return s, nil
}

func (f *fakeRepo) DeleteAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = make(map[uuid.UUID]repository.Settings)
	return nil
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.NewWithClient(client, time.Minute)
	t.Cleanup(func() { c.Close() })
	return New(repo, c, logger.New("test"))
}

func TestGetCreatesDefaultsLazily(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	result, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result.Site.Title == "" {
		t.Fatal("expected default site title")
	}
	if repo.creates != 1 {
		t.Fatalf("expected one lazy create, got %d", repo.creates)
	}

	// Second read must not create another row.
	if _, err := svc.Get(context.Background()); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected no further creates, got %d", repo.creates)
	}
}

func TestGetPublicOmitsMailIdentity(t *testing.T) {
	svc := newTestService(t, newFakeRepo())

	from := "privada@example.com"
	_, err := svc.Update(context.Background(), transport.UpdateSettingsRequest{
		EmailSettings: &transport.EmailSettingsPayload{FromName: "Soul", FromEmail: from},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	public, err := svc.GetPublic(context.Background())
	if err != nil {
		t.Fatalf("get public: %v", err)
	}
	if public.Site.Title == "" {
		t.Fatal("expected public settings populated")
	}
	// The public DTO has no email settings section at all; make sure the
	// private address does not leak through another field.
	if public.Contact.Email == from {
		t.Fatal("mail identity leaked into public view")
	}
}

func TestUpdateNormalizesWhatsappAndRefreshesCache(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	updated, err := svc.Update(context.Background(), transport.UpdateSettingsRequest{
		Contact: &transport.ContactPayload{
			Email:          "hola@example.com",
			WhatsappNumber: "011 5555-6666",
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Contact.WhatsappNumber != "+541155556666" {
		t.Fatalf("expected normalized number, got %q", updated.Contact.WhatsappNumber)
	}

	// Subsequent reads serve the patched document from cache.
	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Contact.Email != "hola@example.com" {
		t.Fatalf("expected updated contact, got %+v", got.Contact)
	}
}

func TestUpdateRejectsInvalidWhatsapp(t *testing.T) {
	svc := newTestService(t, newFakeRepo())

	_, err := svc.Update(context.Background(), transport.UpdateSettingsRequest{
		Contact: &transport.ContactPayload{Email: "hola@example.com", WhatsappNumber: "not-a-number"},
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	title := "Sitio Personalizado"
	if _, err := svc.Update(context.Background(), transport.UpdateSettingsRequest{
		Site: &transport.SitePayload{Title: title},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	reset, err := svc.Reset(context.Background())
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.Site.Title == title {
		t.Fatal("expected reset to discard customizations")
	}

	// The cache must serve the reset document, not the stale custom one.
	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if got.Site.Title == title {
		t.Fatal("stale settings served from cache after reset")
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected a single settings row after reset, got %d", len(repo.rows))
	}
}
