package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"retiros_backend/internal/auth/repository"
	"retiros_backend/internal/auth/transport"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/logger"
)

var testNow = time.Date(2026, time.July, 15, 8, 0, 0, 0, time.UTC)

type fakeRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]repository.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uuid.UUID]repository.User)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func (f *fakeRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := repository.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	user.LastLogin = &at
	f.users[id] = user
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	user.PasswordHash = hash
	user.PasswordChangedAt = &at
	f.users[id] = user
	return nil
}

type testAuthConfig struct{}

func (testAuthConfig) GetJWTSecret() string         { return "test-secret" }
func (testAuthConfig) GetSessionCookieName() string { return "retiros_session" }
func (testAuthConfig) GetSessionTTL() time.Duration { return time.Hour }
func (testAuthConfig) GetSessionCookieSecure() bool { return false }

func newTestService(repo *fakeRepo) *Service {
	return New(repo, testAuthConfig{}, clock.Fixed{Instant: testNow}, logger.New("test"))
}

func setupAdmin(t *testing.T, svc *Service) transport.UserResponse {
	t.Helper()
	user, err := svc.Setup(context.Background(), transport.SetupRequest{
		Name:     "Admin",
		Email:    "Admin@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return user
}

func TestSetupRefusesSecondUser(t *testing.T) {
	svc := newTestService(newFakeRepo())
	setupAdmin(t, svc)

	_, err := svc.Setup(context.Background(), transport.SetupRequest{
		Name: "Otro", Email: "otro@example.com", Password: "otra clave segura",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected Conflict on second setup, got %v", err)
	}
}

func TestLoginIssuesTokenAndStampsLastLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	created := setupAdmin(t, svc)

	if created.Email != "admin@example.com" {
		t.Fatalf("expected lowercased email, got %q", created.Email)
	}

	session, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "admin@example.com", Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.User.LastLogin == nil || !session.User.LastLogin.Equal(testNow) {
		t.Fatalf("expected lastLogin stamped at %v, got %v", testNow, session.User.LastLogin)
	}
	if !session.ExpiresAt.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", testNow.Add(time.Hour), session.ExpiresAt)
	}

	parsed, err := jwt.Parse(session.Token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return testNow }))
	if err != nil || !parsed.Valid {
		t.Fatalf("expected a valid HS256 token, got %v", err)
	}
	sub, _ := parsed.Claims.GetSubject()
	if sub != created.ID.String() {
		t.Fatalf("expected sub %s, got %s", created.ID, sub)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(newFakeRepo())
	setupAdmin(t, svc)

	cases := []transport.LoginRequest{
		{Email: "admin@example.com", Password: "wrong password"},
		{Email: "nadie@example.com", Password: "correct horse"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Fatalf("expected Unauthorized for %q, got %v", req.Email, err)
		}
	}
}

func TestChangePasswordRotatesCredential(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	created := setupAdmin(t, svc)

	_, err := svc.ChangePassword(context.Background(), created.ID, transport.ChangePasswordRequest{
		CurrentPassword: "wrong password", NewPassword: "nueva clave segura",
	})
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("expected Unauthorized for wrong current password, got %v", err)
	}

	session, err := svc.ChangePassword(context.Background(), created.ID, transport.ChangePasswordRequest{
		CurrentPassword: "correct horse", NewPassword: "nueva clave segura",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a re-issued session token")
	}

	stored := repo.users[created.ID]
	if stored.PasswordChangedAt == nil || !stored.PasswordChangedAt.Equal(testNow) {
		t.Fatalf("expected passwordChangedAt stamped, got %v", stored.PasswordChangedAt)
	}

	if _, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "admin@example.com", Password: "correct horse",
	}); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("expected old password rejected after rotation, got %v", err)
	}
	if _, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "admin@example.com", Password: "nueva clave segura",
	}); err != nil {
		t.Fatalf("expected new password accepted, got %v", err)
	}
}
