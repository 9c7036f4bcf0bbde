package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = map[string]*models.User{}
	}
	if _, ok := m.users[u.Email]; ok {
		return errs.ConflictError("user already exists: %s", u.Email)
	}
	m.users[u.Email] = u
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, errs.NotFoundError("user not found: %s", email)
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errs.NotFoundError("user not found: %s", id)
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(&memUsers{}, func(email string) bool { return email == "ops@example.com" })

	if _, err := a.Register(ctx, "short@example.com", "Short", "org-law", "1234"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}

	user, err := a.Register(ctx, "Alice@Example.com", "Alice", "org-law", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" || user.OrgID != "org-law" || user.Role != models.RoleMember {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("password stored in clear text")
	}

	if _, err := a.Register(ctx, "alice@example.com", "Alice", "org-law", "correct-horse"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}

	admin, err := a.Register(ctx, "ops@example.com", "Ops", "org-ops", "correct-horse")
	if err != nil {
		t.Fatalf("Register admin failed: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("role = %s, want admin", admin.Role)
	}

	if _, err := a.Authenticate(ctx, "alice@example.com", "correct-horse"); err != nil {
		t.Errorf("Authenticate failed: %v", err)
	}
	if _, err := a.Authenticate(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u-1", Email: "ops@example.com", OrgID: "org-ops", Role: models.RoleAdmin}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got := claims.Actor(); got != (models.Actor{UserID: "u-1", OrgID: "org-ops", Admin: true}) {
		t.Errorf("actor = %+v", got)
	}

	if _, err := NewJWTManager("other-secret", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired, err := NewJWTManager("test-secret", -time.Minute).Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := m.Validate(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTManagerWithoutKey(t *testing.T) {
	m := NewJWTManager("", time.Hour)
	user := &models.User{ID: "attacker", OrgID: "org-x", Role: models.RoleAdmin}

	if _, err := m.Generate(user); !errors.Is(err, ErrNoSigningKey) {
		t.Errorf("expected ErrNoSigningKey from Generate, got %v", err)
	}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "attacker", Role: models.RoleAdmin}).SignedString([]byte(""))
	if err != nil {
		t.Fatalf("failed to sign forged token: %v", err)
	}
	if _, err := m.Validate(forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for empty-key token, got %v", err)
	}
}
