package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/internal/users"
	"github.com/rahulvarma/shopsphere-backend/pkg/config"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
	"github.com/rahulvarma/shopsphere-backend/pkg/security"
)

type stubAuthUserRepo struct {
	byEmail map[string]*models.User
	touched []uuid.UUID
}

func newStubAuthUserRepo() *stubAuthUserRepo {
	return &stubAuthUserRepo{byEmail: map[string]*models.User{}}
}

func (s *stubAuthUserRepo) WithTx(tx *gorm.DB) users.UserRepository { return s }

func (s *stubAuthUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	return nil
}

func (s *stubAuthUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	panic("not implemented")
}

func (s *stubAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAuthUserRepo) Update(ctx context.Context, user *models.User) error {
	panic("not implemented")
}

func (s *stubAuthUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	s.touched = append(s.touched, id)
	return nil
}

type stubSessionWriter struct {
	created []string
	revoked []string
}

func (s *stubSessionWriter) Create(ctx context.Context, accessID, userID string) error {
	s.created = append(s.created, accessID)
	return nil
}

func (s *stubSessionWriter) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newAuthFixture(t *testing.T) (Service, *stubAuthUserRepo, *stubSessionWriter) {
	t.Helper()
	repo := newStubAuthUserRepo()
	sessions := &stubSessionWriter{}
	svc, err := NewService(repo, sessions, config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shopsphere",
		ExpirationMinutes: 5,
	}, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, sessions
}

func TestRegisterIssuesTokenAndSession(t *testing.T) {
	svc, repo, sessions := newAuthFixture(t)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "Buyer@Example.com",
		Password:  "correct-horse",
		FirstName: "Asha",
		LastName:  "Nair",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.Token == "" {
		t.Fatal("token must be issued")
	}
	if result.User.Email != "buyer@example.com" {
		t.Fatalf("email = %q, want lowercased", result.User.Email)
	}
	if len(sessions.created) != 1 {
		t.Fatalf("sessions created = %d, want 1", len(sessions.created))
	}
	if _, ok := repo.byEmail["buyer@example.com"]; !ok {
		t.Fatal("user not persisted")
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	repo.byEmail["buyer@example.com"] = &models.User{ID: uuid.New(), Email: "buyer@example.com"}

	_, err := svc.Register(context.Background(), RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, repo, sessions := newAuthFixture(t)
	hash, err := security.HashPassword("correct-horse", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}
	repo.byEmail[user.Email] = user

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "buyer@example.com", "correct-horse")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if result.Token == "" {
			t.Fatal("token must be issued")
		}
		if len(repo.touched) == 0 {
			t.Fatal("last login must be recorded")
		}
		if len(sessions.created) == 0 {
			t.Fatal("session must be created")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "buyer@example.com", "wrong-password")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "correct-horse")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		user.IsActive = false
		defer func() { user.IsActive = true }()

		_, err := svc.Login(context.Background(), "buyer@example.com", "correct-horse")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newAuthFixture(t)

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-1" {
		t.Fatalf("revoked = %v, want [jti-1]", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), "  "); err == nil {
		t.Fatal("blank session id must be rejected")
	}
}
