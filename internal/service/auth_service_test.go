package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/room-reservation/internal/config"
	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/events"
	"github.com/spec-kit/room-reservation/internal/notification"
	"github.com/spec-kit/room-reservation/internal/testfixtures"
	apperrors "github.com/spec-kit/room-reservation/pkg/util"
)

func newAuthService(t *testing.T) (*AuthService, *testfixtures.Store, *notification.MemoryQueue) {
	t.Helper()
	store := testfixtures.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	queue := notification.NewMemoryQueue()
	NewNotificationService(dispatcher, store.Stores(), queue, zap.NewNop(), config.NotificationConfig{EmailFrom: "noreply@example.com"}).RegisterHandlers()

	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4}}
	svc := NewAuthService(cfg, AuthDependencies{AccountRepo: store.Stores().Accounts, Dispatcher: dispatcher, Logger: zap.NewNop()})
	return svc, store, queue
}

func TestRegister(t *testing.T) {
	cases := []struct {
		name     string
		input    RegisterInput
		wantCode string
		wantRole domain.Role
	}{
		{name: "delegate", input: RegisterInput{Name: "Ada", Email: "Ada@Example.com", Password: "correct horse", Role: domain.RoleDelegate}, wantRole: domain.RoleDelegate},
		{name: "instructor", input: RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "correct horse", Role: domain.RoleInstructor}, wantRole: domain.RoleInstructor},
		{name: "default role", input: RegisterInput{Name: "Cy", Email: "cy@example.com", Password: "correct horse"}, wantRole: domain.RoleDelegate},
		{name: "administrator refused", input: RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "correct horse", Role: domain.RoleAdministrator}, wantCode: "VALIDATION_FAILED"},
		{name: "unknown role", input: RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "correct horse", Role: "janitor"}, wantCode: "VALIDATION_FAILED"},
		{name: "missing name", input: RegisterInput{Email: "x@example.com", Password: "correct horse"}, wantCode: "VALIDATION_FAILED"},
		{name: "bad email", input: RegisterInput{Name: "X", Email: "not-an-email", Password: "correct horse"}, wantCode: "VALIDATION_FAILED"},
		{name: "short password", input: RegisterInput{Name: "X", Email: "x@example.com", Password: "short"}, wantCode: "VALIDATION_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, _ := newAuthService(t)
			account, err := svc.Register(context.Background(), tc.input)
			if tc.wantCode != "" {
				if got := apperrors.ToDomainError(err); got == nil || got.Code != tc.wantCode {
					t.Fatalf("expected %s, got %v", tc.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register: %v", err)
			}
			stored, ok := store.Account(account.ID)
			if !ok {
				t.Fatal("account not stored")
			}
			if stored.Approved || stored.Role != tc.wantRole {
				t.Fatalf("unexpected stored account %+v", stored)
			}
			if stored.PasswordHash == "" || stored.PasswordHash == tc.input.Password {
				t.Fatal("password must be stored hashed")
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	input := RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct horse"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("Register: %v", err)
	}
	input.Email = "ADA@example.com"
	if _, err := svc.Register(ctx, input); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestRegisterQueuesEmail(t *testing.T) {
	svc, _, queue := newAuthService(t)
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	jobs := queue.Pending()
	if len(jobs) != 1 || jobs[0].Kind != JobRegistration || jobs[0].Message.To != "ada@example.com" {
		t.Fatalf("unexpected jobs %+v", jobs)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct horse", Role: domain.RoleInstructor})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "ada@example.com", "correct horse"); !errors.Is(err, domain.ErrPendingApproval) {
		t.Fatalf("expected pending approval before approval, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ada@example.com", "wrong password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}

	admin := store.AddAccount("Admin", "admin@example.com", domain.RoleAdministrator, true)
	if _, err := svc.Approve(ctx, domain.ActorFor(admin), []string{registered.ID}); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	result, err := svc.Authenticate(ctx, "ADA@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if result.Landing != domain.LandingBooking || result.Token == "" {
		t.Fatalf("unexpected login result %+v", result)
	}
	claims, err := svc.TokenManager().ParseToken(result.Token)
	if err != nil || claims.AccountID != registered.ID {
		t.Fatalf("token does not identify the account: %v %+v", err, claims)
	}
}

func TestAuthenticateAdminLanding(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	if err := svc.BootstrapAdmin(ctx, config.BootstrapConfig{AdminEmail: "root@example.com", AdminPassword: "correct horse"}); err != nil {
		t.Fatalf("BootstrapAdmin: %v", err)
	}
	result, err := svc.Authenticate(ctx, "root@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if result.Landing != domain.LandingAdminDashboard || !result.Account.Approved {
		t.Fatalf("unexpected admin login %+v", result)
	}
}

func TestBootstrapAdminIsIdempotent(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()
	cfg := config.BootstrapConfig{AdminEmail: "root@example.com", AdminPassword: "correct horse"}
	for i := 0; i < 2; i++ {
		if err := svc.BootstrapAdmin(ctx, cfg); err != nil {
			t.Fatalf("BootstrapAdmin #%d: %v", i, err)
		}
	}
	if n, _ := store.Stores().Accounts.Count(ctx); n != 1 {
		t.Fatalf("expected one account, got %d", n)
	}
	if err := svc.BootstrapAdmin(ctx, config.BootstrapConfig{}); err != nil {
		t.Fatalf("empty bootstrap must be a no-op: %v", err)
	}
}

func TestApprove(t *testing.T) {
	svc, store, queue := newAuthService(t)
	ctx := context.Background()
	admin := store.AddAccount("Admin", "admin@example.com", domain.RoleAdministrator, true)
	pending := store.AddAccount("P", "p@example.com", domain.RoleDelegate, false)
	approved := store.AddAccount("Q", "q@example.com", domain.RoleInstructor, true)

	n, err := svc.Approve(ctx, domain.ActorFor(admin), []string{pending.ID, approved.ID, pending.ID, "not-a-uuid", "00000000-0000-0000-0000-000000000000"})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 matched accounts, got %d", n)
	}
	if stored, _ := store.Account(pending.ID); !stored.Approved {
		t.Fatal("pending account should be approved")
	}
	if len(queue.Pending()) != 2 {
		t.Fatalf("expected approval emails for both accounts, got %d", len(queue.Pending()))
	}

	if _, err := svc.Approve(ctx, domain.ActorFor(pending), []string{approved.ID}); !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected admin required, got %v", err)
	}
	if n, err := svc.Approve(ctx, domain.ActorFor(admin), nil); err != nil || n != 0 {
		t.Fatalf("empty approve: %d %v", n, err)
	}
}
