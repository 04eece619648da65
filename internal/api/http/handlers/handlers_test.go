package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/varnooj/SubsPanel/internal/auth"
	"github.com/varnooj/SubsPanel/internal/domain"
	"github.com/varnooj/SubsPanel/internal/observability"
	"github.com/varnooj/SubsPanel/internal/service"
)

// stubRepo backs handler tests with map storage, matching the repository
// contract including its pgx.ErrNoRows sentinel.
type stubRepo struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*domain.Subscription
}

func newStubRepo() *stubRepo {
	return &stubRepo{subs: make(map[int64]*domain.Subscription)}
}

func (r *stubRepo) Create(_ context.Context, name, content string) (*domain.Subscription, error) {
	token, err := domain.NewToken()
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now().Unix()
	sub := &domain.Subscription{
		ID: r.nextID, Name: name, Token: token, Content: content,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	r.subs[sub.ID] = sub
	copied := *sub
	return &copied, nil
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *sub
	return &copied, nil
}

func (r *stubRepo) GetByToken(_ context.Context, token string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.Token == token {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubRepo) List(_ context.Context) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Subscription, 0, len(r.subs))
	for id := r.nextID; id >= 1; id-- {
		if sub, ok := r.subs[id]; ok {
			result = append(result, *sub)
		}
	}
	return result, nil
}

func (r *stubRepo) Update(_ context.Context, id int64, name, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	sub.Name, sub.Content, sub.UpdatedAt = name, content, time.Now().Unix()
	return nil
}

func (r *stubRepo) Toggle(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	sub.IsActive = !sub.IsActive
	sub.UpdatedAt = time.Now().Unix()
	return nil
}

func (r *stubRepo) Rotate(_ context.Context, id int64) (string, error) {
	token, err := domain.NewToken()
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	sub.Token = token
	sub.UpdatedAt = time.Now().Unix()
	return token, nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.subs, id)
	return nil
}

// testEnv bundles a fully wired app for handler tests.
type testEnv struct {
	app   *fiber.App
	repo  *stubRepo
	codec *auth.SessionCodec
	guard *auth.SessionGuard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newStubRepo()
	codec := auth.NewSessionCodec("test-secret", 0)
	guard := auth.NewSessionGuard(codec, "admin")
	cred, err := auth.NewAdminCredential("admin", "change-me-strong", 4)
	if err != nil {
		t.Fatalf("NewAdminCredential error: %v", err)
	}
	limiter := auth.NewLoginLimiter(nil, 0, 0, zap.NewNop())
	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	app := fiber.New(fiber.Config{
		Views: html.New("../../../../views", ".html"),
	})

	authHandler := NewAuthHandler(guard, cred, limiter, logger)
	adminHandler := NewAdminHandler(service.NewSubscriptionService(repo), logger)
	deliveryHandler := NewDeliveryHandler(service.NewDeliveryService(repo), metrics)

	app.Get("/", authHandler.Root)
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	admin := app.Group("/admin", guard.RequireAdmin())
	admin.Get("/", adminHandler.Index)
	admin.Get("/new", adminHandler.NewPage)
	admin.Get("/edit/:id", adminHandler.EditPage)
	admin.Post("/create", adminHandler.Create)
	admin.Post("/update", adminHandler.Update)
	admin.Post("/toggle", adminHandler.Toggle)
	admin.Post("/delete", adminHandler.Delete)
	admin.Post("/rotate", adminHandler.Rotate)

	app.Get("/s/:token", deliveryHandler.Serve)
	app.Get("/qr", NewQRHandler().Image)

	return &testEnv{app: app, repo: repo, codec: codec, guard: guard}
}

// adminCookie returns a cookie carrying a freshly issued admin session.
func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := e.codec.Issue("admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	return &http.Cookie{Name: auth.SessionCookie, Value: token}
}
