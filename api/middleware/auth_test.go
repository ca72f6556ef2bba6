package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/vapecloud/miniapp/internal/users"
	pkgauth "github.com/vapecloud/miniapp/pkg/auth"
	"github.com/vapecloud/miniapp/pkg/config"
	"github.com/vapecloud/miniapp/pkg/db/models"
	"github.com/vapecloud/miniapp/pkg/telegram"
)

const testBotToken = "12345:test-token"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "vapecloud", ExpirationMinutes: 30}
}

func identityHandler(params IdentityParams, captured *uint) http.Handler {
	return Identity(params)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestIdentityAcceptsSessionToken(t *testing.T) {
	token, err := pkgauth.MintSessionToken(testJWTConfig(), time.Now(), 42, 987)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var got uint
	handler := identityHandler(IdentityParams{JWT: testJWTConfig(), Users: &stubUserService{}}, &got)

	req := httptest.NewRequest(http.MethodGet, "/api/cart/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if got != 42 {
		t.Fatalf("expected user 42 in context, got %d", got)
	}
}

func TestIdentityRejectsBadToken(t *testing.T) {
	var got uint
	handler := identityHandler(IdentityParams{JWT: testJWTConfig(), Users: &stubUserService{}}, &got)

	req := httptest.NewRequest(http.MethodGet, "/api/cart/items", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestIdentityAcceptsInitData(t *testing.T) {
	values := url.Values{}
	values.Set("auth_date", "1700000000")
	values.Set("user", `{"id":987654321,"first_name":"Ivan","username":"ivan_v"}`)
	raw := telegram.SignInitData(values, testBotToken)

	svc := &stubUserService{user: &models.User{ID: 9, TelegramID: 987654321}}
	var got uint
	handler := identityHandler(IdentityParams{JWT: testJWTConfig(), BotToken: testBotToken, Users: svc}, &got)

	req := httptest.NewRequest(http.MethodGet, "/api/cart/items", nil)
	req.Header.Set("X-Telegram-Init-Data", raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if got != 9 {
		t.Fatalf("expected user 9 in context, got %d", got)
	}
	if svc.lastProfile.TelegramID != 987654321 {
		t.Fatalf("unexpected profile %+v", svc.lastProfile)
	}
}

func TestIdentityDevFallback(t *testing.T) {
	svc := &stubUserService{user: &models.User{ID: 1, TelegramID: 1}}
	var got uint
	handler := identityHandler(IdentityParams{JWT: testJWTConfig(), Users: svc, AllowDevUser: true}, &got)

	req := httptest.NewRequest(http.MethodGet, "/api/cart/items", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if svc.lastProfile.FirstName != "Test User" {
		t.Fatalf("expected dev fallback profile, got %+v", svc.lastProfile)
	}
}

func TestIdentityRequiresCredentialsInProd(t *testing.T) {
	var got uint
	handler := identityHandler(IdentityParams{JWT: testJWTConfig(), Users: &stubUserService{}}, &got)

	req := httptest.NewRequest(http.MethodGet, "/api/cart/items", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

type stubUserService struct {
	user        *models.User
	lastProfile users.TelegramProfile
}

func (s *stubUserService) GetOrCreate(ctx context.Context, profile users.TelegramProfile) (*models.User, error) {
	s.lastProfile = profile
	if s.user != nil {
		return s.user, nil
	}
	return &models.User{ID: 1, TelegramID: profile.TelegramID}, nil
}

func (s *stubUserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return &models.User{ID: id}, nil
}
