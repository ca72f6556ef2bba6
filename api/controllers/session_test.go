package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vapecloud/miniapp/internal/users"
	"github.com/vapecloud/miniapp/pkg/config"
	"github.com/vapecloud/miniapp/pkg/db/models"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/telegram"
)

type stubInitUsers struct {
	lastProfile users.TelegramProfile
	user        *models.User
	err         error
}

func (s *stubInitUsers) GetOrCreate(ctx context.Context, profile users.TelegramProfile) (*models.User, error) {
	s.lastProfile = profile
	if s.err != nil {
		return nil, s.err
	}
	if s.user != nil {
		return s.user, nil
	}
	return &models.User{ID: 7, TelegramID: profile.TelegramID, FirstName: profile.FirstName}, nil
}

func (s *stubInitUsers) Get(ctx context.Context, id uint) (*models.User, error) {
	if s.user != nil {
		return s.user, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

func sessionConfig(env string) *config.Config {
	return &config.Config{
		App:      config.AppConfig{Env: env},
		JWT:      config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
		Telegram: config.TelegramConfig{BotToken: "12345:test-token"},
	}
}

func TestInitWithSignedInitData(t *testing.T) {
	cfg := sessionConfig("prod")
	svc := &stubInitUsers{}
	handler := Init(svc, cfg, nil)

	values := url.Values{}
	values.Set("auth_date", "1700000000")
	values.Set("query_id", "AAE")
	values.Set("user", `{"id":987654321,"first_name":"Vera","username":"vera"}`)
	initData := telegram.SignInitData(values, cfg.Telegram.BotToken)

	body := fmt.Sprintf(`{"initData":%q}`, initData)
	req := httptest.NewRequest(http.MethodPost, "/api/init", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.lastProfile.TelegramID != 987654321 {
		t.Fatalf("expected telegram id from init data got %d", svc.lastProfile.TelegramID)
	}

	var out struct {
		User struct {
			TelegramID int64 `json:"telegram_id"`
		} `json:"user"`
		Balance float64 `json:"balance"`
		Token   string  `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" {
		t.Fatalf("expected a session token")
	}
	if out.User.TelegramID != 987654321 {
		t.Fatalf("unexpected telegram id %d", out.User.TelegramID)
	}
}

func TestInitRejectsTamperedInitData(t *testing.T) {
	cfg := sessionConfig("prod")
	handler := Init(&stubInitUsers{}, cfg, nil)

	values := url.Values{}
	values.Set("auth_date", "1700000000")
	values.Set("user", `{"id":987654321,"first_name":"Vera"}`)
	initData := telegram.SignInitData(values, "other:token")

	body := fmt.Sprintf(`{"initData":%q}`, initData)
	req := httptest.NewRequest(http.MethodPost, "/api/init", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestInitRequiresInitDataInProd(t *testing.T) {
	handler := Init(&stubInitUsers{}, sessionConfig("prod"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/init", strings.NewReader(`{"user":{"id":55}}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestInitDevFallbackUser(t *testing.T) {
	svc := &stubInitUsers{}
	handler := Init(svc, sessionConfig("dev"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/init", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.lastProfile.TelegramID != 1 || svc.lastProfile.FirstName != "Test User" {
		t.Fatalf("expected fallback profile got %+v", svc.lastProfile)
	}
}

func TestInitDevExplicitUser(t *testing.T) {
	svc := &stubInitUsers{}
	handler := Init(svc, sessionConfig("dev"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/init", strings.NewReader(`{"user":{"id":55,"first_name":"Nick"}}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastProfile.TelegramID != 55 || svc.lastProfile.FirstName != "Nick" {
		t.Fatalf("expected explicit profile got %+v", svc.lastProfile)
	}
}

func TestInitReturnsBalance(t *testing.T) {
	svc := &stubInitUsers{user: &models.User{
		ID:         7,
		TelegramID: 1,
		FirstName:  "Test User",
		Balance:    decimal.NewFromFloat(45.5),
	}}
	handler := Init(svc, sessionConfig("dev"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/init", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	var out struct {
		Balance float64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Balance != 45.5 {
		t.Fatalf("expected balance 45.5 got %v", out.Balance)
	}
}
