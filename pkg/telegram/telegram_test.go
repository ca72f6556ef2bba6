package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
)

const testBotToken = "12345:test-token"

func TestVerifyInitData(t *testing.T) {
	values := url.Values{}
	values.Set("query_id", "query-1")
	values.Set("auth_date", "1700000000")
	values.Set("user", `{"id":987654321,"first_name":"Ivan","username":"ivan_v","photo_url":"https://t.me/p.jpg"}`)

	raw := SignInitData(values, testBotToken)

	data, err := VerifyInitData(raw, testBotToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if data.User.ID != 987654321 {
		t.Fatalf("unexpected user id %d", data.User.ID)
	}
	if data.User.FirstName != "Ivan" || data.User.Username != "ivan_v" {
		t.Fatalf("unexpected user %+v", data.User)
	}
	if data.AuthDate != "1700000000" {
		t.Fatalf("unexpected auth date %q", data.AuthDate)
	}
}

func TestVerifyInitDataRejectsTampered(t *testing.T) {
	values := url.Values{}
	values.Set("auth_date", "1700000000")
	values.Set("user", `{"id":1,"first_name":"A"}`)
	raw := SignInitData(values, testBotToken)

	tampered := strings.Replace(raw, "1700000000", "1700000001", 1)
	if _, err := VerifyInitData(tampered, testBotToken); err == nil {
		t.Fatalf("expected signature mismatch")
	}

	if _, err := VerifyInitData(raw, "999:other-token"); err == nil {
		t.Fatalf("expected mismatch with wrong bot token")
	}
}

func TestVerifyInitDataRejectsMissingPieces(t *testing.T) {
	_, err := VerifyInitData("", testBotToken)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for empty init data, got %v", err)
	}
	if _, err := VerifyInitData("auth_date=1", testBotToken); err == nil {
		t.Fatalf("expected error without hash")
	}

	values := url.Values{}
	values.Set("auth_date", "1700000000")
	raw := SignInitData(values, testBotToken)
	if _, err := VerifyInitData(raw, testBotToken); err == nil {
		t.Fatalf("expected error without user payload")
	}
}

func TestNotifierSendMessage(t *testing.T) {
	const expectedURL = "http://bot.test/bot12345:test-token/sendMessage"

	var capturedURL string
	var capturedBody map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(bodyBytes, &capturedBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
			Header:     http.Header{},
		}, nil
	})

	notifier, err := NewNotifier(testBotToken, WithBaseURL("http://bot.test"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	if err := notifier.SendMessage(context.Background(), -100123, "New order #7"); err != nil {
		t.Fatalf("send message: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedBody["chat_id"] != float64(-100123) {
		t.Fatalf("unexpected chat id %v", capturedBody["chat_id"])
	}
	if capturedBody["text"] != "New order #7" {
		t.Fatalf("unexpected text %v", capturedBody["text"])
	}
}

func TestNotifierSendMessageAPIError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"ok":false,"description":"chat not found"}`)),
			Header:     http.Header{},
		}, nil
	})

	notifier, err := NewNotifier(testBotToken, WithBaseURL("http://bot.test"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	err = notifier.SendMessage(context.Background(), -100123, "hello")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API description in error, got %v", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
