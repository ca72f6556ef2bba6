package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.telegram.org"
	responseBodyReadLimit int64 = 1024
)

var errBotTokenRequired = errors.New("telegram bot token is required")

// Notifier sends Bot API messages, used for admin order notifications.
type Notifier struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
}

// Option configures optional notifier behavior.
type Option func(*Notifier)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		if client != nil {
			n.httpClient = client
		}
	}
}

// WithBaseURL overrides the Bot API base URL.
func WithBaseURL(baseURL string) Option {
	return func(n *Notifier) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			n.baseURL = trimmed
		}
	}
}

// NewNotifier builds the Bot API notifier given a bot token.
func NewNotifier(botToken string, opts ...Option) (*Notifier, error) {
	trimmedToken := strings.TrimSpace(botToken)
	if trimmedToken == "" {
		return nil, errBotTokenRequired
	}

	notifier := &Notifier{
		botToken:   trimmedToken,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(notifier)
		}
	}

	if notifier.httpClient == nil {
		notifier.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if notifier.baseURL == "" {
		notifier.baseURL = defaultBaseURL
	}

	return notifier, nil
}

// SendMessage posts a text message to the given chat.
func (n *Notifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	if n == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "telegram notifier not configured")
	}
	if chatID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "chat ID is required")
	}
	if strings.TrimSpace(text) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message text is required")
	}

	payload, err := json.Marshal(struct {
		ChatID    int64  `json:"chat_id"`
		Text      string `json:"text"`
		ParseMode string `json:"parse_mode,omitempty"`
	}{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal sendMessage request")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(n.baseURL, "/"), n.botToken)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build sendMessage request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute sendMessage request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "sendMessage request failed")
	}

	var apiResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode sendMessage response")
	}
	if !apiResp.OK {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("sendMessage rejected: %s", apiResp.Description))
	}

	return nil
}
