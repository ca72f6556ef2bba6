package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
)

// WebAppUser is the user payload embedded in Mini App init data.
type WebAppUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

// InitData holds the verified fields of a Mini App launch payload.
type InitData struct {
	QueryID  string
	AuthDate string
	User     WebAppUser
}

// VerifyInitData validates the signature of a raw initData query string
// against the bot token and returns the parsed payload. The expected hash is
// HMAC-SHA256 over the sorted key=value lines, keyed with
// HMAC-SHA256("WebAppData", botToken).
func VerifyInitData(raw, botToken string) (*InitData, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data is required")
	}
	if strings.TrimSpace(botToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bot token is not configured")
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "parse init data")
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data hash is missing")
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, values.Get(key)))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	wantHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(wantHash), []byte(gotHash)) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data signature mismatch")
	}

	data := &InitData{
		QueryID:  values.Get("query_id"),
		AuthDate: values.Get("auth_date"),
	}
	if rawUser := values.Get("user"); rawUser != "" {
		if err := json.Unmarshal([]byte(rawUser), &data.User); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "decode init data user")
		}
	}
	if data.User.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data has no user")
	}

	return data, nil
}

// SignInitData produces a signed initData query string. Test helper for
// exercising VerifyInitData without a live Telegram client.
func SignInitData(values url.Values, botToken string) string {
	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, values.Get(key)))
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	signed := url.Values{}
	for key := range values {
		signed.Set(key, values.Get(key))
	}
	signed.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return signed.Encode()
}
