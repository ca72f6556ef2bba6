package middleware

import (
	"net/http"
	"strings"

	"github.com/vapecloud/miniapp/api/responses"
	"github.com/vapecloud/miniapp/internal/users"
	pkgauth "github.com/vapecloud/miniapp/pkg/auth"
	"github.com/vapecloud/miniapp/pkg/config"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/logger"
	"github.com/vapecloud/miniapp/pkg/telegram"
)

const initDataHeader = "X-Telegram-Init-Data"

// devFallbackProfile stands in for a real Telegram identity when the app runs
// outside Telegram during development.
var devFallbackProfile = users.TelegramProfile{
	TelegramID: 1,
	FirstName:  "Test User",
}

// IdentityParams groups dependencies for the identity middleware.
type IdentityParams struct {
	JWT          config.JWTConfig
	BotToken     string
	Users        users.Service
	AllowDevUser bool
	Logger       *logger.Logger
}

// Identity resolves the shopper behind the request. A session JWT is checked
// first, then a raw Mini App launch payload; in dev mode an unauthenticated
// request falls back to a shared test account.
func Identity(params IdentityParams) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				claims, err := pkgauth.ParseSessionToken(params.JWT, token)
				if err != nil {
					responses.WriteError(ctx, params.Logger, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
					return
				}
				ctx = WithUser(ctx, claims.UserID, claims.TelegramID)
				if params.Logger != nil {
					ctx = params.Logger.WithTelegramID(ctx, claims.TelegramID)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			profile, err := requestProfile(r, params)
			if err != nil {
				responses.WriteError(ctx, params.Logger, w, err)
				return
			}

			user, err := params.Users.GetOrCreate(ctx, profile)
			if err != nil {
				responses.WriteError(ctx, params.Logger, w, err)
				return
			}

			ctx = WithUser(ctx, user.ID, user.TelegramID)
			if params.Logger != nil {
				ctx = params.Logger.WithTelegramID(ctx, user.TelegramID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestProfile(r *http.Request, params IdentityParams) (users.TelegramProfile, error) {
	raw := strings.TrimSpace(r.Header.Get(initDataHeader))
	if raw == "" {
		if params.AllowDevUser {
			return devFallbackProfile, nil
		}
		return users.TelegramProfile{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	data, err := telegram.VerifyInitData(raw, params.BotToken)
	if err != nil {
		return users.TelegramProfile{}, err
	}
	return users.TelegramProfile{
		TelegramID: data.User.ID,
		Username:   data.User.Username,
		FirstName:  data.User.FirstName,
		PhotoURL:   data.User.PhotoURL,
	}, nil
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
