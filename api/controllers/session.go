package controllers

import (
	"net/http"
	"time"

	"github.com/vapecloud/miniapp/api/responses"
	"github.com/vapecloud/miniapp/api/validators"
	"github.com/vapecloud/miniapp/internal/users"
	pkgauth "github.com/vapecloud/miniapp/pkg/auth"
	"github.com/vapecloud/miniapp/pkg/config"
	"github.com/vapecloud/miniapp/pkg/db/models"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/logger"
	"github.com/vapecloud/miniapp/pkg/telegram"
)

type initPayload struct {
	InitData string           `json:"initData,omitempty"`
	User     *initUserPayload `json:"user,omitempty"`
}

type initUserPayload struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

type initResponse struct {
	User    initUserResponse `json:"user"`
	Balance float64          `json:"balance"`
	Token   string           `json:"token"`
}

type initUserResponse struct {
	ID         uint   `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	Username   string `json:"username,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

// Init verifies the Mini App launch payload, resolves the account and hands
// back a session token for subsequent calls. Outside production an explicit
// user object (or nothing at all) stands in for real launch data.
func Init(svc users.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var payload initPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		profile, err := resolveProfile(payload, cfg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.GetOrCreate(ctx, profile)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		token, err := pkgauth.MintSessionToken(cfg.JWT, time.Now(), user.ID, user.TelegramID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
			return
		}

		if logg != nil {
			ctx = logg.WithTelegramID(ctx, user.TelegramID)
			logg.Info(ctx, "session initialized")
		}

		responses.WriteJSON(w, http.StatusOK, initResponse{
			User:    toInitUser(user),
			Balance: user.Balance.InexactFloat64(),
			Token:   token,
		})
	}
}

func resolveProfile(payload initPayload, cfg *config.Config) (users.TelegramProfile, error) {
	if payload.InitData != "" {
		data, err := telegram.VerifyInitData(payload.InitData, cfg.Telegram.BotToken)
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

	if cfg.App.IsProd() {
		return users.TelegramProfile{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data is required")
	}
	if payload.User != nil && payload.User.ID != 0 {
		return users.TelegramProfile{
			TelegramID: payload.User.ID,
			Username:   payload.User.Username,
			FirstName:  payload.User.FirstName,
			PhotoURL:   payload.User.PhotoURL,
		}, nil
	}
	return users.TelegramProfile{TelegramID: 1, FirstName: "Test User"}, nil
}

func toInitUser(user *models.User) initUserResponse {
	resp := initUserResponse{
		ID:         user.ID,
		TelegramID: user.TelegramID,
		FirstName:  user.FirstName,
		PhotoURL:   user.PhotoURL,
	}
	if user.Username != nil {
		resp.Username = *user.Username
	}
	return resp
}
