package controllers

import (
	"net/http"

	"github.com/vapecloud/miniapp/api/middleware"
	"github.com/vapecloud/miniapp/api/responses"
	"github.com/vapecloud/miniapp/internal/orders"
	"github.com/vapecloud/miniapp/internal/users"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/logger"
)

type profileResponse struct {
	Balance float64           `json:"balance"`
	Orders  []orders.OrderDTO `json:"orders"`
}

// UserProfile returns the shopper's balance and recent order history.
func UserProfile(userSvc users.Service, orderSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if userSvc == nil || orderSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile services unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		user, err := userSvc.Get(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		history, err := orderSvc.ListByUser(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, profileResponse{
			Balance: user.Balance.InexactFloat64(),
			Orders:  history,
		})
	}
}
