package controllers

import (
	"net/http"

	"github.com/vapecloud/miniapp/api/middleware"
	"github.com/vapecloud/miniapp/api/responses"
	"github.com/vapecloud/miniapp/api/validators"
	"github.com/vapecloud/miniapp/internal/orders"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/logger"
)

type orderCreatePayload struct {
	CustomerName     string `json:"customer_name" validate:"required"`
	CustomerPhone    string `json:"customer_phone" validate:"required"`
	DeliveryType     string `json:"delivery_type" validate:"required,oneof=pickup delivery"`
	DeliveryCity     string `json:"delivery_city" validate:"required"`
	PickupLocationID *uint  `json:"pickup_location_id,omitempty"`
	DeliveryAddress  string `json:"delivery_address,omitempty"`
}

// OrderCreate places the order assembled by the checkout wizard.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload orderCreatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		result, err := svc.Create(ctx, userID, orders.CreateInput{
			CustomerName:     payload.CustomerName,
			CustomerPhone:    payload.CustomerPhone,
			DeliveryType:     payload.DeliveryType,
			DeliveryCity:     payload.DeliveryCity,
			PickupLocationID: payload.PickupLocationID,
			DeliveryAddress:  payload.DeliveryAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithOrderID(ctx, result.OrderID)
			logg.Info(ctx, "order placed")
		}

		responses.WriteOKMessage(w, result.Message)
	}
}
