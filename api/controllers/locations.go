package controllers

import (
	"net/http"
	"strings"

	"github.com/vapecloud/miniapp/api/responses"
	"github.com/vapecloud/miniapp/internal/locations"
	"github.com/vapecloud/miniapp/pkg/enums"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/logger"
)

// Cities lists the cities where delivery is available, as a raw array.
func Cities(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		cities, err := svc.Cities(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, cities)
	}
}

// PickupLocations lists fulfillment locations filtered by type and city,
// as a raw array.
func PickupLocations(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		rawType := strings.TrimSpace(r.URL.Query().Get("type"))
		if rawType == "" {
			rawType = enums.DeliveryTypePickup.String()
		}
		locationType, err := enums.ParseDeliveryType(rawType)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown location type"))
			return
		}

		city := strings.TrimSpace(r.URL.Query().Get("city"))
		dtos, err := svc.List(ctx, locationType, city)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, dtos)
	}
}
