package storefront

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vapecloud/miniapp/pkg/shopclient"
)

// LocationAPI is the slice of the shop client the pricing model needs.
type LocationAPI interface {
	Locations(ctx context.Context, locationType, city string) ([]shopclient.Location, error)
}

// DeliveryPricing resolves the delivery fee for the selected city. Pickup
// never has a fee; for courier delivery the fee is the first returned
// location's price (city-level flat fee, first match wins). The fee is
// fetched lazily and a failed lookup keeps the previous value, so the
// summary stays renderable on flaky networks.
type DeliveryPricing struct {
	api LocationAPI
	fee decimal.Decimal
}

// NewDeliveryPricing builds a pricing model over the locations endpoint.
func NewDeliveryPricing(api LocationAPI) *DeliveryPricing {
	return &DeliveryPricing{api: api, fee: decimal.Zero}
}

// Fee returns the last resolved delivery fee.
func (p *DeliveryPricing) Fee() decimal.Decimal {
	return p.fee
}

// Invalidate drops the resolved fee, forcing a refresh before the next
// summary shows a delivery price.
func (p *DeliveryPricing) Invalidate() {
	p.fee = decimal.Zero
}

// RefreshDeliveryFee looks up the courier fee for a city. An empty result
// means delivery is not offered there and the fee resets to zero; a lookup
// error leaves the previous fee in place.
func (p *DeliveryPricing) RefreshDeliveryFee(ctx context.Context, city string) error {
	locations, err := p.api.Locations(ctx, "delivery", city)
	if err != nil {
		return err
	}

	if len(locations) == 0 || locations[0].DeliveryPrice == nil {
		p.fee = decimal.Zero
		return nil
	}
	p.fee = decimal.NewFromFloat(*locations[0].DeliveryPrice)
	return nil
}

// PickupPoints lists pickup counters for a city. An empty list means
// location selection should be disabled.
func (p *DeliveryPricing) PickupPoints(ctx context.Context, city string) ([]shopclient.Location, error) {
	return p.api.Locations(ctx, "pickup", city)
}
