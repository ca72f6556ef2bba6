package storefront

import (
	"github.com/vapecloud/miniapp/pkg/enums"
	"github.com/vapecloud/miniapp/pkg/shopclient"
)

// Severity classifies a transient notification banner.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient, non-blocking banner. Field names the
// offending input when a validation error should highlight it.
type Notification struct {
	Severity Severity
	Message  string
	Field    string
}

// View receives view-model pushes from the controller and its models.
// Implementations only render; every call is a pure function of the state
// handed to it. At most one wizard step is shown at a time: ShowStep
// replaces the previous one.
type View interface {
	RenderCart(cart shopclient.Cart)
	ShowStep(step Step)
	RenderSummary(summary OrderSummary)
	RenderCities(cities []string, selected string)
	SetCityConfirmEnabled(enabled bool)
	RenderPickupPoints(points []shopclient.Location, selectable bool)
	ShowDeliverySections(deliveryType enums.DeliveryType)
	RenderProfile(profile ProfileViewModel)
	Notify(n Notification)
}
