package storefront

import (
	"context"
	"strings"

	"github.com/vapecloud/miniapp/pkg/enums"
)

// Step is one of the mutually exclusive checkout screens.
type Step string

const (
	StepCustomer Step = "customer"
	StepCity     Step = "city"
	StepLocation Step = "location"
	StepSummary  Step = "summary"
)

var stepOrder = []Step{StepCustomer, StepCity, StepLocation, StepSummary}

// OrderDraft is built incrementally across wizard steps and only fully
// validated at submission.
type OrderDraft struct {
	CustomerName        string
	CustomerPhone       string
	DeliveryType        enums.DeliveryType
	City                string
	PickupLocationID    *uint
	PickupLocationLabel string
	DeliveryAddress     string
}

// OrderWizard sequences the checkout steps. Forward navigation is gated by
// the current step's validation; backward navigation is unconditional.
type OrderWizard struct {
	cart    *CartModel
	pricing *DeliveryPricing
	view    View

	draft  OrderDraft
	active Step
	cities []string
}

// NewOrderWizard opens a checkout flow with a fresh draft on the customer
// step.
func NewOrderWizard(cart *CartModel, pricing *DeliveryPricing, view View, cities []string) *OrderWizard {
	wizard := &OrderWizard{
		cart:    cart,
		pricing: pricing,
		view:    view,
		draft:   OrderDraft{DeliveryType: enums.DeliveryTypePickup},
		active:  StepCustomer,
		cities:  cities,
	}
	view.ShowStep(StepCustomer)
	return wizard
}

// Active returns the currently shown step.
func (w *OrderWizard) Active() Step {
	return w.active
}

// Draft returns the order as assembled so far.
func (w *OrderWizard) Draft() OrderDraft {
	return w.draft
}

// SetCustomer records the customer fields from the first step.
func (w *OrderWizard) SetCustomer(name, phone string) {
	w.draft.CustomerName = name
	w.draft.CustomerPhone = phone
}

// SetDeliveryAddress records the courier address.
func (w *OrderWizard) SetDeliveryAddress(address string) {
	w.draft.DeliveryAddress = address
}

// SelectPickupLocation records the chosen pickup counter.
func (w *OrderWizard) SelectPickupLocation(id uint, label string) {
	w.draft.PickupLocationID = &id
	w.draft.PickupLocationLabel = label
}

// Next validates the active step and, when it passes, recomputes the
// summary and activates target. An invalid step aborts the transition with
// a field-tagged notification and the active step stays put.
func (w *OrderWizard) Next(ctx context.Context, target Step) bool {
	if problem := w.validateStep(w.active); problem != nil {
		w.view.Notify(*problem)
		return false
	}

	w.view.RenderSummary(w.Summary())
	w.active = target
	w.view.ShowStep(target)
	w.enterStep(ctx, target)
	return true
}

// Prev steps back without validation.
func (w *OrderWizard) Prev(ctx context.Context) {
	for i, step := range stepOrder {
		if step == w.active && i > 0 {
			w.active = stepOrder[i-1]
			w.view.ShowStep(w.active)
			w.enterStep(ctx, w.active)
			return
		}
	}
}

// SelectCity is a leaf action: it records the city, re-renders the
// single-select list, reveals the confirm affordance and recomputes the
// summary. It never advances the step.
func (w *OrderWizard) SelectCity(ctx context.Context, city string) {
	w.draft.City = city
	w.view.RenderCities(w.cities, city)
	w.view.SetCityConfirmEnabled(city != "")
	w.refreshPricing(ctx)
	w.view.RenderSummary(w.Summary())
}

// SetDeliveryType switches between the mutually exclusive pickup and
// delivery sections and invalidates the resolved fee.
func (w *OrderWizard) SetDeliveryType(ctx context.Context, deliveryType enums.DeliveryType) {
	w.draft.DeliveryType = deliveryType
	w.draft.PickupLocationID = nil
	w.draft.PickupLocationLabel = ""
	w.view.ShowDeliverySections(deliveryType)
	w.pricing.Invalidate()
	w.refreshPricing(ctx)
	w.view.RenderSummary(w.Summary())
}

// Summary derives the order totals from the current cart and fee.
func (w *OrderWizard) Summary() OrderSummary {
	return ComputeSummary(w.cart.Cart(), w.draft.DeliveryType, w.pricing.Fee())
}

func (w *OrderWizard) enterStep(ctx context.Context, step Step) {
	switch step {
	case StepCity:
		w.view.RenderCities(w.cities, w.draft.City)
		w.view.SetCityConfirmEnabled(w.draft.City != "")
	case StepLocation:
		if w.draft.DeliveryType == enums.DeliveryTypePickup {
			points, err := w.pricing.PickupPoints(ctx, w.draft.City)
			if err != nil {
				w.view.Notify(Notification{Severity: SeverityError, Message: "could not load pickup points"})
			} else {
				w.view.RenderPickupPoints(points, len(points) > 0)
			}
		}
		w.refreshPricing(ctx)
		w.view.RenderSummary(w.Summary())
	}
}

// refreshPricing lazily resolves the courier fee. Lookup failures keep the
// previous fee on display.
func (w *OrderWizard) refreshPricing(ctx context.Context) {
	if w.draft.DeliveryType != enums.DeliveryTypeDelivery || w.draft.City == "" {
		return
	}
	_ = w.pricing.RefreshDeliveryFee(ctx, w.draft.City)
}

func (w *OrderWizard) validateStep(step Step) *Notification {
	switch step {
	case StepCustomer:
		if strings.TrimSpace(w.draft.CustomerName) == "" {
			return &Notification{Severity: SeverityError, Message: "name is required", Field: "customer_name"}
		}
		if strings.TrimSpace(w.draft.CustomerPhone) == "" {
			return &Notification{Severity: SeverityError, Message: "phone is required", Field: "customer_phone"}
		}
	case StepCity:
		if w.draft.City == "" {
			return &Notification{Severity: SeverityError, Message: "select a city", Field: "delivery_city"}
		}
	case StepLocation:
		if w.draft.DeliveryType == enums.DeliveryTypePickup {
			if w.draft.PickupLocationID == nil {
				return &Notification{Severity: SeverityError, Message: "select a pickup point", Field: "pickup_location_id"}
			}
		} else if strings.TrimSpace(w.draft.DeliveryAddress) == "" {
			return &Notification{Severity: SeverityError, Message: "delivery address is required", Field: "delivery_address"}
		}
	}
	return nil
}
