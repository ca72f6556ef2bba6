package storefront

import (
	"context"
	"time"

	"github.com/vapecloud/miniapp/pkg/enums"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/logger"
	"github.com/vapecloud/miniapp/pkg/shopclient"
)

const defaultRedirectDelay = 2 * time.Second

// ShopAPI is the full client surface the controller drives.
type ShopAPI interface {
	Init(ctx context.Context, req shopclient.InitRequest) (*shopclient.InitResult, error)
	AddToCart(ctx context.Context, productID uint) error
	CartItems(ctx context.Context) (*shopclient.Cart, error)
	UpdateQuantity(ctx context.Context, productID uint, quantity int) error
	RemoveItem(ctx context.Context, productID uint) error
	Profile(ctx context.Context) (*shopclient.Profile, error)
	Cities(ctx context.Context) ([]string, error)
	Locations(ctx context.Context, locationType, city string) ([]shopclient.Location, error)
	CreateOrder(ctx context.Context, req shopclient.OrderRequest) (*shopclient.OrderResult, error)
}

// ControllerParams groups dependencies for the storefront controller.
type ControllerParams struct {
	API           ShopAPI
	View          View
	Logger        *logger.Logger
	InitData      string
	RedirectDelay time.Duration
	Sleep         func(time.Duration)
}

// StorefrontController owns the session, the cart model and the checkout
// wizard. It is explicitly constructed; nothing here is a global.
type StorefrontController struct {
	api           ShopAPI
	view          View
	logg          *logger.Logger
	initData      string
	redirectDelay time.Duration
	sleep         func(time.Duration)

	cart    *CartModel
	pricing *DeliveryPricing
	wizard  *OrderWizard
	balance float64
}

// NewController builds the controller and its models.
func NewController(params ControllerParams) (*StorefrontController, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop API client is required")
	}
	if params.View == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "view is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}

	delay := params.RedirectDelay
	if delay <= 0 {
		delay = defaultRedirectDelay
	}
	sleep := params.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	controller := &StorefrontController{
		api:           params.API,
		view:          params.View,
		logg:          params.Logger,
		initData:      params.InitData,
		redirectDelay: delay,
		sleep:         sleep,
		pricing:       NewDeliveryPricing(params.API),
	}
	controller.cart = NewCartModel(params.API, params.View, controller.recomputeSummary)
	return controller, nil
}

// Cart exposes the cart model for UI wiring.
func (c *StorefrontController) Cart() *CartModel {
	return c.cart
}

// Wizard returns the open checkout flow, or nil when none is open.
func (c *StorefrontController) Wizard() *OrderWizard {
	return c.wizard
}

// Balance returns the cashback balance from the session.
func (c *StorefrontController) Balance() float64 {
	return c.balance
}

// Start opens the session and loads the initial cart.
func (c *StorefrontController) Start(ctx context.Context) error {
	result, err := c.api.Init(ctx, shopclient.InitRequest{InitData: c.initData})
	if err != nil {
		return err
	}
	c.balance = result.Balance
	c.logg.Info(c.logg.WithTelegramID(ctx, result.User.TelegramID), "session started")

	c.cart.Reload(ctx)
	return nil
}

// OpenCheckout starts a fresh wizard; any previous draft is discarded.
func (c *StorefrontController) OpenCheckout(ctx context.Context) *OrderWizard {
	cities, err := c.api.Cities(ctx)
	if err != nil {
		c.view.Notify(Notification{Severity: SeverityError, Message: "could not load cities"})
		cities = nil
	}

	c.wizard = NewOrderWizard(c.cart, c.pricing, c.view, cities)
	return c.wizard
}

// CloseCheckout discards the draft.
func (c *StorefrontController) CloseCheckout() {
	c.wizard = nil
}

// Submit re-validates the draft, places the order and, on success, shows
// the confirmation, closes the wizard and navigates to the profile after a
// fixed delay. Failures keep the wizard state so the shopper can retry.
func (c *StorefrontController) Submit(ctx context.Context) bool {
	if c.wizard == nil {
		return false
	}

	draft := c.wizard.Draft()
	if problem := validateDraft(draft); problem != nil {
		c.view.Notify(*problem)
		return false
	}

	req := shopclient.OrderRequest{
		CustomerName:  draft.CustomerName,
		CustomerPhone: draft.CustomerPhone,
		DeliveryType:  draft.DeliveryType.String(),
		DeliveryCity:  draft.City,
	}
	if draft.DeliveryType == enums.DeliveryTypePickup {
		req.PickupLocationID = draft.PickupLocationID
	} else {
		req.DeliveryAddress = draft.DeliveryAddress
	}

	result, err := c.api.CreateOrder(ctx, req)
	if err != nil {
		msg := publicMessage(err)
		if msg == "" {
			msg = "could not place the order"
		}
		c.view.Notify(Notification{Severity: SeverityError, Message: msg})
		return false
	}

	msg := result.Message
	if msg == "" {
		msg = "Order placed"
	}
	c.view.Notify(Notification{Severity: SeveritySuccess, Message: msg})
	c.CloseCheckout()

	c.sleep(c.redirectDelay)
	c.ShowProfile(ctx)
	return true
}

// ShowProfile fetches and renders the profile screen.
func (c *StorefrontController) ShowProfile(ctx context.Context) {
	profile, err := c.api.Profile(ctx)
	if err != nil {
		c.view.Notify(Notification{Severity: SeverityError, Message: "could not load profile"})
		return
	}
	c.balance = profile.Balance
	c.view.RenderProfile(BuildProfileViewModel(*profile))
}

func (c *StorefrontController) recomputeSummary() {
	if c.wizard == nil {
		return
	}
	c.view.RenderSummary(c.wizard.Summary())
}

// validateDraft rechecks draft completeness before the network call; the
// server remains the final authority.
func validateDraft(draft OrderDraft) *Notification {
	if draft.CustomerName == "" {
		return &Notification{Severity: SeverityError, Message: "name is required", Field: "customer_name"}
	}
	if draft.CustomerPhone == "" {
		return &Notification{Severity: SeverityError, Message: "phone is required", Field: "customer_phone"}
	}
	if draft.City == "" {
		return &Notification{Severity: SeverityError, Message: "select a city", Field: "delivery_city"}
	}
	if draft.DeliveryType == enums.DeliveryTypePickup {
		if draft.PickupLocationID == nil {
			return &Notification{Severity: SeverityError, Message: "select a pickup point", Field: "pickup_location_id"}
		}
	} else if draft.DeliveryAddress == "" {
		return &Notification{Severity: SeverityError, Message: "delivery address is required", Field: "delivery_address"}
	}
	return nil
}

// publicMessage extracts a server-supplied message when the error carries
// one.
func publicMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return ""
}
