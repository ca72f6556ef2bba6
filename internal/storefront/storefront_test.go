package storefront

import (
	"context"
	"io"

	"github.com/vapecloud/miniapp/pkg/enums"
	"github.com/vapecloud/miniapp/pkg/logger"
	"github.com/vapecloud/miniapp/pkg/shopclient"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "storefront-test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

// stubAPI implements ShopAPI with overridable hooks and call counters.
type stubAPI struct {
	initFn   func(ctx context.Context, req shopclient.InitRequest) (*shopclient.InitResult, error)
	addFn    func(ctx context.Context, productID uint) error
	itemsFn  func(ctx context.Context) (*shopclient.Cart, error)
	updateFn func(ctx context.Context, productID uint, quantity int) error
	removeFn func(ctx context.Context, productID uint) error
	locsFn   func(ctx context.Context, locationType, city string) ([]shopclient.Location, error)
	orderFn  func(ctx context.Context, req shopclient.OrderRequest) (*shopclient.OrderResult, error)
	profile  *shopclient.Profile

	addCalls    int
	updateCalls int
	removeCalls int
	orderCalls  int
}

func (s *stubAPI) Init(ctx context.Context, req shopclient.InitRequest) (*shopclient.InitResult, error) {
	if s.initFn != nil {
		return s.initFn(ctx, req)
	}
	return &shopclient.InitResult{User: shopclient.Account{ID: 1, TelegramID: 1}, Balance: 0, Token: "tok"}, nil
}

func (s *stubAPI) AddToCart(ctx context.Context, productID uint) error {
	s.addCalls++
	if s.addFn != nil {
		return s.addFn(ctx, productID)
	}
	return nil
}

func (s *stubAPI) CartItems(ctx context.Context) (*shopclient.Cart, error) {
	if s.itemsFn != nil {
		return s.itemsFn(ctx)
	}
	return &shopclient.Cart{Items: []shopclient.CartItem{}}, nil
}

func (s *stubAPI) UpdateQuantity(ctx context.Context, productID uint, quantity int) error {
	s.updateCalls++
	if s.updateFn != nil {
		return s.updateFn(ctx, productID, quantity)
	}
	return nil
}

func (s *stubAPI) RemoveItem(ctx context.Context, productID uint) error {
	s.removeCalls++
	if s.removeFn != nil {
		return s.removeFn(ctx, productID)
	}
	return nil
}

func (s *stubAPI) Profile(ctx context.Context) (*shopclient.Profile, error) {
	if s.profile != nil {
		return s.profile, nil
	}
	return &shopclient.Profile{Orders: []shopclient.Order{}}, nil
}

func (s *stubAPI) Cities(ctx context.Context) ([]string, error) {
	return []string{"Moscow", "Saint Petersburg"}, nil
}

func (s *stubAPI) Locations(ctx context.Context, locationType, city string) ([]shopclient.Location, error) {
	if s.locsFn != nil {
		return s.locsFn(ctx, locationType, city)
	}
	return []shopclient.Location{}, nil
}

func (s *stubAPI) CreateOrder(ctx context.Context, req shopclient.OrderRequest) (*shopclient.OrderResult, error) {
	s.orderCalls++
	if s.orderFn != nil {
		return s.orderFn(ctx, req)
	}
	return &shopclient.OrderResult{Message: "Order placed"}, nil
}

// fakeView records everything pushed at it.
type fakeView struct {
	carts          []shopclient.Cart
	steps          []Step
	summaries      []OrderSummary
	selectedCity   string
	cityRenders    int
	confirmEnabled bool
	pickupPoints   []shopclient.Location
	selectable     bool
	sections       enums.DeliveryType
	profiles       []ProfileViewModel
	notifications  []Notification
}

func (v *fakeView) RenderCart(cart shopclient.Cart) {
	v.carts = append(v.carts, cart)
}

func (v *fakeView) ShowStep(step Step) {
	v.steps = append(v.steps, step)
}

func (v *fakeView) RenderSummary(summary OrderSummary) {
	v.summaries = append(v.summaries, summary)
}

func (v *fakeView) RenderCities(cities []string, selected string) {
	v.cityRenders++
	v.selectedCity = selected
}

func (v *fakeView) SetCityConfirmEnabled(enabled bool) {
	v.confirmEnabled = enabled
}

func (v *fakeView) RenderPickupPoints(points []shopclient.Location, selectable bool) {
	v.pickupPoints = points
	v.selectable = selectable
}

func (v *fakeView) ShowDeliverySections(deliveryType enums.DeliveryType) {
	v.sections = deliveryType
}

func (v *fakeView) RenderProfile(profile ProfileViewModel) {
	v.profiles = append(v.profiles, profile)
}

func (v *fakeView) Notify(n Notification) {
	v.notifications = append(v.notifications, n)
}

func (v *fakeView) lastNotification() *Notification {
	if len(v.notifications) == 0 {
		return nil
	}
	return &v.notifications[len(v.notifications)-1]
}

func (v *fakeView) lastStep() Step {
	if len(v.steps) == 0 {
		return ""
	}
	return v.steps[len(v.steps)-1]
}

func testCart() *shopclient.Cart {
	return &shopclient.Cart{
		Items: []shopclient.CartItem{
			{ID: 1, Name: "Pod", Price: 500, Quantity: 2, Total: 1000},
			{ID: 2, Name: "Liquid", Price: 300, Quantity: 1, Total: 300},
		},
		Total: 1300,
	}
}
