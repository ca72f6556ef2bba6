package storefront

import (
	"context"

	"github.com/vapecloud/miniapp/pkg/shopclient"
)

// CartAPI is the slice of the shop client the cart model needs.
type CartAPI interface {
	AddToCart(ctx context.Context, productID uint) error
	CartItems(ctx context.Context) (*shopclient.Cart, error)
	UpdateQuantity(ctx context.Context, productID uint, quantity int) error
	RemoveItem(ctx context.Context, productID uint) error
}

// CartModel holds the cart and keeps it consistent with the server: every
// mutation is a round-trip followed by a wholesale Reload, never an
// optimistic patch. Not safe for concurrent use; the app drives it from a
// single event loop.
type CartModel struct {
	api      CartAPI
	view     View
	onChange func()

	cart   shopclient.Cart
	adding bool
}

// NewCartModel builds a cart model. onChange fires after every successful
// reload so the checkout summary can recompute; nil is allowed.
func NewCartModel(api CartAPI, view View, onChange func()) *CartModel {
	return &CartModel{api: api, view: view, onChange: onChange}
}

// Cart returns the last server-confirmed cart.
func (m *CartModel) Cart() shopclient.Cart {
	return m.cart
}

// Add puts one unit of a product into the cart. While one add is pending
// further calls are dropped, not queued.
func (m *CartModel) Add(ctx context.Context, productID uint) {
	if m.adding {
		return
	}
	m.adding = true
	defer func() { m.adding = false }()

	if err := m.api.AddToCart(ctx, productID); err != nil {
		m.notifyFailure(err, "could not add to cart")
		return
	}

	m.view.Notify(Notification{Severity: SeveritySuccess, Message: "Added to cart"})
	m.Reload(ctx)
}

// SetQuantity stores the absolute quantity for a cart line. Anything below
// one removes the line instead.
func (m *CartModel) SetQuantity(ctx context.Context, productID uint, quantity int) {
	if quantity < 1 {
		m.Remove(ctx, productID)
		return
	}

	if err := m.api.UpdateQuantity(ctx, productID, quantity); err != nil {
		m.notifyFailure(err, "could not update quantity")
		return
	}
	m.Reload(ctx)
}

// Remove drops a product from the cart.
func (m *CartModel) Remove(ctx context.Context, productID uint) {
	if err := m.api.RemoveItem(ctx, productID); err != nil {
		m.notifyFailure(err, "could not remove item")
		return
	}
	m.Reload(ctx)
}

// Reload replaces the local cart with the server's copy and re-renders.
// On failure the previous cart stays untouched.
func (m *CartModel) Reload(ctx context.Context) {
	cart, err := m.api.CartItems(ctx)
	if err != nil {
		m.notifyFailure(err, "could not load cart")
		return
	}

	m.cart = *cart
	m.view.RenderCart(m.cart)
	if m.onChange != nil {
		m.onChange()
	}
}

func (m *CartModel) notifyFailure(err error, fallback string) {
	msg := publicMessage(err)
	if msg == "" {
		msg = fallback
	}
	m.view.Notify(Notification{Severity: SeverityError, Message: msg})
}
