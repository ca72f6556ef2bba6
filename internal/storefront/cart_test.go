package storefront

import (
	"context"
	"testing"

	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/shopclient"
)

func TestCartAddDropsReentrantCalls(t *testing.T) {
	api := &stubAPI{}
	view := &fakeView{}
	model := NewCartModel(api, view, nil)

	// The stub re-enters Add while the first call is still pending, like a
	// double-tap firing before the response lands.
	api.addFn = func(ctx context.Context, productID uint) error {
		model.Add(ctx, productID)
		return nil
	}

	model.Add(context.Background(), 3)

	if api.addCalls != 1 {
		t.Fatalf("expected exactly one add call got %d", api.addCalls)
	}
}

func TestCartAddReloadsOnSuccess(t *testing.T) {
	api := &stubAPI{itemsFn: func(ctx context.Context) (*shopclient.Cart, error) {
		return testCart(), nil
	}}
	view := &fakeView{}
	model := NewCartModel(api, view, nil)

	model.Add(context.Background(), 3)

	if model.Cart().Total != 1300 {
		t.Fatalf("expected server total 1300 got %v", model.Cart().Total)
	}
	if len(view.carts) != 1 || view.carts[0].Total != 1300 {
		t.Fatalf("expected rendered cart to match server total")
	}
	if n := view.lastNotification(); n == nil || n.Severity != SeveritySuccess {
		t.Fatalf("expected success notification got %+v", n)
	}
}

func TestCartAddFailureLeavesStateUnchanged(t *testing.T) {
	api := &stubAPI{itemsFn: func(ctx context.Context) (*shopclient.Cart, error) {
		return testCart(), nil
	}}
	view := &fakeView{}
	model := NewCartModel(api, view, nil)
	model.Reload(context.Background())

	api.addFn = func(ctx context.Context, productID uint) error {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	renders := len(view.carts)

	model.Add(context.Background(), 99)

	if model.Cart().Total != 1300 {
		t.Fatalf("expected cart untouched on failure got total %v", model.Cart().Total)
	}
	if len(view.carts) != renders {
		t.Fatalf("expected no re-render on failure")
	}
	n := view.lastNotification()
	if n == nil || n.Severity != SeverityError || n.Message != "product not found" {
		t.Fatalf("expected server message surfaced got %+v", n)
	}
}

func TestSetQuantityZeroDelegatesToRemove(t *testing.T) {
	api := &stubAPI{}
	model := NewCartModel(api, &fakeView{}, nil)

	model.SetQuantity(context.Background(), 3, 0)

	if api.removeCalls != 1 || api.updateCalls != 0 {
		t.Fatalf("expected remove not update got remove=%d update=%d", api.removeCalls, api.updateCalls)
	}
}

func TestSetQuantitySendsAbsoluteValue(t *testing.T) {
	var gotQty int
	api := &stubAPI{updateFn: func(ctx context.Context, productID uint, quantity int) error {
		gotQty = quantity
		return nil
	}}
	model := NewCartModel(api, &fakeView{}, nil)

	model.SetQuantity(context.Background(), 3, 5)

	if gotQty != 5 {
		t.Fatalf("expected absolute quantity 5 got %d", gotQty)
	}
}

func TestReloadReplacesCartWholesale(t *testing.T) {
	first := testCart()
	second := &shopclient.Cart{
		Items: []shopclient.CartItem{{ID: 2, Name: "Liquid", Price: 300, Quantity: 3, Total: 900}},
		Total: 900,
	}
	responses := []*shopclient.Cart{first, second}
	api := &stubAPI{itemsFn: func(ctx context.Context) (*shopclient.Cart, error) {
		next := responses[0]
		if len(responses) > 1 {
			responses = responses[1:]
		}
		return next, nil
	}}
	view := &fakeView{}

	changes := 0
	model := NewCartModel(api, view, func() { changes++ })

	model.Reload(context.Background())
	model.Reload(context.Background())

	cart := model.Cart()
	if len(cart.Items) != 1 || cart.Items[0].ID != 2 || cart.Total != 900 {
		t.Fatalf("expected wholesale replacement got %+v", cart)
	}
	if changes != 2 {
		t.Fatalf("expected change hook per reload got %d", changes)
	}
}

func TestReloadFailureKeepsPreviousCart(t *testing.T) {
	calls := 0
	api := &stubAPI{itemsFn: func(ctx context.Context) (*shopclient.Cart, error) {
		calls++
		if calls == 1 {
			return testCart(), nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "boom")
	}}
	view := &fakeView{}
	model := NewCartModel(api, view, nil)

	model.Reload(context.Background())
	model.Reload(context.Background())

	if model.Cart().Total != 1300 {
		t.Fatalf("expected previous cart kept got %+v", model.Cart())
	}
	if n := view.lastNotification(); n == nil || n.Severity != SeverityError {
		t.Fatalf("expected error notification got %+v", n)
	}
}
